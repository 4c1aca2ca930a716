package dues

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
)

// Totals suma de montos por estado derivado.
type Totals struct {
	Pending decimal.Decimal
	Overdue decimal.Decimal
	Paid    decimal.Decimal
	Frozen  decimal.Decimal
}

// Sum total de todas las cuotas del socio.
func (t Totals) Sum() decimal.Decimal {
	return t.Pending.Add(t.Overdue).Add(t.Paid).Add(t.Frozen)
}

// Counts cantidad de cuotas por estado derivado.
type Counts struct {
	Pending int
	Overdue int
	Paid    int
	Frozen  int
}

// Snapshot vista financiera agregada de un socio.
type Snapshot struct {
	Totals      Totals
	Counts      Counts
	NextDueDate *time.Time // menor vencimiento entre PENDING/OVERDUE
	LateFees    decimal.Decimal
}

// Aggregate agrupa cuotas ya derivadas. lateFeePct indica el recargo (%) por plan; solo es informativo
// y no forma parte de los totales.
func Aggregate(items []DerivedDue, lateFeePct map[string]decimal.Decimal) Snapshot {
	s := Snapshot{
		Totals:   Totals{Pending: decimal.Zero, Overdue: decimal.Zero, Paid: decimal.Zero, Frozen: decimal.Zero},
		LateFees: decimal.Zero,
	}
	hundred := decimal.NewFromInt(100)
	for _, it := range items {
		amount := it.Due.Amount
		switch it.Status {
		case entity.DueStatusPending:
			s.Totals.Pending = s.Totals.Pending.Add(amount)
			s.Counts.Pending++
		case entity.DueStatusOverdue:
			s.Totals.Overdue = s.Totals.Overdue.Add(amount)
			s.Counts.Overdue++
			if pct, ok := lateFeePct[it.Due.PlanName]; ok {
				s.LateFees = s.LateFees.Add(amount.Mul(pct).Div(hundred))
			}
		case entity.DueStatusPaid:
			s.Totals.Paid = s.Totals.Paid.Add(amount)
			s.Counts.Paid++
		case entity.DueStatusFrozen:
			s.Totals.Frozen = s.Totals.Frozen.Add(amount)
			s.Counts.Frozen++
		}
		if it.IsPayable() && (s.NextDueDate == nil || it.Due.DueDate.Before(*s.NextDueDate)) {
			d := it.Due.DueDate
			s.NextDueDate = &d
		}
	}
	s.LateFees = s.LateFees.Round(2)
	return s
}
