package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/dues"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

type dueRepo struct{ v view }

func viewOf(d *data, due *entity.Due) *entity.DueView {
	v := &entity.DueView{Due: *due}
	if e, ok := d.enrollments[due.EnrollmentID]; ok {
		v.EnrollmentStatus = e.Status
		v.EnrollmentMemberID = e.MemberID
		v.PlanName = e.PlanName
	}
	return v
}

func sortViews(list []*entity.DueView) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].DueDate.Equal(list[j].DueDate) {
			return list[i].DueDate.Before(list[j].DueDate)
		}
		return list[i].ID < list[j].ID
	})
}

func matches(v *entity.DueView, q repository.DueQuery) bool {
	switch {
	case q.MemberID != "" && v.MemberID != q.MemberID:
		return false
	case q.EnrollmentID != "" && v.EnrollmentID != q.EnrollmentID:
		return false
	case q.PlanName != "" && v.PlanName != q.PlanName:
		return false
	case q.DateFrom != nil && v.DueDate.Before(*q.DateFrom):
		return false
	case q.DateTo != nil && v.DueDate.After(*q.DateTo):
		return false
	case q.OnlyUnpaid && v.IsPaid():
		return false
	}
	return true
}

func (r *dueRepo) CreateIfAbsent(_ context.Context, due *entity.Due) (bool, error) {
	created := false
	err := r.v.with(func(d *data) error {
		for _, other := range d.dues {
			if other.EnrollmentID == due.EnrollmentID && other.DueDate.Equal(due.DueDate) {
				return nil
			}
		}
		cp := *due
		cp.DueDate = dues.DateOf(due.DueDate)
		d.dues[due.ID] = &cp
		created = true
		return nil
	})
	return created, err
}

func (r *dueRepo) GetByID(_ context.Context, id string) (*entity.DueView, error) {
	var out *entity.DueView
	err := r.v.with(func(d *data) error {
		if due, ok := d.dues[id]; ok {
			out = viewOf(d, due)
		}
		return nil
	})
	return out, err
}

func (r *dueRepo) List(_ context.Context, q repository.DueQuery) ([]*entity.DueView, error) {
	var out []*entity.DueView
	err := r.v.with(func(d *data) error {
		for _, due := range d.dues {
			if v := viewOf(d, due); matches(v, q) {
				out = append(out, v)
			}
		}
		return nil
	})
	sortViews(out)
	return out, err
}

func (r *dueRepo) ListForUpdate(ctx context.Context, q repository.DueQuery) ([]*entity.DueView, error) {
	return r.List(ctx, q)
}

func (r *dueRepo) GetManyForUpdate(_ context.Context, ids []string) ([]*entity.DueView, error) {
	var out []*entity.DueView
	err := r.v.with(func(d *data) error {
		seen := map[string]struct{}{}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if due, ok := d.dues[id]; ok {
				out = append(out, viewOf(d, due))
			}
		}
		return nil
	})
	sortViews(out)
	return out, err
}

func (r *dueRepo) MarkPaid(_ context.Context, id string, paidAt, updatedAt time.Time) error {
	return r.v.with(func(d *data) error {
		due, ok := d.dues[id]
		if !ok || due.Status == entity.DueStatusPaid {
			return fmt.Errorf("%w: la cuota %s ya no está impaga", domain.ErrInvalidState, id)
		}
		pa := paidAt
		due.Status = entity.DueStatusPaid
		due.PaidAt = &pa
		due.UpdatedAt = updatedAt
		return nil
	})
}

func (r *dueRepo) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	if status == entity.DueStatusPaid {
		return fmt.Errorf("%w: el estado PAID solo se asigna al registrar un pago", domain.ErrInvalidState)
	}
	return r.v.with(func(d *data) error {
		due, ok := d.dues[id]
		if !ok {
			return domain.ErrNotFound
		}
		if due.Status == entity.DueStatusPaid {
			return nil
		}
		due.Status = status
		due.UpdatedAt = updatedAt
		return nil
	})
}

func (r *dueRepo) CountPaidByMember(_ context.Context, memberID string) (int, error) {
	n := 0
	err := r.v.with(func(d *data) error {
		for _, due := range d.dues {
			if due.MemberID == memberID && due.Status == entity.DueStatusPaid {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *dueRepo) ListIntegrityIssues(_ context.Context) ([]repository.IntegrityIssue, error) {
	var out []repository.IntegrityIssue
	err := r.v.with(func(d *data) error {
		for _, due := range d.dues {
			is := repository.IntegrityIssue{DueID: due.ID, EnrollmentID: due.EnrollmentID, DueMemberID: due.MemberID}
			e, ok := d.enrollments[due.EnrollmentID]
			switch {
			case !ok:
				is.Kind = repository.IssueMissingEnrollment
			case d.members[due.MemberID] == nil:
				is.Kind = repository.IssueMissingMember
				is.EnrollmentMemberID = e.MemberID
			case e.MemberID != due.MemberID:
				is.Kind = repository.IssueMemberMismatch
				is.EnrollmentMemberID = e.MemberID
			default:
				continue
			}
			is.HasPayment = hasPayment(d, due.ID)
			out = append(out, is)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].DueID < out[j].DueID })
	return out, err
}

func hasPayment(d *data, dueID string) bool {
	for _, p := range d.payments {
		if p.DueID == dueID {
			return true
		}
	}
	return false
}

// Delete igual que la FK payments.due_id: una cuota con pago no se borra.
func (r *dueRepo) Delete(_ context.Context, id string) error {
	return r.v.with(func(d *data) error {
		if hasPayment(d, id) {
			return fmt.Errorf("%w: la cuota %s tiene un pago", domain.ErrInvalidState, id)
		}
		delete(d.dues, id)
		return nil
	})
}

// ── Reportes ─────────────────────────────────────────────────────────────────

type reportRepo struct{ v view }

func (r *reportRepo) MonthlyBilling(_ context.Context, from, to time.Time, planName string) ([]repository.MonthlyBillingRow, error) {
	rows := map[time.Time]*repository.MonthlyBillingRow{}
	err := r.v.with(func(d *data) error {
		for _, due := range d.dues {
			v := viewOf(d, due)
			if v.DueDate.Before(from) || !v.DueDate.Before(to) || (planName != "" && v.PlanName != planName) {
				continue
			}
			period := dues.MonthStart(v.DueDate)
			row, ok := rows[period]
			if !ok {
				row = &repository.MonthlyBillingRow{Period: period, Billed: decimal.Zero, Paid: decimal.Zero,
					Outstanding: decimal.Zero, Frozen: decimal.Zero}
				rows[period] = row
			}
			row.Billed = row.Billed.Add(v.Amount)
			row.DueCount++
			switch {
			case v.IsPaid():
				row.Paid = row.Paid.Add(v.Amount)
				row.PaidCount++
			case v.EnrollmentStatus == entity.EnrollmentStatusCancelled:
				row.Frozen = row.Frozen.Add(v.Amount)
			default:
				row.Outstanding = row.Outstanding.Add(v.Amount)
			}
		}
		return nil
	})
	out := make([]repository.MonthlyBillingRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out, err
}

func (r *reportRepo) MonthlyCollections(_ context.Context, from, to time.Time, planName string) ([]repository.MonthlyCollectionRow, error) {
	rows := map[time.Time]*repository.MonthlyCollectionRow{}
	err := r.v.with(func(d *data) error {
		for _, p := range d.payments {
			if p.PaidAt.Before(from) || !p.PaidAt.Before(to) {
				continue
			}
			if planName != "" {
				due, ok := d.dues[p.DueID]
				if !ok || viewOf(d, due).PlanName != planName {
					continue
				}
			}
			period := dues.MonthStart(p.PaidAt.UTC())
			row, ok := rows[period]
			if !ok {
				row = &repository.MonthlyCollectionRow{Period: period, Collected: decimal.Zero}
				rows[period] = row
			}
			row.Collected = row.Collected.Add(p.Amount)
			row.PaymentCount++
		}
		return nil
	})
	out := make([]repository.MonthlyCollectionRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out, err
}

func (r *reportRepo) CollectedBetween(_ context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	total := decimal.Zero
	n := 0
	err := r.v.with(func(d *data) error {
		for _, p := range d.payments {
			if !p.PaidAt.Before(from) && p.PaidAt.Before(to) {
				total = total.Add(p.Amount)
				n++
			}
		}
		return nil
	})
	return total, n, err
}
