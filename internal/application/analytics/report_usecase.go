package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/dues"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

// maxReportMonths rango máximo del reporte de cobranza.
const maxReportMonths = 36

// ReportUseCase reporte mensual de cobranza. El resultado se cachea por la combinación exacta de filtros.
type ReportUseCase struct {
	reports repository.ReportRepository
	cache   Cache
	ttl     time.Duration
	now     func() time.Time
}

// NewReportUseCase construye el caso de uso. cache puede ser nil.
func NewReportUseCase(reports repository.ReportRepository, cache Cache, ttl time.Duration, now func() time.Time) *ReportUseCase {
	if now == nil {
		now = time.Now
	}
	return &ReportUseCase{reports: reports, cache: cache, ttl: ttl, now: now}
}

// Collections facturado (por mes de vencimiento) contra cobrado (por mes de pago) en [date_from, date_to].
func (uc *ReportUseCase) Collections(ctx context.Context, in dto.CollectionsReportRequest) (*dto.CollectionsReportDTO, error) {
	from, err := time.Parse(dto.DateLayout, in.DateFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: date_from inválida", domain.ErrValidation)
	}
	to, err := time.Parse(dto.DateLayout, in.DateTo)
	if err != nil {
		return nil, fmt.Errorf("%w: date_to inválida", domain.ErrValidation)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: date_to anterior a date_from", domain.ErrValidation)
	}
	months := monthsBetween(from, to)
	if len(months) > maxReportMonths {
		return nil, fmt.Errorf("%w: el rango no puede superar %d meses", domain.ErrValidation, maxReportMonths)
	}

	key := fmt.Sprintf("report:collections:%s:%s:%s", in.DateFrom, in.DateTo, in.PlanName)
	return getOrSet(ctx, uc.cache, key, uc.ttl, func() (*dto.CollectionsReportDTO, error) {
		return uc.build(ctx, in, from, to, months)
	})
}

func (uc *ReportUseCase) build(ctx context.Context, in dto.CollectionsReportRequest, from, to time.Time, months []time.Time) (*dto.CollectionsReportDTO, error) {
	// to es inclusivo: las consultas usan [from, to+1d).
	end := to.AddDate(0, 0, 1)
	billing, err := uc.reports.MonthlyBilling(ctx, from, end, in.PlanName)
	if err != nil {
		return nil, fmt.Errorf("reporte: facturado mensual: %w", err)
	}
	collections, err := uc.reports.MonthlyCollections(ctx, from, end, in.PlanName)
	if err != nil {
		return nil, fmt.Errorf("reporte: cobrado mensual: %w", err)
	}

	rows := make(map[string]*dto.CollectionsRowDTO, len(months))
	out := &dto.CollectionsReportDTO{
		DateFrom:    in.DateFrom,
		DateTo:      in.DateTo,
		PlanName:    in.PlanName,
		Rows:        make([]dto.CollectionsRowDTO, 0, len(months)),
		Billed:      decimal.Zero,
		Collected:   decimal.Zero,
		Outstanding: decimal.Zero,
		GeneratedAt: uc.now(),
	}
	for _, m := range months {
		period := m.Format("2006-01")
		rows[period] = &dto.CollectionsRowDTO{
			Period:      period,
			Label:       monthLabel(m),
			Billed:      decimal.Zero,
			Collected:   decimal.Zero,
			Outstanding: decimal.Zero,
			Frozen:      decimal.Zero,
		}
	}
	for _, b := range billing {
		row, ok := rows[b.Period.Format("2006-01")]
		if !ok {
			continue
		}
		row.Billed = b.Billed.Round(2)
		row.Outstanding = b.Outstanding.Round(2)
		row.Frozen = b.Frozen.Round(2)
		row.DueCount = b.DueCount
		row.PaidCount = b.PaidCount
	}
	for _, c := range collections {
		row, ok := rows[c.Period.Format("2006-01")]
		if !ok {
			continue
		}
		row.Collected = c.Collected.Round(2)
		row.Payments = c.PaymentCount
	}
	for _, m := range months {
		row := rows[m.Format("2006-01")]
		out.Rows = append(out.Rows, *row)
		out.Billed = out.Billed.Add(row.Billed)
		out.Collected = out.Collected.Add(row.Collected)
		out.Outstanding = out.Outstanding.Add(row.Outstanding)
	}
	return out, nil
}

// monthsBetween primer día de cada mes desde el de from hasta el de to inclusive.
func monthsBetween(from, to time.Time) []time.Time {
	var out []time.Time
	last := dues.MonthStart(to)
	for m := dues.MonthStart(from); !m.After(last); m = m.AddDate(0, 1, 0) {
		out = append(out, m)
	}
	return out
}
