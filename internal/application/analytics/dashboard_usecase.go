// Package analytics contiene el resumen del dashboard y los reportes de cobranza.
// Ambos se cachean con TTL corto: los datos pueden tener unos minutos de antigüedad.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/domain/dues"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

const dashboardCacheKey = "dashboard:summary"

// DashboardUseCase genera los KPIs del club.
type DashboardUseCase struct {
	members     repository.MemberRepository
	enrollments repository.EnrollmentRepository
	reports     repository.ReportRepository
	dues        ClubSnapshotter
	cache       Cache
	ttl         time.Duration
	now         func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(
	members repository.MemberRepository,
	enrollments repository.EnrollmentRepository,
	reports repository.ReportRepository,
	dueTotals ClubSnapshotter,
	cache Cache,
	ttl time.Duration,
	now func() time.Time,
) *DashboardUseCase {
	if now == nil {
		now = time.Now
	}
	return &DashboardUseCase{
		members:     members,
		enrollments: enrollments,
		reports:     reports,
		dues:        dueTotals,
		cache:       cache,
		ttl:         ttl,
		now:         now,
	}
}

// GetSummary devuelve el resumen, desde caché si está vigente.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	return getOrSet(ctx, uc.cache, dashboardCacheKey, uc.ttl, func() (*dto.DashboardSummaryDTO, error) {
		return uc.build(ctx)
	})
}

// build cuatro consultas en paralelo:
//  1. CountByStatus        → socios por estado
//  2. CountActive          → inscripciones activas
//  3. ClubSnapshot         → cuotas impagas por estado derivado
//  4. CollectedBetween     → cobrado en el mes
func (uc *DashboardUseCase) build(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	type membersResult struct {
		byStatus map[string]int
		err      error
	}
	type countResult struct {
		n   int
		err error
	}
	type snapshotResult struct {
		snap           dues.Snapshot
		overdueMembers int
		err            error
	}
	type collectedResult struct {
		amount decimal.Decimal
		n      int
		err    error
	}

	membersCh := make(chan membersResult, 1)
	enrollCh := make(chan countResult, 1)
	snapCh := make(chan snapshotResult, 1)
	collectedCh := make(chan collectedResult, 1)

	go func() {
		m, err := uc.members.CountByStatus(ctx)
		membersCh <- membersResult{m, err}
	}()
	go func() {
		n, err := uc.enrollments.CountActive(ctx)
		enrollCh <- countResult{n, err}
	}()
	go func() {
		s, n, err := uc.dues.ClubSnapshot(ctx)
		snapCh <- snapshotResult{s, n, err}
	}()
	go func() {
		amount, n, err := uc.reports.CollectedBetween(ctx, monthStart, monthEnd)
		collectedCh <- collectedResult{amount, n, err}
	}()

	members := <-membersCh
	enroll := <-enrollCh
	snap := <-snapCh
	collected := <-collectedCh

	if members.err != nil {
		return nil, fmt.Errorf("dashboard: socios por estado: %w", members.err)
	}
	if enroll.err != nil {
		return nil, fmt.Errorf("dashboard: inscripciones activas: %w", enroll.err)
	}
	if snap.err != nil {
		return nil, fmt.Errorf("dashboard: cuotas impagas: %w", snap.err)
	}
	if collected.err != nil {
		return nil, fmt.Errorf("dashboard: cobrado del mes: %w", collected.err)
	}

	total := 0
	for _, n := range members.byStatus {
		total += n
	}
	return &dto.DashboardSummaryDTO{
		MembersByStatus:   members.byStatus,
		MembersTotal:      total,
		ActiveEnrollments: enroll.n,
		PendingDues:       snap.snap.Counts.Pending,
		PendingAmount:     snap.snap.Totals.Pending.Round(2),
		OverdueDues:       snap.snap.Counts.Overdue,
		OverdueAmount:     snap.snap.Totals.Overdue.Round(2),
		FrozenAmount:      snap.snap.Totals.Frozen.Round(2),
		OverdueMembers:    snap.overdueMembers,
		MonthlyCollected:  collected.amount.Round(2),
		MonthlyPayments:   collected.n,
		DateLabel:         monthLabel(now),
		GeneratedAt:       now,
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
