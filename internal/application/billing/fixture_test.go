package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/infrastructure/memstore"
	"github.com/jhoicas/club-cuotas-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: motor completo sobre memstore con reloj controlado
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	t     *testing.T
	ctx   context.Context
	now   time.Time
	store *memstore.Store

	engine      *billing.Engine
	configs     *billing.ConfigProvider
	members     *billing.MemberUseCase
	enrollments *billing.EnrollmentUseCase
	generator   *billing.DueGenerator
	queries     *billing.DueQueryUseCase
	payments    *billing.PaymentUseCase
	snapshots   *billing.SnapshotUseCase
	lifecycle   *billing.LifecycleUseCase
	integrity   *billing.IntegrityUseCase
}

func defaultSettings() billing.Settings {
	return billing.Settings{
		ClubName:          "Club Atlético",
		DefaultPlan:       "default",
		CurrencyCode:      "ARS",
		MonthlyAmount:     decimal.NewFromInt(1000),
		DueDay:            10,
		GracePeriodDays:   5,
		LateFeePercentage: decimal.NewFromInt(10),
		LifetimeThreshold: 12,
		Location:          time.UTC,
	}
}

func newFixture(t *testing.T, today time.Time, tweak ...func(*billing.Settings)) *fixture {
	t.Helper()
	settings := defaultSettings()
	for _, fn := range tweak {
		fn(&settings)
	}
	f := &fixture{t: t, ctx: context.Background(), now: today, store: memstore.New()}
	f.engine = billing.NewEngine(f.store, settings, func() time.Time { return f.now }, logger.Nop())
	f.configs = billing.NewConfigProvider(f.engine, f.store.Repos().Configs)
	f.members = billing.NewMemberUseCase(f.engine)
	f.enrollments = billing.NewEnrollmentUseCase(f.engine)
	f.generator = billing.NewDueGenerator(f.engine)
	f.queries = billing.NewDueQueryUseCase(f.engine)
	f.payments = billing.NewPaymentUseCase(f.engine)
	f.snapshots = billing.NewSnapshotUseCase(f.engine)
	f.lifecycle = billing.NewLifecycleUseCase(f.engine)
	f.integrity = billing.NewIntegrityUseCase(f.engine)
	return f
}

func at(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func (f *fixture) member(doc string) string {
	f.t.Helper()
	m, err := f.members.Create(f.ctx, dto.CreateMemberRequest{DocumentNumber: doc, FirstName: "Socio", LastName: doc})
	require.NoError(f.t, err)
	return m.ID
}

func (f *fixture) enroll(memberID, start string) *dto.EnrollmentResponse {
	f.t.Helper()
	e, err := f.enrollments.Create(f.ctx, dto.CreateEnrollmentRequest{MemberID: memberID, StartDate: start})
	require.NoError(f.t, err)
	return e
}

func (f *fixture) dues(q dto.ListDuesRequest) []dto.DueResponse {
	f.t.Helper()
	q.PerPage = 100
	res, err := f.queries.List(f.ctx, q)
	require.NoError(f.t, err)
	return res.Items
}

func (f *fixture) memberDues(memberID string) []dto.DueResponse {
	return f.dues(dto.ListDuesRequest{MemberID: memberID})
}

func dueIDs(list []dto.DueResponse) []string {
	out := make([]string, 0, len(list))
	for _, d := range list {
		out = append(out, d.ID)
	}
	return out
}

func dueDates(list []dto.DueResponse) []string {
	out := make([]string, 0, len(list))
	for _, d := range list {
		out = append(out, d.DueDate)
	}
	return out
}

func statuses(list []dto.DueResponse) []string {
	out := make([]string, 0, len(list))
	for _, d := range list {
		out = append(out, d.Status)
	}
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
