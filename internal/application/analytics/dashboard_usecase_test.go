package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/club-cuotas-api/internal/application/analytics"
	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/infrastructure/memstore"
	"github.com/jhoicas/club-cuotas-api/pkg/logger"
)

// club dos socios con cuotas, uno de ellos con pagos en marzo y otro sin inscripción.
func club(t *testing.T, now time.Time) (*memstore.Store, *billing.DueQueryUseCase) {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	engine := billing.NewEngine(store, billing.Settings{
		ClubName:        "Club",
		DefaultPlan:     "default",
		CurrencyCode:    "ARS",
		MonthlyAmount:   decimal.NewFromInt(1000),
		DueDay:          10,
		GracePeriodDays: 5,
		Location:        time.UTC,
	}, func() time.Time { return now }, logger.Nop())
	members := billing.NewMemberUseCase(engine)
	enrollments := billing.NewEnrollmentUseCase(engine)
	payments := billing.NewPaymentUseCase(engine)

	ids := make([]string, 0, 3)
	for _, doc := range []string{"100", "200", "300"} {
		m, err := members.Create(ctx, dto.CreateMemberRequest{DocumentNumber: doc, FirstName: "Socio"})
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}
	for _, id := range ids[:2] {
		_, err := enrollments.Create(ctx, dto.CreateEnrollmentRequest{MemberID: id, StartDate: "2024-01-01"})
		require.NoError(t, err)
	}
	_, err := payments.PaySequentialDues(ctx, billing.SequentialRequest{MemberID: ids[0], Count: 3}, billing.PaymentOptions{})
	require.NoError(t, err)
	return store, billing.NewDueQueryUseCase(engine)
}

func TestDashboardUseCase_GetSummary(t *testing.T) {
	now := time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)
	store, queries := club(t, now)
	repos := store.Repos()
	uc := analytics.NewDashboardUseCase(repos.Members, repos.Enrollments, store.Reports(), queries, nil, time.Minute,
		func() time.Time { return now })

	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, out.MembersTotal)
	assert.Equal(t, 1, out.MembersByStatus["ACTIVE"])
	assert.Equal(t, 1, out.MembersByStatus["PENDING"])
	assert.Equal(t, 1, out.MembersByStatus["INACTIVE"])
	assert.Equal(t, 2, out.ActiveEnrollments)

	assert.Equal(t, 3, out.OverdueDues)
	assert.True(t, out.OverdueAmount.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, 0, out.PendingDues)
	assert.Equal(t, 1, out.OverdueMembers)

	assert.Equal(t, 3, out.MonthlyPayments)
	assert.True(t, out.MonthlyCollected.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, "Marzo 2024", out.DateLabel)
}

func TestDashboardUseCase_GetSummaryCacheado(t *testing.T) {
	now := time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)
	store, queries := club(t, now)
	repos := store.Repos()
	cache := newMemCache()
	uc := analytics.NewDashboardUseCase(repos.Members, repos.Enrollments, store.Reports(), queries, cache, time.Minute,
		func() time.Time { return now })

	first, err := uc.GetSummary(context.Background())
	require.NoError(t, err)

	_, err = billing.NewMemberUseCase(billing.NewEngine(store, billing.Settings{}, func() time.Time { return now }, logger.Nop())).
		Create(context.Background(), dto.CreateMemberRequest{DocumentNumber: "400", FirstName: "Nuevo"})
	require.NoError(t, err)

	second, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.MembersTotal, second.MembersTotal, "dentro del TTL se sirve el caché")
	assert.Equal(t, 1, cache.sets)

	fresh := analytics.NewDashboardUseCase(repos.Members, repos.Enrollments, store.Reports(), queries, nil, time.Minute,
		func() time.Time { return now })
	out, err := fresh.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, out.MembersTotal)
}
