package billing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

func TestIntegrity_ReportaYBorraSoloHuerfanas(t *testing.T) {
	f := newFixture(t, at(2024, time.April, 1))
	a := f.member("100")
	b := f.member("200")
	enr := f.enroll(a, "2024-03-01")

	repos := f.store.Repos()
	_, err := repos.Dues.CreateIfAbsent(f.ctx, &entity.Due{
		ID: "mismatch", EnrollmentID: enr.ID, MemberID: b,
		DueDate: time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC), Amount: dec("1000"), Status: "PENDING",
	})
	require.NoError(t, err)
	_, err = repos.Dues.CreateIfAbsent(f.ctx, &entity.Due{
		ID: "orphan", EnrollmentID: "borrada", MemberID: a,
		DueDate: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), Amount: dec("1000"), Status: "PENDING",
	})
	require.NoError(t, err)

	report, err := f.integrity.Check(f.ctx, false)
	require.NoError(t, err)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, repository.IssueMemberMismatch, report.Issues[0].Kind)
	assert.Equal(t, a, report.Issues[0].EnrollmentMemberID)
	assert.Equal(t, repository.IssueMissingEnrollment, report.Issues[1].Kind)
	assert.Equal(t, 0, report.Deleted)

	// La agregación no ignora la inconsistencia
	_, err = f.snapshots.Get(f.ctx, b)
	assert.ErrorIs(t, err, domain.ErrIntegrity)
	_, err = f.snapshots.Get(f.ctx, a)
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	report, err = f.integrity.Check(f.ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)

	report, err = f.integrity.Check(f.ctx, false)
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "mismatch", report.Issues[0].DueID)

	_, err = f.snapshots.Get(f.ctx, a)
	assert.NoError(t, err)
}

func TestIntegrity_HuerfanaPagadaSoloSeReporta(t *testing.T) {
	f := newFixture(t, at(2024, time.April, 1))
	a := f.member("100")

	repos := f.store.Repos()
	paidAt := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
	_, err := repos.Dues.CreateIfAbsent(f.ctx, &entity.Due{
		ID: "orphan-paid", EnrollmentID: "borrada", MemberID: a,
		DueDate: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), Amount: dec("1000"),
		Status: entity.DueStatusPaid, PaidAt: &paidAt,
	})
	require.NoError(t, err)
	require.NoError(t, repos.Payments.Create(f.ctx, &entity.Payment{
		ID: "pay-1", DueID: "orphan-paid", MemberID: a, Amount: dec("1000"),
		Method: entity.PaymentMethodCash, PaidAt: paidAt, CreatedAt: paidAt,
	}))
	_, err = repos.Dues.CreateIfAbsent(f.ctx, &entity.Due{
		ID: "orphan", EnrollmentID: "borrada", MemberID: a,
		DueDate: time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC), Amount: dec("1000"), Status: "PENDING",
	})
	require.NoError(t, err)

	report, err := f.integrity.Check(f.ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)
	require.Len(t, report.Issues, 2)
	for _, is := range report.Issues {
		assert.Equal(t, is.DueID == "orphan-paid", is.HasPayment, is.DueID)
	}

	// El pago y su cuota siguen; la impaga se borró
	due, err := repos.Dues.GetByID(f.ctx, "orphan-paid")
	require.NoError(t, err)
	require.NotNil(t, due)
	gone, err := repos.Dues.GetByID(f.ctx, "orphan")
	require.NoError(t, err)
	assert.Nil(t, gone)
	pays, err := repos.Payments.ListByDue(f.ctx, "orphan-paid")
	require.NoError(t, err)
	assert.Len(t, pays, 1)

	report, err = f.integrity.Check(f.ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Deleted)
	require.Len(t, report.Issues, 1)
	assert.True(t, report.Issues[0].HasPayment)

	// El repositorio rechaza borrar una cuota con pago
	err = f.store.Run(f.ctx, func(r billing.Repos) error { return r.Dues.Delete(f.ctx, "orphan-paid") })
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
