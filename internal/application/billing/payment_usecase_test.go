package billing_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
)

// Socio con tres cuotas vencidas: 2024-01-10, 2024-02-10, 2024-03-10 (hoy 2024-04-01).
func threeOverdue(t *testing.T) (*fixture, string, []dto.DueResponse) {
	f := newFixture(t, at(2024, time.April, 1))
	m := f.member("100")
	f.enroll(m, "2024-01-01")
	list := f.memberDues(m)
	require.Len(t, list, 3)
	return f, m, list
}

func (f *fixture) paymentsOf(memberID string) []dto.PaymentResponse {
	f.t.Helper()
	res, err := f.payments.ListPayments(f.ctx, memberID, dto.PageRequest{PerPage: 100})
	require.NoError(f.t, err)
	return res.Items
}

// ──────────────────────────────────────────────────────────────────────────────
// Pago dirigido
// ──────────────────────────────────────────────────────────────────────────────

func TestPayMultipleDues_PagaLasIndicadas(t *testing.T) {
	f, m, list := threeOverdue(t)

	res, err := f.payments.PayMultipleDues(f.ctx, []string{list[2].ID, list[0].ID}, billing.PaymentOptions{Method: "transfer"})
	require.NoError(t, err)

	assert.Equal(t, []string{list[0].ID, list[2].ID}, dueIDs(res.Dues), "en orden de vencimiento")
	assert.True(t, res.Total.Equal(dec("2000")))
	assert.Equal(t, entity.MemberStatusActive, res.MemberStatus)
	assert.Equal(t, []string{"PAID", "OVERDUE", "PAID"}, statuses(f.memberDues(m)))
	for _, p := range res.Payments {
		assert.Equal(t, "transfer", p.Method)
		assert.True(t, p.Amount.Equal(dec("1000")))
	}
}

func TestPayMultipleDues_EsAtomico(t *testing.T) {
	f, m, list := threeOverdue(t)

	_, err := f.payments.PayMultipleDues(f.ctx, []string{list[0].ID, "no-existe", list[1].ID}, billing.PaymentOptions{})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []string{"OVERDUE", "OVERDUE", "OVERDUE"}, statuses(f.memberDues(m)))
	assert.Empty(t, f.paymentsOf(m))
}

func TestPayMultipleDues_YaPagadaFallaSinCambios(t *testing.T) {
	f, m, list := threeOverdue(t)
	_, err := f.payments.PayMultipleDues(f.ctx, []string{list[0].ID}, billing.PaymentOptions{})
	require.NoError(t, err)

	_, err = f.payments.PayMultipleDues(f.ctx, []string{list[1].ID, list[0].ID}, billing.PaymentOptions{})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []string{"PAID", "OVERDUE", "OVERDUE"}, statuses(f.memberDues(m)))
	assert.Len(t, f.paymentsOf(m), 1)
}

func TestPayMultipleDues_LoteVacio(t *testing.T) {
	f, _, _ := threeOverdue(t)
	_, err := f.payments.PayMultipleDues(f.ctx, nil, billing.PaymentOptions{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPayMultipleDues_CuotaCongeladaEsEstadoInvalido(t *testing.T) {
	f, m, list := threeOverdue(t)
	enr, err := f.enrollments.ListByMember(f.ctx, m)
	require.NoError(t, err)
	_, err = f.enrollments.Cancel(f.ctx, enr[0].ID)
	require.NoError(t, err)
	require.Equal(t, []string{"FROZEN", "FROZEN", "FROZEN"}, statuses(f.memberDues(m)))

	_, err = f.payments.PayMultipleDues(f.ctx, []string{list[0].ID}, billing.PaymentOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.payments.RecordPayment(f.ctx, list[0].ID, nil, billing.PaymentOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// Reactivar habilita el pago
	_, err = f.enrollments.Reactivate(f.ctx, enr[0].ID)
	require.NoError(t, err)
	_, err = f.payments.PayMultipleDues(f.ctx, []string{list[0].ID}, billing.PaymentOptions{})
	assert.NoError(t, err)
}

func TestPayMultipleDues_SocioAutenticadoDistinto(t *testing.T) {
	f, _, list := threeOverdue(t)
	_, err := f.payments.PayMultipleDues(f.ctx, []string{list[0].ID}, billing.PaymentOptions{ActorMemberID: "otro"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPayMultipleDues_CuotasDeDistintosSocios(t *testing.T) {
	f, _, list := threeOverdue(t)
	other := f.member("200")
	f.enroll(other, "2024-03-01")
	otherDues := f.memberDues(other)

	_, err := f.payments.PayMultipleDues(f.ctx, []string{list[0].ID, otherDues[0].ID}, billing.PaymentOptions{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPayMultipleDues_ConcurrenciaUnSoloPago(t *testing.T) {
	f, m, list := threeOverdue(t)

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		oks  int
		errs []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.payments.PayMultipleDues(f.ctx, []string{list[0].ID}, billing.PaymentOptions{})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				oks++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	for _, err := range errs {
		assert.True(t, isValidationOrState(err), "error inesperado: %v", err)
	}
	assert.Len(t, f.paymentsOf(m), 1)
}

func isValidationOrState(err error) bool {
	return errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pago secuencial
// ──────────────────────────────────────────────────────────────────────────────

func TestPaySequentialDues_PorCantidadPagaLasMasAntiguas(t *testing.T) {
	f, m, list := threeOverdue(t)

	res, err := f.payments.PaySequentialDues(f.ctx, billing.SequentialRequest{MemberID: m, Count: 2}, billing.PaymentOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{list[0].ID, list[1].ID}, dueIDs(res.Dues))
	assert.Equal(t, []string{"PAID", "PAID", "OVERDUE"}, statuses(f.memberDues(m)))
}

func TestPaySequentialDues_PorMontoCubreDosDeTres(t *testing.T) {
	f, m, list := threeOverdue(t)

	res, err := f.payments.PaySequentialDues(f.ctx, billing.SequentialRequest{MemberID: m, Amount: dec("2500")}, billing.PaymentOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{list[0].ID, list[1].ID}, dueIDs(res.Dues))
	assert.True(t, res.Total.Equal(dec("2000")))
	assert.True(t, res.Unapplied.Equal(dec("500")))
	assert.Equal(t, "OVERDUE", f.memberDues(m)[2].Status)
}

func TestPaySequentialDues_PorInscripcion(t *testing.T) {
	f, m, _ := threeOverdue(t)
	enr, err := f.enrollments.ListByMember(f.ctx, m)
	require.NoError(t, err)

	res, err := f.payments.PaySequentialDues(f.ctx, billing.SequentialRequest{EnrollmentID: enr[0].ID, Count: 3}, billing.PaymentOptions{})
	require.NoError(t, err)
	assert.Len(t, res.Dues, 3)
}

func TestPaySequentialDues_Rechazos(t *testing.T) {
	f, m, _ := threeOverdue(t)

	cases := []struct {
		name string
		in   billing.SequentialRequest
		err  error
	}{
		{"cantidad cero sin monto", billing.SequentialRequest{MemberID: m}, domain.ErrValidation},
		{"más de las adeudadas", billing.SequentialRequest{MemberID: m, Count: 4}, domain.ErrValidation},
		{"monto menor a una cuota", billing.SequentialRequest{MemberID: m, Amount: dec("999.99")}, domain.ErrValidation},
		{"monto mayor a lo adeudado", billing.SequentialRequest{MemberID: m, Amount: dec("3000.01")}, domain.ErrValidation},
		{"socio e inscripción juntos", billing.SequentialRequest{MemberID: m, EnrollmentID: "x", Count: 1}, domain.ErrValidation},
		{"socio inexistente", billing.SequentialRequest{MemberID: "no-existe", Count: 1}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.payments.PaySequentialDues(f.ctx, tc.in, billing.PaymentOptions{})
			assert.ErrorIs(t, err, tc.err)
		})
	}
	assert.Empty(t, f.paymentsOf(m))
}

// ──────────────────────────────────────────────────────────────────────────────
// Pago simple
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordPayment_DevuelveCuotaYPago(t *testing.T) {
	f, m, list := threeOverdue(t)
	paidAt := at(2024, time.March, 31)
	amount := dec("1000")

	res, err := f.payments.RecordPayment(f.ctx, list[1].ID, &amount, billing.PaymentOptions{PaidAt: &paidAt, Reference: "REC-1"})
	require.NoError(t, err)

	assert.Equal(t, "PAID", res.Due.Status)
	require.NotNil(t, res.Due.PaidAt)
	assert.True(t, res.Due.PaidAt.Equal(paidAt))
	assert.Equal(t, list[1].ID, res.Payment.DueID)
	assert.Equal(t, m, res.Payment.MemberID)
	assert.Equal(t, "REC-1", res.Payment.Reference)
	assert.Equal(t, entity.PaymentMethodCash, res.Payment.Method)
}

func TestRecordPayment_MontoDistintoSeRechaza(t *testing.T) {
	f, m, list := threeOverdue(t)
	amount := dec("500")

	_, err := f.payments.RecordPayment(f.ctx, list[0].ID, &amount, billing.PaymentOptions{})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.paymentsOf(m))
}

func TestRecordPayment_CuotaInexistente(t *testing.T) {
	f, _, _ := threeOverdue(t)
	_, err := f.payments.RecordPayment(f.ctx, "no-existe", nil, billing.PaymentOptions{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPagada_ImplicaExactamenteUnPago(t *testing.T) {
	f, m, list := threeOverdue(t)
	_, err := f.payments.PayMultipleDues(f.ctx, []string{list[0].ID}, billing.PaymentOptions{})
	require.NoError(t, err)
	_, err = f.payments.PaySequentialDues(f.ctx, billing.SequentialRequest{MemberID: m, Count: 2}, billing.PaymentOptions{})
	require.NoError(t, err)

	byDue := map[string]int{}
	for _, p := range f.paymentsOf(m) {
		byDue[p.DueID]++
	}
	for _, d := range f.memberDues(m) {
		require.Equal(t, "PAID", d.Status)
		assert.NotNil(t, d.PaidAt)
		assert.Equal(t, 1, byDue[d.ID], "cuota %s", d.ID)
	}
}

func TestListPayments_MasRecientesPrimero(t *testing.T) {
	f, m, list := threeOverdue(t)
	first := at(2024, time.March, 1)
	second := at(2024, time.March, 20)
	_, err := f.payments.RecordPayment(f.ctx, list[0].ID, nil, billing.PaymentOptions{PaidAt: &first})
	require.NoError(t, err)
	_, err = f.payments.RecordPayment(f.ctx, list[1].ID, nil, billing.PaymentOptions{PaidAt: &second})
	require.NoError(t, err)

	got := f.paymentsOf(m)
	require.Len(t, got, 2)
	assert.Equal(t, list[1].ID, got[0].DueID)
	assert.Equal(t, list[0].ID, got[1].DueID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cuotas inconsistentes: nunca se pagan
// ──────────────────────────────────────────────────────────────────────────────

// corruptDues agrega a threeOverdue una cuota sin inscripción y otra de un segundo socio
// colgada de la inscripción del primero.
func corruptDues(t *testing.T) (*fixture, string, string, string) {
	f, a, list := threeOverdue(t)
	b := f.member("200")
	repos := f.store.Repos()
	_, err := repos.Dues.CreateIfAbsent(f.ctx, &entity.Due{
		ID: "orphan", EnrollmentID: "borrada", MemberID: a,
		DueDate: time.Date(2023, time.December, 10, 0, 0, 0, 0, time.UTC), Amount: dec("1000"), Status: "PENDING",
	})
	require.NoError(t, err)
	_, err = repos.Dues.CreateIfAbsent(f.ctx, &entity.Due{
		ID: "mismatch", EnrollmentID: list[0].EnrollmentID, MemberID: b,
		DueDate: time.Date(2023, time.November, 10, 0, 0, 0, 0, time.UTC), Amount: dec("1000"), Status: "PENDING",
	})
	require.NoError(t, err)
	return f, a, b, list[0].EnrollmentID
}

func TestPayMultipleDues_CuotaSinInscripcionEsIntegridad(t *testing.T) {
	f, a, _, _ := corruptDues(t)

	_, err := f.payments.PayMultipleDues(f.ctx, []string{"orphan"}, billing.PaymentOptions{})
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	_, err = f.payments.RecordPayment(f.ctx, "mismatch", nil, billing.PaymentOptions{})
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	assert.Empty(t, f.paymentsOf(a))
	due, err := f.store.Repos().Dues.GetByID(f.ctx, "orphan")
	require.NoError(t, err)
	assert.False(t, due.IsPaid())
}

func TestPaySequentialDues_CuotaDeOtroSocioEsIntegridad(t *testing.T) {
	f, a, b, enrollmentID := corruptDues(t)

	_, err := f.payments.PaySequentialDues(f.ctx, billing.SequentialRequest{MemberID: b, Count: 1}, billing.PaymentOptions{})
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	_, err = f.payments.PaySequentialDues(f.ctx, billing.SequentialRequest{EnrollmentID: enrollmentID, Count: 1}, billing.PaymentOptions{})
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	assert.Empty(t, f.paymentsOf(a))
	assert.Empty(t, f.paymentsOf(b))
}
