package dues_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/dues"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func derived(id, memberID string, dueDate time.Time, amount int64, status string) dues.DerivedDue {
	return dues.DerivedDue{
		Due: &entity.DueView{Due: entity.Due{
			ID:       id,
			MemberID: memberID,
			DueDate:  dueDate,
			Amount:   decimal.NewFromInt(amount),
			Status:   status,
		}},
		Status: status,
	}
}

func ids(list []dues.DerivedDue) []string {
	out := make([]string, 0, len(list))
	for _, d := range list {
		out = append(out, d.Due.ID)
	}
	return out
}

func outstanding() []dues.DerivedDue {
	return []dues.DerivedDue{
		derived("c", "m1", date(2024, 3, 10), 100, entity.DueStatusPending),
		derived("a", "m1", date(2024, 1, 10), 100, entity.DueStatusOverdue),
		derived("p", "m1", date(2023, 12, 10), 100, entity.DueStatusPaid),
		derived("b", "m1", date(2024, 2, 10), 100, entity.DueStatusOverdue),
		derived("f", "m1", date(2023, 11, 10), 100, entity.DueStatusFrozen),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// OldestFirstSelector
// ──────────────────────────────────────────────────────────────────────────────

func TestOldestFirst_PorCantidadPagaLasMasAntiguas(t *testing.T) {
	got, err := dues.OldestFirstSelector{Count: 2}.Select(outstanding())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestOldestFirst_DesempataPorID(t *testing.T) {
	list := []dues.DerivedDue{
		derived("z", "m1", date(2024, 1, 10), 100, entity.DueStatusOverdue),
		derived("y", "m1", date(2024, 1, 10), 100, entity.DueStatusOverdue),
	}
	got, err := dues.OldestFirstSelector{Count: 1}.Select(list)
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, ids(got))
}

func TestOldestFirst_CantidadCeroOMasQueLasAdeudadas(t *testing.T) {
	_, err := dues.OldestFirstSelector{}.Select(outstanding())
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = dues.OldestFirstSelector{Count: 4}.Select(outstanding())
	assert.ErrorIs(t, err, dues.ErrNotEnoughDues)

	_, err = dues.OldestFirstSelector{Count: -1}.Select(outstanding())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// Monto que cubre 2 de 3 cuotas adeudadas: se pagan exactamente las 2 más antiguas.
func TestOldestFirst_PorMontoCubreDosDeTres(t *testing.T) {
	got, err := dues.OldestFirstSelector{Amount: decimal.NewFromInt(250)}.Select(outstanding())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestOldestFirst_MontoMenorAUnaCuotaSeRechaza(t *testing.T) {
	_, err := dues.OldestFirstSelector{Amount: decimal.NewFromInt(99)}.Select(outstanding())
	assert.ErrorIs(t, err, dues.ErrPartialPayment)
}

func TestOldestFirst_MontoMayorALoAdeudadoSeRechaza(t *testing.T) {
	_, err := dues.OldestFirstSelector{Amount: decimal.NewFromInt(301)}.Select(outstanding())
	assert.ErrorIs(t, err, dues.ErrNotEnoughDues)
}

func TestOldestFirst_CantidadYMontoJuntosSeRechaza(t *testing.T) {
	_, err := dues.OldestFirstSelector{Count: 1, Amount: decimal.NewFromInt(100)}.Select(outstanding())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// ExplicitSelector
// ──────────────────────────────────────────────────────────────────────────────

func TestExplicit_DevuelveEnOrdenDeVencimiento(t *testing.T) {
	got, err := dues.ExplicitSelector{IDs: []string{"c", "a"}}.Select(outstanding())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(got))
}

func TestExplicit_TodoONada(t *testing.T) {
	cases := []struct {
		name string
		ids  []string
		want error
	}{
		{"lote vacío", nil, dues.ErrEmptyBatch},
		{"id inexistente", []string{"a", "nope"}, domain.ErrValidation},
		{"ya pagada", []string{"a", "p"}, dues.ErrAlreadyPaid},
		{"congelada", []string{"a", "f"}, domain.ErrInvalidState},
		{"repetida", []string{"a", "a"}, domain.ErrValidation},
		{"id vacío", []string{""}, domain.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := dues.ExplicitSelector{IDs: tc.ids}.Select(outstanding())
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestExplicit_CuotasDeOtroSocio(t *testing.T) {
	list := append(outstanding(), derived("x", "m2", date(2024, 1, 10), 100, entity.DueStatusPending))
	_, err := dues.ExplicitSelector{IDs: []string{"a", "x"}}.Select(list)
	assert.ErrorIs(t, err, dues.ErrMixedMembers)

	_, err = dues.ExplicitSelector{IDs: []string{"x"}, MemberID: "m1"}.Select(list)
	assert.ErrorIs(t, err, dues.ErrMixedMembers)
}
