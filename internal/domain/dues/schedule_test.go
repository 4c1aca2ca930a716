package dues_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/dues"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Inicio 2024-01-15, día 10, hoy 2024-04-01: la cuota de enero cae antes del inicio
// y la de abril todavía no venció.
func TestSchedule_InicioAMitadDeMes(t *testing.T) {
	got, err := dues.Schedule(date(2024, 1, 15), 10, date(2024, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2024, 2, 10), date(2024, 3, 10)}, got)
}

func TestSchedule_IncluyeVencimientoDelDiaDeInicioYDeHoy(t *testing.T) {
	got, err := dues.Schedule(date(2024, 1, 10), 10, date(2024, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2024, 1, 10), date(2024, 2, 10), date(2024, 3, 10)}, got)
}

func TestSchedule_Dia31SeAjustaAlUltimoDiaDelMes(t *testing.T) {
	got, err := dues.Schedule(date(2024, 1, 1), 31, date(2024, 5, 31))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2024, 1, 31),
		date(2024, 2, 29), // bisiesto
		date(2024, 3, 31),
		date(2024, 4, 30),
		date(2024, 5, 31),
	}, got)
}

func TestSchedule_CruzaCambioDeAnio(t *testing.T) {
	got, err := dues.Schedule(date(2023, 11, 1), 5, date(2024, 2, 4))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2023, 11, 5), date(2023, 12, 5), date(2024, 1, 5)}, got)
}

func TestSchedule_InicioFuturoDevuelveVacioYErrorDeValidacion(t *testing.T) {
	got, err := dues.Schedule(date(2024, 6, 1), 10, date(2024, 4, 1))
	assert.Empty(t, got)
	assert.True(t, errors.Is(err, dues.ErrStartInFuture))
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestSchedule_DiaDeVencimientoInvalido(t *testing.T) {
	for _, day := range []int{0, -1, 32} {
		_, err := dues.Schedule(date(2024, 1, 1), day, date(2024, 4, 1))
		assert.ErrorIs(t, err, dues.ErrInvalidDueDay, "día %d", day)
	}
}

// Regenerar con los mismos datos produce exactamente el mismo conjunto.
func TestSchedule_Idempotente(t *testing.T) {
	a, err := dues.Schedule(date(2022, 3, 20), 28, date(2024, 4, 1))
	require.NoError(t, err)
	b, err := dues.Schedule(date(2022, 3, 20), 28, date(2024, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 25)
}

func TestSchedule_IgnoraHoraYZona(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	start := time.Date(2024, 1, 10, 23, 30, 0, 0, loc)
	today := time.Date(2024, 2, 10, 8, 0, 0, 0, loc)
	got, err := dues.Schedule(start, 10, today)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2024, 1, 10), date(2024, 2, 10)}, got)
}
