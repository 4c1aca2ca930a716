package dues

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jhoicas/club-cuotas-api/internal/domain"
)

var (
	// ErrStartInFuture no hay períodos transcurridos; no es fatal, el calendario queda vacío.
	ErrStartInFuture = fmt.Errorf("%w: la fecha de inicio es posterior a hoy", domain.ErrValidation)
	ErrInvalidDueDay = fmt.Errorf("%w: el día de vencimiento debe estar entre 1 y 31", domain.ErrValidation)
)

// Schedule calcula las fechas de vencimiento de una inscripción: una por mes calendario desde el mes de
// startDate hasta el mes de today, cada una en min(dueDay, último día del mes).
// Solo se incluyen fechas dentro de [startDate, today]; el resultado está ordenado y es determinista,
// de modo que regenerar nunca produce fechas distintas.
func Schedule(startDate time.Time, dueDay int, today time.Time) ([]time.Time, error) {
	if dueDay < 1 || dueDay > 31 {
		return nil, ErrInvalidDueDay
	}
	start := DateOf(startDate)
	end := DateOf(today)
	if start.After(end) {
		return []time.Time{}, ErrStartInFuture
	}

	// Un evento por mes anclado al día 1; el día real se ajusta después con DueDateIn.
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:     rrule.MONTHLY,
		Interval: 1,
		Dtstart:  MonthStart(start),
		Until:    end,
	})
	if err != nil {
		return nil, fmt.Errorf("schedule: regla mensual: %w", err)
	}

	months := rule.All()
	dates := make([]time.Time, 0, len(months))
	for _, m := range months {
		d := DueDateIn(m.Year(), m.Month(), dueDay)
		if d.Before(start) || d.After(end) {
			continue
		}
		dates = append(dates, d)
	}
	return dates, nil
}
