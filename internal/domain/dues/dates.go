// Package dues contiene los servicios de dominio puros del motor de cuotas:
// generación del calendario, derivación de estados, selección de cuotas a pagar,
// agregación del resumen financiero y ciclo de vida del socio.
package dues

import "time"

// DateOf normaliza t a fecha de calendario (00:00 UTC) tomando año, mes y día en la zona de t.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DueDateIn devuelve la fecha de vencimiento del mes: min(dueDay, último día del mes).
func DueDateIn(year int, month time.Month, dueDay int) time.Time {
	day := dueDay
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MonthStart primer día del mes de t.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
