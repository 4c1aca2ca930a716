package dues

import (
	"time"

	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
)

// StatusInput datos de los que depende el estado de una cuota.
type StatusInput struct {
	DueDate          time.Time
	PaidAt           *time.Time
	StoredStatus     string
	EnrollmentStatus string
	Today            time.Time
	GracePeriodDays  int
}

// DeriveStatus función pura; se evalúa en cada lectura porque "hoy" avanza sin escrituras.
// Orden (gana la primera regla):
//  1. pagada → PAID (nunca revierte)
//  2. inscripción cancelada → FROZEN
//  3. hoy > vencimiento + días de gracia → OVERDUE
//  4. PENDING
func DeriveStatus(in StatusInput) string {
	if in.PaidAt != nil || in.StoredStatus == entity.DueStatusPaid {
		return entity.DueStatusPaid
	}
	if in.EnrollmentStatus == entity.EnrollmentStatusCancelled {
		return entity.DueStatusFrozen
	}
	cutoff := DateOf(in.DueDate).AddDate(0, 0, in.GracePeriodDays)
	if DateOf(in.Today).After(cutoff) {
		return entity.DueStatusOverdue
	}
	return entity.DueStatusPending
}

// DerivedDue cuota con su estado derivado para "hoy".
type DerivedDue struct {
	Due    *entity.DueView
	Status string
}

// Derive aplica DeriveStatus a una vista de cuota.
func Derive(v *entity.DueView, today time.Time, gracePeriodDays int) DerivedDue {
	return DerivedDue{
		Due: v,
		Status: DeriveStatus(StatusInput{
			DueDate:          v.DueDate,
			PaidAt:           v.PaidAt,
			StoredStatus:     v.Status,
			EnrollmentStatus: v.EnrollmentStatus,
			Today:            today,
			GracePeriodDays:  gracePeriodDays,
		}),
	}
}

// IsPayable solo PENDING y OVERDUE pueden pagarse.
func (d DerivedDue) IsPayable() bool {
	return d.Status == entity.DueStatusPending || d.Status == entity.DueStatusOverdue
}
