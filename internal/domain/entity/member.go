package entity

import "time"

// Estados del ciclo de vida del socio.
const (
	MemberStatusActive    = "ACTIVE"
	MemberStatusInactive  = "INACTIVE"
	MemberStatusPending   = "PENDING"
	MemberStatusVitalicio = "VITALICIO" // socio vitalicio, no se revoca automáticamente
)

// Member socio del club. Status es un caché recalculado tras cada pago o cambio de inscripción.
type Member struct {
	ID             string
	UserID         string
	DocumentNumber string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Status         string
	LifetimeSince  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName nombre para mostrar.
func (m *Member) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}
