package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una inscripción.
const (
	EnrollmentStatusActive    = "ACTIVE"
	EnrollmentStatusCancelled = "CANCELLED"
)

// Enrollment inscripción de un socio a un plan de cuotas.
// MonthlyAmount es una foto del monto al crear la inscripción: no cambia si la configuración cambia después.
type Enrollment struct {
	ID            string
	MemberID      string
	StartDate     time.Time
	PlanName      string // slug de EconomicConfig
	MonthlyAmount decimal.Decimal
	Status        string
	Notes         string
	CancelledAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive indica si la inscripción sigue generando cuotas.
func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}
