package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una cuota.
const (
	DueStatusPending = "PENDING"
	DueStatusOverdue = "OVERDUE"
	DueStatusPaid    = "PAID"
	DueStatusFrozen  = "FROZEN"
)

// Due cuota de un período de facturación.
// MemberID está desnormalizado y debe ser siempre igual a Enrollment.MemberID.
// (EnrollmentID, DueDate) es único.
type Due struct {
	ID           string
	EnrollmentID string
	MemberID     string
	DueDate      time.Time // fecha de calendario (00:00 UTC)
	Amount       decimal.Decimal
	Status       string // caché del estado derivado
	PaidAt       *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsPaid una cuota pagada nunca vuelve a otro estado automáticamente.
func (d *Due) IsPaid() bool {
	return d.PaidAt != nil || d.Status == DueStatusPaid
}

// DueView cuota junto con los datos de su inscripción necesarios para derivar el estado.
// EnrollmentStatus vacío indica que la inscripción ya no existe.
type DueView struct {
	Due
	EnrollmentStatus   string
	EnrollmentMemberID string
	PlanName           string
}

// IsValidDueStatus valida un estado recibido como filtro.
func IsValidDueStatus(s string) bool {
	switch s {
	case DueStatusPending, DueStatusOverdue, DueStatusPaid, DueStatusFrozen:
		return true
	}
	return false
}
