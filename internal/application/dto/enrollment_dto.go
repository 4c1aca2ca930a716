package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateEnrollmentRequest alta de inscripción. Sin monthlyAmount se toma el monto vigente del plan.
type CreateEnrollmentRequest struct {
	MemberID      string           `json:"member_id" validate:"required"`
	StartDate     string           `json:"start_date" validate:"required,datetime=2006-01-02"`
	PlanName      string           `json:"plan_name" validate:"omitempty,max=64"`
	MonthlyAmount *decimal.Decimal `json:"monthly_amount"`
	Notes         string           `json:"notes" validate:"omitempty,max=500"`
}

// EnrollmentResponse inscripción.
type EnrollmentResponse struct {
	ID            string          `json:"id"`
	MemberID      string          `json:"member_id"`
	StartDate     string          `json:"start_date"`
	PlanName      string          `json:"plan_name"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	// GeneratedDues cuotas creadas por la operación (alta o reactivación).
	GeneratedDues int    `json:"generated_dues"`
	MemberStatus  string `json:"member_status,omitempty"`
}
