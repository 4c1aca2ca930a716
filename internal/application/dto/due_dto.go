package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListDuesRequest filtros del listado de cuotas. El estado se compara contra el estado derivado.
type ListDuesRequest struct {
	Status       string `query:"status" validate:"omitempty,oneof=PENDING OVERDUE PAID FROZEN"`
	MemberID     string `query:"member_id" validate:"omitempty,max=64"`
	EnrollmentID string `query:"enrollment_id" validate:"omitempty,max=64"`
	DateFrom     string `query:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo       string `query:"date_to" validate:"omitempty,datetime=2006-01-02"`
	Page         int    `query:"page" validate:"omitempty,min=1,max=1000000"`
	PerPage      int    `query:"per_page" validate:"omitempty,min=1,max=100"`
}

// DueResponse cuota con su estado derivado al día de hoy.
type DueResponse struct {
	ID               string          `json:"id"`
	EnrollmentID     string          `json:"enrollment_id"`
	MemberID         string          `json:"member_id"`
	PlanName         string          `json:"plan_name"`
	DueDate          string          `json:"due_date"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	EnrollmentStatus string          `json:"enrollment_status"`
}

// DueListResponse página de cuotas.
type DueListResponse struct {
	Items []DueResponse `json:"items"`
	PageResponse
}

// RecomputeStatusesResponse resultado de resincronizar el estado guardado de las cuotas.
type RecomputeStatusesResponse struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
}

// GenerationResult cuotas creadas para una inscripción.
type GenerationResult struct {
	EnrollmentID string `json:"enrollment_id"`
	Created      int    `json:"created"`
	Existing     int    `json:"existing"`
}

// GenerateAllResponse resultado de generar cuotas para todas las inscripciones activas.
type GenerateAllResponse struct {
	Enrollments int                `json:"enrollments"`
	Created     int                `json:"created"`
	Results     []GenerationResult `json:"results"`
}
