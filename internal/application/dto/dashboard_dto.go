package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Los montos de cuotas usan el estado derivado al día de hoy. Se cachea con TTL corto.
type DashboardSummaryDTO struct {
	// Socios por estado de ciclo de vida
	MembersByStatus map[string]int `json:"members_by_status"`
	MembersTotal    int            `json:"members_total"`

	ActiveEnrollments int `json:"active_enrollments"`

	// Cuotas impagas (PENDING/OVERDUE) de inscripciones activas
	PendingDues    int             `json:"pending_dues"`
	PendingAmount  decimal.Decimal `json:"pending_amount"`
	OverdueDues    int             `json:"overdue_dues"`
	OverdueAmount  decimal.Decimal `json:"overdue_amount"`
	FrozenAmount   decimal.Decimal `json:"frozen_amount"`
	OverdueMembers int             `json:"overdue_members"` // socios con al menos una cuota vencida

	// Cobrado en el mes en curso
	MonthlyCollected decimal.Decimal `json:"monthly_collected"`
	MonthlyPayments  int             `json:"monthly_payments"`

	DateLabel   string    `json:"date_label"` // ej: "Febrero 2026"
	GeneratedAt time.Time `json:"generated_at"`
}
