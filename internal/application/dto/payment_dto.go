package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayDuesRequest pago dirigido: exactamente las cuotas indicadas, todo o nada.
type PayDuesRequest struct {
	DueIDs    []string   `json:"due_ids" validate:"required,min=1,dive,required"`
	PaidAt    *time.Time `json:"paid_at"`
	Method    string     `json:"method" validate:"omitempty,max=32"`
	Reference string     `json:"reference" validate:"omitempty,max=128"`
	Notes     string     `json:"notes" validate:"omitempty,max=500"`
}

// PaySequentialRequest pago secuencial: las cuotas adeudadas más antiguas primero.
// Se indica memberId o enrollmentId, y count o amount.
type PaySequentialRequest struct {
	MemberID     string           `json:"member_id" validate:"required_without=EnrollmentID,excluded_with=EnrollmentID"`
	EnrollmentID string           `json:"enrollment_id"`
	Count        int              `json:"count" validate:"omitempty,min=1"`
	Amount       *decimal.Decimal `json:"amount"`
	PaidAt       *time.Time       `json:"paid_at"`
	Method       string           `json:"method" validate:"omitempty,max=32"`
	Reference    string           `json:"reference" validate:"omitempty,max=128"`
	Notes        string           `json:"notes" validate:"omitempty,max=500"`
}

// RecordPaymentRequest pago de una única cuota. Si amount viene, debe coincidir con el monto de la cuota.
type RecordPaymentRequest struct {
	DueID     string           `json:"due_id" validate:"required"`
	PaidAt    *time.Time       `json:"paid_at"`
	Amount    *decimal.Decimal `json:"amount"`
	Method    string           `json:"method" validate:"omitempty,max=32"`
	Reference string           `json:"reference" validate:"omitempty,max=128"`
	Notes     string           `json:"notes" validate:"omitempty,max=500"`
}

// PaymentResponse pago registrado.
type PaymentResponse struct {
	ID        string          `json:"id"`
	DueID     string          `json:"due_id"`
	MemberID  string          `json:"member_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	PaidAt    time.Time       `json:"paid_at"`
}

// PaymentBatchResponse cuotas pagadas en una operación, en orden de vencimiento.
type PaymentBatchResponse struct {
	MemberID     string            `json:"member_id"`
	MemberStatus string            `json:"member_status"`
	Dues         []DueResponse     `json:"dues"`
	Payments     []PaymentResponse `json:"payments"`
	Total        decimal.Decimal   `json:"total"`
	// Unapplied parte del monto pedido que no alcanzó para otra cuota completa (solo pago por monto).
	Unapplied decimal.Decimal `json:"unapplied"`
}

// RecordPaymentResponse cuota pagada y su pago.
type RecordPaymentResponse struct {
	Due          DueResponse     `json:"due"`
	Payment      PaymentResponse `json:"payment"`
	MemberStatus string          `json:"member_status"`
}

// PaymentListResponse pagos de un socio, más recientes primero.
type PaymentListResponse struct {
	Items   []PaymentResponse `json:"items"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}
