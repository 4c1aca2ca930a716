package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago conocidos; se acepta cualquier texto.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCard     = "card"
)

// Payment registra el pago completo de una cuota (no hay pagos parciales).
type Payment struct {
	ID        string
	DueID     string
	MemberID  string
	Amount    decimal.Decimal
	Method    string
	Reference string
	Notes     string
	PaidAt    time.Time
	CreatedAt time.Time
}
