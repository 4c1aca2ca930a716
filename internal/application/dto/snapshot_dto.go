package dto

import "github.com/shopspring/decimal"

// TotalsResponse montos por estado derivado.
type TotalsResponse struct {
	Pending decimal.Decimal `json:"pending"`
	Overdue decimal.Decimal `json:"overdue"`
	Paid    decimal.Decimal `json:"paid"`
	Frozen  decimal.Decimal `json:"frozen"`
	Total   decimal.Decimal `json:"total"`
}

// CountsResponse cantidad de cuotas por estado derivado.
type CountsResponse struct {
	Pending int `json:"pending"`
	Overdue int `json:"overdue"`
	Paid    int `json:"paid"`
	Frozen  int `json:"frozen"`
}

// SnapshotResponse situación financiera de un socio.
type SnapshotResponse struct {
	MemberID        string          `json:"member_id"`
	MemberStatus    string          `json:"member_status"`
	Totals          TotalsResponse  `json:"totals"`
	Counts          CountsResponse  `json:"counts"`
	NextDueDate     *string         `json:"next_due_date"`
	GracePeriodDays int             `json:"grace_period_days"`
	LateFees        decimal.Decimal `json:"late_fees"`
	CurrencyCode    string          `json:"currency_code"`
}
