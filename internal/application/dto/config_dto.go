package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EconomicConfigResponse configuración económica de un plan.
type EconomicConfigResponse struct {
	Slug              string          `json:"slug"`
	CurrencyCode      string          `json:"currency_code"`
	MonthlyAmount     decimal.Decimal `json:"monthly_amount"`
	DueDay            int             `json:"due_day"`
	GracePeriodDays   int             `json:"grace_period_days"`
	LateFeePercentage decimal.Decimal `json:"late_fee_percentage"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// UpdateEconomicConfigRequest actualización parcial; los campos omitidos no cambian.
type UpdateEconomicConfigRequest struct {
	CurrencyCode      *string          `json:"currency_code" validate:"omitempty,len=3,alpha"`
	MonthlyAmount     *decimal.Decimal `json:"monthly_amount"`
	DueDay            *int             `json:"due_day" validate:"omitempty,min=1,max=31"`
	GracePeriodDays   *int             `json:"grace_period_days" validate:"omitempty,min=0"`
	LateFeePercentage *decimal.Decimal `json:"late_fee_percentage"`
}
