package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPlanSlug plan usado cuando una inscripción no indica uno.
const DefaultPlanSlug = "default"

// EconomicConfig parámetros económicos de un plan de cuotas.
// Las cuotas nuevas siempre leen la configuración vigente al momento de generarse.
type EconomicConfig struct {
	ID                string
	Slug              string
	CurrencyCode      string
	MonthlyAmount     decimal.Decimal
	DueDay            int // día del mes; en meses más cortos se usa el último día
	LateFeePercentage decimal.Decimal
	GracePeriodDays   int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
