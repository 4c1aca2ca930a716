package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyBillingRow cuotas agrupadas por mes de vencimiento.
type MonthlyBillingRow struct {
	Period      time.Time // primer día del mes
	Billed      decimal.Decimal
	Paid        decimal.Decimal
	Outstanding decimal.Decimal // impagas de inscripciones activas
	Frozen      decimal.Decimal // impagas de inscripciones canceladas
	DueCount    int
	PaidCount   int
}

// MonthlyCollectionRow pagos agrupados por mes de cobro.
type MonthlyCollectionRow struct {
	Period       time.Time
	Collected    decimal.Decimal
	PaymentCount int
}

//go:generate mockgen -source=report_repository.go -destination=mocks/mock_report_repository.go -package=mocks

// ReportRepository consultas de solo lectura para reportes y dashboard.
type ReportRepository interface {
	MonthlyBilling(ctx context.Context, from, to time.Time, planName string) ([]MonthlyBillingRow, error)
	MonthlyCollections(ctx context.Context, from, to time.Time, planName string) ([]MonthlyCollectionRow, error)
	// CollectedBetween suma de pagos con paid_at en [from, to).
	CollectedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error)
}
