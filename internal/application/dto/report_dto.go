package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollectionsReportRequest filtros del reporte de cobranza. El resultado se cachea por la combinación exacta.
type CollectionsReportRequest struct {
	DateFrom string `query:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo   string `query:"date_to" validate:"required,datetime=2006-01-02"`
	PlanName string `query:"plan_name" validate:"omitempty,max=64"`
}

// CollectionsRowDTO fila mensual: facturado por vencimiento y cobrado por fecha de pago.
type CollectionsRowDTO struct {
	Period      string          `json:"period"` // YYYY-MM
	Label       string          `json:"label"`  // ej: "Marzo 2024"
	Billed      decimal.Decimal `json:"billed"`
	Collected   decimal.Decimal `json:"collected"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Frozen      decimal.Decimal `json:"frozen"`
	DueCount    int             `json:"due_count"`
	PaidCount   int             `json:"paid_count"`
	Payments    int             `json:"payments"`
}

// CollectionsReportDTO reporte completo con totales del rango.
type CollectionsReportDTO struct {
	DateFrom    string              `json:"date_from"`
	DateTo      string              `json:"date_to"`
	PlanName    string              `json:"plan_name,omitempty"`
	Rows        []CollectionsRowDTO `json:"rows"`
	Billed      decimal.Decimal     `json:"billed"`
	Collected   decimal.Decimal     `json:"collected"`
	Outstanding decimal.Decimal     `json:"outstanding"`
	GeneratedAt time.Time           `json:"generated_at"`
}
