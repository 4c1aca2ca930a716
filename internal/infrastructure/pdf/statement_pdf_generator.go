// Package pdf genera el estado de cuenta de un socio.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Club                │  ESTADO DE CUENTA + Fecha    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SOCIO: Nombre + Documento + Estado                         │
//	│  RESUMEN: Pendiente | Vencido | Pagado | Congelado | Total  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Vencimiento | Plan | Monto | Estado | Pagada el     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: próximo vencimiento + recargo estimado             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
)

var _ billing.StatementPDFGenerator = (*StatementPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// Etiquetas de estado de cuota.
var statusLabels = map[string]string{
	"PENDING": "Pendiente",
	"OVERDUE": "Vencida",
	"PAID":    "Pagada",
	"FROZEN":  "Congelada",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// StatementPDFGenerator implementa billing.StatementPDFGenerator usando Maroto v2.
type StatementPDFGenerator struct {
	printer *message.Printer
}

// NewStatementPDFGenerator construye el generador. Los importes se formatean según lang (ej. "es-AR").
func NewStatementPDFGenerator(lang string) *StatementPDFGenerator {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Spanish
	}
	return &StatementPDFGenerator{printer: message.NewPrinter(tag)}
}

// GenerateStatementPDF genera el PDF y devuelve sus bytes.
func (g *StatementPDFGenerator) GenerateStatementPDF(_ context.Context, data *dto.StatementData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("pdf: datos vacíos")
	}
	money, err := g.moneyFormatter(data.Snapshot.CurrencyCode)
	if err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de cuenta", true).
		WithAuthor(data.ClubName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(memberRow(data.Member))
	m.AddRows(summaryRows(data.Snapshot, money)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(dueRows(data.Dues, money)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(data.Snapshot, money)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// moneyFormatter valida el código ISO 4217 y devuelve el formateador localizado, ej: "ARS 1.500,00".
func (g *StatementPDFGenerator) moneyFormatter(code string) (func(decimal.Decimal) string, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("pdf: moneda %q: %w", code, err)
	}
	return func(d decimal.Decimal) string {
		return g.printer.Sprintf("%s %.2f", unit.String(), d.Round(2).InexactFloat64())
	}, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del club (izq) y título + fecha de emisión (der).
func headerRow(data *dto.StatementData) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(data.ClubName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("ESTADO DE CUENTA", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+data.GeneratedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func memberRow(m dto.MemberResponse) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("SOCIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(m.FullName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Documento: %s   |   Estado: %s   |   Email: %s",
				m.DocumentNumber, m.Status, nonEmpty(m.Email, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// summaryRows: totales por estado derivado.
func summaryRows(s dto.SnapshotResponse, money func(decimal.Decimal) string) []core.Row {
	cell := func(label, value string, c *props.Color) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: c, Top: 5}),
		)
	}
	return []core.Row{
		row.New(12).Add(
			cell(fmt.Sprintf("PENDIENTE (%d)", s.Counts.Pending), money(s.Totals.Pending), nil),
			cell(fmt.Sprintf("VENCIDO (%d)", s.Counts.Overdue), money(s.Totals.Overdue), colorRed),
			cell(fmt.Sprintf("PAGADO (%d)", s.Counts.Paid), money(s.Totals.Paid), nil),
			cell(fmt.Sprintf("CONGELADO (%d)", s.Counts.Frozen), money(s.Totals.Frozen), colorGray),
			col.New(4).Add(
				text.New("TOTAL", props.Text{Style: fontstyle.Bold, Size: 7, Align: align.Right, Color: colorGray, Top: 1, Right: 1}),
				text.New(money(s.Totals.Total), props.Text{
					Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 5, Right: 1,
				}),
			),
		),
	}
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Vencimiento", 2, align.Left),
		h("Plan", 3, align.Left),
		h("Monto", 3, align.Right),
		h("Estado", 2, align.Center),
		h("Pagada el", 2, align.Center),
	)
}

// dueRows: una fila por cuota, en orden de vencimiento.
func dueRows(list []dto.DueResponse, money func(decimal.Decimal) string) []core.Row {
	result := make([]core.Row, 0, len(list))
	for _, d := range list {
		paidAt := "-"
		if d.PaidAt != nil {
			paidAt = d.PaidAt.Format("02/01/2006")
		}
		var statusColor *props.Color
		if d.Status == "OVERDUE" {
			statusColor = colorRed
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(d.DueDate, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(d.PlanName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(money(d.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(nonEmpty(statusLabels[d.Status], d.Status), props.Text{
				Size: 8, Align: align.Center, Top: 1, Color: statusColor,
			})),
			col.New(2).Add(text.New(paidAt, props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	if len(result) == 0 {
		result = append(result, row.New(8).Add(col.New(12).Add(
			text.New("El socio no tiene cuotas generadas.", props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 2}),
		)))
	}
	return result
}

func footerRows(s dto.SnapshotResponse, money func(decimal.Decimal) string) []core.Row {
	next := "sin cuotas impagas"
	if s.NextDueDate != nil {
		next = *s.NextDueDate
	}
	rows := []core.Row{
		row.New(5).Add(col.New(12).Add(
			text.New("Próximo vencimiento: "+next, props.Text{Size: 8, Top: 1}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Días de gracia: %d", s.GracePeriodDays), props.Text{Size: 8, Top: 1, Color: colorGray}),
		)),
	}
	if s.LateFees.IsPositive() {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Recargo estimado sobre lo vencido (no incluido en el total): "+money(s.LateFees), props.Text{
				Size: 8, Top: 1, Color: colorRed,
			}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
