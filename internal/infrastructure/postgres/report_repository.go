package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes y dashboard.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// MonthlyBilling agrupa por mes de vencimiento en [from, to).
// Impagas de inscripción cancelada cuentan como congeladas; el resto de las impagas como saldo.
func (r *ReportRepo) MonthlyBilling(ctx context.Context, from, to time.Time, planName string) ([]repository.MonthlyBillingRow, error) {
	const query = `
	SELECT
	    date_trunc('month', d.due_date)::date                                                 AS period,
	    COALESCE(SUM(d.amount), 0)                                                            AS billed,
	    COALESCE(SUM(d.amount) FILTER (WHERE d.status = 'PAID'), 0)                           AS paid,
	    COALESCE(SUM(d.amount) FILTER (WHERE d.status <> 'PAID'
	                                     AND e.status IS DISTINCT FROM 'CANCELLED'), 0)      AS outstanding,
	    COALESCE(SUM(d.amount) FILTER (WHERE d.status <> 'PAID' AND e.status = 'CANCELLED'), 0) AS frozen,
	    COUNT(*)                                                                              AS due_count,
	    COUNT(*) FILTER (WHERE d.status = 'PAID')                                             AS paid_count
	FROM dues d
	LEFT JOIN enrollments e ON e.id = d.enrollment_id
	WHERE d.due_date >= $1
	  AND d.due_date <  $2
	  AND ($3 = '' OR e.plan_name = $3)
	GROUP BY period
	ORDER BY period`

	rows, err := r.q.Query(ctx, query, from, to, planName)
	if err != nil {
		return nil, fmt.Errorf("reports.MonthlyBilling: %w", err)
	}
	defer rows.Close()

	var out []repository.MonthlyBillingRow
	for rows.Next() {
		var row repository.MonthlyBillingRow
		if err := rows.Scan(&row.Period, &row.Billed, &row.Paid, &row.Outstanding, &row.Frozen,
			&row.DueCount, &row.PaidCount); err != nil {
			return nil, fmt.Errorf("reports.MonthlyBilling scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// MonthlyCollections agrupa pagos por mes de cobro (UTC) en [from, to).
func (r *ReportRepo) MonthlyCollections(ctx context.Context, from, to time.Time, planName string) ([]repository.MonthlyCollectionRow, error) {
	const query = `
	SELECT
	    date_trunc('month', p.paid_at AT TIME ZONE 'UTC')::date AS period,
	    COALESCE(SUM(p.amount), 0)                            AS collected,
	    COUNT(*)                                              AS payment_count
	FROM payments p
	LEFT JOIN dues        d ON d.id = p.due_id
	LEFT JOIN enrollments e ON e.id = d.enrollment_id
	WHERE p.paid_at >= $1
	  AND p.paid_at <  $2
	  AND ($3 = '' OR e.plan_name = $3)
	GROUP BY period
	ORDER BY period`

	rows, err := r.q.Query(ctx, query, from, to, planName)
	if err != nil {
		return nil, fmt.Errorf("reports.MonthlyCollections: %w", err)
	}
	defer rows.Close()

	var out []repository.MonthlyCollectionRow
	for rows.Next() {
		var row repository.MonthlyCollectionRow
		if err := rows.Scan(&row.Period, &row.Collected, &row.PaymentCount); err != nil {
			return nil, fmt.Errorf("reports.MonthlyCollections scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CollectedBetween total cobrado con paid_at en [from, to).
func (r *ReportRepo) CollectedBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	var (
		total decimal.Decimal
		n     int
	)
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM payments
		WHERE paid_at >= $1 AND paid_at < $2`, from, to).Scan(&total, &n)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("reports.CollectedBetween: %w", err)
	}
	return total, n, nil
}
