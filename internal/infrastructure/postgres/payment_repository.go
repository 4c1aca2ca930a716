package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, due_id, member_id, amount, method, reference, notes, paid_at, created_at`

// Create persiste el pago. payments.due_id es único: un segundo pago de la misma cuota es domain.ErrInvalidState.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, p.ID, p.DueID, p.MemberID, p.Amount, p.Method, p.Reference, p.Notes, p.PaidAt, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la cuota %s ya tiene un pago", domain.ErrInvalidState, p.DueID)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListByDue pagos de una cuota.
func (r *PaymentRepo) ListByDue(ctx context.Context, dueID string) ([]*entity.Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+` FROM payments WHERE due_id = $1 ORDER BY paid_at DESC, id`, dueID)
}

// ListByMember pagos del socio, más recientes primero.
func (r *PaymentRepo) ListByMember(ctx context.Context, memberID string, limit, offset int) ([]*entity.Payment, error) {
	return r.list(ctx, `SELECT `+paymentColumns+` FROM payments WHERE member_id = $1 ORDER BY paid_at DESC, id LIMIT $2 OFFSET $3`,
		memberID, limit, offset)
}

func (r *PaymentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.DueID, &p.MemberID, &p.Amount, &p.Method, &p.Reference, &p.Notes, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
