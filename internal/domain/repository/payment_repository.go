package repository

import (
	"context"

	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para pagos.
type PaymentRepository interface {
	// Create devuelve domain.ErrInvalidState si la cuota ya tiene un pago (unique due_id).
	Create(ctx context.Context, payment *entity.Payment) error
	ListByDue(ctx context.Context, dueID string) ([]*entity.Payment, error)
	ListByMember(ctx context.Context, memberID string, limit, offset int) ([]*entity.Payment, error)
}
