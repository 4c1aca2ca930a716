package repository

import (
	"context"
	"time"

	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
)

// EnrollmentRepository define el puerto de persistencia para inscripciones.
type EnrollmentRepository interface {
	// Create devuelve domain.ErrDuplicate si el socio ya tiene una inscripción ACTIVE.
	Create(ctx context.Context, enrollment *entity.Enrollment) error
	GetByID(ctx context.Context, id string) (*entity.Enrollment, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Enrollment, error)
	GetActiveByMember(ctx context.Context, memberID string) (*entity.Enrollment, error)
	ListByMember(ctx context.Context, memberID string) ([]*entity.Enrollment, error)
	ListActive(ctx context.Context) ([]*entity.Enrollment, error)
	CountActive(ctx context.Context) (int, error)
	UpdateStatus(ctx context.Context, id, status string, cancelledAt *time.Time, updatedAt time.Time) error
}
