package repository

import (
	"context"
	"time"

	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
)

// MemberRepository define el puerto de persistencia para socios.
type MemberRepository interface {
	// Create devuelve domain.ErrDuplicate si el número de documento ya existe.
	Create(ctx context.Context, member *entity.Member) error
	GetByID(ctx context.Context, id string) (*entity.Member, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Member, int, error)
	UpdateStatus(ctx context.Context, id, status string, lifetimeSince *time.Time, updatedAt time.Time) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}
