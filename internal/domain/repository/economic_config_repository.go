package repository

import (
	"context"

	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
)

// EconomicConfigRepository define el puerto de persistencia para la configuración económica por plan.
type EconomicConfigRepository interface {
	// GetBySlug devuelve (nil, nil) si no existe.
	GetBySlug(ctx context.Context, slug string) (*entity.EconomicConfig, error)
	// CreateIfAbsent inserta la configuración si el slug no existe; no falla si otro proceso la creó antes.
	CreateIfAbsent(ctx context.Context, cfg *entity.EconomicConfig) error
	Update(ctx context.Context, cfg *entity.EconomicConfig) error
	List(ctx context.Context) ([]*entity.EconomicConfig, error)
}
