package analytics

import (
	"context"
	"time"

	"github.com/jhoicas/club-cuotas-api/internal/domain/dues"
)

// Cache caché de resultados con TTL. Se invalida solo por tiempo.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// ClubSnapshotter totales de cuotas impagas del club con el estado derivado al día de hoy.
type ClubSnapshotter interface {
	ClubSnapshot(ctx context.Context) (dues.Snapshot, int, error)
}

// getOrSet lee la clave del caché o ejecuta fn y guarda el resultado. Sin caché siempre ejecuta fn.
// Los errores del caché no fallan la operación.
func getOrSet[T any](ctx context.Context, c Cache, key string, expiration time.Duration, fn func() (T, error)) (T, error) {
	var result T
	if c == nil || expiration <= 0 {
		return fn()
	}
	if err := c.Get(ctx, key, &result); err == nil {
		return result, nil
	}
	result, err := fn()
	if err != nil {
		return result, err
	}
	_ = c.Set(ctx, key, result, expiration)
	return result, nil
}
