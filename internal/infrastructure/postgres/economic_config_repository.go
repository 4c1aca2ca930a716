package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

var _ repository.EconomicConfigRepository = (*EconomicConfigRepo)(nil)

// EconomicConfigRepo implementación de EconomicConfigRepository (usable con pool o tx).
type EconomicConfigRepo struct {
	q Querier
}

// NewEconomicConfigRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEconomicConfigRepository(q Querier) *EconomicConfigRepo {
	return &EconomicConfigRepo{q: q}
}

const configColumns = `id, slug, currency_code, monthly_amount, due_day, late_fee_percentage, grace_period_days, created_at, updated_at`

func scanConfig(row pgx.Row) (*entity.EconomicConfig, error) {
	var c entity.EconomicConfig
	err := row.Scan(&c.ID, &c.Slug, &c.CurrencyCode, &c.MonthlyAmount, &c.DueDay, &c.LateFeePercentage,
		&c.GracePeriodDays, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetBySlug devuelve (nil, nil) si no existe.
func (r *EconomicConfigRepo) GetBySlug(ctx context.Context, slug string) (*entity.EconomicConfig, error) {
	c, err := scanConfig(r.q.QueryRow(ctx, `SELECT `+configColumns+` FROM economic_configs WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get economic config: %w", err)
	}
	return c, nil
}

// CreateIfAbsent inserta la configuración; si el slug ya existe no hace nada.
func (r *EconomicConfigRepo) CreateIfAbsent(ctx context.Context, c *entity.EconomicConfig) error {
	query := `
		INSERT INTO economic_configs (` + configColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (slug) DO NOTHING`
	_, err := r.q.Exec(ctx, query, c.ID, c.Slug, c.CurrencyCode, c.MonthlyAmount, c.DueDay, c.LateFeePercentage,
		c.GracePeriodDays, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert economic config: %w", err)
	}
	return nil
}

// Update reemplaza los parámetros del plan.
func (r *EconomicConfigRepo) Update(ctx context.Context, c *entity.EconomicConfig) error {
	query := `
		UPDATE economic_configs
		SET currency_code = $2, monthly_amount = $3, due_day = $4, late_fee_percentage = $5,
		    grace_period_days = $6, updated_at = $7
		WHERE slug = $1`
	tag, err := r.q.Exec(ctx, query, c.Slug, c.CurrencyCode, c.MonthlyAmount, c.DueDay, c.LateFeePercentage,
		c.GracePeriodDays, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update economic config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List todas las configuraciones ordenadas por slug.
func (r *EconomicConfigRepo) List(ctx context.Context) ([]*entity.EconomicConfig, error) {
	rows, err := r.q.Query(ctx, `SELECT `+configColumns+` FROM economic_configs ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list economic configs: %w", err)
	}
	defer rows.Close()
	var list []*entity.EconomicConfig
	for rows.Next() {
		c, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan economic config: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
