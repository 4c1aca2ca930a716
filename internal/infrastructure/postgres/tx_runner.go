package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/domain"
)

var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run transacción serializable con repos atados a la tx; Commit si fn no falla, Rollback si no.
// Un conflicto de serialización se informa como domain.ErrInvalidState y no se reintenta.
func (r *TxRunner) Run(ctx context.Context, fn func(r billing.Repos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
}

// RunReadOnly transacción de solo lectura con una foto consistente de los datos.
func (r *TxRunner) RunReadOnly(ctx context.Context, fn func(r billing.Repos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(r billing.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: operación concurrente sobre las mismas cuotas: %v", domain.ErrInvalidState, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: operación concurrente sobre las mismas cuotas: %v", domain.ErrInvalidState, err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos repositorios sobre un pool o una tx.
func NewRepos(q Querier) billing.Repos {
	return billing.Repos{
		Configs:     NewEconomicConfigRepository(q),
		Enrollments: NewEnrollmentRepository(q),
		Dues:        NewDueRepository(q),
		Payments:    NewPaymentRepository(q),
		Members:     NewMemberRepository(q),
	}
}
