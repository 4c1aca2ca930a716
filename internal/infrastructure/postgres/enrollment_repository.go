package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

var _ repository.EnrollmentRepository = (*EnrollmentRepo)(nil)

// EnrollmentRepo implementación de EnrollmentRepository (usable con pool o tx).
// El índice único parcial enrollments_one_active garantiza una sola inscripción ACTIVE por socio.
type EnrollmentRepo struct {
	q Querier
}

// NewEnrollmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEnrollmentRepository(q Querier) *EnrollmentRepo {
	return &EnrollmentRepo{q: q}
}

const enrollmentColumns = `id, member_id, start_date, plan_name, monthly_amount, status, notes, cancelled_at, created_at, updated_at`

func scanEnrollment(row pgx.Row) (*entity.Enrollment, error) {
	var e entity.Enrollment
	err := row.Scan(&e.ID, &e.MemberID, &e.StartDate, &e.PlanName, &e.MonthlyAmount, &e.Status, &e.Notes,
		&e.CancelledAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Enrollment, error) {
	e, err := scanEnrollment(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	return e, nil
}

func (r *EnrollmentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Enrollment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Create persiste una inscripción.
func (r *EnrollmentRepo) Create(ctx context.Context, e *entity.Enrollment) error {
	query := `
		INSERT INTO enrollments (` + enrollmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, e.ID, e.MemberID, e.StartDate, e.PlanName, e.MonthlyAmount, e.Status, e.Notes,
		e.CancelledAt, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el socio ya tiene una inscripción activa", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// GetByID obtiene una inscripción.
func (r *EnrollmentRepo) GetByID(ctx context.Context, id string) (*entity.Enrollment, error) {
	return r.getOne(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id)
}

// GetForUpdate obtiene y bloquea la inscripción hasta el fin de la transacción.
func (r *EnrollmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Enrollment, error) {
	return r.getOne(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1 FOR UPDATE`, id)
}

// GetActiveByMember inscripción ACTIVE del socio, o nil.
func (r *EnrollmentRepo) GetActiveByMember(ctx context.Context, memberID string) (*entity.Enrollment, error) {
	return r.getOne(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE member_id = $1 AND status = 'ACTIVE'`, memberID)
}

// ListByMember historial de inscripciones del socio, más antiguas primero.
func (r *EnrollmentRepo) ListByMember(ctx context.Context, memberID string) ([]*entity.Enrollment, error) {
	return r.list(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE member_id = $1 ORDER BY start_date, id`, memberID)
}

// ListActive inscripciones que siguen generando cuotas.
func (r *EnrollmentRepo) ListActive(ctx context.Context) ([]*entity.Enrollment, error) {
	return r.list(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE status = 'ACTIVE' ORDER BY start_date, id`)
}

// CountActive cantidad de inscripciones ACTIVE.
func (r *EnrollmentRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM enrollments WHERE status = 'ACTIVE'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active enrollments: %w", err)
	}
	return n, nil
}

// UpdateStatus cancela o reactiva. Reactivar con otra inscripción activa devuelve domain.ErrDuplicate.
func (r *EnrollmentRepo) UpdateStatus(ctx context.Context, id, status string, cancelledAt *time.Time, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE enrollments SET status = $2, cancelled_at = $3, updated_at = $4 WHERE id = $1`,
		id, status, cancelledAt, updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el socio ya tiene una inscripción activa", domain.ErrDuplicate)
		}
		return fmt.Errorf("update enrollment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
