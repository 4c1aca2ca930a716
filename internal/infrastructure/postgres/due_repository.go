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

var _ repository.DueRepository = (*DueRepo)(nil)

// DueRepo implementación de DueRepository (usable con pool o tx).
// Las lecturas traen la inscripción con LEFT JOIN: una cuota huérfana aparece con EnrollmentStatus vacío.
type DueRepo struct {
	q Querier
}

// NewDueRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDueRepository(q Querier) *DueRepo {
	return &DueRepo{q: q}
}

const dueViewSelect = `
	SELECT d.id, d.enrollment_id, d.member_id, d.due_date, d.amount, d.status, d.paid_at, d.created_at, d.updated_at,
	       COALESCE(e.status, ''), COALESCE(e.member_id, ''), COALESCE(e.plan_name, '')
	FROM dues d
	LEFT JOIN enrollments e ON e.id = d.enrollment_id`

const dueOrder = ` ORDER BY d.due_date, d.id`

func scanDueView(row pgx.Row) (*entity.DueView, error) {
	var v entity.DueView
	err := row.Scan(&v.ID, &v.EnrollmentID, &v.MemberID, &v.DueDate, &v.Amount, &v.Status, &v.PaidAt,
		&v.CreatedAt, &v.UpdatedAt, &v.EnrollmentStatus, &v.EnrollmentMemberID, &v.PlanName)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *DueRepo) listViews(ctx context.Context, query string, args ...any) ([]*entity.DueView, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list dues: %w", err)
	}
	defer rows.Close()
	var list []*entity.DueView
	for rows.Next() {
		v, err := scanDueView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan due: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// filter traduce DueQuery a condiciones con parámetros posicionales.
func filter(q repository.DueQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if q.MemberID != "" {
		add("d.member_id = $%d", q.MemberID)
	}
	if q.EnrollmentID != "" {
		add("d.enrollment_id = $%d", q.EnrollmentID)
	}
	if q.PlanName != "" {
		add("e.plan_name = $%d", q.PlanName)
	}
	if q.DateFrom != nil {
		add("d.due_date >= $%d", *q.DateFrom)
	}
	if q.DateTo != nil {
		add("d.due_date <= $%d", *q.DateTo)
	}
	if q.OnlyUnpaid {
		conds = append(conds, "d.status <> 'PAID'")
	}
	return where(conds), args
}

// CreateIfAbsent inserta la cuota; el unique (enrollment_id, due_date) evita duplicar el período.
func (r *DueRepo) CreateIfAbsent(ctx context.Context, d *entity.Due) (bool, error) {
	query := `
		INSERT INTO dues (id, enrollment_id, member_id, due_date, amount, status, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (enrollment_id, due_date) DO NOTHING`
	tag, err := r.q.Exec(ctx, query, d.ID, d.EnrollmentID, d.MemberID, d.DueDate, d.Amount, d.Status, d.PaidAt,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("insert due: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID obtiene una cuota con su inscripción, o nil.
func (r *DueRepo) GetByID(ctx context.Context, id string) (*entity.DueView, error) {
	v, err := scanDueView(r.q.QueryRow(ctx, dueViewSelect+` WHERE d.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get due: %w", err)
	}
	return v, nil
}

// List cuotas filtradas, ordenadas por vencimiento.
func (r *DueRepo) List(ctx context.Context, q repository.DueQuery) ([]*entity.DueView, error) {
	w, args := filter(q)
	return r.listViews(ctx, dueViewSelect+w+dueOrder, args...)
}

// ListForUpdate igual que List bloqueando solo las filas de dues.
func (r *DueRepo) ListForUpdate(ctx context.Context, q repository.DueQuery) ([]*entity.DueView, error) {
	w, args := filter(q)
	return r.listViews(ctx, dueViewSelect+w+dueOrder+` FOR UPDATE OF d`, args...)
}

// GetManyForUpdate bloquea las cuotas indicadas en orden de vencimiento; ids repetidos se ignoran.
func (r *DueRepo) GetManyForUpdate(ctx context.Context, ids []string) ([]*entity.DueView, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.listViews(ctx, dueViewSelect+` WHERE d.id = ANY($1)`+dueOrder+` FOR UPDATE OF d`, ids)
}

// MarkPaid solo afecta cuotas impagas: si otra transacción la pagó antes devuelve domain.ErrInvalidState.
func (r *DueRepo) MarkPaid(ctx context.Context, id string, paidAt, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE dues SET status = 'PAID', paid_at = $2, updated_at = $3
		WHERE id = $1 AND status <> 'PAID'`, id, paidAt, updatedAt)
	if err != nil {
		return fmt.Errorf("mark due paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: la cuota %s ya no está impaga", domain.ErrInvalidState, id)
	}
	return nil
}

// UpdateStatus reescribe el estado en caché de una cuota impaga.
func (r *DueRepo) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	if status == entity.DueStatusPaid {
		return fmt.Errorf("%w: el estado PAID solo se asigna al registrar un pago", domain.ErrInvalidState)
	}
	_, err := r.q.Exec(ctx, `UPDATE dues SET status = $2, updated_at = $3 WHERE id = $1 AND status <> 'PAID'`,
		id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update due status: %w", err)
	}
	return nil
}

// CountPaidByMember cuotas pagadas del socio en toda su historia.
func (r *DueRepo) CountPaidByMember(ctx context.Context, memberID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM dues WHERE member_id = $1 AND status = 'PAID'`, memberID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count paid dues: %w", err)
	}
	return n, nil
}

// ListIntegrityIssues cuotas sin inscripción, sin socio o con socio distinto al de la inscripción.
func (r *DueRepo) ListIntegrityIssues(ctx context.Context) ([]repository.IntegrityIssue, error) {
	const query = `
	SELECT d.id, d.enrollment_id, d.member_id,
	       e.id IS NULL            AS missing_enrollment,
	       m.id IS NULL            AS missing_member,
	       COALESCE(e.member_id, '') AS enrollment_member_id,
	       EXISTS (SELECT 1 FROM payments p WHERE p.due_id = d.id) AS has_payment
	FROM dues d
	LEFT JOIN enrollments e ON e.id = d.enrollment_id
	LEFT JOIN members     m ON m.id = d.member_id
	WHERE e.id IS NULL OR m.id IS NULL OR e.member_id <> d.member_id
	ORDER BY d.id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("dues integrity: %w", err)
	}
	defer rows.Close()

	var out []repository.IntegrityIssue
	for rows.Next() {
		var (
			is                            repository.IntegrityIssue
			missingEnrollment, missingMem bool
		)
		if err := rows.Scan(&is.DueID, &is.EnrollmentID, &is.DueMemberID, &missingEnrollment, &missingMem,
			&is.EnrollmentMemberID, &is.HasPayment); err != nil {
			return nil, fmt.Errorf("scan integrity issue: %w", err)
		}
		switch {
		case missingEnrollment:
			is.Kind = repository.IssueMissingEnrollment
		case missingMem:
			is.Kind = repository.IssueMissingMember
		default:
			is.Kind = repository.IssueMemberMismatch
		}
		out = append(out, is)
	}
	return out, rows.Err()
}

// Delete elimina una cuota por ID.
func (r *DueRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM dues WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete due: %w", err)
	}
	return nil
}
