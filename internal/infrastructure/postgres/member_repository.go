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

var _ repository.MemberRepository = (*MemberRepo)(nil)

// MemberRepo implementación de MemberRepository (usable con pool o tx).
type MemberRepo struct {
	q Querier
}

// NewMemberRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMemberRepository(q Querier) *MemberRepo {
	return &MemberRepo{q: q}
}

const memberColumns = `id, COALESCE(user_id, ''), document_number, first_name, last_name, email, phone, status, lifetime_since, created_at, updated_at`

func scanMember(row pgx.Row) (*entity.Member, error) {
	var m entity.Member
	err := row.Scan(&m.ID, &m.UserID, &m.DocumentNumber, &m.FirstName, &m.LastName, &m.Email, &m.Phone, &m.Status,
		&m.LifetimeSince, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste un nuevo socio.
func (r *MemberRepo) Create(ctx context.Context, m *entity.Member) error {
	query := `
		INSERT INTO members (id, user_id, document_number, first_name, last_name, email, phone, status, lifetime_since, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query, m.ID, m.UserID, m.DocumentNumber, m.FirstName, m.LastName, m.Email, m.Phone,
		m.Status, m.LifetimeSince, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: documento %s ya registrado", domain.ErrDuplicate, m.DocumentNumber)
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// GetByID obtiene un socio por ID.
func (r *MemberRepo) GetByID(ctx context.Context, id string) (*entity.Member, error) {
	m, err := scanMember(r.q.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// List socios paginados por fecha de alta; status vacío no filtra. Devuelve también el total.
func (r *MemberRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Member, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM members WHERE ($1 = '' OR status = $1)`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}
	query := `
		SELECT ` + memberColumns + ` FROM members
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()
	var list []*entity.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan member: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

// UpdateStatus guarda el estado derivado del socio.
func (r *MemberRepo) UpdateStatus(ctx context.Context, id, status string, lifetimeSince *time.Time, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE members SET status = $2, lifetime_since = $3, updated_at = $4 WHERE id = $1`,
		id, status, lifetimeSince, updatedAt)
	if err != nil {
		return fmt.Errorf("update member status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByStatus socios por estado.
func (r *MemberRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM members GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count members by status: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan member count: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}
