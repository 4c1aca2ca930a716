package repository

import (
	"context"
	"time"

	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
)

// DueQuery filtros de lectura de cuotas. Los campos vacíos no filtran.
type DueQuery struct {
	MemberID     string
	EnrollmentID string
	PlanName     string
	DateFrom     *time.Time
	DateTo       *time.Time
	OnlyUnpaid   bool
}

// Tipos de problema detectados por el chequeo de integridad.
const (
	IssueMissingEnrollment = "MISSING_ENROLLMENT"
	IssueMissingMember     = "MISSING_MEMBER"
	IssueMemberMismatch    = "MEMBER_MISMATCH"
)

// IntegrityIssue cuota huérfana o con MemberID distinto al de su inscripción.
type IntegrityIssue struct {
	Kind               string
	DueID              string
	EnrollmentID       string
	DueMemberID        string
	EnrollmentMemberID string
	// HasPayment la cuota tiene un pago registrado; no se borra aunque sea huérfana.
	HasPayment bool
}

// DueRepository define el puerto de persistencia para cuotas.
// Todos los listados se ordenan por due_date ASC, id ASC.
type DueRepository interface {
	// CreateIfAbsent inserta la cuota salvo que ya exista otra con (enrollment_id, due_date). Devuelve si la creó.
	CreateIfAbsent(ctx context.Context, due *entity.Due) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.DueView, error)
	List(ctx context.Context, q DueQuery) ([]*entity.DueView, error)
	// ListForUpdate igual que List pero bloquea las filas de cuotas (SELECT ... FOR UPDATE).
	ListForUpdate(ctx context.Context, q DueQuery) ([]*entity.DueView, error)
	// GetManyForUpdate bloquea las cuotas indicadas; las inexistentes simplemente no aparecen.
	GetManyForUpdate(ctx context.Context, ids []string) ([]*entity.DueView, error)
	// MarkPaid actualización condicional (WHERE status <> 'PAID'); devuelve domain.ErrInvalidState si no afectó filas.
	MarkPaid(ctx context.Context, id string, paidAt, updatedAt time.Time) error
	// UpdateStatus reescribe el estado en caché; nunca toca cuotas pagadas.
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	CountPaidByMember(ctx context.Context, memberID string) (int, error)
	ListIntegrityIssues(ctx context.Context) ([]IntegrityIssue, error)
	Delete(ctx context.Context, id string) error
}
