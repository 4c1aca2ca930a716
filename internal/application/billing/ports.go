package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
	"github.com/jhoicas/club-cuotas-api/pkg/logger"
)

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Configs     repository.EconomicConfigRepository
	Enrollments repository.EnrollmentRepository
	Dues        repository.DueRepository
	Payments    repository.PaymentRepository
	Members     repository.MemberRepository
}

// TxRunner ejecuta una función dentro de una transacción con los repositorios atados a ella.
// Si fn retorna error se hace rollback y el error se propaga sin cambios.
type TxRunner interface {
	// Run transacción serializable de escritura. Un conflicto de serialización se reporta como domain.ErrInvalidState.
	Run(ctx context.Context, fn func(r Repos) error) error
	// RunReadOnly transacción de solo lectura con una única foto de los datos (agregaciones sin lecturas mezcladas).
	RunReadOnly(ctx context.Context, fn func(r Repos) error) error
}

// Clock fuente de la hora actual; los tests fijan "hoy".
type Clock func() time.Time

// StatementPDFGenerator genera el estado de cuenta en PDF de un socio.
type StatementPDFGenerator interface {
	GenerateStatementPDF(ctx context.Context, data *dto.StatementData) ([]byte, error)
}

// Settings parámetros del motor de cuotas.
type Settings struct {
	ClubName          string
	DefaultPlan       string
	CurrencyCode      string
	MonthlyAmount     decimal.Decimal
	DueDay            int
	GracePeriodDays   int
	LateFeePercentage decimal.Decimal
	// LifetimeThreshold cuotas pagadas necesarias para VITALICIO; <= 0 lo desactiva.
	LifetimeThreshold int
	Location          *time.Location
}

// Engine dependencias compartidas por los casos de uso de cuotas.
type Engine struct {
	tx       TxRunner
	settings Settings
	now      Clock
	log      *logger.Logger
}

// NewEngine construye el núcleo compartido. Con now nil se usa time.Now.
func NewEngine(tx TxRunner, settings Settings, now Clock, log *logger.Logger) *Engine {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.DefaultPlan == "" {
		settings.DefaultPlan = entity.DefaultPlanSlug
	}
	return &Engine{tx: tx, settings: settings, now: now, log: log.Component("billing")}
}

// Now hora actual en la zona del club.
func (e *Engine) Now() time.Time {
	return e.now().In(e.settings.Location)
}

// Settings parámetros con los que se construyó el motor.
func (e *Engine) Settings() Settings {
	return e.settings
}
