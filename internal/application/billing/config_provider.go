package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/dues"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

// ConfigProvider entrega la configuración económica de cada plan.
// La primera lectura de un slug inexistente materializa la configuración por defecto.
type ConfigProvider struct {
	engine *Engine
	repo   repository.EconomicConfigRepository
}

// NewConfigProvider construye el caso de uso.
func NewConfigProvider(engine *Engine, repo repository.EconomicConfigRepository) *ConfigProvider {
	return &ConfigProvider{engine: engine, repo: repo}
}

// Get devuelve la configuración del plan, creándola con los valores por defecto si no existe.
func (p *ConfigProvider) Get(ctx context.Context, slug string) (*dto.EconomicConfigResponse, error) {
	cfg, err := p.engine.loadConfig(ctx, p.repo, slug)
	if err != nil {
		return nil, err
	}
	out := toConfigResponse(cfg)
	return &out, nil
}

// List devuelve todas las configuraciones persistidas.
func (p *ConfigProvider) List(ctx context.Context) ([]dto.EconomicConfigResponse, error) {
	list, err := p.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar configuraciones: %w", err)
	}
	out := make([]dto.EconomicConfigResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toConfigResponse(c))
	}
	return out, nil
}

// Update aplica una actualización parcial. Las cuotas ya generadas no cambian; las nuevas leen la configuración vigente.
func (p *ConfigProvider) Update(ctx context.Context, slug string, in dto.UpdateEconomicConfigRequest) (*dto.EconomicConfigResponse, error) {
	cfg, err := p.engine.loadConfig(ctx, p.repo, slug)
	if err != nil {
		return nil, err
	}
	if in.CurrencyCode != nil {
		cfg.CurrencyCode = strings.ToUpper(strings.TrimSpace(*in.CurrencyCode))
	}
	if in.MonthlyAmount != nil {
		cfg.MonthlyAmount = *in.MonthlyAmount
	}
	if in.DueDay != nil {
		cfg.DueDay = *in.DueDay
	}
	if in.GracePeriodDays != nil {
		cfg.GracePeriodDays = *in.GracePeriodDays
	}
	if in.LateFeePercentage != nil {
		cfg.LateFeePercentage = *in.LateFeePercentage
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	cfg.UpdatedAt = p.engine.Now()
	if err := p.repo.Update(ctx, cfg); err != nil {
		return nil, fmt.Errorf("actualizar configuración %s: %w", cfg.Slug, err)
	}
	out := toConfigResponse(cfg)
	return &out, nil
}

// loadConfig lee la configuración del slug y la materializa si falta.
// Si dos procesos la crean a la vez, CreateIfAbsent no falla y se relee la que quedó.
func (e *Engine) loadConfig(ctx context.Context, repo repository.EconomicConfigRepository, slug string) (*entity.EconomicConfig, error) {
	slug = e.planSlug(slug)
	cfg, err := repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("obtener configuración %s: %w", slug, err)
	}
	if cfg != nil {
		return cfg, nil
	}
	if err := repo.CreateIfAbsent(ctx, e.defaultConfig(slug)); err != nil {
		return nil, fmt.Errorf("crear configuración %s: %w", slug, err)
	}
	cfg, err = repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("obtener configuración %s: %w", slug, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuración %s no materializada", domain.ErrIntegrity, slug)
	}
	return cfg, nil
}

func (e *Engine) planSlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return e.settings.DefaultPlan
	}
	return slug
}

func (e *Engine) defaultConfig(slug string) *entity.EconomicConfig {
	now := e.Now()
	return &entity.EconomicConfig{
		ID:                uuid.New().String(),
		Slug:              slug,
		CurrencyCode:      e.settings.CurrencyCode,
		MonthlyAmount:     e.settings.MonthlyAmount,
		DueDay:            e.settings.DueDay,
		LateFeePercentage: e.settings.LateFeePercentage,
		GracePeriodDays:   e.settings.GracePeriodDays,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

var hundred = decimal.NewFromInt(100)

func validateConfig(cfg *entity.EconomicConfig) error {
	switch {
	case !cfg.MonthlyAmount.IsPositive():
		return fmt.Errorf("%w: el monto mensual debe ser mayor a cero", domain.ErrValidation)
	case cfg.DueDay < 1 || cfg.DueDay > 31:
		return dues.ErrInvalidDueDay
	case cfg.GracePeriodDays < 0:
		return fmt.Errorf("%w: los días de gracia no pueden ser negativos", domain.ErrValidation)
	case cfg.LateFeePercentage.IsNegative() || cfg.LateFeePercentage.GreaterThan(hundred):
		return fmt.Errorf("%w: el recargo debe estar entre 0 y 100", domain.ErrValidation)
	case len(cfg.CurrencyCode) != 3:
		return fmt.Errorf("%w: código de moneda inválido %q", domain.ErrValidation, cfg.CurrencyCode)
	}
	return nil
}

// planBook resuelve la configuración de cada plan una sola vez por operación.
// En lecturas (materialize=false) un plan sin configuración usa los valores por defecto sin escribir.
type planBook struct {
	engine      *Engine
	repo        repository.EconomicConfigRepository
	materialize bool
	byPlan      map[string]*entity.EconomicConfig
}

func (e *Engine) newPlanBook(repo repository.EconomicConfigRepository, materialize bool) *planBook {
	return &planBook{engine: e, repo: repo, materialize: materialize, byPlan: map[string]*entity.EconomicConfig{}}
}

func (b *planBook) config(ctx context.Context, slug string) (*entity.EconomicConfig, error) {
	slug = b.engine.planSlug(slug)
	if cfg, ok := b.byPlan[slug]; ok {
		return cfg, nil
	}
	var (
		cfg *entity.EconomicConfig
		err error
	)
	if b.materialize {
		cfg, err = b.engine.loadConfig(ctx, b.repo, slug)
	} else {
		cfg, err = b.repo.GetBySlug(ctx, slug)
		if err == nil && cfg == nil {
			cfg = b.engine.defaultConfig(slug)
		}
	}
	if err != nil {
		return nil, err
	}
	b.byPlan[slug] = cfg
	return cfg, nil
}

// derive aplica la regla de estado con los días de gracia del plan de cada cuota.
func (b *planBook) derive(ctx context.Context, views []*entity.DueView, today time.Time) ([]dues.DerivedDue, error) {
	out := make([]dues.DerivedDue, 0, len(views))
	for _, v := range views {
		cfg, err := b.config(ctx, v.PlanName)
		if err != nil {
			return nil, err
		}
		out = append(out, dues.Derive(v, today, cfg.GracePeriodDays))
	}
	return out, nil
}

// lateFees porcentaje de recargo por plan de los ya resueltos.
func (b *planBook) lateFees() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(b.byPlan))
	for slug, cfg := range b.byPlan {
		out[slug] = cfg.LateFeePercentage
	}
	return out
}

// today fecha de calendario actual en la zona del club.
func (e *Engine) today() time.Time {
	return dues.DateOf(e.Now())
}
