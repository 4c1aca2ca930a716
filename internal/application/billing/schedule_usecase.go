package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/dues"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

// DueGenerator genera las cuotas de los períodos transcurridos. Es idempotente: solo completa huecos.
type DueGenerator struct {
	engine *Engine
}

// NewDueGenerator construye el caso de uso.
func NewDueGenerator(engine *Engine) *DueGenerator {
	return &DueGenerator{engine: engine}
}

// GenerateForEnrollment completa las cuotas faltantes de una inscripción hasta hoy.
func (g *DueGenerator) GenerateForEnrollment(ctx context.Context, enrollmentID string) (*dto.GenerationResult, error) {
	var res dto.GenerationResult
	err := g.engine.tx.Run(ctx, func(r Repos) error {
		enr, err := r.Enrollments.GetForUpdate(ctx, enrollmentID)
		if err != nil {
			return fmt.Errorf("obtener inscripción %s: %w", enrollmentID, err)
		}
		if enr == nil {
			return fmt.Errorf("%w: inscripción %s", domain.ErrNotFound, enrollmentID)
		}
		res, err = g.engine.generateDues(ctx, r, enr)
		if err != nil {
			return err
		}
		if res.Created > 0 {
			_, err = g.engine.recomputeMember(ctx, r, enr.MemberID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GenerateAll recorre las inscripciones activas; cada una se genera en su propia transacción.
func (g *DueGenerator) GenerateAll(ctx context.Context) (*dto.GenerateAllResponse, error) {
	var active []*entity.Enrollment
	err := g.engine.tx.RunReadOnly(ctx, func(r Repos) error {
		var err error
		active, err = r.Enrollments.ListActive(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listar inscripciones activas: %w", err)
	}

	out := &dto.GenerateAllResponse{Results: make([]dto.GenerationResult, 0, len(active))}
	for _, enr := range active {
		res, err := g.GenerateForEnrollment(ctx, enr.ID)
		if err != nil {
			return out, fmt.Errorf("generar cuotas de %s: %w", enr.ID, err)
		}
		out.Enrollments++
		out.Created += res.Created
		if res.Created > 0 {
			out.Results = append(out.Results, *res)
		}
	}
	g.engine.log.Info().Int("enrollments", out.Enrollments).Int("created", out.Created).Msg("generación de cuotas finalizada")
	return out, nil
}

// generateDues crea las cuotas faltantes con los repositorios de la transacción en curso.
// Un mes que ya tiene cuota no recibe otra aunque el día de vencimiento del plan haya cambiado.
// El monto es la foto de la inscripción; el día de vencimiento sale de la configuración vigente.
func (e *Engine) generateDues(ctx context.Context, r Repos, enr *entity.Enrollment) (dto.GenerationResult, error) {
	res := dto.GenerationResult{EnrollmentID: enr.ID}
	if !enr.IsActive() {
		e.log.Debug().Str("enrollment_id", enr.ID).Msg("inscripción cancelada, no se generan cuotas")
		return res, nil
	}
	cfg, err := e.loadConfig(ctx, r.Configs, enr.PlanName)
	if err != nil {
		return res, err
	}
	today := e.today()
	dates, err := dues.Schedule(enr.StartDate, cfg.DueDay, today)
	if errors.Is(err, dues.ErrStartInFuture) {
		e.log.Info().Str("enrollment_id", enr.ID).Time("start_date", enr.StartDate).Msg("inscripción con inicio futuro, sin períodos para generar")
		return res, nil
	}
	if err != nil {
		return res, err
	}

	existing, err := r.Dues.List(ctx, repository.DueQuery{EnrollmentID: enr.ID})
	if err != nil {
		return res, fmt.Errorf("cuotas de la inscripción %s: %w", enr.ID, err)
	}
	covered := make(map[string]struct{}, len(existing))
	for _, d := range existing {
		covered[d.DueDate.Format("2006-01")] = struct{}{}
	}

	now := e.Now()
	for _, date := range dates {
		if _, ok := covered[date.Format("2006-01")]; ok {
			res.Existing++
			continue
		}
		due := &entity.Due{
			ID:           uuid.New().String(),
			EnrollmentID: enr.ID,
			MemberID:     enr.MemberID,
			DueDate:      date,
			Amount:       enr.MonthlyAmount,
			Status: dues.DeriveStatus(dues.StatusInput{
				DueDate:          date,
				EnrollmentStatus: enr.Status,
				Today:            today,
				GracePeriodDays:  cfg.GracePeriodDays,
			}),
			CreatedAt: now,
			UpdatedAt: now,
		}
		created, err := r.Dues.CreateIfAbsent(ctx, due)
		if err != nil {
			return res, fmt.Errorf("crear cuota %s de %s: %w", formatDate(date), enr.ID, err)
		}
		if created {
			res.Created++
		} else {
			res.Existing++
		}
	}
	return res, nil
}
