package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

// EnrollmentUseCase alta, baja y reactivación de inscripciones.
type EnrollmentUseCase struct {
	engine *Engine
}

// NewEnrollmentUseCase construye el caso de uso.
func NewEnrollmentUseCase(engine *Engine) *EnrollmentUseCase {
	return &EnrollmentUseCase{engine: engine}
}

// Create inscribe al socio, genera las cuotas transcurridas y recalcula su estado.
// Un socio tiene como máximo una inscripción ACTIVE (domain.ErrDuplicate).
func (uc *EnrollmentUseCase) Create(ctx context.Context, in dto.CreateEnrollmentRequest) (*dto.EnrollmentResponse, error) {
	if strings.TrimSpace(in.MemberID) == "" {
		return nil, fmt.Errorf("%w: member_id requerido", domain.ErrValidation)
	}
	start, err := parseDate(in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date inválida", domain.ErrValidation)
	}
	if in.MonthlyAmount != nil && !in.MonthlyAmount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto mensual debe ser mayor a cero", domain.ErrValidation)
	}

	var out dto.EnrollmentResponse
	err = uc.engine.tx.Run(ctx, func(r Repos) error {
		member, err := r.Members.GetByID(ctx, in.MemberID)
		if err != nil {
			return fmt.Errorf("obtener socio %s: %w", in.MemberID, err)
		}
		if member == nil {
			return fmt.Errorf("%w: socio %s", domain.ErrNotFound, in.MemberID)
		}
		active, err := r.Enrollments.GetActiveByMember(ctx, member.ID)
		if err != nil {
			return fmt.Errorf("inscripción activa del socio %s: %w", member.ID, err)
		}
		if active != nil {
			return fmt.Errorf("%w: el socio ya tiene la inscripción activa %s", domain.ErrDuplicate, active.ID)
		}

		cfg, err := uc.engine.loadConfig(ctx, r.Configs, in.PlanName)
		if err != nil {
			return err
		}
		amount := cfg.MonthlyAmount
		if in.MonthlyAmount != nil {
			amount = *in.MonthlyAmount
		}
		now := uc.engine.Now()
		enr := &entity.Enrollment{
			ID:            uuid.New().String(),
			MemberID:      member.ID,
			StartDate:     start,
			PlanName:      cfg.Slug,
			MonthlyAmount: amount,
			Status:        entity.EnrollmentStatusActive,
			Notes:         in.Notes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := r.Enrollments.Create(ctx, enr); err != nil {
			return fmt.Errorf("crear inscripción: %w", err)
		}
		gen, err := uc.engine.generateDues(ctx, r, enr)
		if err != nil {
			return err
		}
		st, err := uc.engine.recomputeMember(ctx, r, member.ID)
		if err != nil {
			return err
		}
		out = toEnrollmentResponse(enr)
		out.GeneratedDues = gen.Created
		out.MemberStatus = st.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.engine.log.Info().Str("enrollment_id", out.ID).Str("member_id", out.MemberID).Int("dues", out.GeneratedDues).Msg("inscripción creada")
	return &out, nil
}

// Cancel da de baja la inscripción. Las cuotas históricas no se borran: las impagas quedan FROZEN
// y no se generan cuotas nuevas.
func (uc *EnrollmentUseCase) Cancel(ctx context.Context, enrollmentID string) (*dto.EnrollmentResponse, error) {
	var out dto.EnrollmentResponse
	err := uc.engine.tx.Run(ctx, func(r Repos) error {
		enr, err := uc.lockEnrollment(ctx, r, enrollmentID)
		if err != nil {
			return err
		}
		if !enr.IsActive() {
			return fmt.Errorf("%w: la inscripción %s ya está cancelada", domain.ErrInvalidState, enr.ID)
		}
		now := uc.engine.Now()
		if err := r.Enrollments.UpdateStatus(ctx, enr.ID, entity.EnrollmentStatusCancelled, &now, now); err != nil {
			return fmt.Errorf("cancelar inscripción %s: %w", enr.ID, err)
		}
		enr.Status = entity.EnrollmentStatusCancelled
		enr.CancelledAt = &now
		enr.UpdatedAt = now

		if _, _, err := uc.engine.syncStoredStatuses(ctx, r, repository.DueQuery{EnrollmentID: enr.ID, OnlyUnpaid: true}); err != nil {
			return err
		}
		st, err := uc.engine.recomputeMember(ctx, r, enr.MemberID)
		if err != nil {
			return err
		}
		out = toEnrollmentResponse(enr)
		out.MemberStatus = st.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Reactivate vuelve a activar una inscripción cancelada: las cuotas FROZEN recuperan su estado derivado
// y se generan los períodos faltantes.
func (uc *EnrollmentUseCase) Reactivate(ctx context.Context, enrollmentID string) (*dto.EnrollmentResponse, error) {
	var out dto.EnrollmentResponse
	err := uc.engine.tx.Run(ctx, func(r Repos) error {
		enr, err := uc.lockEnrollment(ctx, r, enrollmentID)
		if err != nil {
			return err
		}
		if enr.IsActive() {
			return fmt.Errorf("%w: la inscripción %s ya está activa", domain.ErrInvalidState, enr.ID)
		}
		active, err := r.Enrollments.GetActiveByMember(ctx, enr.MemberID)
		if err != nil {
			return fmt.Errorf("inscripción activa del socio %s: %w", enr.MemberID, err)
		}
		if active != nil {
			return fmt.Errorf("%w: el socio ya tiene la inscripción activa %s", domain.ErrDuplicate, active.ID)
		}
		now := uc.engine.Now()
		if err := r.Enrollments.UpdateStatus(ctx, enr.ID, entity.EnrollmentStatusActive, nil, now); err != nil {
			return fmt.Errorf("reactivar inscripción %s: %w", enr.ID, err)
		}
		enr.Status = entity.EnrollmentStatusActive
		enr.CancelledAt = nil
		enr.UpdatedAt = now

		if _, _, err := uc.engine.syncStoredStatuses(ctx, r, repository.DueQuery{EnrollmentID: enr.ID, OnlyUnpaid: true}); err != nil {
			return err
		}
		gen, err := uc.engine.generateDues(ctx, r, enr)
		if err != nil {
			return err
		}
		st, err := uc.engine.recomputeMember(ctx, r, enr.MemberID)
		if err != nil {
			return err
		}
		out = toEnrollmentResponse(enr)
		out.GeneratedDues = gen.Created
		out.MemberStatus = st.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Get devuelve una inscripción.
func (uc *EnrollmentUseCase) Get(ctx context.Context, enrollmentID string) (*dto.EnrollmentResponse, error) {
	var out dto.EnrollmentResponse
	err := uc.engine.tx.RunReadOnly(ctx, func(r Repos) error {
		enr, err := r.Enrollments.GetByID(ctx, enrollmentID)
		if err != nil {
			return fmt.Errorf("obtener inscripción %s: %w", enrollmentID, err)
		}
		if enr == nil {
			return fmt.Errorf("%w: inscripción %s", domain.ErrNotFound, enrollmentID)
		}
		out = toEnrollmentResponse(enr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByMember inscripciones del socio, la más reciente primero.
func (uc *EnrollmentUseCase) ListByMember(ctx context.Context, memberID string) ([]dto.EnrollmentResponse, error) {
	var out []dto.EnrollmentResponse
	err := uc.engine.tx.RunReadOnly(ctx, func(r Repos) error {
		member, err := r.Members.GetByID(ctx, memberID)
		if err != nil {
			return fmt.Errorf("obtener socio %s: %w", memberID, err)
		}
		if member == nil {
			return fmt.Errorf("%w: socio %s", domain.ErrNotFound, memberID)
		}
		list, err := r.Enrollments.ListByMember(ctx, memberID)
		if err != nil {
			return fmt.Errorf("inscripciones del socio %s: %w", memberID, err)
		}
		out = make([]dto.EnrollmentResponse, 0, len(list))
		for _, e := range list {
			out = append(out, toEnrollmentResponse(e))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *EnrollmentUseCase) lockEnrollment(ctx context.Context, r Repos, id string) (*entity.Enrollment, error) {
	enr, err := r.Enrollments.GetForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener inscripción %s: %w", id, err)
	}
	if enr == nil {
		return nil, fmt.Errorf("%w: inscripción %s", domain.ErrNotFound, id)
	}
	return enr, nil
}
