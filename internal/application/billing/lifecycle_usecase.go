package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/dues"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
)

const recomputeBatchSize = 200

// LifecycleUseCase recalcula el estado de ciclo de vida de los socios (caché en members.status).
type LifecycleUseCase struct {
	engine *Engine
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(engine *Engine) *LifecycleUseCase {
	return &LifecycleUseCase{engine: engine}
}

// Recompute recalcula y persiste el estado de un socio.
func (uc *LifecycleUseCase) Recompute(ctx context.Context, memberID string) (*dto.MemberStatusResponse, error) {
	var out *dto.MemberStatusResponse
	err := uc.engine.tx.Run(ctx, func(r Repos) error {
		res, err := uc.engine.recomputeMember(ctx, r, memberID)
		out = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecomputeAll recalcula todos los socios, cada uno en su propia transacción. Devuelve cuántos cambiaron.
func (uc *LifecycleUseCase) RecomputeAll(ctx context.Context) (int, error) {
	changed := 0
	for offset := 0; ; offset += recomputeBatchSize {
		members, _, err := uc.engine.listMembersPage(ctx, offset)
		if err != nil {
			return changed, err
		}
		for _, m := range members {
			res, err := uc.Recompute(ctx, m.ID)
			if err != nil {
				return changed, fmt.Errorf("recalcular socio %s: %w", m.ID, err)
			}
			if res.PreviousStatus != res.Status {
				changed++
			}
		}
		if len(members) < recomputeBatchSize {
			return changed, nil
		}
	}
}

func (e *Engine) listMembersPage(ctx context.Context, offset int) ([]*entity.Member, int, error) {
	var (
		list  []*entity.Member
		total int
	)
	err := e.tx.RunReadOnly(ctx, func(r Repos) error {
		var err error
		list, total, err = r.Members.List(ctx, "", recomputeBatchSize, offset)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("listar socios: %w", err)
	}
	return list, total, nil
}

// recomputeMember deriva el estado con los repositorios de la transacción en curso y lo persiste si cambió.
// Se invoca después de cada pago y de cada cambio de inscripción.
func (e *Engine) recomputeMember(ctx context.Context, r Repos, memberID string) (*dto.MemberStatusResponse, error) {
	m, err := r.Members.GetByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("obtener socio %s: %w", memberID, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: socio %s", domain.ErrNotFound, memberID)
	}
	enrollments, err := r.Enrollments.ListByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("inscripciones del socio %s: %w", memberID, err)
	}
	paid, err := r.Dues.CountPaidByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("cuotas pagadas del socio %s: %w", memberID, err)
	}

	status := dues.DeriveMemberStatus(dues.LifecycleInput{
		CurrentStatus:     m.Status,
		Enrollments:       enrollments,
		PaidDues:          paid,
		LifetimeThreshold: e.settings.LifetimeThreshold,
	})
	out := &dto.MemberStatusResponse{MemberID: memberID, PreviousStatus: m.Status, Status: status, PaidDues: paid}
	if status == m.Status {
		return out, nil
	}

	now := e.Now()
	lifetimeSince := m.LifetimeSince
	if status == entity.MemberStatusVitalicio && lifetimeSince == nil {
		lifetimeSince = &now
	}
	if err := r.Members.UpdateStatus(ctx, memberID, status, lifetimeSince, now); err != nil {
		return nil, fmt.Errorf("actualizar estado del socio %s: %w", memberID, err)
	}
	if status == entity.MemberStatusVitalicio {
		e.log.Info().Str("member_id", memberID).Int("paid_dues", paid).Msg("socio alcanzó estado vitalicio")
	}
	return out, nil
}
