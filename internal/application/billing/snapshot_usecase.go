package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/dues"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

// SnapshotUseCase situación financiera de un socio: totales por estado derivado y próximo vencimiento.
type SnapshotUseCase struct {
	engine *Engine
}

// NewSnapshotUseCase construye el caso de uso.
func NewSnapshotUseCase(engine *Engine) *SnapshotUseCase {
	return &SnapshotUseCase{engine: engine}
}

// Get calcula la foto en una transacción de solo lectura para que los totales no mezclen
// estados previos y posteriores a un pago concurrente.
func (uc *SnapshotUseCase) Get(ctx context.Context, memberID string) (*dto.SnapshotResponse, error) {
	var out *dto.SnapshotResponse
	err := uc.engine.tx.RunReadOnly(ctx, func(r Repos) error {
		res, _, err := uc.engine.memberSnapshot(ctx, r, memberID)
		out = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// memberSnapshot devuelve la foto y las cuotas derivadas (ordenadas por vencimiento) con los repos recibidos.
func (e *Engine) memberSnapshot(ctx context.Context, r Repos, memberID string) (*dto.SnapshotResponse, []dues.DerivedDue, error) {
	m, err := r.Members.GetByID(ctx, memberID)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener socio %s: %w", memberID, err)
	}
	if m == nil {
		return nil, nil, fmt.Errorf("%w: socio %s", domain.ErrNotFound, memberID)
	}
	views, err := r.Dues.List(ctx, repository.DueQuery{MemberID: memberID})
	if err != nil {
		return nil, nil, fmt.Errorf("cuotas del socio %s: %w", memberID, err)
	}
	if err := e.checkViews(memberID, views); err != nil {
		return nil, nil, err
	}

	book := e.newPlanBook(r.Configs, false)
	derived, err := book.derive(ctx, views, e.today())
	if err != nil {
		return nil, nil, err
	}

	// Días de gracia y moneda: plan de la inscripción activa, o el plan por defecto.
	plan := ""
	active, err := r.Enrollments.GetActiveByMember(ctx, memberID)
	if err != nil {
		return nil, nil, fmt.Errorf("inscripción activa del socio %s: %w", memberID, err)
	}
	if active != nil {
		plan = active.PlanName
	}
	cfg, err := book.config(ctx, plan)
	if err != nil {
		return nil, nil, err
	}

	snap := dues.Aggregate(derived, book.lateFees())
	out := &dto.SnapshotResponse{
		MemberID:     memberID,
		MemberStatus: m.Status,
		Totals: dto.TotalsResponse{
			Pending: snap.Totals.Pending,
			Overdue: snap.Totals.Overdue,
			Paid:    snap.Totals.Paid,
			Frozen:  snap.Totals.Frozen,
			Total:   snap.Totals.Sum(),
		},
		Counts: dto.CountsResponse{
			Pending: snap.Counts.Pending,
			Overdue: snap.Counts.Overdue,
			Paid:    snap.Counts.Paid,
			Frozen:  snap.Counts.Frozen,
		},
		GracePeriodDays: cfg.GracePeriodDays,
		LateFees:        snap.LateFees,
		CurrencyCode:    cfg.CurrencyCode,
	}
	if snap.NextDueDate != nil {
		next := formatDate(*snap.NextDueDate)
		out.NextDueDate = &next
	}
	return out, derived, nil
}

// checkViews detecta cuotas cuyo socio no coincide con el de la inscripción o sin inscripción.
// Nunca se ignoran: se registran en error y la agregación falla con domain.ErrIntegrity.
func (e *Engine) checkViews(memberID string, views []*entity.DueView) error {
	for _, v := range views {
		switch {
		case v.EnrollmentStatus == "":
			e.log.Error().Str("member_id", memberID).Str("due_id", v.ID).Str("enrollment_id", v.EnrollmentID).
				Msg("cuota sin inscripción")
			return fmt.Errorf("%w: cuota %s sin inscripción %s", domain.ErrIntegrity, v.ID, v.EnrollmentID)
		case v.EnrollmentMemberID != v.MemberID:
			e.log.Error().Str("member_id", memberID).Str("due_id", v.ID).Str("enrollment_member_id", v.EnrollmentMemberID).
				Msg("cuota con socio distinto al de su inscripción")
			return fmt.Errorf("%w: cuota %s de socio %s, inscripción de %s", domain.ErrIntegrity, v.ID, v.MemberID, v.EnrollmentMemberID)
		}
	}
	return nil
}
