package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

// IntegrityUseCase chequeo periódico de cuotas huérfanas o con socio inconsistente.
type IntegrityUseCase struct {
	engine *Engine
}

// NewIntegrityUseCase construye el caso de uso.
func NewIntegrityUseCase(engine *Engine) *IntegrityUseCase {
	return &IntegrityUseCase{engine: engine}
}

// Check informa los problemas encontrados. Con fix borra las cuotas cuyo padre (inscripción o socio)
// ya no existe; las de socio distinto y las huérfanas con pago registrado solo se informan.
func (uc *IntegrityUseCase) Check(ctx context.Context, fix bool) (*dto.IntegrityReport, error) {
	out := &dto.IntegrityReport{Fixed: fix}
	run := uc.engine.tx.RunReadOnly
	if fix {
		run = uc.engine.tx.Run
	}
	err := run(ctx, func(r Repos) error {
		issues, err := r.Dues.ListIntegrityIssues(ctx)
		if err != nil {
			return fmt.Errorf("chequeo de integridad: %w", err)
		}
		out.Issues = make([]dto.IntegrityIssueResponse, 0, len(issues))
		out.Deleted = 0
		for _, is := range issues {
			uc.engine.log.Error().
				Str("kind", is.Kind).
				Str("due_id", is.DueID).
				Str("enrollment_id", is.EnrollmentID).
				Str("due_member_id", is.DueMemberID).
				Str("enrollment_member_id", is.EnrollmentMemberID).
				Bool("has_payment", is.HasPayment).
				Msg("integridad de cuotas")
			out.Issues = append(out.Issues, dto.IntegrityIssueResponse{
				Kind:               is.Kind,
				DueID:              is.DueID,
				EnrollmentID:       is.EnrollmentID,
				DueMemberID:        is.DueMemberID,
				EnrollmentMemberID: is.EnrollmentMemberID,
				HasPayment:         is.HasPayment,
			})
			if !fix || is.Kind == repository.IssueMemberMismatch || is.HasPayment {
				continue
			}
			if err := r.Dues.Delete(ctx, is.DueID); err != nil {
				return fmt.Errorf("borrar cuota huérfana %s: %w", is.DueID, err)
			}
			out.Deleted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out.Issues) > 0 {
		uc.engine.log.Warn().Int("issues", len(out.Issues)).Int("deleted", out.Deleted).Msg("chequeo de integridad con problemas")
	}
	return out, nil
}
