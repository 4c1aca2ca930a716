package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
)

// StatementUseCase genera el estado de cuenta en PDF de un socio.
type StatementUseCase struct {
	engine    *Engine
	generator StatementPDFGenerator
}

// NewStatementUseCase construye el caso de uso inyectando el generador.
func NewStatementUseCase(engine *Engine, generator StatementPDFGenerator) *StatementUseCase {
	return &StatementUseCase{engine: engine, generator: generator}
}

// DownloadStatementPDF arma la foto financiera y el detalle de cuotas del socio y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si el socio no existe.
//   - domain.ErrIntegrity        si alguna cuota no coincide con su inscripción.
func (uc *StatementUseCase) DownloadStatementPDF(ctx context.Context, memberID string) (pdfBytes []byte, filename string, err error) {
	data := &dto.StatementData{ClubName: uc.engine.settings.ClubName, GeneratedAt: uc.engine.Now()}
	err = uc.engine.tx.RunReadOnly(ctx, func(r Repos) error {
		m, err := r.Members.GetByID(ctx, memberID)
		if err != nil {
			return fmt.Errorf("obtener socio %s: %w", memberID, err)
		}
		snap, derived, err := uc.engine.memberSnapshot(ctx, r, memberID)
		if err != nil {
			return err
		}
		data.Member = toMemberResponse(m)
		data.Snapshot = *snap
		data.Dues = toDueResponses(derived)
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err = uc.generator.GenerateStatementPDF(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("estado_cuenta_%s_%s.pdf", data.Member.DocumentNumber, data.GeneratedAt.Format("20060102"))
	return pdfBytes, filename, nil
}
