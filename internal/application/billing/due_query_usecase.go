package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/dues"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
)

// DueQueryUseCase lecturas de cuotas. El estado siempre se deriva al leer; el guardado es solo un caché.
type DueQueryUseCase struct {
	engine *Engine
}

// NewDueQueryUseCase construye el caso de uso.
func NewDueQueryUseCase(engine *Engine) *DueQueryUseCase {
	return &DueQueryUseCase{engine: engine}
}

// List filtra por socio, inscripción, rango de vencimiento y estado derivado, y pagina después de filtrar.
func (uc *DueQueryUseCase) List(ctx context.Context, in dto.ListDuesRequest) (*dto.DueListResponse, error) {
	if in.Status != "" && !entity.IsValidDueStatus(in.Status) {
		return nil, fmt.Errorf("%w: estado de cuota %q", domain.ErrValidation, in.Status)
	}
	q := repository.DueQuery{MemberID: in.MemberID, EnrollmentID: in.EnrollmentID}
	var err error
	if q.DateFrom, err = optionalDate(in.DateFrom, "date_from"); err != nil {
		return nil, err
	}
	if q.DateTo, err = optionalDate(in.DateTo, "date_to"); err != nil {
		return nil, err
	}
	if q.DateFrom != nil && q.DateTo != nil && q.DateTo.Before(*q.DateFrom) {
		return nil, fmt.Errorf("%w: date_to anterior a date_from", domain.ErrValidation)
	}
	page := dto.PageRequest{Page: in.Page, PerPage: in.PerPage}
	page.DefaultPage()

	var filtered []dues.DerivedDue
	err = uc.engine.tx.RunReadOnly(ctx, func(r Repos) error {
		views, err := r.Dues.List(ctx, q)
		if err != nil {
			return fmt.Errorf("listar cuotas: %w", err)
		}
		derived, err := uc.engine.newPlanBook(r.Configs, false).derive(ctx, views, uc.engine.today())
		if err != nil {
			return err
		}
		filtered = derived[:0]
		for _, d := range derived {
			if in.Status == "" || d.Status == in.Status {
				filtered = append(filtered, d)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := len(filtered)
	from := min(page.Offset(), total)
	to := min(from+page.PerPage, total)
	return &dto.DueListResponse{
		Items:        toDueResponses(filtered[from:to]),
		PageResponse: dto.NewPageResponse(page, total),
	}, nil
}

// Get devuelve una cuota con su estado derivado.
func (uc *DueQueryUseCase) Get(ctx context.Context, dueID string) (*dto.DueResponse, error) {
	var out dto.DueResponse
	err := uc.engine.tx.RunReadOnly(ctx, func(r Repos) error {
		v, err := r.Dues.GetByID(ctx, dueID)
		if err != nil {
			return fmt.Errorf("obtener cuota %s: %w", dueID, err)
		}
		if v == nil {
			return fmt.Errorf("%w: cuota %s", domain.ErrNotFound, dueID)
		}
		derived, err := uc.engine.newPlanBook(r.Configs, false).derive(ctx, []*entity.DueView{v}, uc.engine.today())
		if err != nil {
			return err
		}
		out = toDueResponse(derived[0])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RecomputeStatuses reescribe el estado guardado de toda cuota impaga con la regla de derivación.
// Las cuotas pagadas no se tocan.
func (uc *DueQueryUseCase) RecomputeStatuses(ctx context.Context) (*dto.RecomputeStatusesResponse, error) {
	var out dto.RecomputeStatusesResponse
	err := uc.engine.tx.Run(ctx, func(r Repos) error {
		checked, updated, err := uc.engine.syncStoredStatuses(ctx, r, repository.DueQuery{OnlyUnpaid: true})
		out = dto.RecomputeStatusesResponse{Checked: checked, Updated: updated}
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.engine.log.Info().Int("checked", out.Checked).Int("updated", out.Updated).Msg("estados de cuotas resincronizados")
	return &out, nil
}

// syncStoredStatuses bloquea las cuotas de q y guarda el estado derivado donde difiera del caché.
func (e *Engine) syncStoredStatuses(ctx context.Context, r Repos, q repository.DueQuery) (checked, updated int, err error) {
	views, err := r.Dues.ListForUpdate(ctx, q)
	if err != nil {
		return 0, 0, fmt.Errorf("bloquear cuotas: %w", err)
	}
	derived, err := e.newPlanBook(r.Configs, true).derive(ctx, views, e.today())
	if err != nil {
		return 0, 0, err
	}
	now := e.Now()
	for _, d := range derived {
		checked++
		if d.Status == entity.DueStatusPaid || d.Status == d.Due.Status {
			continue
		}
		if err := r.Dues.UpdateStatus(ctx, d.Due.ID, d.Status, now); err != nil {
			return checked, updated, fmt.Errorf("actualizar estado de cuota %s: %w", d.Due.ID, err)
		}
		d.Due.Status = d.Status
		updated++
	}
	return checked, updated, nil
}

func optionalDate(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s inválida", domain.ErrValidation, field)
	}
	return &t, nil
}

// ClubSnapshot agrega todas las cuotas impagas del club con su estado derivado, y cuenta los socios
// con al menos una cuota vencida. Los totales de pagadas quedan en cero.
func (uc *DueQueryUseCase) ClubSnapshot(ctx context.Context) (dues.Snapshot, int, error) {
	var (
		snap           dues.Snapshot
		overdueMembers int
	)
	err := uc.engine.tx.RunReadOnly(ctx, func(r Repos) error {
		views, err := r.Dues.List(ctx, repository.DueQuery{OnlyUnpaid: true})
		if err != nil {
			return fmt.Errorf("listar cuotas impagas: %w", err)
		}
		book := uc.engine.newPlanBook(r.Configs, false)
		derived, err := book.derive(ctx, views, uc.engine.today())
		if err != nil {
			return err
		}
		members := map[string]struct{}{}
		for _, d := range derived {
			if d.Status == entity.DueStatusOverdue {
				members[d.Due.MemberID] = struct{}{}
			}
		}
		snap = dues.Aggregate(derived, book.lateFees())
		overdueMembers = len(members)
		return nil
	})
	if err != nil {
		return dues.Snapshot{}, 0, err
	}
	return snap, overdueMembers, nil
}
