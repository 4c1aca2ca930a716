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

// PaymentOptions datos comunes del pago.
type PaymentOptions struct {
	PaidAt    *time.Time
	Method    string
	Reference string
	Notes     string
	// ActorMemberID si no está vacío, todas las cuotas deben ser de ese socio (domain.ErrForbidden).
	ActorMemberID string
}

// PaymentUseCase asigna pagos a cuotas. Las dos políticas (dirigida y secuencial) comparten la misma
// primitiva allocate y solo cambian la carga de candidatas y el dues.Selector.
type PaymentUseCase struct {
	engine *Engine
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(engine *Engine) *PaymentUseCase {
	return &PaymentUseCase{engine: engine}
}

// dueLoader carga y bloquea las cuotas candidatas dentro de la transacción.
type dueLoader func(ctx context.Context, r Repos) ([]*entity.DueView, error)

type allocation struct {
	memberID     string
	memberStatus string
	dues         []dues.DerivedDue
	payments     []*entity.Payment
	total        decimal.Decimal
}

// PayMultipleDues paga exactamente las cuotas indicadas. Todo o nada: si alguna no existe, está pagada o
// congelada, ninguna cambia.
func (uc *PaymentUseCase) PayMultipleDues(ctx context.Context, dueIDs []string, opts PaymentOptions) (*dto.PaymentBatchResponse, error) {
	load := func(ctx context.Context, r Repos) ([]*entity.DueView, error) {
		return r.Dues.GetManyForUpdate(ctx, dueIDs)
	}
	res, err := uc.allocate(ctx, load, dues.ExplicitSelector{IDs: dueIDs}, opts)
	if err != nil {
		return nil, err
	}
	return res.batchResponse(decimal.Zero), nil
}

// SequentialRequest pago de las cuotas adeudadas más antiguas de un socio o de una inscripción.
type SequentialRequest struct {
	MemberID     string
	EnrollmentID string
	Count        int
	Amount       decimal.Decimal
}

// PaySequentialDues paga las N cuotas impagas más antiguas (por vencimiento, luego id), o las que cubra
// el monto completo. El sobrante menor a la siguiente cuota se informa como no aplicado.
func (uc *PaymentUseCase) PaySequentialDues(ctx context.Context, in SequentialRequest, opts PaymentOptions) (*dto.PaymentBatchResponse, error) {
	if (in.MemberID == "") == (in.EnrollmentID == "") {
		return nil, fmt.Errorf("%w: indique member_id o enrollment_id (solo uno)", domain.ErrValidation)
	}
	load := func(ctx context.Context, r Repos) ([]*entity.DueView, error) {
		q := repository.DueQuery{OnlyUnpaid: true}
		if in.EnrollmentID != "" {
			enr, err := r.Enrollments.GetByID(ctx, in.EnrollmentID)
			if err != nil {
				return nil, fmt.Errorf("obtener inscripción %s: %w", in.EnrollmentID, err)
			}
			if enr == nil {
				return nil, fmt.Errorf("%w: inscripción %s", domain.ErrNotFound, in.EnrollmentID)
			}
			q.EnrollmentID = enr.ID
		} else {
			m, err := r.Members.GetByID(ctx, in.MemberID)
			if err != nil {
				return nil, fmt.Errorf("obtener socio %s: %w", in.MemberID, err)
			}
			if m == nil {
				return nil, fmt.Errorf("%w: socio %s", domain.ErrNotFound, in.MemberID)
			}
			q.MemberID = m.ID
		}
		return r.Dues.ListForUpdate(ctx, q)
	}
	res, err := uc.allocate(ctx, load, dues.OldestFirstSelector{Count: in.Count, Amount: in.Amount}, opts)
	if err != nil {
		return nil, err
	}
	unapplied := decimal.Zero
	if !in.Amount.IsZero() {
		unapplied = in.Amount.Sub(res.total)
	}
	return res.batchResponse(unapplied), nil
}

// RecordPayment paga una única cuota. Si amount viene informado debe coincidir con el monto de la cuota.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, dueID string, amount *decimal.Decimal, opts PaymentOptions) (*dto.RecordPaymentResponse, error) {
	if strings.TrimSpace(dueID) == "" {
		return nil, fmt.Errorf("%w: due_id requerido", domain.ErrValidation)
	}
	load := func(ctx context.Context, r Repos) ([]*entity.DueView, error) {
		list, err := r.Dues.GetManyForUpdate(ctx, []string{dueID})
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: cuota %s", domain.ErrNotFound, dueID)
		}
		return list, nil
	}
	sel := exactAmountSelector{inner: dues.ExplicitSelector{IDs: []string{dueID}}, amount: amount}
	res, err := uc.allocate(ctx, load, sel, opts)
	if err != nil {
		return nil, err
	}
	return &dto.RecordPaymentResponse{
		Due:          toDueResponse(res.dues[0]),
		Payment:      toPaymentResponse(res.payments[0]),
		MemberStatus: res.memberStatus,
	}, nil
}

// ListPayments pagos del socio, más recientes primero.
func (uc *PaymentUseCase) ListPayments(ctx context.Context, memberID string, page dto.PageRequest) (*dto.PaymentListResponse, error) {
	page.DefaultPage()
	out := &dto.PaymentListResponse{Page: page.Page, PerPage: page.PerPage}
	err := uc.engine.tx.RunReadOnly(ctx, func(r Repos) error {
		m, err := r.Members.GetByID(ctx, memberID)
		if err != nil {
			return fmt.Errorf("obtener socio %s: %w", memberID, err)
		}
		if m == nil {
			return fmt.Errorf("%w: socio %s", domain.ErrNotFound, memberID)
		}
		list, err := r.Payments.ListByMember(ctx, memberID, page.PerPage, page.Offset())
		if err != nil {
			return fmt.Errorf("pagos del socio %s: %w", memberID, err)
		}
		out.Items = make([]dto.PaymentResponse, 0, len(list))
		for _, p := range list {
			out.Items = append(out.Items, toPaymentResponse(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// allocate primitiva de asignación: en una única transacción serializable bloquea las candidatas,
// deriva su estado, deja que el selector elija y paga cada cuota con una actualización condicional.
// Una candidata sin inscripción o con socio distinto al de su inscripción aborta el lote con domain.ErrIntegrity.
// Si otro pago ganó la carrera, MarkPaid devuelve domain.ErrInvalidState y se revierte todo el lote.
func (uc *PaymentUseCase) allocate(ctx context.Context, load dueLoader, sel dues.Selector, opts PaymentOptions) (*allocation, error) {
	e := uc.engine
	now := e.Now()
	paidAt := now
	if opts.PaidAt != nil {
		if opts.PaidAt.IsZero() {
			return nil, fmt.Errorf("%w: paid_at inválida", domain.ErrValidation)
		}
		paidAt = *opts.PaidAt
	}
	method := strings.TrimSpace(opts.Method)
	if method == "" {
		method = entity.PaymentMethodCash
	}

	res := &allocation{total: decimal.Zero}
	err := e.tx.Run(ctx, func(r Repos) error {
		views, err := load(ctx, r)
		if err != nil {
			return err
		}
		if err := e.checkViews(opts.ActorMemberID, views); err != nil {
			return err
		}
		candidates, err := e.newPlanBook(r.Configs, false).derive(ctx, views, e.today())
		if err != nil {
			return err
		}
		selected, err := sel.Select(candidates)
		if err != nil {
			return err
		}
		if len(selected) == 0 {
			return dues.ErrEmptyBatch
		}

		memberID := selected[0].Due.MemberID
		for _, d := range selected {
			if d.Due.MemberID != memberID {
				return fmt.Errorf("%w (%s)", dues.ErrMixedMembers, d.Due.ID)
			}
		}
		if opts.ActorMemberID != "" && opts.ActorMemberID != memberID {
			return fmt.Errorf("%w: las cuotas no pertenecen al socio autenticado", domain.ErrForbidden)
		}

		for _, d := range selected {
			if err := r.Dues.MarkPaid(ctx, d.Due.ID, paidAt, now); err != nil {
				return fmt.Errorf("marcar pagada cuota %s: %w", d.Due.ID, err)
			}
			p := &entity.Payment{
				ID:        uuid.New().String(),
				DueID:     d.Due.ID,
				MemberID:  d.Due.MemberID,
				Amount:    d.Due.Amount,
				Method:    method,
				Reference: opts.Reference,
				Notes:     opts.Notes,
				PaidAt:    paidAt,
				CreatedAt: now,
			}
			if err := r.Payments.Create(ctx, p); err != nil {
				return fmt.Errorf("registrar pago de cuota %s: %w", d.Due.ID, err)
			}
			pa := paidAt
			d.Due.PaidAt = &pa
			d.Due.Status = entity.DueStatusPaid
			d.Due.UpdatedAt = now
			d.Status = entity.DueStatusPaid
			res.dues = append(res.dues, d)
			res.payments = append(res.payments, p)
			res.total = res.total.Add(p.Amount)
		}

		st, err := e.recomputeMember(ctx, r, memberID)
		if err != nil {
			return err
		}
		res.memberID = memberID
		res.memberStatus = st.Status
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().
		Str("member_id", res.memberID).
		Int("dues", len(res.dues)).
		Str("total", res.total.StringFixed(2)).
		Str("method", method).
		Msg("pago registrado")
	return res, nil
}

func (a *allocation) batchResponse(unapplied decimal.Decimal) *dto.PaymentBatchResponse {
	out := &dto.PaymentBatchResponse{
		MemberID:     a.memberID,
		MemberStatus: a.memberStatus,
		Dues:         toDueResponses(a.dues),
		Payments:     make([]dto.PaymentResponse, 0, len(a.payments)),
		Total:        a.total,
		Unapplied:    unapplied,
	}
	for _, p := range a.payments {
		out.Payments = append(out.Payments, toPaymentResponse(p))
	}
	return out
}

// exactAmountSelector exige que el monto informado coincida con el de la única cuota seleccionada.
type exactAmountSelector struct {
	inner  dues.Selector
	amount *decimal.Decimal
}

func (s exactAmountSelector) Select(candidates []dues.DerivedDue) ([]dues.DerivedDue, error) {
	selected, err := s.inner.Select(candidates)
	if err != nil {
		return nil, err
	}
	if s.amount != nil {
		for _, d := range selected {
			if !d.Due.Amount.Equal(*s.amount) {
				return nil, fmt.Errorf("%w: monto %s, la cuota %s vale %s; no hay pagos parciales", domain.ErrValidation,
					s.amount.StringFixed(2), d.Due.ID, d.Due.Amount.StringFixed(2))
			}
		}
	}
	return selected, nil
}
