package dues

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/club-cuotas-api/internal/domain"
	"github.com/jhoicas/club-cuotas-api/internal/domain/entity"
)

var (
	ErrEmptyBatch     = fmt.Errorf("%w: no se indicaron cuotas", domain.ErrValidation)
	ErrAlreadyPaid    = fmt.Errorf("%w: la cuota ya está pagada", domain.ErrValidation)
	ErrFrozenDue      = fmt.Errorf("%w: la cuota está congelada, reactive la inscripción", domain.ErrInvalidState)
	ErrMixedMembers   = fmt.Errorf("%w: las cuotas pertenecen a distintos socios", domain.ErrValidation)
	ErrNotEnoughDues  = fmt.Errorf("%w: se solicitaron más cuotas de las adeudadas", domain.ErrValidation)
	ErrPartialPayment = fmt.Errorf("%w: el monto no cubre una cuota completa", domain.ErrValidation)
)

// Selector estrategia de selección: del conjunto de cuotas candidatas devuelve el subconjunto ordenado a pagar.
// Ambas políticas de pago usan la misma primitiva de asignación y solo difieren en el Selector.
type Selector interface {
	Select(candidates []DerivedDue) ([]DerivedDue, error)
}

// SortOldestFirst ordena por fecha de vencimiento y luego por id.
func SortOldestFirst(list []DerivedDue) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].Due, list[j].Due
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		return a.ID < b.ID
	})
}

// ExplicitSelector paga exactamente el conjunto indicado. Todo o nada: cualquier id inválido,
// inexistente, pagado o congelado hace fallar la selección completa.
type ExplicitSelector struct {
	IDs []string
	// MemberID si no está vacío, todas las cuotas deben pertenecer a ese socio.
	MemberID string
}

// Select implementa Selector.
func (s ExplicitSelector) Select(candidates []DerivedDue) ([]DerivedDue, error) {
	if len(s.IDs) == 0 {
		return nil, ErrEmptyBatch
	}
	byID := make(map[string]DerivedDue, len(candidates))
	for _, c := range candidates {
		byID[c.Due.ID] = c
	}

	seen := make(map[string]struct{}, len(s.IDs))
	selected := make([]DerivedDue, 0, len(s.IDs))
	memberID := s.MemberID
	for _, id := range s.IDs {
		if id == "" {
			return nil, fmt.Errorf("%w: id de cuota vacío", domain.ErrValidation)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: cuota %s repetida", domain.ErrValidation, id)
		}
		seen[id] = struct{}{}

		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: cuota %s no encontrada", domain.ErrValidation, id)
		}
		switch c.Status {
		case entity.DueStatusPaid:
			return nil, fmt.Errorf("%w (%s)", ErrAlreadyPaid, id)
		case entity.DueStatusFrozen:
			return nil, fmt.Errorf("%w (%s)", ErrFrozenDue, id)
		}
		if memberID == "" {
			memberID = c.Due.MemberID
		}
		if c.Due.MemberID != memberID {
			return nil, fmt.Errorf("%w (%s)", ErrMixedMembers, id)
		}
		selected = append(selected, c)
	}
	SortOldestFirst(selected)
	return selected, nil
}

// OldestFirstSelector paga las cuotas adeudadas más antiguas primero.
// Exactamente uno de Count o Amount debe indicarse. Con Amount se pagan cuotas completas mientras el
// monto alcance; el sobrante menor a la siguiente cuota no se aplica.
type OldestFirstSelector struct {
	Count  int
	Amount decimal.Decimal
}

// Select implementa Selector. Ignora cuotas pagadas y congeladas.
func (s OldestFirstSelector) Select(candidates []DerivedDue) ([]DerivedDue, error) {
	byCount := s.Count != 0
	byAmount := !s.Amount.IsZero()
	switch {
	case byCount == byAmount:
		return nil, fmt.Errorf("%w: indique cantidad o monto (solo uno)", domain.ErrValidation)
	case byCount && s.Count < 0:
		return nil, fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrValidation)
	case byAmount && s.Amount.IsNegative():
		return nil, fmt.Errorf("%w: el monto debe ser positivo", domain.ErrValidation)
	}

	payable := make([]DerivedDue, 0, len(candidates))
	total := decimal.Zero
	for _, c := range candidates {
		if c.IsPayable() {
			payable = append(payable, c)
			total = total.Add(c.Due.Amount)
		}
	}
	SortOldestFirst(payable)

	if byCount {
		if s.Count > len(payable) {
			return nil, fmt.Errorf("%w: solicitadas %d, adeudadas %d", ErrNotEnoughDues, s.Count, len(payable))
		}
		return payable[:s.Count], nil
	}

	if len(payable) == 0 || s.Amount.GreaterThan(total) {
		return nil, fmt.Errorf("%w: monto %s, adeudado %s", ErrNotEnoughDues, s.Amount.StringFixed(2), total.StringFixed(2))
	}
	remaining := s.Amount
	n := 0
	for _, c := range payable {
		if remaining.LessThan(c.Due.Amount) {
			break
		}
		remaining = remaining.Sub(c.Due.Amount)
		n++
	}
	if n == 0 {
		return nil, ErrPartialPayment
	}
	return payable[:n], nil
}
