package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/pkg/logger"
)

// PaymentHandler registro de pagos de cuotas.
type PaymentHandler struct {
	base
	payments *billing.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(log *logger.Logger, payments *billing.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{base: base{log: log}, payments: payments}
}

// PayDues POST /api/dues/pay
//
// Body: {"due_ids": ["..."], "paid_at": "...", "method": "...", "reference": "..."}
func (h *PaymentHandler) PayDues(c *fiber.Ctx) error {
	var in dto.PayDuesRequest
	if err := parseBody(c, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.payments.PayMultipleDues(c.UserContext(), in.DueIDs, billing.PaymentOptions{
		PaidAt:        in.PaidAt,
		Method:        in.Method,
		Reference:     in.Reference,
		Notes:         in.Notes,
		ActorMemberID: actorMemberID(c),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// PaySequential POST /api/dues/pay-sequential
//
// Un socio paga sus propias cuotas: member_id se completa con el del token.
func (h *PaymentHandler) PaySequential(c *fiber.Ctx) error {
	var in dto.PaySequentialRequest
	if err := c.BodyParser(&in); err != nil {
		return h.fail(c, errInvalidBody)
	}
	actor := actorMemberID(c)
	if !IsAdmin(c) {
		if actor == "" || (in.MemberID != "" && in.MemberID != actor) {
			return h.forbidden(c)
		}
		if in.EnrollmentID == "" {
			in.MemberID = actor
		}
	}
	if err := validateStruct(&in); err != nil {
		return h.fail(c, err)
	}
	amount := decimal.Zero
	if in.Amount != nil {
		amount = *in.Amount
	}
	out, err := h.payments.PaySequentialDues(c.UserContext(), billing.SequentialRequest{
		MemberID:     in.MemberID,
		EnrollmentID: in.EnrollmentID,
		Count:        in.Count,
		Amount:       amount,
	}, billing.PaymentOptions{
		PaidAt:        in.PaidAt,
		Method:        in.Method,
		Reference:     in.Reference,
		Notes:         in.Notes,
		ActorMemberID: actor,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Record POST /api/payments
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := parseBody(c, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.payments.RecordPayment(c.UserContext(), in.DueID, in.Amount, billing.PaymentOptions{
		PaidAt:        in.PaidAt,
		Method:        in.Method,
		Reference:     in.Reference,
		Notes:         in.Notes,
		ActorMemberID: actorMemberID(c),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
