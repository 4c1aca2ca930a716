package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/pkg/logger"
)

// DueHandler consulta de cuotas.
type DueHandler struct {
	base
	dues *billing.DueQueryUseCase
}

// NewDueHandler construye el handler.
func NewDueHandler(log *logger.Logger, dues *billing.DueQueryUseCase) *DueHandler {
	return &DueHandler{base: base{log: log}, dues: dues}
}

// List GET /api/dues?status=&member_id=&enrollment_id=&date_from=&date_to=&page=&per_page=
// Un socio solo ve sus propias cuotas.
func (h *DueHandler) List(c *fiber.Ctx) error {
	var in dto.ListDuesRequest
	if err := parseQuery(c, &in); err != nil {
		return h.fail(c, err)
	}
	if !IsAdmin(c) {
		own := GetMemberID(c)
		if own == "" || (in.MemberID != "" && in.MemberID != own) {
			return h.forbidden(c)
		}
		in.MemberID = own
	}
	out, err := h.dues.List(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/dues/:id
func (h *DueHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.dues.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if !CanAccessMember(c, out.MemberID) {
		return h.forbidden(c)
	}
	return c.JSON(out)
}
