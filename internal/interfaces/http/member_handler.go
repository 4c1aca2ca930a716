package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/pkg/logger"
)

// MemberHandler socios y sus consultas financieras.
type MemberHandler struct {
	base
	members     *billing.MemberUseCase
	enrollments *billing.EnrollmentUseCase
	snapshots   *billing.SnapshotUseCase
	payments    *billing.PaymentUseCase
	dues        *billing.DueQueryUseCase
	lifecycle   *billing.LifecycleUseCase
	statements  *billing.StatementUseCase
}

// NewMemberHandler construye el handler.
func NewMemberHandler(
	log *logger.Logger,
	members *billing.MemberUseCase,
	enrollments *billing.EnrollmentUseCase,
	snapshots *billing.SnapshotUseCase,
	payments *billing.PaymentUseCase,
	dues *billing.DueQueryUseCase,
	lifecycle *billing.LifecycleUseCase,
	statements *billing.StatementUseCase,
) *MemberHandler {
	return &MemberHandler{
		base:        base{log: log},
		members:     members,
		enrollments: enrollments,
		snapshots:   snapshots,
		payments:    payments,
		dues:        dues,
		lifecycle:   lifecycle,
		statements:  statements,
	}
}

// Create POST /api/members
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMemberRequest
	if err := parseBody(c, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.members.Create(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/members?status=&page=&per_page=
func (h *MemberHandler) List(c *fiber.Ctx) error {
	var in dto.ListMembersRequest
	if err := parseQuery(c, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.members.List(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// member id del path, con control de acceso del socio.
func (h *MemberHandler) member(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	return id, CanAccessMember(c, id)
}

// GetByID GET /api/members/:id
func (h *MemberHandler) GetByID(c *fiber.Ctx) error {
	id, ok := h.member(c)
	if !ok {
		return h.forbidden(c)
	}
	out, err := h.members.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Snapshot GET /api/members/:id/snapshot
func (h *MemberHandler) Snapshot(c *fiber.Ctx) error {
	id, ok := h.member(c)
	if !ok {
		return h.forbidden(c)
	}
	out, err := h.snapshots.Get(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Statement GET /api/members/:id/statement.pdf
func (h *MemberHandler) Statement(c *fiber.Ctx) error {
	id, ok := h.member(c)
	if !ok {
		return h.forbidden(c)
	}
	pdfBytes, filename, err := h.statements.DownloadStatementPDF(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// Payments GET /api/members/:id/payments?page=&per_page=
func (h *MemberHandler) Payments(c *fiber.Ctx) error {
	id, ok := h.member(c)
	if !ok {
		return h.forbidden(c)
	}
	var page dto.PageRequest
	if err := parseQuery(c, &page); err != nil {
		return h.fail(c, err)
	}
	out, err := h.payments.ListPayments(c.UserContext(), id, page)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Enrollments GET /api/members/:id/enrollments
func (h *MemberHandler) Enrollments(c *fiber.Ctx) error {
	id, ok := h.member(c)
	if !ok {
		return h.forbidden(c)
	}
	out, err := h.enrollments.ListByMember(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// Dues GET /api/members/:id/dues?status=&date_from=&date_to=&page=&per_page=
func (h *MemberHandler) Dues(c *fiber.Ctx) error {
	id, ok := h.member(c)
	if !ok {
		return h.forbidden(c)
	}
	var in dto.ListDuesRequest
	if err := parseQuery(c, &in); err != nil {
		return h.fail(c, err)
	}
	in.MemberID = id
	out, err := h.dues.List(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// RecomputeStatus POST /api/members/:id/recompute-status
func (h *MemberHandler) RecomputeStatus(c *fiber.Ctx) error {
	out, err := h.lifecycle.Recompute(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
