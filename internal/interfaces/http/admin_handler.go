package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/pkg/logger"
)

// AdminHandler procesos masivos que también corre cmd/dues_job.
type AdminHandler struct {
	base
	generator *billing.DueGenerator
	dues      *billing.DueQueryUseCase
	lifecycle *billing.LifecycleUseCase
	integrity *billing.IntegrityUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(
	log *logger.Logger,
	generator *billing.DueGenerator,
	dues *billing.DueQueryUseCase,
	lifecycle *billing.LifecycleUseCase,
	integrity *billing.IntegrityUseCase,
) *AdminHandler {
	return &AdminHandler{base: base{log: log}, generator: generator, dues: dues, lifecycle: lifecycle, integrity: integrity}
}

// GenerateDues POST /api/admin/generate-dues
func (h *AdminHandler) GenerateDues(c *fiber.Ctx) error {
	out, err := h.generator.GenerateAll(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// RecomputeStatuses POST /api/admin/recompute-statuses
func (h *AdminHandler) RecomputeStatuses(c *fiber.Ctx) error {
	out, err := h.dues.RecomputeStatuses(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// RecomputeMembers POST /api/admin/recompute-members
func (h *AdminHandler) RecomputeMembers(c *fiber.Ctx) error {
	n, err := h.lifecycle.RecomputeAll(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"changed": n})
}

// IntegrityCheck POST /api/admin/integrity-check?fix=true
func (h *AdminHandler) IntegrityCheck(c *fiber.Ctx) error {
	out, err := h.integrity.Check(c.UserContext(), c.QueryBool("fix", false))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
