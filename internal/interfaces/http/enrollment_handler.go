package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/pkg/logger"
)

// EnrollmentHandler inscripciones y generación de cuotas.
type EnrollmentHandler struct {
	base
	enrollments *billing.EnrollmentUseCase
	generator   *billing.DueGenerator
}

// NewEnrollmentHandler construye el handler.
func NewEnrollmentHandler(log *logger.Logger, enrollments *billing.EnrollmentUseCase, generator *billing.DueGenerator) *EnrollmentHandler {
	return &EnrollmentHandler{base: base{log: log}, enrollments: enrollments, generator: generator}
}

// Create POST /api/enrollments
func (h *EnrollmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEnrollmentRequest
	if err := parseBody(c, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.enrollments.Create(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/enrollments/:id
func (h *EnrollmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.enrollments.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Cancel POST /api/enrollments/:id/cancel
func (h *EnrollmentHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.enrollments.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Reactivate POST /api/enrollments/:id/reactivate
func (h *EnrollmentHandler) Reactivate(c *fiber.Ctx) error {
	out, err := h.enrollments.Reactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// GenerateDues POST /api/enrollments/:id/generate-dues
func (h *EnrollmentHandler) GenerateDues(c *fiber.Ctx) error {
	out, err := h.generator.GenerateForEnrollment(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
