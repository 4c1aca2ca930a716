package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/pkg/logger"
)

// ConfigHandler configuración económica por plan.
type ConfigHandler struct {
	base
	configs *billing.ConfigProvider
}

// NewConfigHandler construye el handler.
func NewConfigHandler(log *logger.Logger, configs *billing.ConfigProvider) *ConfigHandler {
	return &ConfigHandler{base: base{log: log}, configs: configs}
}

// List GET /api/configs
func (h *ConfigHandler) List(c *fiber.Ctx) error {
	out, err := h.configs.List(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// Get GET /api/configs/:slug
func (h *ConfigHandler) Get(c *fiber.Ctx) error {
	out, err := h.configs.Get(c.UserContext(), c.Params("slug"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/configs/:slug
func (h *ConfigHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateEconomicConfigRequest
	if err := parseBody(c, &in); err != nil {
		return h.fail(c, err)
	}
	out, err := h.configs.Update(c.UserContext(), c.Params("slug"), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
