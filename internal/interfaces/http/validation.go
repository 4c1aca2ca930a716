package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/club-cuotas-api/internal/domain"
)

var validate = validator.New()

var errInvalidBody = fmt.Errorf("%w: cuerpo inválido", domain.ErrValidation)

// validateStruct aplica los tags validate y devuelve domain.ErrValidation con los campos fallidos.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", f.Field(), f.Tag(), f.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field(), f.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

// parseBody decodifica el JSON del body y lo valida.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	return validateStruct(dst)
}

// parseQuery decodifica los query params y los valida.
func parseQuery(c *fiber.Ctx, dst interface{}) error {
	if err := c.QueryParser(dst); err != nil {
		return fmt.Errorf("%w: parámetros inválidos", domain.ErrValidation)
	}
	return validateStruct(dst)
}
