package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los errores con detalle envuelven uno de estos con fmt.Errorf("%w: ...") y se comparan con errors.Is.
var (
	ErrValidation   = errors.New("datos inválidos")
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidState = errors.New("estado inválido para la operación")
	ErrIntegrity    = errors.New("inconsistencia de integridad")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)
