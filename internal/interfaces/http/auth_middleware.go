package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/club-cuotas-api/internal/application/dto"
	"github.com/jhoicas/club-cuotas-api/pkg/jwt"
)

// Locals keys para la identidad del token en Fiber.
const (
	LocalUserID   = "user_id"
	LocalMemberID = "member_id"
	LocalRole     = "role"
)

// AuthMiddleware valida el Bearer Token JWT y carga user_id, member_id y role en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalMemberID, id.MemberID)
		c.Locals(LocalRole, id.Role)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "rol no encontrado en el token"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permisos insuficientes"})
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetMemberID socio asociado al token; vacío para administradores sin socio.
func GetMemberID(c *fiber.Ctx) string { return localString(c, LocalMemberID) }

// GetRole rol del token.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// IsAdmin el administrador opera sobre cualquier socio.
func IsAdmin(c *fiber.Ctx) bool { return GetRole(c) == jwt.RoleAdmin }

// CanAccessMember administradores siempre; socios solo sus propios datos.
func CanAccessMember(c *fiber.Ctx, memberID string) bool {
	if IsAdmin(c) {
		return true
	}
	own := GetMemberID(c)
	return own != "" && own == memberID
}

// actorMemberID socio al que se restringe la operación: vacío para administradores.
func actorMemberID(c *fiber.Ctx) string {
	if IsAdmin(c) {
		return ""
	}
	return GetMemberID(c)
}
