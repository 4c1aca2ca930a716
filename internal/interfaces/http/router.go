package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/club-cuotas-api/internal/application/analytics"
	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/pkg/jwt"
	"github.com/jhoicas/club-cuotas-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Configs     *billing.ConfigProvider
	Members     *billing.MemberUseCase
	Enrollments *billing.EnrollmentUseCase
	Generator   *billing.DueGenerator
	Dues        *billing.DueQueryUseCase
	Payments    *billing.PaymentUseCase
	Snapshots   *billing.SnapshotUseCase
	Lifecycle   *billing.LifecycleUseCase
	Integrity   *billing.IntegrityUseCase
	Statements  *billing.StatementUseCase
	Dashboard   *analytics.DashboardUseCase
	Reports     *analytics.ReportUseCase
	Logger      *logger.Logger
	JWTSecret   string
	ServiceName string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleMember)

	// Socios: el alta y el listado son de administración; el resto, del propio socio o admin
	members := protected.Group("/members")
	memberHandler := NewMemberHandler(log, deps.Members, deps.Enrollments, deps.Snapshots,
		deps.Payments, deps.Dues, deps.Lifecycle, deps.Statements)
	members.Post("/", adminOnly, memberHandler.Create)
	members.Get("/", adminOnly, memberHandler.List)
	members.Get("/:id", anyRole, memberHandler.GetByID)
	members.Get("/:id/snapshot", anyRole, memberHandler.Snapshot)
	members.Get("/:id/statement.pdf", anyRole, memberHandler.Statement)
	members.Get("/:id/payments", anyRole, memberHandler.Payments)
	members.Get("/:id/enrollments", anyRole, memberHandler.Enrollments)
	members.Get("/:id/dues", anyRole, memberHandler.Dues)
	members.Post("/:id/recompute-status", adminOnly, memberHandler.RecomputeStatus)

	// Inscripciones (admin)
	enrollments := protected.Group("/enrollments", adminOnly)
	enrollmentHandler := NewEnrollmentHandler(log, deps.Enrollments, deps.Generator)
	enrollments.Post("/", enrollmentHandler.Create)
	enrollments.Get("/:id", enrollmentHandler.GetByID)
	enrollments.Post("/:id/cancel", enrollmentHandler.Cancel)
	enrollments.Post("/:id/reactivate", enrollmentHandler.Reactivate)
	enrollments.Post("/:id/generate-dues", enrollmentHandler.GenerateDues)

	// Cuotas y pagos
	dues := protected.Group("/dues", anyRole)
	dueHandler := NewDueHandler(log, deps.Dues)
	paymentHandler := NewPaymentHandler(log, deps.Payments)
	dues.Get("/", dueHandler.List)
	dues.Post("/pay", paymentHandler.PayDues)
	dues.Post("/pay-sequential", paymentHandler.PaySequential)
	dues.Get("/:id", dueHandler.GetByID)
	protected.Post("/payments", anyRole, paymentHandler.Record)

	// Configuración económica: lectura para cualquier sesión, cambios solo admin
	configs := protected.Group("/configs")
	configHandler := NewConfigHandler(log, deps.Configs)
	configs.Get("/", anyRole, configHandler.List)
	configs.Get("/:slug", anyRole, configHandler.Get)
	configs.Put("/:slug", adminOnly, configHandler.Update)

	// Dashboard y reportes (admin)
	dashboardHandler := NewDashboardHandler(log, deps.Dashboard, deps.Reports)
	protected.Get("/dashboard/summary", adminOnly, dashboardHandler.GetSummary)
	protected.Get("/reports/collections", adminOnly, dashboardHandler.Collections)

	// Procesos masivos (admin)
	admin := protected.Group("/admin", adminOnly)
	adminHandler := NewAdminHandler(log, deps.Generator, deps.Dues, deps.Lifecycle, deps.Integrity)
	admin.Post("/generate-dues", adminHandler.GenerateDues)
	admin.Post("/recompute-statuses", adminHandler.RecomputeStatuses)
	admin.Post("/recompute-members", adminHandler.RecomputeMembers)
	admin.Post("/integrity-check", adminHandler.IntegrityCheck)
}
