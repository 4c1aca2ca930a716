package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/club-cuotas-api/internal/application/analytics"
	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/domain/repository"
	infracache "github.com/jhoicas/club-cuotas-api/internal/infrastructure/cache"
	"github.com/jhoicas/club-cuotas-api/internal/infrastructure/memstore"
	infrapdf "github.com/jhoicas/club-cuotas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/club-cuotas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/club-cuotas-api/internal/interfaces/http"
	"github.com/jhoicas/club-cuotas-api/pkg/config"
	"github.com/jhoicas/club-cuotas-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()

	// Almacenamiento: PostgreSQL, o memoria en modo demo (los datos no sobreviven al proceso)
	var (
		txRunner billing.TxRunner
		repos    billing.Repos
		reports  repository.ReportRepository
	)
	if cfg.App.Env == "demo" {
		store := memstore.New()
		txRunner, repos, reports = store, store.Repos(), store.Reports()
		log.Warn().Msg("modo demo: almacenamiento en memoria")
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner, repos, reports = postgres.NewTxRunner(pool), postgres.NewRepos(pool), postgres.NewReportRepository(pool)
	}

	// Caché de dashboard y reportes; sin REDIS_URL se calcula siempre
	var cache analytics.Cache
	if cfg.Redis.URL != "" {
		rc, err := infracache.NewRedisCache(ctx, cfg.Redis.URL, cfg.App.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rc.Close()
		cache = rc
	}

	engine := billing.NewEngine(txRunner, settingsFrom(cfg), nil, log)
	configProvider := billing.NewConfigProvider(engine, repos.Configs)
	memberUC := billing.NewMemberUseCase(engine)
	enrollmentUC := billing.NewEnrollmentUseCase(engine)
	generator := billing.NewDueGenerator(engine)
	dueQueries := billing.NewDueQueryUseCase(engine)
	paymentUC := billing.NewPaymentUseCase(engine)
	snapshotUC := billing.NewSnapshotUseCase(engine)
	lifecycleUC := billing.NewLifecycleUseCase(engine)
	integrityUC := billing.NewIntegrityUseCase(engine)

	// PDF: estado de cuenta del socio
	statementUC := billing.NewStatementUseCase(engine, infrapdf.NewStatementPDFGenerator("es"))

	dashboardUC := analytics.NewDashboardUseCase(repos.Members, repos.Enrollments, reports, dueQueries, cache,
		time.Duration(cfg.Billing.DashboardCacheTTLSeconds)*time.Second, engine.Now)
	reportUC := analytics.NewReportUseCase(reports, cache,
		time.Duration(cfg.Billing.ReportCacheTTLSeconds)*time.Second, engine.Now)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestTimeout(cfg.HTTP.RequestTimeout()))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Club Cuotas API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Configs:     configProvider,
		Members:     memberUC,
		Enrollments: enrollmentUC,
		Generator:   generator,
		Dues:        dueQueries,
		Payments:    paymentUC,
		Snapshots:   snapshotUC,
		Lifecycle:   lifecycleUC,
		Integrity:   integrityUC,
		Statements:  statementUC,
		Dashboard:   dashboardUC,
		Reports:     reportUC,
		Logger:      log,
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func settingsFrom(cfg *config.Config) billing.Settings {
	b := cfg.Billing
	return billing.Settings{
		ClubName:          cfg.App.Name,
		DefaultPlan:       b.DefaultPlanSlug,
		CurrencyCode:      b.DefaultCurrency,
		MonthlyAmount:     b.DefaultMonthlyAmount,
		DueDay:            b.DefaultDueDay,
		GracePeriodDays:   b.DefaultGracePeriodDays,
		LateFeePercentage: b.DefaultLateFeePercentage,
		LifetimeThreshold: b.LifetimeThreshold,
		Location:          b.Location(),
	}
}
