// dues_job ejecuta los procesos masivos de cuotas. Pensado para correr desde cron.
//
// Uso: go run ./cmd/dues_job [-generate] [-statuses] [-members] [-integrity [-fix]]
// Sin flags corre generate, statuses y members en ese orden.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/club-cuotas-api/internal/application/billing"
	"github.com/jhoicas/club-cuotas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/club-cuotas-api/pkg/config"
	"github.com/jhoicas/club-cuotas-api/pkg/logger"
)

func main() {
	generate := flag.Bool("generate", false, "generar cuotas faltantes de las inscripciones activas")
	statuses := flag.Bool("statuses", false, "resincronizar el estado guardado de las cuotas")
	members := flag.Bool("members", false, "recalcular el estado de ciclo de vida de los socios")
	integrity := flag.Bool("integrity", false, "chequear cuotas huérfanas o inconsistentes")
	fix := flag.Bool("fix", false, "con -integrity, borrar las cuotas huérfanas")
	flag.Parse()

	if !*generate && !*statuses && !*members && !*integrity {
		*generate, *statuses, *members = true, true, true
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Component("dues_job")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	b := cfg.Billing
	engine := billing.NewEngine(postgres.NewTxRunner(pool), billing.Settings{
		ClubName:          cfg.App.Name,
		DefaultPlan:       b.DefaultPlanSlug,
		CurrencyCode:      b.DefaultCurrency,
		MonthlyAmount:     b.DefaultMonthlyAmount,
		DueDay:            b.DefaultDueDay,
		GracePeriodDays:   b.DefaultGracePeriodDays,
		LateFeePercentage: b.DefaultLateFeePercentage,
		LifetimeThreshold: b.LifetimeThreshold,
		Location:          b.Location(),
	}, nil, log)

	failed := false
	if *generate {
		res, err := billing.NewDueGenerator(engine).GenerateAll(ctx)
		if err != nil {
			log.Error().Err(err).Msg("generación de cuotas")
			failed = true
		} else {
			log.Info().Int("enrollments", res.Enrollments).Int("created", res.Created).Msg("cuotas generadas")
		}
	}
	if *statuses {
		res, err := billing.NewDueQueryUseCase(engine).RecomputeStatuses(ctx)
		if err != nil {
			log.Error().Err(err).Msg("resincronizar estados de cuotas")
			failed = true
		} else {
			log.Info().Int("checked", res.Checked).Int("updated", res.Updated).Msg("estados de cuotas resincronizados")
		}
	}
	if *members {
		n, err := billing.NewLifecycleUseCase(engine).RecomputeAll(ctx)
		if err != nil {
			log.Error().Err(err).Msg("recalcular socios")
			failed = true
		} else {
			log.Info().Int("changed", n).Msg("estados de socios recalculados")
		}
	}
	if *integrity {
		report, err := billing.NewIntegrityUseCase(engine).Check(ctx, *fix)
		if err != nil {
			log.Error().Err(err).Msg("chequeo de integridad")
			failed = true
		} else {
			for _, issue := range report.Issues {
				log.Warn().Str("kind", issue.Kind).Str("due_id", issue.DueID).Str("enrollment_id", issue.EnrollmentID).Msg("cuota inconsistente")
			}
			log.Info().Int("issues", len(report.Issues)).Int("deleted", report.Deleted).Msg("chequeo de integridad finalizado")
		}
	}

	if failed {
		pool.Close()
		os.Exit(1)
	}
}
