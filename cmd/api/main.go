package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-archive/internal/common/api"
	"go-archive/internal/config"
	"go-archive/internal/database"
	"go-archive/internal/features/audit"
	"go-archive/internal/features/catalog"
	"go-archive/internal/features/events"
	"go-archive/internal/features/export"
	"go-archive/internal/features/ingest"
	"go-archive/internal/features/record"
	"go-archive/internal/features/report"
	"go-archive/internal/features/schedule"
	"go-archive/internal/features/share"
	"go-archive/internal/features/system"
	"go-archive/internal/features/template"
	"go-archive/internal/logger"
	"go-archive/internal/middleware"
	"go-archive/pkg/utils"

	_ "go-archive/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags a constructor so Fx adds its result to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes calls Setup() on every collected route.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer starts Fiber in a goroutine and shuts it down on exit.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	utils.SetSecret(cfg.JWTSecret)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// StartScheduler drives the schedule service off a cron ticker. The
// service itself holds no clock.
func StartScheduler(lc fx.Lifecycle, svc schedule.ScheduleService, cfg *config.Config, logger *zap.Logger) {
	runner := cron.New()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			spec := "@every " + cfg.TickInterval.String()
			_, err := runner.AddFunc(spec, func() {
				tickCtx, cancel := context.WithTimeout(context.Background(), cfg.TickInterval)
				defer cancel()
				if n := svc.Tick(tickCtx); n > 0 {
					logger.Info("scheduler tick", zap.Int("ran", n))
				}
			})
			if err != nil {
				return err
			}
			runner.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopCtx := runner.Stop()
			select {
			case <-stopCtx.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
}

// WireTriggers feeds domain events into trigger schedules.
func WireTriggers(hub *events.Hub, svc schedule.ScheduleService) {
	hub.Subscribe(svc.NotifyEvent)
}

// @title           Archive Report Engine API
// @version         1.0
// @description     Configurable reporting service for archival collections.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			catalog.NewRegistry,
			events.NewHub,
			export.NewRendererRegistry,

			record.NewRecordRepository,
			report.NewReportRepository,
			schedule.NewScheduleRepository,
			share.NewShareRepository,
			template.NewTemplateRepository,
			audit.NewAuditRepository,

			audit.NewAuditService,
			catalog.NewCatalogService,
			report.NewQueryEngine,
			report.NewReportService,
			export.NewExportService,
			schedule.NewScheduleService,
			share.NewShareService,
			template.NewTemplateService,
			ingest.NewIngestService,

			catalog.NewCatalogController,
			report.NewReportController,
			export.NewExportController,
			schedule.NewScheduleController,
			share.NewShareController,
			template.NewTemplateController,

			AsRoute(catalog.NewCatalogApi),
			AsRoute(report.NewReportApi),
			AsRoute(export.NewExportApi),
			AsRoute(schedule.NewScheduleApi),
			AsRoute(share.NewShareApi),
			AsRoute(template.NewTemplateApi),
			AsRoute(ingest.NewIngestApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(events.NewEventsApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartScheduler,
			WireTriggers,
		),
	)

	app.Run()
}
