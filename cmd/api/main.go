package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/yarn-inventory/internal/application/analytics"
	"github.com/jhoicas/yarn-inventory/internal/application/audit"
	"github.com/jhoicas/yarn-inventory/internal/application/auth"
	"github.com/jhoicas/yarn-inventory/internal/application/inventory"
	"github.com/jhoicas/yarn-inventory/internal/application/report"
	"github.com/jhoicas/yarn-inventory/internal/application/usecase"
	"github.com/jhoicas/yarn-inventory/internal/infrastructure/htmlreport"
	"github.com/jhoicas/yarn-inventory/internal/infrastructure/mail"
	"github.com/jhoicas/yarn-inventory/internal/infrastructure/pdf"
	"github.com/jhoicas/yarn-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/yarn-inventory/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/yarn-inventory/internal/interfaces/http"
	"github.com/jhoicas/yarn-inventory/pkg/config"
	"github.com/jhoicas/yarn-inventory/pkg/logger"
)

// multipart framing on top of the largest accepted upload
const bodyLimitMargin = 64 * 1024

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("apply migrations")
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	usageRepo := postgres.NewUsageRepository(pool)
	logRepo := postgres.NewLogRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	recorder := audit.NewRecorder(logRepo, log.Component("audit"))

	authUC := auth.NewAuthUseCase(userRepo, recorder, auth.TokenConfig{
		Secret: cfg.Session.Secret,
		Issuer: cfg.Session.Issuer,
		TTL:    cfg.Session.IdleTimeout,
	})
	stockUC := inventory.NewStockUseCase(stockRepo, supplierRepo, txRunner, recorder)
	withdrawUC := inventory.NewWithdrawUseCase(txRunner)
	usageUC := inventory.NewUsageUseCase(usageRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, recorder)
	logUC := audit.NewLogUseCase(logRepo)
	dashboardUC := analytics.NewDashboardUseCase(dashboardRepo)

	htmlRenderer, err := htmlreport.New()
	if err != nil {
		log.Fatal().Err(err).Msg("parse report template")
	}
	reportDeps := report.Deps{
		StockRepo: stockRepo,
		UsageRepo: usageRepo,
		CSV:       spreadsheet.NewCSVEncoder(),
		HTML:      htmlRenderer,
		PDF:       pdf.NewStockReportRenderer(),
		Recipient: cfg.Mail.Recipient,
		Recorder:  recorder,
	}
	// A nil *SMTPMailer must not reach the interface field.
	if m := mail.NewSMTPMailer(cfg.Mail); m != nil {
		reportDeps.Mailer = m
	} else {
		log.Warn().Msg("SMTP not configured, emailed reports disabled")
	}
	reportUC := report.NewReportUseCase(reportDeps)

	app := httpRouter.NewServer(httpRouter.ServerConfig{
		AppName:       cfg.App.Name,
		SessionSecret: cfg.Session.Secret,
		BodyLimit:     cfg.Upload.MaxBytes + bodyLimitMargin,
		Log:           log.Component("http"),
	})

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.Docs.FilePath,
		Path:     "docs",
		Title:    "Yarn Inventory API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions: httpRouter.NewSessionManager(httpRouter.SessionConfig{
			CookieName:  cfg.Session.CookieName,
			Secure:      cfg.Session.CookieSecure,
			IdleTimeout: cfg.Session.IdleTimeout,
		}),
		TokenSecret:    cfg.Session.Secret,
		AuthUC:         authUC,
		DashboardUC:    dashboardUC,
		StockUC:        stockUC,
		WithdrawUC:     withdrawUC,
		UsageUC:        usageUC,
		SupplierUC:     supplierUC,
		LogUC:          logUC,
		ReportUC:       reportUC,
		ReadStockRows:  spreadsheet.ReadStockRows,
		UploadDir:      cfg.Upload.Dir,
		UploadMaxBytes: int64(cfg.Upload.MaxBytes),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("stopped")
}
