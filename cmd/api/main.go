package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-desk/internal/api/http"
	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/businesshours"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/mailbuilder"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/scheduler"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	ruleRepo := repository.NewEscalationRuleRepository(pool)
	messageRepo := repository.NewTicketMessageRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	settingsRepo := repository.NewSiteSettingsRepository(pool)

	calendar := businesshours.DefaultCalendar()
	if cfg.SLA.CalendarPath != "" {
		calendar, err = businesshours.LoadCalendar(cfg.SLA.CalendarPath)
		if err != nil {
			logger.Fatal("failed to load business calendar", zap.Error(err))
		}
	}

	dispatcher := events.NewInMemoryDispatcher(logger)

	var forwarder *events.KafkaForwarder
	if cfg.Kafka.Enabled() {
		forwarder = events.NewKafkaForwarder(cfg.Kafka, logger)
		forwarder.Register(dispatcher)
		defer forwarder.Close() //nolint:errcheck
		logger.Info("kafka event mirroring enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	metrics := observability.NewMetrics()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		HistoryRepo: historyRepo,
		Dispatcher:  dispatcher,
	})
	slaService := service.NewSlaService(service.SlaDependencies{
		TicketRepo:        ticketRepo,
		Calculator:        businesshours.NewCalculator(calendar),
		BusinessHoursOnly: cfg.SLA.BusinessHoursOnly,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	escalationService := service.NewEscalationService(service.EscalationDependencies{
		TicketRepo:  ticketRepo,
		RuleRepo:    ruleRepo,
		MessageRepo: messageRepo,
		HistoryRepo: historyRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	var renderer mailbuilder.Renderer
	var rendererProbe handlers.Pinger
	if cfg.Mail.RendererURL != "" {
		httpRenderer := mailbuilder.NewHTTPRenderer(cfg.Mail.RendererURL, cfg.Mail.RendererTimeout(), logger)
		renderer = httpRenderer
		rendererProbe = httpRenderer
	} else {
		logger.Warn("MJML renderer not configured, template compile returns raw MJML")
	}
	templateService := service.NewTemplateService(service.TemplateDependencies{
		Compiler:     mailbuilder.NewCompiler(logger),
		Renderer:     renderer,
		SiteSettings: settingsRepo,
		Unsubscribe:  tokens.NewManager(cfg.Mail.UnsubscribeSecret, cfg.Mail.UnsubscribeTTL()),
		Logger:       logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	automation := scheduler.NewAutomation(scheduler.Dependencies{
		TicketRepo:    ticketRepo,
		TicketService: ticketService,
		SlaService:    slaService,
		Escalation:    escalationService,
		Dispatcher:    dispatcher,
		Locks:         persistence.NewTicketLock(redis.Client, cfg.Automation.TicketLockTTL()),
		Logger:        logger,
		Metrics:       metrics,
		Config:        cfg.Automation,
	})
	automation.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, rendererProbe),
		Tickets:    handlers.NewTicketsHandler(ticketService, slaService),
		Templates:  handlers.NewTemplatesHandler(templateService),
		Rules:      handlers.NewRulesHandler(ruleRepo),
		Settings:   handlers.NewSettingsHandler(settingsRepo),
		Automation: handlers.NewAutomationHandler(automation),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
