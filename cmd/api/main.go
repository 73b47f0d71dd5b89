package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/config"
	"github.com/xavierca1/opsdesk/internal/entity"
	"github.com/xavierca1/opsdesk/internal/infra/database"
	"github.com/xavierca1/opsdesk/internal/infra/http/handlers"
	"github.com/xavierca1/opsdesk/internal/infra/http/middleware"
	"github.com/xavierca1/opsdesk/internal/infra/integration/shopify"
	"github.com/xavierca1/opsdesk/internal/infra/integration/whatsapp"
	"github.com/xavierca1/opsdesk/internal/infra/mail"
	"github.com/xavierca1/opsdesk/internal/infra/queue"
	"github.com/xavierca1/opsdesk/internal/infra/worker"
	"github.com/xavierca1/opsdesk/internal/logging"
	"github.com/xavierca1/opsdesk/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Databases
	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("✅ connected to postgres")

	if cfg.RunMigrations {
		res, err := database.Migrate(db)
		if err != nil {
			return err
		}
		logger.Info("📦 migrations applied", zap.Uint("version", res.Version), zap.Bool("changed", res.Changed))
	}

	var legacyDB *sql.DB
	var legacyRepo entity.LegacyLeadRepositoryInterface
	if dsn := cfg.LegacyDSN(); dsn != "" {
		legacyDB, err = database.NewLegacyConnection(dsn)
		if err != nil {
			// the dashboard keeps working on primary leads only
			logger.Warn("⚠️ legacy lead database unavailable", zap.Error(err))
		} else {
			defer legacyDB.Close()
			legacyRepo = database.NewLegacyLeadRepository(legacyDB)
			logger.Info("✅ connected to legacy mysql")
		}
	}

	// 2. Repositories
	checkoutRepo := database.NewCheckoutRepository(db)
	remarkRepo := database.NewRemarkRepository(db)
	leadRepo := database.NewLeadRepository(db)
	templateRepo := database.NewTemplateRepository(db)
	callRecordRepo := database.NewCallRecordRepository(db)

	// 3. Integrations
	shopifyBase := ""
	if cfg.ShopifyConfigured() {
		shopifyBase = cfg.ShopifyBaseURL()
	} else {
		logger.Warn("⚠️ Shopify credentials not set, commerce endpoints will fail")
	}
	shopifyClient := shopify.NewClient(shopifyBase, cfg.ShopifyAccessToken, logger)

	var rabbit *queue.RabbitMQ
	var producer usecase.QueueProducerInterface
	if cfg.RabbitMQURL != "" {
		rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("⚠️ rabbitmq unavailable, outreach dispatch disabled", zap.Error(err))
			rabbit = nil
		} else {
			defer rabbit.Close()
			producer = queue.NewProducer(rabbit.Ch)
			logger.Info("✅ connected to rabbitmq")
		}
	}

	// 4. Use cases
	checkoutUC := usecase.NewCheckoutUseCase(checkoutRepo, shopifyClient, middleware.SyncMetrics{}, logger)
	cartUC := usecase.NewCartUseCase(checkoutRepo, remarkRepo, logger)
	remarkUC := usecase.NewRemarkUseCase(remarkRepo, checkoutRepo, logger)
	leadUC := usecase.NewLeadUseCase(leadRepo, legacyRepo, logger)
	templateUC := usecase.NewTemplateUseCase(templateRepo, logger)
	sendMessageUC := usecase.NewSendMessageUseCase(templateRepo, cartUC, producer, cfg.StoreName, logger)
	productUC := usecase.NewProductUseCase(shopifyClient, logger)
	callRecordUC := usecase.NewCallRecordUseCase(callRecordRepo, logger)

	// 5. Workers
	if cfg.SyncEnabled && cfg.ShopifyConfigured() {
		go worker.NewCheckoutSyncWorker(checkoutUC, cfg.SyncInterval, logger).Start(ctx)
	}

	if rabbit != nil {
		consumerCh, err := rabbit.Conn.Channel()
		if err != nil {
			return fmt.Errorf("open consumer channel: %w", err)
		}
		outreach := queue.NewWorker(
			consumerCh,
			whatsapp.NewClient(cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneID, cfg.WhatsAppBaseURL, logger),
			mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.StoreName),
			remarkRepo,
			logger,
		)
		outreach.Observer = middleware.DeliveryMetrics{}
		go func() {
			if err := outreach.Start(ctx); err != nil {
				logger.Error("❌ outreach worker exited", zap.Error(err))
			}
		}()
	}

	// 6. HTTP
	limiter := handlers.NewRateLimiter(60, time.Minute)
	go limiter.Cleanup(5*time.Minute, ctx.Done())

	var broker handlers.BrokerHealth
	if rabbit != nil {
		broker = rabbit
	}
	router := newRouter(cfg, logger, routes{
		health:      handlers.NewHealthHandler(db, legacyDB, broker, cfg.ShopifyConfigured()),
		checkouts:   handlers.NewCheckoutHandler(checkoutUC, logger),
		carts:       handlers.NewCartHandler(cartUC, remarkUC, logger),
		leads:       handlers.NewLeadHandler(leadUC, logger),
		templates:   handlers.NewTemplateHandler(templateUC, sendMessageUC, logger),
		products:    handlers.NewProductHandler(productUC, logger),
		callRecords: handlers.NewCallRecordHandler(callRecordUC, logger),
		limiter:     limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🔥 opsdesk API listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("🛑 shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
