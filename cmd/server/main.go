package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"gstdesk/internal/cache"
	"gstdesk/internal/config"
	"gstdesk/internal/email/noop"
	"gstdesk/internal/email/ses"
	"gstdesk/internal/handler"
	"gstdesk/internal/logging"
	"gstdesk/internal/observability"
	"gstdesk/internal/port"
	"gstdesk/internal/repository/postgres"
	"gstdesk/internal/router"
	"gstdesk/internal/service"
	s3storage "gstdesk/internal/storage/s3"
)

// @title GSTDesk API
// @version 1.0
// @description GST computation, return filing and compliance tracking for Indian businesses.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logging.New(cfg.Log)
	handler.SetLogger(log)
	if err := handler.RegisterValidators(); err != nil {
		return err
	}

	loc, err := cfg.Filing.Location()
	if err != nil {
		return err
	}
	cal := service.NewCalendar(loc)

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	metrics := observability.NewMetrics()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis ping failed; liabilities will be computed on every request until it recovers")
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.WithError(err).Warn("redis close")
			}
		}()
	} else {
		log.Info("redis not configured; liability cache disabled")
	}
	liabilityCache := cache.NewLiabilityCache(rdb, cfg.Redis.TTL, metrics.Registerer(), log)

	// Initialize repositories
	businessRepo := postgres.NewBusinessRepo(db)
	userRepo := postgres.NewUserRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	purchaseRepo := postgres.NewPurchaseRepo(db)
	returnRepo := postgres.NewFilingReturnRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)
	hsnRepo := postgres.NewHSNRepo(db)

	// Initialize storage and email
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	sender, err := newEmailSender(cfg.Email, log)
	if err != nil {
		return err
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, businessRepo, cfg.JWT)
	businessSvc := service.NewBusinessService(businessRepo, userRepo)
	userSvc := service.NewUserService(userRepo)
	hsnSvc := service.NewHSNService(hsnRepo)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, businessRepo, returnRepo, liabilityCache, hsnSvc, log)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, businessRepo, returnRepo, liabilityCache, hsnSvc, log)
	liabilitySvc := service.NewLiabilityService(invoiceRepo, purchaseRepo, liabilityCache)
	filingSvc := service.NewFilingService(returnRepo, businessRepo, liabilitySvc, cal, log)
	paymentSvc := service.NewPaymentService(paymentRepo, returnRepo)
	complianceSvc := service.NewComplianceService(returnRepo, cfg.Compliance.Weights(), cal)
	exportSvc := service.NewExportService(businessRepo, invoiceRepo, purchaseRepo, liabilitySvc, s3Client, &cfg.S3, log)

	checks := []handler.ReadinessCheck{{Name: "database", Check: db.PingContext}}
	if rdb != nil {
		checks = append(checks, handler.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	r := router.Setup(cfg, log, metrics, authSvc, router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Business: handler.NewBusinessHandler(businessSvc),
		User:     handler.NewUserHandler(userSvc),
		Invoice:  handler.NewInvoiceHandler(invoiceSvc),
		Purchase: handler.NewPurchaseHandler(purchaseSvc),
		Filing:   handler.NewFilingHandler(filingSvc),
		Payment:  handler.NewPaymentHandler(paymentSvc),
		Report:   handler.NewReportHandler(liabilitySvc, complianceSvc, exportSvc),
		Tools:    handler.NewToolsHandler(hsnSvc),
		Health:   handler.NewHealthHandler(checks...),
	})

	var wg sync.WaitGroup
	if rdb != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := liabilityCache.Watch(ctx); err != nil {
				log.WithError(err).Warn("liability cache watcher stopped")
			}
		}()
	}
	if cfg.Reminder.Enabled {
		worker := service.NewReminderWorker(returnRepo, businessRepo, userRepo, sender, cal, cfg.Reminder, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Start(ctx)
		}()
	}

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Port).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("server failed: %w", err)
		}
	}
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown")
	}
	wg.Wait()
	return nil
}

func newEmailSender(cfg config.EmailConfig, log *logrus.Logger) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		sender, err := ses.NewSESSender(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		return sender, nil
	case "", "noop":
		return noop.NewNoopSender(cfg.FrontendURL, log), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
