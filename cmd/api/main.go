package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evwarranty_backend/internal/adapters"
	"evwarranty_backend/internal/adapters/storage"
	"evwarranty_backend/internal/catalog"
	"evwarranty_backend/internal/claims"
	"evwarranty_backend/internal/email"
	"evwarranty_backend/internal/events"
	apphttp "evwarranty_backend/internal/http"
	"evwarranty_backend/internal/http/router"
	"evwarranty_backend/internal/notification"
	"evwarranty_backend/internal/notification/outbox"
	"evwarranty_backend/internal/notification/sse"
	"evwarranty_backend/internal/technicians"
	"evwarranty_backend/internal/warranty"
	"evwarranty_backend/internal/workorders"
	worepository "evwarranty_backend/internal/workorders/repository"
	"evwarranty_backend/platform/config"
	"evwarranty_backend/platform/db"
	"evwarranty_backend/platform/logger"
	"evwarranty_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for claim evidence uploads (MinIO). Optional: without
	// it the attachment endpoints are simply not mounted.
	var storageSvc storage.Service
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure claim-attachments bucket", 5, 2*time.Second, func() error {
			return minioSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketClaimAttachments())
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketClaimAttachments())
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		storageSvc = minioSvc
		log.Info("storage service initialized", "claimAttachmentsBucket", cfg.GetMinioBucketClaimAttachments())
	} else {
		log.Warn("MinIO not configured; claim attachment uploads disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events
	notificationModule := notification.New(pool, sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)
	notificationModule.SetNotificationOutbox(outbox.New(pool))

	sseService := sse.New()
	defer sseService.Close()
	notificationModule.SetSSE(sseService)

	// Warranty policy module seeds coverage rules and exposes eligibility checks
	warrantyModule, err := warranty.NewModule(ctx, pool, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize warranty module", "error", err)
		panic("failed to initialize warranty module: " + err.Error())
	}

	techniciansModule := technicians.NewModule(pool, val, log)

	// The work order repository is shared with the claims module: claim
	// completion reads work order summaries without a module-level cycle.
	workOrderRepo := worepository.New(pool)

	claimsModule := claims.NewModule(
		pool,
		eventBus,
		val,
		cfg,
		log,
		adapters.NewWarrantyCheckerAdapter(warrantyModule.Service()),
		adapters.NewAssignmentCoordinatorAdapter(techniciansModule.Service()),
		adapters.NewWorkOrderReaderAdapter(workOrderRepo),
		storageSvc,
	)

	catalogModule := catalog.NewModule(pool, val, log)

	// Work orders authorize against the claim lifecycle, price parts from
	// the catalog and report repair stats back to the technician roster.
	workOrdersModule := workorders.NewModule(
		workOrderRepo,
		eventBus,
		val,
		log,
		adapters.NewClaimGuardAdapter(claimsModule.Service()),
		techniciansModule.Service(),
		adapters.NewPartsPricingAdapter(catalogModule.Service()),
	)

	// Notification handlers look up claim contact details through the repo
	notificationModule.SetClaimReader(adapters.NewClaimSnapshotAdapter(claimsModule.Repository()))

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			warrantyModule,
			techniciansModule,
			claimsModule,
			workOrdersModule,
			catalogModule,
			notificationModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
