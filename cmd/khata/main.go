package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/khata-erp/khata-erp/internal/app"
	"github.com/khata-erp/khata-erp/internal/chequebooks"
	"github.com/khata-erp/khata-erp/internal/platform/cache"
	"github.com/khata-erp/khata-erp/internal/platform/db"
	"github.com/khata-erp/khata-erp/internal/printing"
	"github.com/khata-erp/khata-erp/internal/purchases"
	"github.com/khata-erp/khata-erp/internal/shared"
	"github.com/khata-erp/khata-erp/internal/templates"
	"github.com/khata-erp/khata-erp/internal/vendors"
	"github.com/khata-erp/khata-erp/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, template cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)

	vendorRepo := vendors.NewRepository(pool)
	vendorService := vendors.NewService(vendorRepo, auditLogger)
	vendorHandler := vendors.NewHandler(logger, vendorService)

	purchaseRepo := purchases.NewRepository(pool)
	purchaseService := purchases.NewService(purchaseRepo, vendorService, auditLogger)
	purchaseHandler := purchases.NewHandler(logger, purchaseService)

	bookRepo := chequebooks.NewRepository(pool)
	bookService := chequebooks.NewService(bookRepo, auditLogger)
	bookHandler := chequebooks.NewHandler(logger, bookService)

	templateRepo := templates.NewRepository(pool)
	templateCache := templates.NewCache(redisClient, cfg.TemplateCacheTTL)
	templateService := templates.NewService(templateRepo, templateCache, auditLogger)
	templateHandler := templates.NewHandler(logger, templateService)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("asynq client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}()

	printRepo := printing.NewRepository(pool, cfg.StorageTimeout)
	printService := printing.NewService(printRepo, templateService, jobClient, auditLogger)
	printHandler := printing.NewHandler(logger, printService)

	jobHandler := jobs.NewHandler(asynq.NewInspector(redisOpts), logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		VendorsHandler:     vendorHandler,
		PurchasesHandler:   purchaseHandler,
		ChequeBooksHandler: bookHandler,
		TemplatesHandler:   templateHandler,
		PrintingHandler:    printHandler,
		JobHandler:         jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
}
