package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	app_service "mongolog-report-bot/internal/application/service"
	"mongolog-report-bot/internal/domain/entity"
	"mongolog-report-bot/internal/domain/repository"
	domain_service "mongolog-report-bot/internal/domain/service"
	"mongolog-report-bot/internal/infrastructure/config"
	"mongolog-report-bot/internal/infrastructure/database"
	"mongolog-report-bot/internal/infrastructure/export"
	"mongolog-report-bot/internal/infrastructure/logger"
	"mongolog-report-bot/internal/infrastructure/messaging"
	"mongolog-report-bot/internal/infrastructure/telegram"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.NewLogger(cfg.App.LogLevel, cfg.App.Env)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Create FX application
	app := fx.New(
		// Provide dependencies
		fx.Supply(cfg),
		fx.Supply(log),
		fx.Supply(&cfg.Mongo),
		fx.Supply(&cfg.NATS),
		fx.Supply(&cfg.Telegram),
		fx.Supply(&cfg.Reports),
		fx.Provide(func() *zap.Logger { return log.Logger }),

		// Infrastructure providers
		fx.Provide(
			database.NewMongoClient,
			database.NewMongoWalletRepository,
			database.NewMongoLogRepository,
			database.NewMongoProjectRepository,
			messaging.NewNATSConsumer,
			export.NewExcelExporter,
			telegram.NewBot,
		),

		// Domain services
		fx.Provide(
			domain_service.NewDateRangeParser,
			domain_service.NewMetricsAggregator,
		),

		// Application providers
		fx.Provide(
			app_service.NewSessionApplicationService,
			app_service.NewReportApplicationService,
		),

		// Lifecycle hooks
		fx.Invoke(startReporter),
		fx.Invoke(startHealthServer),

		// Configure logging
		fx.WithLogger(func() fxevent.Logger {
			return fxevent.NopLogger
		}),
	)

	// Start the application
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Error("Failed to start application", zap.Error(err))
		os.Exit(1)
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down application...")

	// Stop the application
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Error("Failed to stop application gracefully", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped successfully")
}

// startReporter connects the stores, starts log-event ingestion and begins
// polling the chat transport.
func startReporter(
	lifecycle fx.Lifecycle,
	mongoClient *database.MongoClient,
	consumer *messaging.NATSConsumer,
	logRepo repository.LogRepository,
	bot *telegram.Bot,
	log *zap.Logger,
	cfg *config.Config,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting reporting service...")

			// Connect to MongoDB first
			if err := mongoClient.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect to MongoDB: %w", err)
			}

			// Connect to NATS for log-event ingestion
			if err := consumer.Connect(ctx); err != nil {
				return fmt.Errorf("failed to connect to NATS: %w", err)
			}

			// Start log persistence
			go persistLogEvents(ctx, consumer, logRepo, log, cfg)

			// Start the chat transport
			if err := bot.Start(ctx); err != nil {
				return fmt.Errorf("failed to start telegram bot: %w", err)
			}

			log.Info("Reporting service started successfully")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping reporting service...")
			if err := bot.Stop(); err != nil {
				log.Error("Failed to stop telegram bot", zap.Error(err))
			}
			if err := consumer.Disconnect(); err != nil {
				log.Error("Failed to disconnect from NATS", zap.Error(err))
			}
			return mongoClient.Close(ctx)
		},
	})
}

// startHealthServer starts the health check server
func startHealthServer(
	lifecycle fx.Lifecycle,
	cfg *config.Config,
	logger *logger.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting health server...", zap.Int("port", cfg.App.HTTPPort))

			mux := http.NewServeMux()
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{"status":"ok"}`))
			})

			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.App.HTTPPort),
				Handler: mux,
			}

			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Health server error", zap.Error(err))
				}
			}()

			logger.Info("Health server started successfully")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping health server...")
			return nil
		},
	})
}

// persistLogEvents drains the consumer channel into the log store in batches.
func persistLogEvents(
	ctx context.Context,
	consumer *messaging.NATSConsumer,
	logRepo repository.LogRepository,
	logger *zap.Logger,
	cfg *config.Config,
) {
	msgChan := consumer.GetMessageChannel()
	batch := make([]*entity.LogEntry, 0, cfg.App.BatchSize)
	ticker := time.NewTicker(5 * time.Second) // Flush batch every 5 seconds
	defer ticker.Stop()

	jobChan := make(chan []*entity.LogEntry, cfg.App.WorkerPoolSize)
	var wg sync.WaitGroup

	// Start worker pool
	for i := 0; i < cfg.App.WorkerPoolSize; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobChan {
				if err := logRepo.InsertMany(ctx, job); err != nil {
					logger.Error("Failed to persist log batch",
						zap.Error(err),
						zap.Int("worker_id", workerID),
						zap.Int("batch_size", len(job)))
				} else {
					logger.Debug("Persisted log batch",
						zap.Int("worker_id", workerID),
						zap.Int("batch_size", len(job)))
				}
			}
		}(i)
	}

	flush := func() {
		if len(batch) == 0 {
			return
		}
		job := make([]*entity.LogEntry, len(batch))
		copy(job, batch)
		jobChan <- job
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			close(jobChan)
			wg.Wait()
			return

		case logEntry := <-msgChan:
			if logEntry == nil {
				// Channel closed, clean up
				flush()
				close(jobChan)
				wg.Wait()
				return
			}

			batch = append(batch, logEntry)
			if len(batch) >= cfg.App.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}
