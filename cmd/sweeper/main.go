package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/primescope-news/internal/config"
	"github.com/magabrotheeeer/primescope-news/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/primescope-news/internal/lib/sl"
	"github.com/magabrotheeeer/primescope-news/internal/services/sweeper"
	"github.com/magabrotheeeer/primescope-news/internal/storage/repository"
)

func waitForDB(db *repository.Storage) error {
	for i := 0; i < 10; i++ {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil // готово
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("starting sweeper", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Уведомления опциональны: без брокера чистка всё равно работает.
	var ch *amqp.Channel
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		logger.Warn("failed to connect to RabbitMQ, notifications disabled", sl.Err(err))
	} else {
		logger.Info("success to connect to RabbitMQ", slog.String("URL", cfg.RabbitMQURL))
		defer func() {
			_ = conn.Close()
		}()
		queues := rabbitmq.GetNotificationQueues()
		ch, err = rabbitmq.SetupChannel(conn, queues)
		if err != nil {
			logger.Error("failed to setup RabbitMQ channel", sl.Err(err))
			os.Exit(1)
		}
		logger.Info("success to setup RabbitMQ channel")
		defer func() {
			_ = ch.Close()
		}()
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = db.DB.Close()
	}()
	if err = waitForDB(db); err != nil {
		logger.Error("database is not ready", sl.Err(err))
		os.Exit(1)
	}

	// Отдельный слушатель метрик: у сборщика нет HTTP-сервера приложения.
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: cfg.AddressMetrics, Handler: metricsMux}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", sl.Err(err))
		}
	}()
	logger.Info("metrics server started", slog.String("address", cfg.AddressMetrics))

	sweeperService := sweeper.NewSweeperService(db, logger, ch)
	sweeperService.Run(ctx, cfg.SweepInterval)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown metrics server", sl.Err(err))
	}

	logger.Info("sweeper stopped gracefully")
}
