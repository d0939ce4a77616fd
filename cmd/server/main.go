// Command server runs the payment-rail webhook pipeline: the HTTP intake,
// one worker per rail queue, the delayed-retry promoter inside each worker's
// dequeue loop, the event log retention sweeper and the audit forwarder.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"railhook/internal/platform/config"
	"railhook/internal/platform/httpserver"
	"railhook/internal/platform/kafka"
	"railhook/internal/platform/logger"
	"railhook/internal/platform/metrics"
	platformredis "railhook/internal/platform/redis"
	httptransport "railhook/internal/transport/http"
	"railhook/internal/webhook"
	"railhook/internal/webhook/eventlog"
	"railhook/internal/webhook/intake"
	"railhook/internal/webhook/ledger"
	"railhook/internal/webhook/queue"
	"railhook/internal/webhook/rail"
	"railhook/internal/webhook/statemachine"
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
	ledgerCfg, err := config.LoadLedger()
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	redisClient, err := platformredis.New(cfg.RedisURL, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close()

	m := metrics.New()
	store := eventlog.NewPostgres(db)

	var publisher eventlog.Publisher
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		producer, err := kafka.NewProducer(brokers, cfg.Kafka.Topic)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer producer.Close()
		publisher = producer
		log.Info("audit forwarding enabled", "topic", cfg.Kafka.Topic)
	}
	forwarder := eventlog.NewForwarder(publisher, log)

	ledgerClient := ledger.NewHTTPClient(ledgerCfg.BaseURL, ledgerCfg.APIKey, ledgerCfg.Timeout)
	dispatcher := rail.NewDispatcher(rail.Deps{
		Log:       store,
		Machine:   statemachine.New(statemachine.DefaultConfig()),
		Ledger:    ledgerClient,
		Accounts:  ledgerClient,
		Forwarder: forwarder,
		Logger:    log,
		Metrics:   m,
	})
	deadLetter := rail.NewDeadLetterRecorder(store, log)

	allRails := []webhook.Rail{
		webhook.RailPix,
		webhook.RailBankSlip,
		webhook.RailWireTransfer,
		webhook.RailBillPayment,
	}

	intakes := make(map[webhook.Rail]*intake.Service, len(allRails))
	workers := make([]*queue.Worker, 0, len(allRails))
	for _, r := range allRails {
		q := queue.NewRedisQueue(redisClient, r, cfg.Queue.DedupTTL)
		intakes[r] = intake.NewService(r, q, log, m)
		workers = append(workers, queue.NewWorker(
			r, q, dispatcher, deadLetter,
			cfg.Queue.MaxAttempts, cfg.Queue.BackoffBase,
			log, m,
		))
	}

	sweeper := eventlog.NewSweeper(store, cfg.EventLogRetention, cfg.SweepInterval, log, m)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Webhooks: httptransport.NewWebhookHandler(intakes, log),
		EventLog: httptransport.NewEventLogHandler(store, log),
		Health: map[string]httptransport.HealthCheck{
			"postgres": db.PingContext,
			"redis":    redisClient.Health,
		},
		SourceKey: cfg.ParseSourceKeys(),
		Logger:    log,
	})
	server := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	for _, w := range workers {
		w := w
		g.Go(func() error {
			if err := w.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		if err := sweeper.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}
