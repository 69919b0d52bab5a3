package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"exam-portal/internal/admitcard"
	"exam-portal/internal/cache"
	"exam-portal/internal/formdata"
	"exam-portal/internal/platform/config"
	"exam-portal/internal/platform/httpserver"
	"exam-portal/internal/platform/logger"
	"exam-portal/internal/platform/metrics"
	platformredis "exam-portal/internal/platform/redis"
	httptransport "exam-portal/internal/transport/http"
	"exam-portal/internal/upstream"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}

	var store cache.Store
	var health httptransport.HealthChecker
	if redisClient != nil {
		store = cache.NewRedisStore(redisClient.Client)
		health = redisClient.Health
		defer redisClient.Close()
		log.Info("cache store: redis")
	} else {
		// Cache is advisory, so an in-process store is a valid deployment.
		store = cache.NewMemoryStore()
		log.Info("cache store: in-memory")
	}

	m := metrics.New()
	client := upstream.NewClient(cfg.Upstream)
	retrier := upstream.NewRetrier(cfg.Upstream,
		upstream.WithRetryLogger(log),
		upstream.WithRetryCallback(m.IncRetryAttempt),
	)
	classifier := upstream.NewClassifier(log)

	formDataSvc, err := formdata.New(client, retrier, classifier, store, cfg.FormData,
		formdata.WithLogger(log), formdata.WithMetrics(m))
	if err != nil {
		log.Error("form-data service init failed", "error", err.Error())
		os.Exit(1)
	}
	admitCardSvc, err := admitcard.New(client, retrier, classifier, store, cfg.AdmitCard,
		admitcard.WithLogger(log), admitcard.WithMetrics(m))
	if err != nil {
		log.Error("admit-card service init failed", "error", err.Error())
		os.Exit(1)
	}

	handler := httptransport.New(formDataSvc, admitCardSvc, log)
	router := httptransport.NewRouter(handler, log, health)
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting exam-portal", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}
