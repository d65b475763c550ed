package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/askhub/internal/auth"
	"github.com/geocoder89/askhub/internal/config"
	"github.com/geocoder89/askhub/internal/db"
	httpx "github.com/geocoder89/askhub/internal/http"
	"github.com/geocoder89/askhub/internal/http/handlers"
	"github.com/geocoder89/askhub/internal/llm"
	"github.com/geocoder89/askhub/internal/observability"
	"github.com/geocoder89/askhub/internal/redisclient"
	"github.com/geocoder89/askhub/internal/repo/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)

	// tracing is opt-in via OTEL_EXPORTER_ENDPOINT
	if cfg.OTELEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(context.Background(), "askhub", cfg.OTELEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()
	}

	// connect the pool and bring the schema up to date
	pool, err := db.NewPool(cfg.DBURL, cfg.DBMaxConns)

	if err != nil {
		log.Error("database connection failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	migCtx, cancelMig := config.WithTimeout(30 * time.Second)

	err = db.RunMigrations(migCtx, cfg.DBURL)
	cancelMig()

	if err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// metrics
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// LLM proxy, optionally fronted by a redis completion cache
	var completer handlers.Completer = llm.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, prom)

	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pingCtx, cancelPing := config.WithTimeout(2 * time.Second)
		err = rc.Ping(pingCtx)
		cancelPing()

		if err != nil {
			// degrade to uncached completions rather than refusing to boot
			log.Warn("redis unreachable, completion cache disabled", "err", err)
			_ = rc.Close()
		} else {
			defer rc.Close()
			completer = llm.NewCachedCompleter(completer, rc.Raw(), cfg.LLMCacheTTL())
		}
	}

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	questionsRepo := postgres.NewQuestionsRepo(pool, prom)
	answersRepo := postgres.NewAnswersRepo(pool, prom)

	ping := func() error {
		ctx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL())

	router := httpx.NewRouter(log, cfg, httpx.Deps{
		Users:     usersRepo,
		Questions: questionsRepo,
		Finder:    questionsRepo,
		Answers:   answersRepo,
		Completer: completer,
		JWT:       jwtManager,
		Prom:      prom,
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Ping:      ping,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second, // completions can be slow
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
