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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	httpadapter "qrsafe/internal/adapters/http"
	"qrsafe/internal/adapters/memory"
	"qrsafe/internal/adapters/openai"
	pg "qrsafe/internal/adapters/postgres"
	rediscache "qrsafe/internal/adapters/redis"
	"qrsafe/internal/config"
	"qrsafe/internal/metrics"
	"qrsafe/internal/platform/logger"
	"qrsafe/internal/ports"
	"qrsafe/internal/seed"
	"qrsafe/internal/services/curated"
	"qrsafe/internal/services/intel"
	"qrsafe/internal/services/verifier"
)

func main() {
	_ = godotenv.Load()

	cfg, cfgErr := config.Load()
	log := logger.New(cfg.LogLevel)
	if cfgErr != nil {
		log.Error("invalid configuration", "error", cfgErr)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	store, closeStore, err := openCuratedStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var cache ports.VerdictCache
	rc, err := rediscache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if rc != nil {
		defer rc.Close()
		cache = rc
		log.Info("verdict cache enabled", "ttl", cfg.VerdictCacheTTL.String())
	}

	asker, err := openai.New(openai.Config{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		MaxAttempts: cfg.OpenAIMaxAttempts,
	}, log.With("component", "openai"))
	if err != nil {
		return err
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	intelSvc := intel.New(asker, cache, intel.Config{
		SearchModel:   cfg.OpenAISearchModel,
		AnalysisModel: cfg.OpenAIAnalysisModel,
		Timeout:       cfg.IntelTimeout,
		CacheTTL:      cfg.VerdictCacheTTL,
	}, log.With("component", "intel"), m)
	curatedSvc := curated.New(store, log.With("component", "curated"))
	svc := verifier.New(curatedSvc, intelSvc, cfg.VerifyTimeout, log.With("component", "verifier"), m)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpadapter.New(svc, store, nil, cfg.CORSAllowedOrigins, log.With("component", "http")).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info("listening", "addr", cfg.ListenAddr, "env", cfg.Env, "curated_store", cfg.CuratedStore)

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openCuratedStore(ctx context.Context, cfg config.Config, log *slog.Logger) (ports.CuratedRepository, func(), error) {
	if cfg.CuratedStore == config.StoreMemory {
		store := memory.New()
		counts, err := seed.Load(ctx, store, time.Now().UTC())
		if err != nil {
			return nil, nil, err
		}
		log.Info("using in-memory curated store", "verified", counts.Verified, "malicious", counts.Malicious)
		return store, func() {}, nil
	}

	db, err := pg.Connect(ctx, cfg.DatabaseURL, int32(cfg.DBMaxConns))
	if err != nil {
		return nil, nil, err
	}
	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("migrations applied")
	}
	return db, db.Close, nil
}
