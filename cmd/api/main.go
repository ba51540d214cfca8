package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	server "estate_api/internal/adapters/http_server"
	"estate_api/internal/adapters/observability"
	redisad "estate_api/internal/adapters/redis"
	"estate_api/internal/app"
	"estate_api/internal/domain"
	"estate_api/internal/shared"
	"estate_api/internal/storage/memstore"
	mongostore "estate_api/internal/storage/mongo"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// store; a missing or unreachable database degrades instead of exiting
	store, closeStore := openStore(cfg)
	defer closeStore()

	// optional broker list cache
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed, running without cache")
			_ = rc.Close()
		} else {
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache ok")
			cache = rc
			defer rc.Close()
		}
		cancel()
	}

	// deps
	props := app.NewPropertyService(store)
	brokers := app.NewBrokerService(store, cache, cfg.CacheTTL)
	bookings := app.NewBookingService(store)
	diag := app.NewDiagnostics(store, cfg.DatabaseURL != "")

	// http
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Props: props, Brokers: brokers, Bookings: bookings, Diag: diag})

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreBackend).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func openStore(cfg shared.Config) (domain.DocumentStore, func()) {
	noop := func() {}
	if cfg.StoreBackend == shared.BackendMemory {
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return memstore.New("memory"), noop
	}
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set; data endpoints will return 503")
		return domain.UnavailableStore{}, noop
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ms, err := mongostore.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseName, cfg.StoreTimeout)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed; data endpoints will return 503")
		return domain.UnavailableStore{Reason: err.Error()}, noop
	}
	if err := ms.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("ensure indexes failed")
	}
	log.Info().Str("database", cfg.DatabaseName).Msg("database connection ok")

	return ms, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ms.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("database disconnect failed")
		}
	}
}
