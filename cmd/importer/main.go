package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"estate_api/internal/adapters/feed"
	"estate_api/internal/adapters/observability"
	"estate_api/internal/app"
	"estate_api/internal/domain"
	"estate_api/internal/shared"
	"estate_api/internal/storage/memstore"
	mongostore "estate_api/internal/storage/mongo"
)

// maxPages stops a feed that never returns an empty page.
const maxPages = 10000

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("feed", cfg.FeedURL).
		Int("workers", cfg.Workers).
		Int("rps", cfg.FeedRPS).
		Msg("importer starting")

	store, closeStore := openStore(ctx, cfg)
	defer closeStore()

	client, err := feed.New(cfg.FeedURL, cfg.FeedKey, cfg.FeedRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize feed client")
	}
	imp := app.NewImportService(client, app.NewPropertyService(store))

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup
	var imported, skipped atomic.Int64

pages:
	for page := 1; page <= maxPages; page++ {
		page := page // per-iteration copy for the goroutines below (go 1.21 loop semantics)
		listings, err := imp.Page(ctx, page)
		if err != nil {
			log.Error().Int("page", page).Err(err).Msg("fetch page failed, stopping")
			break
		}
		if len(listings) == 0 {
			break
		}
		log.Info().Int("page", page).Int("listings", len(listings)).Msg("page fetched")

		for i, p := range listings {
			// acquire before launching the goroutine; release inside it
			if err := sem.Acquire(ctx, 1); err != nil {
				log.Warn().Err(err).Msg("import interrupted")
				break pages
			}

			wg.Add(1)
			go func(pos int, p domain.Property) {
				defer wg.Done()
				defer sem.Release(1)

				id, err := imp.ImportOne(ctx, p)
				if err != nil {
					skipped.Add(1)
					if ve, ok := domain.IsValidation(err); ok {
						log.Warn().Int("page", page).Int("pos", pos).Str("title", p.Title).Str("invalid", ve.Error()).Msg("listing skipped")
						return
					}
					log.Warn().Int("page", page).Int("pos", pos).Err(err).Msg("import failed")
					return
				}
				imported.Add(1)
				log.Debug().Str("id", id).Str("title", p.Title).Msg("import ok")
			}(i, p)
		}
	}

	wg.Wait()
	log.Info().Int64("imported", imported.Load()).Int64("skipped", skipped.Load()).Msg("import completed")
}

func openStore(ctx context.Context, cfg shared.Config) (domain.DocumentStore, func()) {
	if cfg.StoreBackend == shared.BackendMemory {
		log.Warn().Msg("importing into the in-memory store; nothing is persisted")
		return memstore.New("memory"), func() {}
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL not set")
	}
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	ms, err := mongostore.Connect(cctx, cfg.DatabaseURL, cfg.DatabaseName, cfg.StoreTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Msg("db ping ok")

	return ms, func() {
		// ctx may already be cancelled by a signal
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ms.Close(dctx); err != nil {
			log.Warn().Err(err).Msg("database disconnect failed")
		}
	}
}
