package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"estate_api/internal/domain"
)

const brokerListKey = "brokers:list"

type BrokerService struct {
	store    domain.DocumentStore
	cache    domain.Cache // optional
	cacheTTL time.Duration

	// writes counts successful creates; List uses it to detect a create
	// that raced its store read.
	writes atomic.Uint64
}

func NewBrokerService(store domain.DocumentStore, cache domain.Cache, ttl time.Duration) *BrokerService {
	return &BrokerService{store: store, cache: cache, cacheTTL: ttl}
}

func (s *BrokerService) Create(ctx context.Context, b domain.Broker) (string, error) {
	if err := domain.Validate(b); err != nil {
		return "", err
	}
	id, err := s.store.CreateDocument(ctx, domain.CollectionBroker, b)
	if err != nil {
		return "", err
	}
	s.writes.Add(1)
	s.invalidate(ctx)
	return id, nil
}

func (s *BrokerService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, brokerListKey); err != nil {
		log.Warn().Err(err).Msg("broker list cache invalidation failed")
	}
}

// List returns up to ListLimit brokers, normalized. Served from the cache
// when one is configured; cache failures fall through to the store.
//
// A create in this process that lands while the list is being read drops
// the entry List just wrote. The same race against another process can
// leave a stale entry until cacheTTL expires.
func (s *BrokerService) List(ctx context.Context) ([]domain.Document, error) {
	seen := s.writes.Load()
	if s.cache != nil {
		var cached []domain.Document
		if ok, err := s.cache.Get(ctx, brokerListKey, &cached); err == nil && ok {
			return cached, nil
		}
	}
	docs, err := s.store.GetDocuments(ctx, domain.CollectionBroker, domain.MatchAll, ListLimit)
	if err != nil {
		return nil, err
	}
	docs = domain.NormalizeAll(docs)
	if s.cache != nil {
		if err := s.cache.Set(ctx, brokerListKey, docs, s.cacheTTL); err != nil {
			log.Warn().Err(err).Msg("broker list cache set failed")
		} else if s.writes.Load() != seen {
			s.invalidate(ctx)
		}
	}
	return docs, nil
}
