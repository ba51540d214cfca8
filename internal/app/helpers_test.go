package app_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"estate_api/internal/domain"
	"estate_api/internal/storage/memstore"
)

func ptr[T any](v T) *T { return &v }

func property(title, city string, price float64, beds int) domain.Property {
	p := domain.NewProperty()
	p.Title = title
	p.City = city
	p.Address = "1 Test St"
	p.Price = ptr(price)
	p.Bedrooms = ptr(beds)
	p.Bathrooms = ptr(1.0)
	p.AreaSqft = ptr(800)
	return p
}

// ---- fakes ----

type fakeCache struct {
	mu    sync.Mutex
	store map[string]any
	gets  int
	dels  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	*(dst.(*[]domain.Document)) = v.([]domain.Document)
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dels++
	delete(c.store, key)
	return nil
}

var errBoom = errors.New("connection reset by peer")

// failingStore fails every data call with errBoom.
type failingStore struct{ domain.UnavailableStore }

func (failingStore) CreateDocument(context.Context, string, any) (string, error) { return "", errBoom }
func (failingStore) GetDocuments(context.Context, string, domain.Expr, int) ([]domain.Document, error) {
	return nil, errBoom
}

// racingStore holds every emptiness probe (limit 1) until `parties` probes
// are in flight, reproducing two instances seeding an empty collection at
// the same moment.
type racingStore struct {
	*memstore.Store
	barrier sync.WaitGroup
}

func newRacingStore(parties int) *racingStore {
	rs := &racingStore{Store: memstore.New("estate")}
	rs.barrier.Add(parties)
	return rs
}

func (r *racingStore) GetDocuments(ctx context.Context, c string, f domain.Expr, limit int) ([]domain.Document, error) {
	if limit == 1 {
		docs, err := r.Store.GetDocuments(ctx, c, f, limit)
		r.barrier.Done()
		r.barrier.Wait()
		return docs, err
	}
	return r.Store.GetDocuments(ctx, c, f, limit)
}
