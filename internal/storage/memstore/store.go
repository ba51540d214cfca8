// Package memstore is an in-process DocumentStore. It evaluates filters the
// same way the Mongo store translates them and is used for local runs
// (STORE_BACKEND=memory) and tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"estate_api/internal/domain"
)

type Store struct {
	mu    sync.RWMutex
	name  string
	colls map[string][]domain.Document
	now   func() time.Time
}

func New(name string) *Store {
	return &Store{name: name, colls: map[string][]domain.Document{}, now: time.Now}
}

func (s *Store) CreateDocument(ctx context.Context, collection string, record any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	doc, err := toDocument(record)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(collection, doc), nil
}

func (s *Store) insertLocked(collection string, doc domain.Document) string {
	id := primitive.NewObjectID().Hex()
	ts := s.now().UTC()
	doc[domain.FieldStoreID] = id
	doc["created_at"] = ts
	doc["updated_at"] = ts
	s.colls[collection] = append(s.colls[collection], doc)
	return id
}

func (s *Store) GetDocuments(ctx context.Context, collection string, filter domain.Expr, limit int) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Document, 0)
	for _, d := range s.colls[collection] {
		if limit > 0 && len(out) >= limit {
			break
		}
		if Match(filter, d) {
			out = append(out, copyDoc(d))
		}
	}
	return out, nil
}

func (s *Store) InsertIfAbsent(ctx context.Context, collection, keyField, keyValue string, record any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	doc, err := toDocument(record)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.colls[collection] {
		if v, ok := d[keyField].(string); ok && v == keyValue {
			return false, nil
		}
	}
	doc[keyField] = keyValue
	s.insertLocked(collection, doc)
	return true, nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Name() string { return s.name }

func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.colls))
	for n := range s.colls {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Len returns the number of documents in collection.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.colls[collection])
}

// toDocument serializes record the way the Mongo driver would store it.
func toDocument(record any) (domain.Document, error) {
	raw, err := bson.Marshal(record)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return domain.Document(m), nil
}

func copyDoc(d domain.Document) domain.Document {
	out := make(domain.Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
