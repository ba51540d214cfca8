package domain

import (
	"context"
	"fmt"
)

// UnavailableStore stands in for the document store when none could be
// configured at startup. Every data operation fails with ErrStoreUnavailable.
type UnavailableStore struct {
	// Reason is "" when no connection string was configured, otherwise the
	// connection error seen at startup.
	Reason string
}

func (u UnavailableStore) err() error {
	if u.Reason == "" {
		return ErrStoreUnavailable
	}
	return fmt.Errorf("%w: %s", ErrStoreUnavailable, u.Reason)
}

func (u UnavailableStore) CreateDocument(context.Context, string, any) (string, error) {
	return "", u.err()
}

func (u UnavailableStore) GetDocuments(context.Context, string, Expr, int) ([]Document, error) {
	return nil, u.err()
}

func (u UnavailableStore) InsertIfAbsent(context.Context, string, string, string, any) (bool, error) {
	return false, u.err()
}

func (u UnavailableStore) Ping(context.Context) error { return u.err() }

func (u UnavailableStore) Name() string { return "" }

func (u UnavailableStore) ListCollections(context.Context) ([]string, error) { return nil, u.err() }

// IsUnavailable reports whether s is the placeholder for a missing store.
func IsUnavailable(s DocumentStore) (UnavailableStore, bool) {
	u, ok := s.(UnavailableStore)
	if !ok {
		if p, isPtr := s.(*UnavailableStore); isPtr && p != nil {
			return *p, true
		}
	}
	return u, ok
}
