package domain

import (
	"context"
	"time"
)

const (
	CollectionProperty = "property"
	CollectionBroker   = "broker"
	CollectionBooking  = "booking"
)

// DocumentStore persists records into named collections.
type DocumentStore interface {
	// CreateDocument inserts record and returns the store-assigned id.
	CreateDocument(ctx context.Context, collection string, record any) (string, error)
	// GetDocuments returns up to limit documents matching filter in the
	// store's natural order; limit <= 0 means no limit.
	GetDocuments(ctx context.Context, collection string, filter Expr, limit int) ([]Document, error)
	// InsertIfAbsent inserts record unless a document with keyField == keyValue
	// already exists. It reports whether an insert happened.
	InsertIfAbsent(ctx context.Context, collection, keyField, keyValue string, record any) (bool, error)

	Ping(ctx context.Context) error
	Name() string
	ListCollections(ctx context.Context) ([]string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// ListingFeed is a remote source of property listings, read page by page.
type ListingFeed interface {
	Listings(ctx context.Context, page int) ([]Property, error)
}
