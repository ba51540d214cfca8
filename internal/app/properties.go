package app

import (
	"context"

	"golang.org/x/sync/singleflight"

	"estate_api/internal/domain"
)

type PropertyService struct {
	store domain.DocumentStore
	seeds singleflight.Group
}

func NewPropertyService(store domain.DocumentStore) *PropertyService {
	return &PropertyService{store: store}
}

// Create validates p and stores it, returning the new id.
func (s *PropertyService) Create(ctx context.Context, p domain.Property) (string, error) {
	p.SampleKey = ""
	if err := domain.Validate(p); err != nil {
		return "", err
	}
	return s.store.CreateDocument(ctx, domain.CollectionProperty, p)
}

// Search returns up to ListLimit normalized properties matching q.
func (s *PropertyService) Search(ctx context.Context, q domain.PropertyQuery) ([]domain.Document, error) {
	docs, err := s.store.GetDocuments(ctx, domain.CollectionProperty, BuildPropertyFilter(q), ListLimit)
	if err != nil {
		return nil, err
	}
	return domain.NormalizeAll(docs), nil
}
