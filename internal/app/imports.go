package app

import (
	"context"
	"errors"

	"estate_api/internal/domain"
)

// ImportService copies listings from a remote feed into the property
// collection, applying the same validation as POST /api/properties.
type ImportService struct {
	feed  domain.ListingFeed
	props *PropertyService
}

func NewImportService(feed domain.ListingFeed, props *PropertyService) *ImportService {
	return &ImportService{feed: feed, props: props}
}

// Page fetches one page of listings. A missing page (404) is treated as the
// end of the feed.
func (s *ImportService) Page(ctx context.Context, page int) ([]domain.Property, error) {
	ls, err := s.feed.Listings(ctx, page)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return ls, err
}

func (s *ImportService) ImportOne(ctx context.Context, p domain.Property) (string, error) {
	return s.props.Create(ctx, p)
}
