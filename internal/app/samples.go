package app

import (
	"context"

	"estate_api/internal/domain"
)

func sampleProperties() []domain.Property {
	str := func(s string) *string { return &s }
	num := func(f float64) *float64 { return &f }
	integer := func(i int) *int { return &i }
	return []domain.Property{
		{
			Title:       "Skyline Penthouse",
			Description: str("Panoramic city views, floor-to-ceiling glass."),
			Price:       num(1850000),
			City:        "New York",
			Address:     "350 5th Ave",
			Bedrooms:    integer(3),
			Bathrooms:   num(3),
			AreaSqft:    integer(2200),
			Images:      []string{},
			Tags:        []string{"luxury", "cityscape"},
			CoordsLat:   num(40.7484),
			CoordsLng:   num(-73.9857),
			Tour3DURL:   str("https://my.matterport.com/show/?m=example"),
			SampleKey:   "skyline-penthouse",
		},
		{
			Title:       "Marina Bay Residence",
			Description: str("Waterfront living with private balcony."),
			Price:       num(980000),
			City:        "San Francisco",
			Address:     "1 Embarcadero",
			Bedrooms:    integer(2),
			Bathrooms:   num(2),
			AreaSqft:    integer(1450),
			Images:      []string{},
			Tags:        []string{"waterfront", "premium"},
			CoordsLat:   num(37.7955),
			CoordsLng:   num(-122.3937),
			SampleKey:   "marina-bay-residence",
		},
	}
}

// SeedSamples inserts the demo listings when the property collection is
// empty and returns the current properties (up to ListLimit), normalized.
//
// Concurrent callers in this process share one seeding pass; across
// processes each sample is written with InsertIfAbsent on its sample key, so
// racing first calls never duplicate samples.
func (s *PropertyService) SeedSamples(ctx context.Context) ([]domain.Document, error) {
	// detach so one caller hanging up does not fail the shared pass
	seedCtx := context.WithoutCancel(ctx)
	if _, err, _ := s.seeds.Do("seed", func() (any, error) {
		return nil, s.seedIfEmpty(seedCtx)
	}); err != nil {
		return nil, err
	}
	docs, err := s.store.GetDocuments(ctx, domain.CollectionProperty, domain.MatchAll, ListLimit)
	if err != nil {
		return nil, err
	}
	return domain.NormalizeAll(docs), nil
}

func (s *PropertyService) seedIfEmpty(ctx context.Context) error {
	existing, err := s.store.GetDocuments(ctx, domain.CollectionProperty, domain.MatchAll, 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, p := range sampleProperties() {
		if _, err := s.store.InsertIfAbsent(ctx, domain.CollectionProperty, domain.FieldSampleKey, p.SampleKey, p); err != nil {
			return err
		}
	}
	return nil
}
