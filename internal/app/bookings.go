package app

import (
	"context"

	"estate_api/internal/domain"
)

type BookingService struct{ store domain.DocumentStore }

func NewBookingService(store domain.DocumentStore) *BookingService {
	return &BookingService{store: store}
}

// Create stores a viewing request. There is no availability check: every
// stored booking is reported as confirmed.
func (s *BookingService) Create(ctx context.Context, b domain.Booking) (domain.BookingReceipt, error) {
	if err := domain.Validate(b); err != nil {
		return domain.BookingReceipt{}, err
	}
	id, err := s.store.CreateDocument(ctx, domain.CollectionBooking, b)
	if err != nil {
		return domain.BookingReceipt{}, err
	}
	return domain.BookingReceipt{ID: id, Status: domain.BookingConfirmed}, nil
}
