package domain

// Booking is a viewing request for a property. PropertyID is not checked
// against the property collection and dates/times are kept as given.
type Booking struct {
	PropertyID    string  `json:"property_id" bson:"property_id" validate:"required"`
	Name          string  `json:"name" bson:"name" validate:"required"`
	Email         string  `json:"email" bson:"email" validate:"required,email"`
	Phone         *string `json:"phone" bson:"phone"`
	PreferredDate string  `json:"preferred_date" bson:"preferred_date" validate:"required"` // ISO date
	PreferredTime string  `json:"preferred_time" bson:"preferred_time" validate:"required"` // e.g. 14:30
	Notes         *string `json:"notes" bson:"notes"`
}

const BookingConfirmed = "confirmed"

type BookingReceipt struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
