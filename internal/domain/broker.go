package domain

type Broker struct {
	Name         string   `json:"name" bson:"name" validate:"required"`
	Title        *string  `json:"title" bson:"title"`
	AvatarURL    *string  `json:"avatar_url" bson:"avatar_url"`
	Rating       *float64 `json:"rating" bson:"rating" validate:"required,gte=0,lte=5"`
	ReviewsCount *int     `json:"reviews_count" bson:"reviews_count" validate:"required,gte=0"`
	Phone        *string  `json:"phone" bson:"phone"`
	Email        *string  `json:"email" bson:"email" validate:"omitempty,email"`
	Badges       []string `json:"badges" bson:"badges" validate:"required"`
}

const DefaultBrokerTitle = "Senior Broker"

// NewBroker returns a Broker carrying the schema defaults. Rating,
// ReviewsCount and Badges may be overridden but not nulled out.
func NewBroker() Broker {
	title := DefaultBrokerTitle
	rating := 4.8
	reviews := 0
	return Broker{
		Title:        &title,
		Rating:       &rating,
		ReviewsCount: &reviews,
		Badges:       []string{"Verified", "Top Rated"},
	}
}
