package domain

// Property is a listing as accepted by POST /api/properties and stored in
// the "property" collection.
type Property struct {
	Title       string   `json:"title" bson:"title" validate:"required"`
	Description *string  `json:"description" bson:"description"`
	Price       *float64 `json:"price" bson:"price" validate:"required,gte=0"` // USD
	City        string   `json:"city" bson:"city" validate:"required"`
	Address     string   `json:"address" bson:"address" validate:"required"`
	Bedrooms    *int     `json:"bedrooms" bson:"bedrooms" validate:"required,gte=0"`
	Bathrooms   *float64 `json:"bathrooms" bson:"bathrooms" validate:"required,gte=0"`
	AreaSqft    *int     `json:"area_sqft" bson:"area_sqft" validate:"required,gte=0"`
	Images      []string `json:"images" bson:"images" validate:"required"` // [] allowed, null is not
	Tags        []string `json:"tags" bson:"tags" validate:"required"`
	CoordsLat   *float64 `json:"coords_lat" bson:"coords_lat"`
	CoordsLng   *float64 `json:"coords_lng" bson:"coords_lng"`
	Tour3DURL   *string  `json:"tour_3d_url" bson:"tour_3d_url"`
	BrokerID    *string  `json:"broker_id" bson:"broker_id"`

	// SampleKey marks the demo listings inserted by the seeder; never set by clients.
	SampleKey string `json:"-" bson:"sample_key,omitempty"`
}

// NewProperty returns a Property carrying the schema defaults. Request bodies
// are decoded on top of it so absent fields keep their default.
func NewProperty() Property {
	return Property{Images: []string{}, Tags: []string{}}
}

// PropertyQuery is the body of POST /api/properties/search. Every field is optional.
type PropertyQuery struct {
	Q        *string  `json:"q"`
	City     *string  `json:"city"`
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
	Bedrooms *int     `json:"bedrooms"`
}
