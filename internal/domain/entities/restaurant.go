package entities

// Restaurant is a venue in the catalog. AvgRating and Votes are derived from
// the rating ledger and are only ever written by aggregate recomputation.
type Restaurant struct {
	ID          string   `json:"restaurant_id" db:"restaurant_id"`
	Name        string   `json:"name" db:"name"`
	Address     string   `json:"address" db:"address"`
	City        string   `json:"city" db:"city"`
	Region      string   `json:"region" db:"region"`
	PhoneNumber string   `json:"phone_number" db:"phone_number"`
	WebsiteURL  string   `json:"website_url" db:"website_url"`
	AvgRating   float64  `json:"avg_rating" db:"avg_rating"`
	PriceRange  int      `json:"price_range" db:"price_range"`
	DiningType  string   `json:"dining_type" db:"dining_type"`
	Timings     string   `json:"timings" db:"timings"`
	Votes       int      `json:"votes" db:"votes"`
	RatingType  string   `json:"rating_type" db:"rating_type"`
	Cuisines    []string `json:"cuisines"`
}

// RestaurantDetail is the single-restaurant view
type RestaurantDetail struct {
	Restaurant
	ReviewCount int `json:"review_count"`
}

// RestaurantSummary is the narrow projection returned by search
type RestaurantSummary struct {
	ID         string  `json:"restaurant_id" db:"restaurant_id"`
	Name       string  `json:"name" db:"name"`
	City       string  `json:"city" db:"city"`
	AvgRating  float64 `json:"avg_rating" db:"avg_rating"`
	PriceRange int     `json:"price_range" db:"price_range"`
	Votes      int     `json:"votes" db:"votes"`
	DiningType string  `json:"dining_type" db:"dining_type"`
}

// RestaurantPage is one window of a filtered, ordered listing
type RestaurantPage struct {
	Restaurants []*Restaurant `json:"restaurants"`
	Total       int           `json:"total"`
	Offset      int           `json:"offset"`
	Limit       int           `json:"limit"`
}

// Category is a cuisine label
type Category struct {
	ID    string `json:"id" db:"category_id"`
	Name  string `json:"name" db:"category_name"`
	Count int    `json:"count" db:"count"`
}

// CityCount is the number of restaurants in one city
type CityCount struct {
	City  string `json:"city" db:"city"`
	Count int    `json:"count" db:"count"`
}
