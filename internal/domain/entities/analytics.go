package entities

// TopRatedRestaurant is one leaderboard row
type TopRatedRestaurant struct {
	ID        string  `json:"restaurant_id" db:"restaurant_id"`
	Name      string  `json:"name" db:"name"`
	City      string  `json:"city" db:"city"`
	AvgRating float64 `json:"avg_rating" db:"avg_rating"`
	Votes     int     `json:"votes" db:"votes"`
}

// CityStats summarizes the restaurants of one city
type CityStats struct {
	City             string  `json:"city" db:"city"`
	TotalRestaurants int     `json:"total_restaurants" db:"total_restaurants"`
	AvgRating        float64 `json:"avg_rating" db:"avg_rating"`
	TotalVotes       int     `json:"total_votes" db:"total_votes"`
}
