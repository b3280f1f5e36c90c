package entities

import (
	"math"
	"time"
)

const (
	// MinRatingValue is the lowest score a user can give
	MinRatingValue = 1.0
	// MaxRatingValue is the highest score a user can give
	MaxRatingValue = 5.0
)

// Rating is one user's score for one restaurant. There is at most one
// Rating per (UserID, RestaurantID).
type Rating struct {
	ID             string    `json:"rating_id" db:"rating_id"`
	UserID         string    `json:"user_id,omitempty" db:"user_id"`
	RestaurantID   string    `json:"restaurant_id" db:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name,omitempty" db:"restaurant_name"`
	Value          float64   `json:"rating_value" db:"rating_value"`
	RatedAt        time.Time `json:"rating_date" db:"rating_date"`
}

// RatingAggregate is the derived avg_rating/votes pair of a restaurant
type RatingAggregate struct {
	AvgRating float64 `json:"avg_rating"`
	Votes     int     `json:"votes"`
}

// RatingSubmission is the outcome of a rating upsert
type RatingSubmission struct {
	RatingID     string          `json:"rating_id"`
	RestaurantID string          `json:"restaurant_id"`
	Value        float64         `json:"rating_value"`
	Created      bool            `json:"created"`
	Aggregate    RatingAggregate `json:"aggregate"`
}

// RatingDistribution summarizes all ratings of one restaurant
type RatingDistribution struct {
	Total        int         `json:"total_ratings"`
	AvgRating    float64     `json:"avg_rating"`
	Distribution map[int]int `json:"distribution"`
}

// ValidRatingValue reports whether v lies in the inclusive range [1.0, 5.0]
func ValidRatingValue(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= MinRatingValue && v <= MaxRatingValue
}

// RoundTo rounds half away from zero, matching Postgres ROUND on numeric
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// HistogramBucket maps a rating value to its 1..5 star bucket. A bucket
// covers [n, n+1), so 4.5 counts as a 4.
func HistogramBucket(v float64) int {
	b := int(math.Floor(v))
	if b < 1 {
		return 1
	}
	if b > 5 {
		return 5
	}
	return b
}

// NewRatingDistribution returns an empty, zero-filled distribution
func NewRatingDistribution() *RatingDistribution {
	d := &RatingDistribution{Distribution: make(map[int]int, 5)}
	for star := 1; star <= 5; star++ {
		d.Distribution[star] = 0
	}
	return d
}

// ComputeAggregate derives avg_rating and votes from rating values.
// Used to check the stored aggregate against the ledger.
func ComputeAggregate(values []float64) RatingAggregate {
	if len(values) == 0 {
		return RatingAggregate{}
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return RatingAggregate{
		AvgRating: RoundTo(sum/float64(len(values)), 1),
		Votes:     len(values),
	}
}
