package entities

import "time"

// Review is one user's free-text review of one restaurant. There is at
// most one Review per (UserID, RestaurantID).
type Review struct {
	ID             string    `json:"review_id" db:"review_id"`
	UserID         string    `json:"user_id" db:"user_id"`
	Username       string    `json:"username,omitempty" db:"username"`
	RestaurantID   string    `json:"restaurant_id" db:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name,omitempty" db:"restaurant_name"`
	Text           string    `json:"review_text" db:"review_text"`
	ReviewedAt     time.Time `json:"review_date" db:"review_date"`
	HelpfulCount   int       `json:"helpful_count" db:"helpful_count"`
}

// ReviewSubmission is the outcome of a review upsert
type ReviewSubmission struct {
	ReviewID string `json:"review_id"`
	Created  bool   `json:"created"`
}
