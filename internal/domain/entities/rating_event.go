package entities

import (
	"time"

	"github.com/google/uuid"
)

// RatingEventType is the kind of change announced on the event bus
type RatingEventType string

const (
	RatingEventTypeSubmitted RatingEventType = "rating_submitted"
)

// RatingEvent announces a committed change to a restaurant's aggregate
type RatingEvent struct {
	ID           string          `json:"id"`
	RestaurantID string          `json:"restaurant_id"`
	EventType    RatingEventType `json:"event_type"`
	AvgRating    float64         `json:"avg_rating"`
	Votes        int             `json:"votes"`
	Timestamp    time.Time       `json:"timestamp"`
}

// NewRatingEvent creates an event for a committed rating submission
func NewRatingEvent(submission *RatingSubmission) *RatingEvent {
	return &RatingEvent{
		ID:           uuid.New().String(),
		RestaurantID: submission.RestaurantID,
		EventType:    RatingEventTypeSubmitted,
		AvgRating:    submission.Aggregate.AvgRating,
		Votes:        submission.Aggregate.Votes,
		Timestamp:    time.Now().UTC(),
	}
}
