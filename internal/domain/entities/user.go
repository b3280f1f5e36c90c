package entities

import (
	"time"
)

// User is an identity subject. The credential hash belongs to the auth
// service and is never loaded here.
type User struct {
	ID               string    `json:"user_id" db:"user_id"`
	Username         string    `json:"username" db:"username"`
	Email            string    `json:"email" db:"email"`
	Role             string    `json:"role" db:"role"`
	RegistrationDate time.Time `json:"registration_date" db:"registration_date"`
}

// ProfileStats are per-user activity counters
type ProfileStats struct {
	RatingsCount int    `json:"ratings_count"`
	ReviewsCount int    `json:"reviews_count"`
	FavoriteCity string `json:"favorite_city"`
}

// UserProfile is a user with activity stats
type UserProfile struct {
	User
	Stats ProfileStats `json:"stats"`
}

// ProfileUpdate carries the mutable user fields; nil means unchanged
type ProfileUpdate struct {
	Username *string
	Email    *string
}

// UserActivity lists a user's ratings and reviews, newest first
type UserActivity struct {
	Ratings []*Rating `json:"ratings"`
	Reviews []*Review `json:"reviews"`
}
