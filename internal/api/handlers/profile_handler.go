package handlers

import (
	"context"
	"net/http"

	"github.com/dinewise/backend/internal/api/middleware"
	"github.com/dinewise/backend/internal/domain/entities"
)

// ProfileService defines the profile operations used by the handler
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, update entities.ProfileUpdate) (*entities.User, error)
	Activity(ctx context.Context, userID string) (*entities.UserActivity, error)
}

// ProfileHandler handles the authenticated user's profile
type ProfileHandler struct {
	service ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type updateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), middleware.UserIDFromContext(r.Context()), entities.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// GetActivity handles GET /api/profile/activity
func (h *ProfileHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.service.Activity(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, activity)
}
