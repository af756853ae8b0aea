package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/builderhome/backend/internal/logger"
	"github.com/builderhome/backend/internal/models"
	"github.com/builderhome/backend/internal/services"
)

// UserGetter defines the read operations of the profile service.
type UserGetter interface {
	ListArchitects(ctx context.Context) ([]models.UserWithInfo, error)
	GetUser(ctx context.Context, id int64) (*models.UserWithInfo, error)
}

// UserUpdater updates account and profile fields.
type UserUpdater interface {
	UpdateProfile(ctx context.Context, id int64, username, email string, upd models.UserInfoUpdate) error
}

// UserDeleter removes an account.
type UserDeleter interface {
	DeleteUser(ctx context.Context, id int64) error
}

// UpdateUserRequest represents the JSON body for a profile update. Only the
// fields listed here are updatable; everything else in the payload is
// ignored.
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	LinkedIn  *string  `json:"linkedin"`
	Instagram *string  `json:"instagram"`
	Rating    *float64 `json:"rating"`
}

// UserListResponse represents the architect listing
// swagger:model UserListResponse
type UserListResponse struct {
	// Status
	// example: success
	Status  string   `json:"status"`
	Results int      `json:"results"`
	Data    UserList `json:"data"`
}

// UserList wraps the listed users.
type UserList struct {
	Users []models.UserWithInfo `json:"users"`
}

// UserResponse represents a single user payload
// swagger:model UserResponse
type UserResponse struct {
	// Status
	// example: success
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	Data    *UserData `json:"data,omitempty"`
}

// UserData wraps a user with its profile.
type UserData struct {
	User *models.UserWithInfo `json:"user"`
}

// UserErrorResponse represents an error response for user operations
// swagger:model UserErrorResponse
type UserErrorResponse struct {
	// Status
	// example: error
	Status string `json:"status"`

	// Error message
	// example: User not found
	Message string `json:"message"`
}

// NewListArchitectsHandler returns an HTTP handler for the architect listing.
// @Summary List architects
// @Description Returns all users with the architect role together with their profiles.
// @Tags users
// @Produce json
// @Success 200 {object} handlers.UserListResponse "Architects returned"
// @Failure 500 {object} handlers.UserErrorResponse "Store failure"
// @Router / [get]
func NewListArchitectsHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.ListArchitects(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(UserErrorResponse{
				Status:  "error",
				Message: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(UserListResponse{
			Status:  "success",
			Results: len(users),
			Data:    UserList{Users: users},
		})
	}
}

// NewGetUserHandler returns an HTTP handler for the user detail view.
// @Summary Get a user
// @Description Returns a user joined with its profile row. The password hash never serializes.
// @Tags users
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} handlers.UserResponse "User returned"
// @Failure 404 {object} handlers.UserErrorResponse "Unknown user"
// @Router /{id} [get]
func NewGetUserHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(UserErrorResponse{
				Status:  "error",
				Message: "User not found",
			})
			return
		}

		user, err := svc.GetUser(r.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(UserErrorResponse{
					Status:  "error",
					Message: "User not found",
				})
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(UserErrorResponse{
				Status:  "error",
				Message: "An error occurred while fetching the user",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(UserResponse{
			Status: "success",
			Data:   &UserData{User: user},
		})
	}
}

// NewUpdateUserHandler returns an HTTP handler for profile updates.
// @Summary Update a user's profile
// @Description Updates username/email and the allow-listed profile fields. Runs behind the auth middleware.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Param updateUserRequest body handlers.UpdateUserRequest true "Profile update"
// @Success 200 {object} handlers.UserResponse "Profile updated"
// @Failure 404 {object} handlers.UserErrorResponse "Unknown user"
// @Failure 401 {object} handlers.UserErrorResponse "Not authenticated"
// @Router /{id} [patch]
func NewUpdateUserHandler(svc UserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(UserErrorResponse{
				Status:  "fail",
				Message: "User not found",
			})
			return
		}

		var req UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UserErrorResponse{
				Status:  "fail",
				Message: "invalid request body",
			})
			return
		}

		upd := models.UserInfoUpdate{
			LinkedIn:  req.LinkedIn,
			Instagram: req.Instagram,
			Rating:    req.Rating,
		}

		if err := svc.UpdateProfile(r.Context(), id, req.Username, req.Email, upd); err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(UserErrorResponse{
					Status:  "fail",
					Message: "User not found",
				})
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(UserErrorResponse{
				Status:  "error",
				Message: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(UserResponse{
			Status:  "success",
			Message: "User information successfully updated",
		})
	}
}

// NewDeleteUserHandler returns an HTTP handler for account deletion.
// @Summary Delete a user
// @Description Removes the user and its profile row in one transaction. Runs behind the auth middleware.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Success 200 {object} handlers.UserResponse "User deleted"
// @Failure 401 {object} handlers.UserErrorResponse "Not authenticated"
// @Failure 500 {object} handlers.UserErrorResponse "Store failure"
// @Router /{id} [delete]
func NewDeleteUserHandler(svc UserDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(UserErrorResponse{
				Status:  "error",
				Message: "User not found",
			})
			return
		}

		if err := svc.DeleteUser(r.Context(), id); err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(UserErrorResponse{
				Status:  "error",
				Message: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(UserResponse{
			Status:  "success",
			Message: "User successfully deleted",
		})
	}
}
