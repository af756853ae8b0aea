package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/builderhome/backend/internal/services"
)

// PasswordChanger defines the interface that the change-password service
// must implement.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword, confirmation string) (string, error)
}

// ChangePasswordRequest represents the JSON body for a password change
// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	// Current password
	// required: true
	// example: longenough1
	OldPassword string `json:"oldPassword"`

	// New password
	// required: true
	// example: longenough2
	Password string `json:"password"`

	// Password confirmation, must match password
	// required: true
	// example: longenough2
	PasswordConfirmation string `json:"passwordConfirmation"`
}

// ChangePasswordResponse represents a successful password change
// swagger:model ChangePasswordResponse
type ChangePasswordResponse struct {
	// Status
	// example: Success
	Status string `json:"status"`

	// Fresh JWT token
	Token string `json:"token"`

	// Message
	// example: Successfully changed your password
	Message string `json:"message"`
}

// ChangePasswordErrorResponse represents an error response
// swagger:model ChangePasswordErrorResponse
type ChangePasswordErrorResponse struct {
	// Status
	// example: error
	Status string `json:"status"`

	// Error message
	// example: Your Old Password is Incorrect
	Message string `json:"message"`
}

// NewChangePasswordHandler returns an HTTP handler for authenticated
// password changes.
// @Summary Change the password
// @Description Verifies the current password, replaces the credential and issues a fresh token. Runs behind the auth middleware.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User id"
// @Param changePasswordRequest body handlers.ChangePasswordRequest true "Change password request"
// @Success 201 {object} handlers.ChangePasswordResponse "Password changed"
// @Failure 400 {object} handlers.ChangePasswordErrorResponse "Wrong old password or confirmation mismatch"
// @Failure 401 {object} handlers.ChangePasswordErrorResponse "Not authenticated"
// @Router /changePassword/{id} [patch]
func NewChangePasswordHandler(svc PasswordChanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ChangePasswordErrorResponse{
				Status:  "err",
				Message: "There is something wrong",
			})
			return
		}

		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ChangePasswordErrorResponse{
				Status:  "fail",
				Message: "invalid request body",
			})
			return
		}

		token, err := svc.ChangePassword(r.Context(), userID, req.OldPassword, req.Password, req.PasswordConfirmation)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrOldPasswordIncorrect):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ChangePasswordErrorResponse{
					Status:  "error",
					Message: "Your Old Password is Incorrect",
				})
			case errors.Is(err, services.ErrPasswordMismatch):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ChangePasswordErrorResponse{
					Status:  "error",
					Message: "Password confirmation does not match password",
				})
			default:
				// The original surface reports every other failure the same way.
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ChangePasswordErrorResponse{
					Status:  "err",
					Message: "There is something wrong",
				})
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ChangePasswordResponse{
			Status:  "Success",
			Token:   token,
			Message: "Successfully changed your password",
		})
	}
}
