package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/builderhome/backend/internal/logger"
	"github.com/builderhome/backend/internal/models"
	"github.com/builderhome/backend/internal/services"
)

// PasswordResetter defines the interface that the reset-password service
// must implement.
type PasswordResetter interface {
	ValidateResetToken(ctx context.Context, secret string) (*models.UserDB, error)
	ResetPassword(ctx context.Context, secret, password, confirmation string) (string, error)
}

// ResetPasswordRequest represents the JSON body for a password reset
// swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	// New password
	// required: true
	// example: longenough2
	Password string `json:"password"`

	// Password confirmation, must match password
	// required: true
	// example: longenough2
	PasswordConfirmation string `json:"passwordConfirmation"`
}

// ResetPasswordResponse represents a successful password reset
// swagger:model ResetPasswordResponse
type ResetPasswordResponse struct {
	// Status
	// example: Success
	Status string `json:"status"`

	// Fresh JWT token
	Token string `json:"token,omitempty"`

	// Message
	// example: Successfully changed your password
	Message string `json:"message"`
}

// ResetPasswordErrorResponse represents an error response
// swagger:model ResetPasswordErrorResponse
type ResetPasswordErrorResponse struct {
	// Status
	// example: fail
	Status string `json:"status"`

	// Error message
	// example: Token is Invalid or has expired
	Message string `json:"message"`
}

// NewValidateResetTokenHandler returns an HTTP handler that checks whether a
// reset secret is still usable.
// @Summary Validate a reset token
// @Description Reports whether the reset secret matches an unexpired reset request. Wrong and expired secrets are indistinguishable.
// @Tags auth
// @Produce json
// @Param token path string true "Plaintext reset secret"
// @Success 200 {object} handlers.ResetPasswordResponse "Token is valid"
// @Failure 400 {object} handlers.ResetPasswordErrorResponse "Invalid or expired"
// @Router /resetPassword/{token} [get]
func NewValidateResetTokenHandler(svc PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		secret := chi.URLParam(r, "token")

		_, err := svc.ValidateResetToken(r.Context(), secret)
		if err != nil {
			if errors.Is(err, services.ErrResetTokenInvalid) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
					Status:  "fail",
					Message: "Token is invalid or has expired",
				})
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
				Status:  "error",
				Message: "Internal server error",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ResetPasswordResponse{
			Status:  "success",
			Message: "Token is valid",
		})
	}
}

// NewResetPasswordHandler returns an HTTP handler that consumes a reset
// secret and sets a new password.
// @Summary Reset the password
// @Description Validates the reset secret, replaces the credential, clears the reset state and issues a fresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Plaintext reset secret"
// @Param resetPasswordRequest body handlers.ResetPasswordRequest true "Reset password request"
// @Success 201 {object} handlers.ResetPasswordResponse "Password changed"
// @Failure 400 {object} handlers.ResetPasswordErrorResponse "Invalid token or confirmation mismatch"
// @Router /resetPassword/{token} [patch]
func NewResetPasswordHandler(svc PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		secret := chi.URLParam(r, "token")

		var req ResetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
				Status:  "fail",
				Message: "invalid request body",
			})
			return
		}

		token, err := svc.ResetPassword(r.Context(), secret, req.Password, req.PasswordConfirmation)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrResetTokenInvalid):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
					Status:  "fail",
					Message: "Token is Invalid or has expired",
				})
			case errors.Is(err, services.ErrPasswordMismatch):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
					Status:  "error",
					Message: "Password confirmation does not match password",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ResetPasswordErrorResponse{
					Status:  "error",
					Message: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ResetPasswordResponse{
			Status:  "Success",
			Token:   token,
			Message: "Successfully changed your password",
		})
	}
}
