package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/builderhome/backend/internal/logger"
	"github.com/builderhome/backend/internal/services"
)

// PasswordForgetter defines the interface that the forgot-password service
// must implement.
type PasswordForgetter interface {
	ForgotPassword(ctx context.Context, email string) error
}

// ForgotPasswordRequest represents the JSON body for a reset request
// swagger:model ForgotPasswordRequest
type ForgotPasswordRequest struct {
	// Email of the account to reset
	// required: true
	// example: gary@example.com
	Email string `json:"email"`
}

// ForgotPasswordResponse represents a successful reset request
// swagger:model ForgotPasswordResponse
type ForgotPasswordResponse struct {
	// Status
	// example: success
	Status string `json:"status"`

	// Message
	// example: Token has been sent to your mail
	Message string `json:"message"`
}

// ForgotPasswordErrorResponse represents an error response
// swagger:model ForgotPasswordErrorResponse
type ForgotPasswordErrorResponse struct {
	// Status
	// example: fail
	Status string `json:"status"`

	// Error message
	Message string `json:"message"`
}

// NewForgotPasswordHandler returns an HTTP handler that starts the
// password-reset flow.
// @Summary Request a password reset
// @Description Generates a one-time reset secret and mails a reset link. A delivery failure rolls the reset state back.
// @Tags auth
// @Accept json
// @Produce json
// @Param forgotPasswordRequest body handlers.ForgotPasswordRequest true "Forgot password request"
// @Success 200 {object} handlers.ForgotPasswordResponse "Reset mail sent"
// @Failure 400 {object} handlers.ForgotPasswordErrorResponse "Unknown email or delivery failure"
// @Router /forgotPassword [post]
func NewForgotPasswordHandler(svc PasswordForgetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ForgotPasswordRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ForgotPasswordErrorResponse{
				Status:  "fail",
				Message: "invalid request body",
			})
			return
		}

		err := svc.ForgotPassword(r.Context(), req.Email)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNoUserWithEmail):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ForgotPasswordErrorResponse{
					Status:  "fail",
					Message: "There is No user with email address",
				})
			case errors.Is(err, services.ErrEmailDelivery):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ForgotPasswordErrorResponse{
					Status:  "error",
					Message: "There was an error sending the email. Try again later!",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ForgotPasswordErrorResponse{
					Status:  "error",
					Message: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ForgotPasswordResponse{
			Status:  "success",
			Message: "Token has been sent to your mail",
		})
	}
}
