package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/builderhome/backend/internal/logger"
	"github.com/builderhome/backend/internal/models"
	"github.com/builderhome/backend/internal/services"
)

// Signuper defines the interface that the signup service must implement.
type Signuper interface {
	Signup(ctx context.Context, username, email, password, role string) (string, *models.UserDB, error)
}

// SignupChecker validates the signup payload before the account is created.
type SignupChecker interface {
	Validate(ctx context.Context, in services.SignupInput) error
}

// SignupRequest represents the JSON body for account creation
// swagger:model SignupRequest
type SignupRequest struct {
	// Username
	// required: true
	// example: gary
	Username string `json:"username"`

	// Email
	// required: true
	// example: gary@example.com
	Email string `json:"email"`

	// Role
	// required: true
	// example: user
	Role string `json:"role"`

	// Password, at least 8 characters
	// required: true
	// example: longenough1
	Password string `json:"password"`

	// Password confirmation, must match password
	// required: true
	// example: longenough1
	PasswordConfirmation string `json:"passwordConfirmation"`
}

// SignupResponse represents a successful signup response
// swagger:model SignupResponse
type SignupResponse struct {
	// Status
	// example: Success
	Status string `json:"status"`

	// JWT token for the new account
	Token string `json:"token"`

	// Message
	// example: Successfully Created A User
	Message string `json:"message"`

	// Created user, password hash stripped
	Data SignupData `json:"data"`
}

// SignupData wraps the created user.
type SignupData struct {
	User *models.UserDB `json:"user"`
}

// SignupErrorResponse represents an error response for signup
// swagger:model SignupErrorResponse
type SignupErrorResponse struct {
	// Status
	// example: fail
	Status string `json:"status"`

	// Error message
	Message string `json:"message"`
}

// NewSignupHandler returns an HTTP handler for account creation.
// @Summary Create an account
// @Description Validates the payload, hashes the password and creates the user. The confirmation field is stripped before persistence and a token is issued immediately.
// @Tags auth
// @Accept json
// @Produce json
// @Param signupRequest body handlers.SignupRequest true "Signup request"
// @Success 201 {object} handlers.SignupResponse "Account created"
// @Failure 400 {object} handlers.SignupErrorResponse "Validation failure"
// @Failure 500 {object} handlers.SignupErrorResponse "Store failure"
// @Router /signup [post]
func NewSignupHandler(svc Signuper, validator SignupChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SignupErrorResponse{
				Status:  "fail",
				Message: "invalid request body",
			})
			return
		}

		err := validator.Validate(r.Context(), services.SignupInput{
			Username:             req.Username,
			Email:                req.Email,
			Role:                 req.Role,
			Password:             req.Password,
			PasswordConfirmation: req.PasswordConfirmation,
		})
		if err != nil {
			var vErr *services.ValidationError
			if errors.As(err, &vErr) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(SignupErrorResponse{
					Status:  "fail",
					Message: vErr.Message,
				})
				return
			}
			logger.Log.Errorw("signup validation failed", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(SignupErrorResponse{
				Status:  "Error",
				Message: "An error occurred while processing your request",
			})
			return
		}

		token, user, err := svc.Signup(r.Context(), req.Username, req.Email, req.Password, req.Role)
		if err != nil {
			logger.Log.Errorw("signup failed", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(SignupErrorResponse{
				Status:  "Error",
				Message: "An error occurred while processing your request",
			})
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(SignupResponse{
			Status:  "Success",
			Token:   token,
			Message: "Successfully Created A User",
			Data:    SignupData{User: user},
		})
	}
}
