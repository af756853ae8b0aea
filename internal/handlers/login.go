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

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, email, password string) (string, *models.UserDB, error)
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Email
	// required: true
	// example: gary@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: longenough1
	Password string `json:"password"`
}

// LoginResponse represents a successful login response
// swagger:model LoginResponse
type LoginResponse struct {
	// Status
	// example: success
	Status string `json:"status"`

	// JWT token
	Token string `json:"token"`

	// Authenticated user, password hash stripped
	User *models.UserDB `json:"user"`
}

// LoginErrorResponse represents an error response for login
// swagger:model LoginErrorResponse
type LoginErrorResponse struct {
	// Status
	// example: fail
	Status string `json:"status"`

	// Error message
	// example: Incorrect Email or Password
	Message string `json:"message"`
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticate by email and password and return a JWT token. Unknown email and wrong password produce the same message.
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login request"
// @Success 200 {object} handlers.LoginResponse "Token and user returned"
// @Failure 400 {object} handlers.LoginErrorResponse "Missing email or password"
// @Failure 401 {object} handlers.LoginErrorResponse "Bad credentials"
// @Router /login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(LoginErrorResponse{
				Status:  "fail",
				Message: "invalid request body",
			})
			return
		}

		token, user, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissingCredentials):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(LoginErrorResponse{
					Status:  "fail",
					Message: "Please Provide Email or Password",
				})
			case errors.Is(err, services.ErrInvalidCredentials):
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(LoginErrorResponse{
					Status:  "fail",
					Message: "Incorrect Email or Password",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(LoginErrorResponse{
					Status:  "error",
					Message: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(LoginResponse{
			Status: "success",
			Token:  token,
			User:   user,
		})
	}
}
