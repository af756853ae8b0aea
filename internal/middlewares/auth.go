package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/builderhome/backend/internal/jwt"
	"github.com/builderhome/backend/internal/logger"
	"github.com/builderhome/backend/internal/models"
)

// Tokener defines the token operations the middleware needs.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// UserProvider resolves a token subject to a live user record.
type UserProvider interface {
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
}

// authErrorResponse mirrors the error envelope of the rest of the API.
type authErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func rejectAuth(w http.ResponseWriter, status, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(authErrorResponse{Status: status, Message: message})
}

// AuthMiddleware gates protected routes. It extracts the bearer token,
// verifies it, resolves the user, rejects tokens issued before the user's
// last password change, and attaches the user to the request context.
// Every failure mode resolves to a 401; nothing falls through open.
func AuthMiddleware(tokener Tokener, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				rejectAuth(w, "fail", "You're Not logged In")
				return
			}

			claims, err := tokener.GetClaims(ctx, tokenString)
			if err != nil {
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					rejectAuth(w, "error", "Your Token Has Expired! Please Login Again")
				case errors.Is(err, jwt.ErrTokenInvalid):
					rejectAuth(w, "error", "Invalid Token Please Login Again")
				default:
					logger.Log.Errorw("token verification failed", "error", err)
					rejectAuth(w, "error", "Something went wrong with authentication")
				}
				return
			}

			user, err := users.GetByID(ctx, claims.UserID)
			if err != nil {
				logger.Log.Errorw("failed to resolve token subject", "user_id", claims.UserID, "error", err)
				rejectAuth(w, "error", "Something went wrong with authentication")
				return
			}
			if user == nil {
				rejectAuth(w, "fail", "The user belonging to this token no longer exists")
				return
			}

			// Tokens issued before the last password change are dead even if
			// unexpired. Compared at second granularity, like the iat claim.
			if user.PasswordChangedAt != nil && claims.IssuedAt != nil &&
				claims.IssuedAt.Unix() < user.PasswordChangedAt.Unix() {
				rejectAuth(w, "fail", "User recently changed password! Please login again.")
				return
			}

			next.ServeHTTP(w, r.WithContext(setUserToContext(ctx, user)))
		})
	}
}

// userContextKey is an unexported type for keys in context
type userContextKey struct{}

var userKey = userContextKey{}

// setUserToContext stores the authenticated user in the context
func setUserToContext(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext retrieves the authenticated user. Returns nil if not present.
func GetUserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey).(*models.UserDB)
	return user
}
