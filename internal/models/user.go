package models

import "time"

// UserDB represents a row in the users table. The password hash and any
// outstanding reset-token state never serialize into API responses.
type UserDB struct {
	ID                     int64      `json:"id" db:"id"`                                           // Primary key
	Username               string     `json:"username" db:"username"`                               // Unique username
	Email                  string     `json:"email" db:"email"`                                     // Unique email
	Role                   string     `json:"role" db:"role"`                                       // Free-text role, e.g. "architect"
	PasswordHash           string     `json:"-" db:"password_hash"`                                 // bcrypt digest
	PasswordChangedAt      *time.Time `json:"password_changed_at,omitempty" db:"password_changed_at"` // Set on every password mutation
	PasswordResetToken     *string    `json:"-" db:"password_reset_token"`                          // sha256 of the outstanding reset secret
	PasswordResetExpiresAt *time.Time `json:"-" db:"password_reset_expires_at"`                     // Expiry of the reset secret
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at" db:"updated_at"`
}

// UserInfoDB represents a row in the user_information table.
type UserInfoDB struct {
	UserID    int64    `json:"user_id" db:"user_id"`
	LinkedIn  *string  `json:"linkedin" db:"linkedin"`
	Instagram *string  `json:"instagram" db:"instagram"`
	Rating    *float64 `json:"rating" db:"rating"`
}

// UserInfoUpdate holds the profile fields a client may change. Nil fields are
// left untouched; anything outside this struct never reaches the statement
// builder.
type UserInfoUpdate struct {
	LinkedIn  *string
	Instagram *string
	Rating    *float64
}

// UserWithInfo is a users LEFT JOIN user_information row used by the listing
// and detail queries.
type UserWithInfo struct {
	UserDB
	LinkedIn  *string  `json:"linkedin" db:"linkedin"`
	Instagram *string  `json:"instagram" db:"instagram"`
	Rating    *float64 `json:"rating" db:"rating"`
}
