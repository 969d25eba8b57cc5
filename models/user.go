package models

import "time"

// User is the stored account document. Never encode it to HTTP directly;
// responses use UserProfileResponse.
type User struct {
	UserID        string    `json:"userid" bson:"_id"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"password,omitempty" bson:"password"`
	Role          []string  `json:"role" bson:"role"`
	Name          string    `json:"name,omitempty" bson:"name,omitempty"`
	Bio           string    `json:"bio,omitempty" bson:"bio,omitempty"`
	Avatar        string    `json:"avatar" bson:"avatar"`
	EmailVerified bool      `json:"email_verified" bson:"email_verified"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	LastLogin     time.Time `json:"last_login" bson:"last_login"`
	RefreshToken  string    `json:"refresh_token,omitempty" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"refresh_expiry,omitempty" bson:"refresh_expiry,omitempty"`
}

// UserProfileResponse is the public shape of a profile.
type UserProfileResponse struct {
	UserID    string    `json:"userid"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio,omitempty"`
	Avatar    string    `json:"avatar"`
	LastLogin time.Time `json:"last_login"`
}
