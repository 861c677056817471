package model

import "github.com/golang-jwt/jwt/v5"

// OwnerClaims are JWT claims for the account owner
type OwnerClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// ViewerClaims are JWT claims for read-only share tokens (e.g. a clinician
// reviewing a user's insights)
type ViewerClaims struct {
	UserID   string `json:"userId"`
	ReadOnly bool   `json:"readOnly"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for owner login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// ShareResponse is returned when the owner mints a read-only share token
type ShareResponse struct {
	Token string `json:"token"`
}
