package model

import "github.com/golang-jwt/jwt/v5"

// OwnerClaims are JWT claims for form owners
type OwnerClaims struct {
	OwnerID  string `json:"ownerId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RespondentClaims scope a token to one form session
type RespondentClaims struct {
	FormID    string `json:"formId"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for owner login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token   string `json:"token"`
	OwnerID string `json:"ownerId"`
}
