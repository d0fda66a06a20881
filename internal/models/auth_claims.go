package models

import "github.com/golang-jwt/jwt/v5"

type JwtCustomClaims struct {
	UserID string `json:"userID"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// ErrorResponse is the generic error envelope returned by handlers.
type ErrorResponse struct {
	Message string `json:"message"`
}
