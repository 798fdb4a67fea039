package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, JWT access token'ın payload'u.
// HTTP middleware ve WebSocket handshake aynı claims'i doğrular.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
