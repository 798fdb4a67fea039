// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// `json` tag'leri API ve WebSocket payload'larının şeklini,
// `db` tag'leri sqlx struct scan eşleşmesini belirler.
// `validate` tag'leri go-playground/validator kurallarıdır.
package models

import (
	"strings"
	"time"
)

// User, bir kullanıcıyı temsil eder.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	DisplayName  *string   `json:"display_name" db:"display_name"` // nullable
	Bio          *string   `json:"bio" db:"bio"`
	AvatarURL    *string   `json:"avatar_url" db:"avatar_url"`
	PasswordHash string    `json:"-" db:"password_hash"` // API response'a DAHİL EDİLMEZ
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CreateUserRequest, kayıt olurken frontend'den gelen veri.
// Hash'leme service katmanında yapılır.
type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=32,username"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"max=32"`
	Bio         string `json:"bio" validate:"max=280"`
}

// Validate, trim sonrası tag kurallarını uygular.
func (r *CreateUserRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
	r.Bio = strings.TrimSpace(r.Bio)
	return validateStruct(r)
}

// LoginRequest, giriş yaparken frontend'den gelen veri.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate, LoginRequest'in geçerli olup olmadığını kontrol eder.
func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	return validateStruct(r)
}
