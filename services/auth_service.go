// Package services, iş mantığı katmanıdır.
//
// Her service bir interface ve unexported bir implementasyondan oluşur;
// constructor interface döner. Service'ler repository'lere ve
// ws.EventPublisher'a bağımlıdır, HTTP veya WebSocket detaylarını bilmez.
package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
	"github.com/akinalp/realms/repository"
)

const tokenIssuer = "realms"

// bcryptCost, testlerde bcrypt.MinCost'a düşürülür.
var bcryptCost = 12

// AuthService, kayıt, giriş ve JWT işlemleri.
type AuthService interface {
	Register(ctx context.Context, req *models.CreateUserRequest) (*AuthTokens, error)
	Login(ctx context.Context, req *models.LoginRequest) (*AuthTokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
	PruneSessions(ctx context.Context) (int64, error)
}

// AuthTokens, login/register/refresh yanıtı.
type AuthTokens struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
}

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	secret      []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	now         func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	jwtSecret string,
	accessExpMinutes int,
	refreshExpDays int,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		secret:      []byte(jwtSecret),
		accessTTL:   time.Duration(accessExpMinutes) * time.Minute,
		refreshTTL:  time.Duration(refreshExpDays) * 24 * time.Hour,
		now:         time.Now,
	}
}

var errBadCredentials = fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)

func (s *authService) Register(ctx context.Context, req *models.CreateUserRequest) (*AuthTokens, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		DisplayName:  optional(req.DisplayName),
		Bio:          optional(req.Bio),
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(ctx, user)
}

// Login, kullanıcı adı büyük/küçük harf duyarsızdır. Bilinmeyen kullanıcı
// ile yanlış şifre aynı hatayı döner.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*AuthTokens, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	switch {
	case errors.Is(err, pkg.ErrNotFound):
		return nil, errBadCredentials
	case err != nil:
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, errBadCredentials
	}

	return s.issue(ctx, user)
}

// RefreshToken, refresh token'ı tek kullanımlık tüketir: session her
// durumda silinir, süresi dolmamışsa yeni bir çift üretilir.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	switch {
	case errors.Is(err, pkg.ErrNotFound):
		return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
	case err != nil:
		return nil, err
	}

	if err := s.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
		return nil, err
	}
	if !s.now().Before(session.ExpiresAt) {
		return nil, fmt.Errorf("%w: refresh token expired", pkg.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

// Logout idempotenttir; bilinmeyen token hata değildir.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	switch {
	case errors.Is(err, pkg.ErrNotFound):
		return nil
	case err != nil:
		return err
	}
	return s.sessionRepo.DeleteByID(ctx, session.ID)
}

func (s *authService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ValidateAccessToken, sadece bu servisin imzaladığı (HS256, issuer
// "realms") ve süresi geçmemiş token'ları kabul eder.
func (s *authService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.key,
		jwt.WithIssuer(tokenIssuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: token has no subject", pkg.ErrUnauthorized)
	}
	return claims, nil
}

func (s *authService) PruneSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx)
}

func (s *authService) key(*jwt.Token) (any, error) {
	return s.secret, nil
}

// issue, access token imzalar ve yeni bir refresh session açar.
func (s *authService) issue(ctx context.Context, user *models.User) (*AuthTokens, error) {
	now := s.now()

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := randomToken()
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Create(ctx, &models.Session{
		UserID:       user.ID,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}

	out := &AuthTokens{AccessToken: access, RefreshToken: refresh, User: *user}
	out.User.PasswordHash = ""
	return out, nil
}

// randomToken, 32 byte'lık URL-safe refresh token üretir.
func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// optional, boş string'i nil'e çevirir (nullable kolonlar için).
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
