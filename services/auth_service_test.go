package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/realms/models"
	"github.com/akinalp/realms/pkg"
	"github.com/akinalp/realms/pkg/testutil"
	"github.com/akinalp/realms/repository"
)

func newTestAuthService(t *testing.T, secret string) AuthService {
	t.Helper()

	bcryptCost = bcrypt.MinCost
	db := testutil.NewTestDB(t)
	return NewAuthService(
		repository.NewSQLiteUserRepo(db.X),
		repository.NewSQLiteSessionRepo(db.X),
		secret, 15, 7,
	)
}

func TestRegisterLoginAndValidate(t *testing.T) {
	svc := newTestAuthService(t, "test-secret")
	ctx := context.Background()

	registered, err := svc.Register(ctx, &models.CreateUserRequest{Username: "carol", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if registered.User.PasswordHash != "" {
		t.Error("password hash leaked into response")
	}

	if _, err := svc.Login(ctx, &models.LoginRequest{Username: "carol", Password: "wrong password"}); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Errorf("wrong password: err = %v", err)
	}

	tokens, err := svc.Login(ctx, &models.LoginRequest{Username: "CAROL", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := svc.ValidateAccessToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != registered.User.ID || claims.Username != "carol" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := svc.Register(ctx, &models.CreateUserRequest{Username: "Carol", Password: "another one"}); !errors.Is(err, pkg.ErrAlreadyExists) {
		t.Errorf("duplicate username: err = %v", err)
	}
}

func TestValidateRejectsForeignTokens(t *testing.T) {
	ours := newTestAuthService(t, "secret-a")
	theirs := newTestAuthService(t, "secret-b")
	ctx := context.Background()

	tokens, err := theirs.Register(ctx, &models.CreateUserRequest{Username: "mallory", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ours.ValidateAccessToken(tokens.AccessToken); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Errorf("foreign token: err = %v", err)
	}
	if _, err := ours.ValidateAccessToken("not-a-jwt"); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Errorf("garbage token: err = %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc := newTestAuthService(t, "test-secret")
	ctx := context.Background()

	tokens, err := svc.Register(ctx, &models.CreateUserRequest{Username: "dave", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}

	rotated, err := svc.RefreshToken(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if rotated.RefreshToken == tokens.RefreshToken {
		t.Error("refresh token was not rotated")
	}
	if _, err := svc.RefreshToken(ctx, tokens.RefreshToken); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Errorf("reused refresh token: err = %v", err)
	}

	if err := svc.Logout(ctx, rotated.RefreshToken); err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(ctx, rotated.RefreshToken); err != nil {
		t.Errorf("second logout should be a no-op, got %v", err)
	}
}

func TestRefreshTokenExpires(t *testing.T) {
	svc := newTestAuthService(t, "test-secret")
	impl := svc.(*authService)
	ctx := context.Background()

	tokens, err := svc.Register(ctx, &models.CreateUserRequest{Username: "erin", Password: "password123"})
	if err != nil {
		t.Fatal(err)
	}

	impl.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	if _, err := svc.ValidateAccessToken(tokens.AccessToken); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Errorf("expired access token: err = %v", err)
	}
	if _, err := svc.RefreshToken(ctx, tokens.RefreshToken); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Errorf("expired refresh token: err = %v", err)
	}
	// Süresi dolmuş session refresh denemesinde de tüketilir.
	if _, err := svc.RefreshToken(ctx, tokens.RefreshToken); !errors.Is(err, pkg.ErrUnauthorized) {
		t.Errorf("second attempt: err = %v", err)
	}
}

func TestPruneSessions(t *testing.T) {
	bcryptCost = bcrypt.MinCost
	db := testutil.NewTestDB(t)
	sessions := repository.NewSQLiteSessionRepo(db.X)
	svc := NewAuthService(repository.NewSQLiteUserRepo(db.X), sessions, "test-secret", 15, 7)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "frank")
	for _, expires := range []time.Time{time.Now().Add(-time.Hour), time.Now().Add(time.Hour)} {
		if err := sessions.Create(ctx, &models.Session{UserID: user.ID, RefreshToken: expires.String(), ExpiresAt: expires}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := svc.PruneSessions(ctx)
	if err != nil {
		t.Fatalf("PruneSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d, want 1", n)
	}
}
