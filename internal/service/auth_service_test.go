package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/apperrors"
	"taskboard/internal/auth"
	"taskboard/internal/repository"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	issuer, err := auth.NewTokenIssuer([]byte("test-secret"), "taskboard", 15*time.Minute, 24*time.Hour, nil)
	if err != nil {
		t.Fatalf("build issuer: %v", err)
	}
	return NewAuthService(repository.NewUserRepository(db), repository.NewTokenRepository(db), issuer, nil, nil)
}

func register(t *testing.T, svc *AuthService, username, password string) {
	t.Helper()
	_, err := svc.Register(context.Background(), RegisterInput{
		Username:             username,
		Email:                username + "@example.com",
		Password:             password,
		PasswordConfirmation: password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
}

func TestRegisterRejectsConfirmationMismatch(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username:             "alice",
		Email:                "alice@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret124",
	})
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Fields["password_confirmation"] == "" {
		t.Fatalf("expected a password_confirmation field error, got %v", err)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	for _, password := range []string{"short1", "lettersonly", "12345678"} {
		_, err := svc.Register(ctx, RegisterInput{
			Username:             "alice",
			Email:                "alice@example.com",
			Password:             password,
			PasswordConfirmation: password,
		})
		if !apperrors.IsCode(err, apperrors.CodeValidation) {
			t.Fatalf("password %q: expected VALIDATION, got %v", password, err)
		}
	}
}

func TestRegisterRejectsDuplicateUsernameAndEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice", "secret123")

	_, err := svc.Register(ctx, RegisterInput{
		Username:             "alice",
		Email:                "other@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("duplicate username: expected CONFLICT, got %v", err)
	}

	_, err = svc.Register(ctx, RegisterInput{
		Username:             "alice2",
		Email:                "alice@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
	})
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("duplicate email: expected CONFLICT, got %v", err)
	}
}

func TestLoginHidesWhichCredentialFailed(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice", "secret123")

	_, _, wrongPassword := svc.Login(ctx, "alice", "wrongpass1")
	_, _, unknownUser := svc.Login(ctx, "nobody", "secret123")

	if !apperrors.IsCode(wrongPassword, apperrors.CodeUnauthenticated) {
		t.Fatalf("wrong password: expected UNAUTHENTICATED, got %v", wrongPassword)
	}
	if !apperrors.IsCode(unknownUser, apperrors.CodeUnauthenticated) {
		t.Fatalf("unknown user: expected UNAUTHENTICATED, got %v", unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("errors must be indistinguishable: %q vs %q", wrongPassword.Error(), unknownUser.Error())
	}
}

func TestLoginAcceptsUsernameOrEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice", "secret123")

	for _, login := range []string{"alice", "alice@example.com"} {
		user, pair, err := svc.Login(ctx, login, "secret123")
		if err != nil {
			t.Fatalf("login as %q: %v", login, err)
		}
		if user.Username != "alice" {
			t.Fatalf("login as %q resolved wrong user %q", login, user.Username)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" {
			t.Fatalf("login as %q returned incomplete pair", login)
		}
	}
}

func TestRefreshRotationRevokesOldToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice", "secret123")

	_, pair, err := svc.Login(ctx, "alice", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := svc.Authenticate(ctx, fresh.AccessToken); err != nil {
		t.Fatalf("fresh access token must authenticate: %v", err)
	}

	// The consumed refresh token cannot be replayed.
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !apperrors.IsCode(err, apperrors.CodeUnauthenticated) {
		t.Fatalf("replayed refresh: expected UNAUTHENTICATED, got %v", err)
	}
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice", "secret123")

	_, pair, err := svc.Login(ctx, "alice", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(ctx, pair.RefreshToken); !apperrors.IsCode(err, apperrors.CodeUnauthenticated) {
		t.Fatalf("refresh after logout: expected UNAUTHENTICATED, got %v", err)
	}
	if err := svc.Logout(ctx, pair.RefreshToken); !apperrors.IsCode(err, apperrors.CodeUnauthenticated) {
		t.Fatalf("second logout: expected UNAUTHENTICATED, got %v", err)
	}
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	register(t, svc, "alice", "secret123")

	_, pair, err := svc.Login(ctx, "alice", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Authenticate(ctx, pair.RefreshToken); !apperrors.IsCode(err, apperrors.CodeUnauthenticated) {
		t.Fatalf("refresh token as access: expected UNAUTHENTICATED, got %v", err)
	}
}
