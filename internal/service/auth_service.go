package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/apperrors"
	"taskboard/internal/auth"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// PasswordPolicy decides whether a password is acceptable.
type PasswordPolicy interface {
	Validate(password string) error
}

// BasicPasswordPolicy enforces a minimum length plus at least one letter
// and one digit.
type BasicPasswordPolicy struct {
	MinLength int
}

func (p BasicPasswordPolicy) Validate(password string) error {
	minLen := p.MinLength
	if minLen < 1 {
		minLen = 8
	}
	if len(password) < minLen {
		return apperrors.Validation("weak password", map[string]string{
			"password": fmt.Sprintf("password must be at least %d characters", minLen),
		})
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperrors.Validation("weak password", map[string]string{
			"password": "password must contain both letters and digits",
		})
	}
	return nil
}

// RegisterInput is the registration payload. The password is never
// echoed back by anything built on top of this.
type RegisterInput struct {
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
}

// TokenPair is the session boundary's output: a short-lived access
// credential and a longer-lived refresh credential.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// AuthService implements registration, login and session lifecycle.
type AuthService struct {
	users  *repository.UserRepository
	tokens *repository.TokenRepository
	issuer *auth.TokenIssuer
	policy PasswordPolicy
	now    func() time.Time
}

func NewAuthService(users *repository.UserRepository, tokens *repository.TokenRepository, issuer *auth.TokenIssuer, policy PasswordPolicy, now func() time.Time) *AuthService {
	if now == nil {
		now = time.Now
	}
	if policy == nil {
		policy = BasicPasswordPolicy{MinLength: 8}
	}
	return &AuthService{users: users, tokens: tokens, issuer: issuer, policy: policy, now: now}
}

// Register creates an account after checking confirmation match,
// password policy and username/email uniqueness.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	fields := map[string]string{}
	if username == "" {
		fields["username"] = "username is required"
	}
	if email == "" || !strings.Contains(email, "@") {
		fields["email"] = "a valid email is required"
	}
	if input.Password != input.PasswordConfirmation {
		fields["password_confirmation"] = "passwords do not match"
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation("invalid registration", fields)
	}
	if err := s.policy.Validate(input.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnavailable, "hash password", err)
	}

	user := model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and issues a token pair. Unknown logins and
// wrong passwords report the same error.
func (s *AuthService) Login(ctx context.Context, login, password string) (*model.User, TokenPair, error) {
	invalid := apperrors.New(apperrors.CodeUnauthenticated, "invalid credentials")

	user, err := s.users.FindByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, TokenPair{}, invalid
		}
		return nil, TokenPair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, TokenPair{}, invalid
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh rotates a usable refresh token into a fresh pair. The old
// token is revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.issuer.Verify(refreshToken, auth.KindRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	stored, err := s.tokens.FindByID(ctx, claims.TokenID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return TokenPair{}, apperrors.New(apperrors.CodeUnauthenticated, "unknown refresh token")
		}
		return TokenPair{}, err
	}
	if !stored.Usable(s.now()) {
		return TokenPair{}, apperrors.New(apperrors.CodeUnauthenticated, "refresh token no longer usable")
	}
	if err := s.tokens.Revoke(ctx, stored.ID, s.now()); err != nil {
		return TokenPair{}, err
	}
	return s.issuePair(ctx, stored.UserID)
}

// Logout invalidates the refresh token. A second logout with the same
// token fails.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.issuer.Verify(refreshToken, auth.KindRefresh)
	if err != nil {
		return err
	}
	err = s.tokens.Revoke(ctx, claims.TokenID, s.now())
	if apperrors.IsCode(err, apperrors.CodeNotFound) {
		return apperrors.New(apperrors.CodeUnauthenticated, "unknown refresh token")
	}
	return err
}

// Authenticate resolves an access token to its user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := s.issuer.Verify(accessToken, auth.KindAccess)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.New(apperrors.CodeUnauthenticated, "unknown user")
		}
		return nil, err
	}
	return user, nil
}

// CleanupExpiredTokens drops refresh tokens past their lifetime.
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, s.now())
}

func (s *AuthService) issuePair(ctx context.Context, userID uint) (TokenPair, error) {
	access, accessExp, err := s.issuer.IssueAccess(userID)
	if err != nil {
		return TokenPair{}, apperrors.Wrap(apperrors.CodeUnavailable, "issue access token", err)
	}

	jti := uuid.NewString()
	refresh, refreshExp, err := s.issuer.IssueRefresh(userID, jti)
	if err != nil {
		return TokenPair{}, apperrors.Wrap(apperrors.CodeUnavailable, "issue refresh token", err)
	}
	if err := s.tokens.Create(ctx, &model.RefreshToken{
		ID:        jti,
		UserID:    userID,
		ExpiresAt: refreshExp,
	}); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}
