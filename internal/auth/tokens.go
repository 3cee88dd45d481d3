// Package auth issues and verifies the session credentials: a
// short-lived access token and a longer-lived refresh token whose jti is
// tracked server-side for revocation.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/apperrors"
)

// Kind separates the two credential types so one can never stand in for
// the other.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims are the validated contents of a taskboard token.
type Claims struct {
	UserID    uint
	Kind      Kind
	TokenID   string
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Kind Kind `json:"kind"`
}

// TokenIssuer signs and verifies HMAC tokens.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer builds an issuer. now may be nil, defaulting to time.Now.
func NewTokenIssuer(secret []byte, issuer string, accessTTL, refreshTTL time.Duration, now func() time.Time) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token secret is required")
	}
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{
		secret:     secret,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        now,
	}, nil
}

// IssueAccess signs a short-lived access token for the user.
func (i *TokenIssuer) IssueAccess(userID uint) (string, time.Time, error) {
	return i.issue(userID, KindAccess, "", i.accessTTL)
}

// IssueRefresh signs a refresh token carrying the given jti.
func (i *TokenIssuer) IssueRefresh(userID uint, tokenID string) (string, time.Time, error) {
	return i.issue(userID, KindRefresh, tokenID, i.refreshTTL)
}

func (i *TokenIssuer) issue(userID uint, kind Kind, tokenID string, ttl time.Duration) (string, time.Time, error) {
	now := i.now()
	expires := now.Add(ttl)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Kind: kind,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, expires, nil
}

// Verify parses a token and checks signature, expiry, issuer and kind.
func (i *TokenIssuer) Verify(token string, kind Kind) (Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, apperrors.Wrap(apperrors.CodeUnauthenticated, "invalid token", err)
	}
	if claims.Kind != kind {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, fmt.Sprintf("expected %s token", kind))
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "invalid token subject")
	}
	return Claims{
		UserID:    uint(userID),
		Kind:      claims.Kind,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
