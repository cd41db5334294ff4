// Package token issues and verifies signed access/refresh tokens and keeps
// the revocation set.
package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the "type" claim.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

var (
	// ErrInvalidToken covers bad signatures, expiry and malformed claims.
	ErrInvalidToken = errors.New("invalid token")
	// ErrRevoked indicates the token's jti is present in the revocation set.
	ErrRevoked = errors.New("token revoked")
	// ErrWrongKind indicates an access token where a refresh token was
	// expected, or vice versa.
	ErrWrongKind = errors.New("wrong token kind")
)

// Claims are the registered claims plus the token kind.
type Claims struct {
	Kind string `json:"type"`
	jwt.RegisteredClaims
}

// UserID resolves the subject claim back to a user id.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("token: parse subject: %w", ErrInvalidToken)
	}
	return id, nil
}

// Service signs HS256 tokens and checks them against the revocation set.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	revoked    *RevocationSet
	now        func() time.Time
}

// NewService constructs a Service. The revocation set is a required
// dependency; it is injected rather than reached through package state.
func NewService(secret string, accessTTL, refreshTTL time.Duration, revoked *RevocationSet) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		revoked:    revoked,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// IssueAccess signs a new access token for the user.
func (s *Service) IssueAccess(userID int64) (string, error) {
	return s.issue(userID, KindAccess, s.accessTTL)
}

// IssueRefresh signs a new refresh token for the user.
func (s *Service) IssueRefresh(userID int64) (string, error) {
	return s.issue(userID, KindRefresh, s.refreshTTL)
}

func (s *Service) issue(userID int64, kind string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify parses the token and checks signature, expiry, kind and the
// revocation set. A token is valid only when all four check out.
func (s *Service) Verify(ctx context.Context, raw, kind string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("token: parse: %w", ErrInvalidToken)
	}
	if claims.Kind != kind {
		return nil, ErrWrongKind
	}
	revoked, err := s.revoked.Contains(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("token: revocation lookup: %w", err)
	}
	if revoked {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Revoke inserts the token's jti into the revocation set with a TTL equal to
// the token's remaining lifetime so stale entries self-clean.
func (s *Service) Revoke(ctx context.Context, claims *Claims) error {
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	return s.revoked.Add(ctx, claims.ID, remaining)
}
