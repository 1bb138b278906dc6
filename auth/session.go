package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"spicymarket/models"
)

var ErrInvalidSession = errors.New("invalid or expired session")

type sessionClaims struct {
	jwt.RegisteredClaims
	Role models.Role `json:"role"`
}

// Sessions issues signed tokens for authenticated principals. A token is
// honoured only while its session id is in the registry, so Revoke signs
// the holder out before the token expires.
type Sessions struct {
	secret   []byte
	ttl      time.Duration
	registry SessionRegistry
	now      func() time.Time
}

func NewSessions(secret string, ttl time.Duration, registry SessionRegistry) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, registry: registry, now: time.Now}
}

// Issue moves p from anonymous to authenticated.
func (s *Sessions) Issue(ctx context.Context, p Principal) (string, time.Time, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	sid := uuid.NewString()

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			ID:        sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Role: p.Role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	if err := s.registry.Register(ctx, sid, p.Username, s.ttl); err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// Verify returns the principal of a live session.
func (s *Sessions) Verify(ctx context.Context, token string) (Principal, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return Principal{}, ErrInvalidSession
	}
	if claims.Subject == "" || claims.ID == "" {
		return Principal{}, ErrInvalidSession
	}

	active, err := s.registry.Active(ctx, claims.ID)
	if err != nil {
		return Principal{}, err
	}
	if !active {
		return Principal{}, ErrInvalidSession
	}
	return Principal{Username: claims.Subject, Role: claims.Role, SessionID: claims.ID}, nil
}

// Revoke ends the session behind token. Revoking an unknown or already
// revoked session is not an error.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	p, err := s.Verify(ctx, token)
	if errors.Is(err, ErrInvalidSession) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.registry.Remove(ctx, p.SessionID)
}
