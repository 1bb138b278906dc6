// Package auth checks credentials and tracks signed-in sessions.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"spicymarket/models"
	"spicymarket/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooLong    = errors.New("password longer than 72 bytes")
)

// bcrypt only reads the first 72 bytes of a password.
const maxPasswordBytes = 72

// Principal is the signed-in identity carried through a request.
type Principal struct {
	Username  string
	Role      models.Role
	SessionID string
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// IdentityProvider decides whether a username/password pair is valid.
type IdentityProvider interface {
	Authenticate(ctx context.Context, username, password string) (Principal, error)
}

// UserFinder looks a user up across regular and admin accounts.
type UserFinder interface {
	FindUser(ctx context.Context, username string) (models.User, error)
}

// LocalProvider checks bcrypt hashes kept in the user and admin collections.
type LocalProvider struct {
	Users UserFinder
}

// compared when the username is unknown
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("spicymarket"), bcrypt.DefaultCost)

func (p *LocalProvider) Authenticate(ctx context.Context, username, password string) (Principal, error) {
	u, err := p.Users.FindUser(ctx, username)
	if errors.Is(err, storage.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Principal{}, ErrInvalidCredentials
	}
	if err != nil {
		return Principal{}, fmt.Errorf("find user: %w", err)
	}
	if !CheckPassword(u.PasswordHash, password) {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{Username: u.Username, Role: u.Role}, nil
}

func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
