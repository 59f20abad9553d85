// Package store holds the user repository and its in-memory and MySQL
// implementations. Emails are compared case-insensitively by every backend.
package store

import (
	"context"
	"errors"
	"strings"

	"dashboard/internal/models"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	// Insert stores a new user. The uniqueness check and the write are atomic.
	Insert(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// NormalizeEmail is the key used for lookups and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var (
	_ Repository = (*MemoryStore)(nil)
	_ Repository = (*MySQLStore)(nil)
)
