package repositories

import (
	"context"
	"errors"

	"akun/internal/models"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when the store rejects a write because the
	// email already belongs to another user.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UpdatableFields lists the user columns a profile update may touch.
var UpdatableFields = []string{"name", "email", "photo", "phone", "bio"}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Update replaces the given columns of the user and returns the stored record.
	// Keys outside UpdatableFields are dropped.
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// allowedFields keeps only the keys listed in UpdatableFields.
func allowedFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for _, name := range UpdatableFields {
		if v, ok := fields[name]; ok {
			out[name] = v
		}
	}
	return out
}
