package repositories

import (
	"context"
	"sync"
	"time"

	"akun/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
// Email uniqueness is checked under the write lock, so concurrent creates
// with the same email cannot both succeed.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(user.Email, "") {
		return ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// GetByID returns a user by its ID.
func (r *MockUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Update modifies the allowed fields of an existing user.
func (r *MockUserRepository) Update(_ context.Context, id string, fields map[string]interface{}) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	for name, value := range allowedFields(fields) {
		s, _ := value.(string)
		switch name {
		case "name":
			user.Name = s
		case "email":
			if r.emailTaken(s, id) {
				return nil, ErrDuplicateEmail
			}
			user.Email = s
		case "photo":
			user.Photo = s
		case "phone":
			user.Phone = s
		case "bio":
			user.Bio = s
		}
	}
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return &user, nil
}

// UpdatePassword replaces the stored password hash.
func (r *MockUserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.Password = passwordHash
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return nil
}

// emailTaken must be called with r.mu held.
func (r *MockUserRepository) emailTaken(email, exceptID string) bool {
	for id, u := range r.users {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}
