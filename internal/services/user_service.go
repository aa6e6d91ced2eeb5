package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"akun/internal/models"
	"akun/internal/repositories"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted on registration and change,
// counted in characters.
const MinPasswordLength = 6

// passwordRule is shared by registration and password change.
const passwordRule = "required,min=6"

// Account event types published after successful writes.
const (
	EventUserRegistered      = "user.registered"
	EventUserUpdated         = "user.updated"
	EventUserPasswordChanged = "user.password_changed"
)

// EventPublisher publishes account events to a message broker.
type EventPublisher interface {
	PublishUserEvent(eventType string, data map[string]interface{}) error
}

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateInput holds the profile fields a user may change. Nil fields are left
// untouched; anything not listed here cannot be changed through an update.
type UpdateInput struct {
	Name  *string `json:"name" validate:"omitnil,min=1"`
	Email *string `json:"email" validate:"omitnil,email"`
	Photo *string `json:"photo"`
	Phone *string `json:"phone"`
	Bio   *string `json:"bio"`
}

func (in UpdateInput) fields() map[string]interface{} {
	fields := make(map[string]interface{})
	set := func(name string, v *string) {
		if v != nil {
			fields[name] = *v
		}
	}
	set("name", in.Name)
	set("email", in.Email)
	set("photo", in.Photo)
	set("phone", in.Phone)
	set("bio", in.Bio)
	return fields
}

// UserService handles the credential store: account creation, lookups,
// profile updates and password changes. Every user it hands back to callers
// outside the login path has the password hash removed.
type UserService struct {
	userRepo   repositories.UserRepository
	publisher  EventPublisher
	validate   *validator.Validate
	bcryptCost int
}

// NewUserService creates a new UserService. publisher may be nil.
func NewUserService(userRepo repositories.UserRepository, publisher EventPublisher) *UserService {
	return &UserService{
		userRepo:   userRepo,
		publisher:  publisher,
		validate:   validator.New(),
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Create registers a new user, hashing the password before it is stored.
func (s *UserService) Create(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, registerValidationError(err)
	}

	// Fast path only: the store's unique index is what actually guarantees
	// a single account per email.
	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, newError(ErrConflict, "This account has already been registered")
	}
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
	}
	user.ApplyDefaults()

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, newError(ErrConflict, "This account has already been registered")
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.publish(EventUserRegistered, map[string]interface{}{"id": user.ID, "email": user.Email})
	return user.Redacted(), nil
}

// FindByEmail returns the stored user, including the password hash.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, err
	}
	return user, nil
}

// FindByID returns the stored user, including the password hash.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks an email/password pair and returns the redacted user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, newError(ErrValidation, "Please, provide email and password")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, newError(ErrNotFound, "This account is not registered")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, newError(ErrAuth, "Password is not matching")
	}
	return user.Redacted(), nil
}

// Update merges the supplied profile fields into the user.
func (s *UserService) Update(ctx context.Context, id string, in UpdateInput) (*models.User, error) {
	if err := s.validate.Struct(in); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && validationErrors[0].Field() == "Email" {
			return nil, newError(ErrValidation, "Please, provide a valid email")
		}
		return nil, newError(ErrValidation, "Name must not be empty")
	}

	fields := in.fields()
	user, err := s.userRepo.Update(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, newError(ErrNotFound, "User not found")
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return nil, newError(ErrConflict, "This email is already in use")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	changed := make([]string, 0, len(fields))
	for name := range fields {
		changed = append(changed, name)
	}
	s.publish(EventUserUpdated, map[string]interface{}{"id": id, "fields": changed})
	return user.Redacted(), nil
}

// ChangePassword replaces the password hash after verifying the old password.
func (s *UserService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return newError(ErrAuth, "Old password not matching")
	}
	if err := s.validate.Var(newPassword, passwordRule); err != nil {
		return newError(ErrValidation, "Password must be at least 6 characters")
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return newError(ErrNotFound, "User not found")
		}
		return fmt.Errorf("failed to change password: %w", err)
	}

	s.publish(EventUserPasswordChanged, map[string]interface{}{"id": id})
	return nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", newError(ErrValidation, "Password must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// publish never fails the caller; a lost event is only logged.
func (s *UserService) publish(eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishUserEvent(eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}

// registerValidationError turns validator output into the message shown to the client.
func registerValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return newError(ErrValidation, "Invalid registration data")
	}
	for _, e := range validationErrors {
		if e.Tag() == "required" {
			return newError(ErrValidation, "Please, fill in all required fields")
		}
	}
	for _, e := range validationErrors {
		switch e.Field() {
		case "Password":
			return newError(ErrValidation, "Password must be at least 6 characters")
		case "Email":
			return newError(ErrValidation, "Please, provide a valid email")
		}
	}
	return newError(ErrValidation, "Invalid registration data")
}
