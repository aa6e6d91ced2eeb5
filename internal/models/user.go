package models

import "time"

const (
	// DefaultPhoto is the avatar assigned to accounts that never uploaded one.
	DefaultPhoto = "https://i.ibb.co/4pDNDk1/avatar.png"
	// DefaultBio is the placeholder bio of a fresh account.
	DefaultBio = "bio"
)

// User represents a registered account.
// Password always holds a bcrypt hash once persisted and is never serialized.
type User struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	Photo     string    `json:"photo" gorm:"type:varchar(512)"`
	Phone     string    `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Bio       string    `json:"bio" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ApplyDefaults fills the optional profile fields that have a default value.
func (u *User) ApplyDefaults() {
	if u.Photo == "" {
		u.Photo = DefaultPhoto
	}
	if u.Bio == "" {
		u.Bio = DefaultBio
	}
}

// Redacted returns a copy of the user with the password hash cleared.
func (u User) Redacted() *User {
	u.Password = ""
	return &u
}
