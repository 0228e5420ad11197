package models

import "time"

// AuthUser is an identity known to the identity provider.
type AuthUser struct {
	Base
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	LastSignInAt *time.Time `json:"lastSignInAt,omitempty"`
}
