package models

import (
	"time"
)

// Account provider values
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User is the stored account. Its JSON form is the cache encoding; HTTP
// responses use their own views.
type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	// Stored lower-cased; NULL when unknown
	Email *string `gorm:"uniqueIndex" json:"email"`
	// External users have no password
	PasswordHash string `json:"-"`
	FullName     string `json:"full_name,omitempty"`
	Disabled     bool   `gorm:"not null;default:false" json:"disabled"`
	Provider     string `gorm:"not null;default:'local'" json:"provider"` // "local" or "google"

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// EmailAddress returns the email or an empty string when unset
func (u *User) EmailAddress() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// IsExternal returns true if user authenticates via external provider
func (u *User) IsExternal() bool {
	return u.Provider != ProviderLocal && u.Provider != ""
}

// HasPassword reports whether the account can log in with a password
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
