package user

import "time"

// Auth providers a user account can originate from. OAuth exchange itself is
// handled outside this service; the provider is recorded for bookkeeping.
const (
	ProviderEmail    = "email"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

// User is an account that owns tasks. CreatedAt feeds the average-completed
// report, so it must never be rewritten after registration.
type User struct {
	ID            string    `gorm:"primarykey;size:36" json:"id"`
	Email         string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username      string    `gorm:"size:255;uniqueIndex;not null" json:"username"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	EmailVerified bool      `gorm:"not null;default:false" json:"email_verified"`
	AuthProvider  string    `gorm:"size:32;not null;default:email" json:"auth_provider"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for the User model.
func (User) TableName() string {
	return "users"
}
