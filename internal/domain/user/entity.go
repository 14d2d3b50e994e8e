package user

import "time"

// User is an admin account. Admins own sites and employees and watch the presence
// dashboard; they are not themselves tracked.
type User struct {
	ID              string
	Email           string
	FullName        string
	PasswordHash    *string
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasPassword reports whether the account can log in with email and password.
// OAuth-only accounts have no password hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
