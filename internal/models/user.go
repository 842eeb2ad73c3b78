package models

// User represents a registered user account.
// Usernames are the natural key; ledger records reference users by username.
type User struct {
	// Username is the unique login name and the key other records reference.
	Username string `json:"username"`

	// Email is the user's email address (unique).
	Email string `json:"email"`

	// FullName is the display name of the user.
	FullName string `json:"full_name"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in API responses.
	PasswordHash string `json:"-"`

	// ProfileImage is an optional URL to the user's avatar.
	ProfileImage string `json:"profile_image,omitempty"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`
}
