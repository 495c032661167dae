package models

// User represents a registered account.
//
// There is no password credential: sign-in resolves an email or mobile
// identifier to a user, creating one on first use. Email and mobile are
// alternate lookup keys and are unique across users when present.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name. Defaults to the email local part (or the
	// mobile number) when the account is auto-created at sign-in.
	Name string `json:"name,omitempty"`

	// Email is the user's email address, empty for mobile-only accounts.
	Email string `json:"email,omitempty"`

	// Mobile is the user's 10-digit mobile number, empty for email accounts.
	Mobile string `json:"mobile,omitempty"`

	// FriendIDs lists the IDs of explicitly added friends.
	FriendIDs []string `json:"friendIds,omitempty"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt,omitempty"`
}

// DisplayName returns the best human-readable label for the user:
// name, then email, then mobile.
func (u *User) DisplayName() string {
	if u == nil {
		return "Unknown"
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	if u.Mobile != "" {
		return u.Mobile
	}
	return "Unknown"
}
