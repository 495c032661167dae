package models

// Group represents a named set of people who share expenses.
//
// Members are tracked by email rather than user ID: invitations are sent to
// an address, which may or may not have an account yet. Membership checks
// resolve emails to users at read time.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g. "Roommates", "Goa Trip").
	Name string `json:"name"`

	// Members is the set of member email addresses. Order is preserved as
	// the members were added; balance listings follow it.
	Members []string `json:"members"`

	// CreatedBy is the ID of the user who created the group.
	CreatedBy string `json:"createdBy"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt,omitempty"`
}

// HasMember reports whether the given email belongs to the group.
func (g *Group) HasMember(email string) bool {
	if email == "" {
		return false
	}
	for _, m := range g.Members {
		if m == email {
			return true
		}
	}
	return false
}
