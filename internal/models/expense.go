package models

// SplitType identifies the rule used to divide an expense among its
// participants. The set is closed; the calculator switches exhaustively
// over it.
type SplitType string

const (
	// SplitEqually divides the amount evenly among all participants.
	SplitEqually SplitType = "equally"

	// SplitPercentage assigns each participant a percentage (0-100) of the
	// amount. Percentages must sum to 100 within the admission tolerance.
	SplitPercentage SplitType = "percentage"

	// SplitAmount assigns each participant an explicit monetary share.
	// Shares must sum to the expense amount within the admission tolerance.
	SplitAmount SplitType = "amount"
)

// Split is the tagged split policy attached to an expense.
type Split struct {
	Type SplitType `json:"type"`

	// Distribution maps participant ID to a percentage (SplitPercentage) or
	// a monetary share (SplitAmount). Unused for SplitEqually. A participant
	// missing from the map has a zero share.
	Distribution map[string]float64 `json:"distribution,omitempty"`
}

// Expense represents a shared cost recorded by one payer on behalf of a set
// of participants. Expenses are immutable once created.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the owning group, or empty for a peer expense shared only
	// by its participants.
	GroupID string `json:"groupId,omitempty"`

	// Description is the human-readable label (e.g. "Dinner", "Cab").
	Description string `json:"description"`

	// Amount is the total expense amount. Always positive.
	Amount float64 `json:"amount"`

	// PaidBy is the ID of the user who paid the full amount.
	PaidBy string `json:"paidBy"`

	// Participants are the IDs of the users sharing the cost. Never empty.
	// Order is preserved; it fixes tie-breaking in settlement suggestions.
	Participants []string `json:"participants"`

	// Split is the policy dividing Amount among Participants.
	Split Split `json:"split"`

	// Date is the expense date in ISO-8601 format.
	Date string `json:"date"`

	// Category is a free-form label (e.g. "Food", "Travel", "Other").
	Category string `json:"category"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"createdAt,omitempty"`
}

// IsPeer reports whether the expense belongs to no group.
func (e *Expense) IsPeer() bool {
	return e.GroupID == ""
}
