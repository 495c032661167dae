package models

// Settlement represents a recorded payment between group members to clear
// debts. Settlements feed back into balance computation: the payer is
// credited and the receiver debited by the amount.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"groupId"`

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string `json:"fromUserId"`

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string `json:"toUserId"`

	// Amount is the payment amount.
	Amount float64 `json:"amount"`

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string `json:"createdBy"`

	// Note is an optional description.
	Note string `json:"note,omitempty"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"createdAt"`
}
