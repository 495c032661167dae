// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/smartsplit/smartsplit/internal/models"
)

// Store defines the interface for Smartsplit's persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Lookup conventions: GetUserBy* return (nil, nil) when no user matches,
// since a miss is an expected outcome of identifier sign-in. GetGroup and
// GetExpense return an error for a missing row.
type Store interface {
	// CreateUser persists a new user. ID and CreatedAt are populated by the
	// store when unset.
	CreateUser(ctx context.Context, user *models.User) error

	// UpdateUser updates the mutable profile fields (name, email, mobile).
	UpdateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID, or (nil, nil) if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by email, or (nil, nil) if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByMobile retrieves a user by mobile number, or (nil, nil) if absent.
	GetUserByMobile(ctx context.Context, mobile string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID. IDs with no user
	// are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// GetUsersByEmails retrieves multiple users keyed by email. Emails with
	// no user are omitted from the result.
	GetUsersByEmails(ctx context.Context, emails []string) (map[string]*models.User, error)

	// AddFriend records a one-directional friendship edge. Adding an
	// existing edge is a no-op.
	AddFriend(ctx context.Context, userID, friendID string) error

	// ListFriendIDs returns the IDs of the user's explicit friends.
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)

	// CreateGroup persists a new group with its member emails.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID. Errors if the group is not found.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByMember returns every group whose member set contains the
	// given email.
	ListGroupsByMember(ctx context.Context, email string) ([]*models.Group, error)

	// CreateExpense persists a new expense with its participants and split
	// distribution.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID. Errors if not found.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup returns a group's expenses, oldest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListPeerExpenses returns the non-group expenses the user participates
	// in, oldest first.
	ListPeerExpenses(ctx context.Context, userID string) ([]*models.Expense, error)

	// ListExpensesByUser returns the most recent expenses the user paid for
	// or participates in, newest first, capped at limit.
	ListExpensesByUser(ctx context.Context, userID string, limit int) ([]*models.Expense, error)

	// CreateSettlement persists a recorded settle-up payment.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByGroup returns a group's settlements, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
