package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smartsplit/smartsplit/internal/models"
)

// CreateExpense persists an expense with its participants and split
// distribution in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == "" {
		expense.Date = time.Now().UTC().Format(time.RFC3339)
	}

	var groupID interface{} = nil
	if expense.GroupID != "" {
		groupID = expense.GroupID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, amount, paid_by, split_type, date, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, groupID, expense.Description, expense.Amount, expense.PaidBy,
		string(expense.Split.Type), expense.Date, expense.Category, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, userID := range expense.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, user_id, position) VALUES (?, ?, ?)",
			expense.ID, userID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense participant: %w", err)
		}
	}

	for userID, share := range expense.Split.Distribution {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, user_id, share) VALUES (?, ?, ?)",
			expense.ID, userID, share,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense share: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including participants and split
// distribution.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var groupID sql.NullString
	var splitType string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, description, amount, paid_by, split_type, date, category, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &groupID, &expense.Description, &expense.Amount,
		&expense.PaidBy, &splitType, &expense.Date, &expense.Category, &expense.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense not found: %s", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if groupID.Valid {
		expense.GroupID = groupID.String
	}
	expense.Split.Type = models.SplitType(splitType)

	if err := s.fillExpense(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListExpensesByGroup returns a group's expenses, oldest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT id, group_id, description, amount, paid_by, split_type, date, category, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
}

// ListPeerExpenses returns the non-group expenses involving the user,
// oldest first.
func (s *SQLiteStore) ListPeerExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT e.id, e.group_id, e.description, e.amount, e.paid_by, e.split_type, e.date, e.category, e.created_at
		 FROM expenses e
		 JOIN expense_participants ep ON ep.expense_id = e.id
		 WHERE e.group_id IS NULL AND ep.user_id = ?
		 ORDER BY e.created_at, e.id`,
		userID,
	)
}

// ListExpensesByUser returns the most recent expenses the user paid for or
// participates in, newest first.
func (s *SQLiteStore) ListExpensesByUser(ctx context.Context, userID string, limit int) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT DISTINCT e.id, e.group_id, e.description, e.amount, e.paid_by, e.split_type, e.date, e.category, e.created_at
		 FROM expenses e
		 LEFT JOIN expense_participants ep ON ep.expense_id = e.id
		 WHERE e.paid_by = ? OR ep.user_id = ?
		 ORDER BY e.created_at DESC, e.id DESC
		 LIMIT ?`,
		userID, userID, limit,
	)
}

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, args ...interface{}) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var groupID sql.NullString
		var splitType string

		if err := rows.Scan(&expense.ID, &groupID, &expense.Description, &expense.Amount,
			&expense.PaidBy, &splitType, &expense.Date, &expense.Category, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}

		if groupID.Valid {
			expense.GroupID = groupID.String
		}
		expense.Split.Type = models.SplitType(splitType)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.fillExpense(ctx, expense); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

// fillExpense loads an expense's participant list and split distribution.
func (s *SQLiteStore) fillExpense(ctx context.Context, expense *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM expense_participants WHERE expense_id = ? ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return fmt.Errorf("failed to scan expense participant: %w", err)
		}
		expense.Participants = append(expense.Participants, userID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating expense participants: %w", err)
	}

	shareRows, err := s.db.QueryContext(ctx,
		"SELECT user_id, share FROM expense_shares WHERE expense_id = ?",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var userID string
		var share float64
		if err := shareRows.Scan(&userID, &share); err != nil {
			return fmt.Errorf("failed to scan expense share: %w", err)
		}
		if expense.Split.Distribution == nil {
			expense.Split.Distribution = make(map[string]float64)
		}
		expense.Split.Distribution[userID] = share
	}
	if err := shareRows.Err(); err != nil {
		return fmt.Errorf("error iterating expense shares: %w", err)
	}

	return nil
}
