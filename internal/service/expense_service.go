package service

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smartsplit/smartsplit/internal/calculator"
	"github.com/smartsplit/smartsplit/internal/middleware"
	"github.com/smartsplit/smartsplit/internal/models"
	"github.com/smartsplit/smartsplit/internal/storage"
)

// activityLimit caps the number of expenses returned by the activity feed.
const activityLimit = 50

// ExpenseService handles expense creation and listing.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage
// backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

type createExpenseRequest struct {
	GroupID      string       `json:"groupId"`
	Description  string       `json:"description" binding:"required"`
	Amount       float64      `json:"amount" binding:"required,gt=0"`
	PaidBy       string       `json:"paidBy"`
	Participants []string     `json:"participants" binding:"required,min=1"`
	Split        models.Split `json:"split"`
	Date         string       `json:"date"`
	Category     string       `json:"category"`
}

// CreateExpense records a new expense. The caller must be a participant;
// for group expenses the caller must also be a group member. Splits are
// validated at admission so stored expenses always balance.
func (s *ExpenseService) CreateExpense(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description, a positive amount and at least one participant are required"})
		return
	}

	if req.PaidBy == "" {
		req.PaidBy = userID
	}
	if !isParticipant(userID, req.Participants) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you must be a participant of the expense"})
		return
	}

	if err := validateSplit(req.Amount, req.Participants, req.Split); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	users, err := s.store.GetUsersByIDs(ctx, req.Participants)
	if err != nil {
		slog.Error("CreateExpense failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create expense"})
		return
	}
	for _, id := range req.Participants {
		if _, ok := users[id]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown participant: %s", id)})
			return
		}
	}

	if req.GroupID == "" {
		// Peer expense: the payer must share it.
		if !isParticipant(req.PaidBy, req.Participants) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payer must be a participant"})
			return
		}
	} else {
		group, err := s.store.GetGroup(ctx, req.GroupID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
			return
		}
		me := users[userID]
		if me == nil || !group.HasMember(me.Email) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you must be a member of this group"})
			return
		}
		if err := s.checkGroupPayer(c, group, req.PaidBy, req.Participants); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "Other"
	}

	expense := &models.Expense{
		GroupID:      req.GroupID,
		Description:  strings.TrimSpace(req.Description),
		Amount:       req.Amount,
		PaidBy:       req.PaidBy,
		Participants: req.Participants,
		Split:        req.Split,
		Date:         req.Date,
		Category:     category,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create expense"})
		return
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"amount", expense.Amount,
		"participants_count", len(expense.Participants),
	)
	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// ListExpenses returns a group's expenses when ?group_id= is set, otherwise
// the caller's peer expenses.
func (s *ExpenseService) ListExpenses(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()
	groupID := c.Query("group_id")

	if groupID == "" {
		expenses, err := s.store.ListPeerExpenses(ctx, userID)
		if err != nil {
			slog.Error("ListExpenses failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load expenses"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"expenses": expenses})
		return
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	me, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		slog.Error("ListExpenses failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load expenses"})
		return
	}
	if me == nil || !group.HasMember(me.Email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you must be a member of this group"})
		return
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", groupID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load expenses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// Activity returns the caller's most recent expenses across all groups and
// peer relationships, newest first.
func (s *ExpenseService) Activity(c *gin.Context) {
	userID := middleware.GetUserID(c)

	expenses, err := s.store.ListExpensesByUser(c.Request.Context(), userID, activityLimit)
	if err != nil {
		slog.Error("Activity failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// checkGroupPayer verifies a group expense's payer is either a participant
// or a member of the group.
func (s *ExpenseService) checkGroupPayer(c *gin.Context, group *models.Group, paidBy string, participantIDs []string) error {
	if isParticipant(paidBy, participantIDs) {
		return nil
	}

	payer, err := s.store.GetUserByID(c.Request.Context(), paidBy)
	if err != nil {
		return fmt.Errorf("failed to look up payer: %w", err)
	}
	if payer == nil || !group.HasMember(payer.Email) {
		return fmt.Errorf("payer must be a participant or a group member")
	}
	return nil
}

// validateSplit checks that the split policy divides the full amount among
// the participants. An empty split type means an equal split.
func validateSplit(amount float64, participants []string, split models.Split) error {
	switch split.Type {
	case "", models.SplitEqually:
		return nil
	case models.SplitPercentage:
		total := 0.0
		for _, id := range participants {
			total += split.Distribution[id]
		}
		if math.Abs(total-100) > calculator.Tolerance {
			return fmt.Errorf("percentages must add up to 100, got %.2f", total)
		}
		return nil
	case models.SplitAmount:
		total := 0.0
		for _, id := range participants {
			total += split.Distribution[id]
		}
		if math.Abs(total-amount) > calculator.Tolerance {
			return fmt.Errorf("shares must add up to the amount %.2f, got %.2f", amount, total)
		}
		return nil
	default:
		return fmt.Errorf("unknown split type: %s", split.Type)
	}
}
