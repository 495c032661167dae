package service

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smartsplit/smartsplit/internal/auth"
	"github.com/smartsplit/smartsplit/internal/calculator"
	"github.com/smartsplit/smartsplit/internal/middleware"
	"github.com/smartsplit/smartsplit/internal/models"
	"github.com/smartsplit/smartsplit/internal/storage"
)

// FriendService handles friend lists and one-to-one balances.
type FriendService struct {
	store storage.Store
}

// NewFriendService creates a new FriendService with the given storage
// backend.
func NewFriendService(store storage.Store) *FriendService {
	return &FriendService{store: store}
}

// FriendBalance pairs a counterparty with the caller's net balance against
// them. Positive means the friend owes the caller.
type FriendBalance struct {
	Friend  *models.User `json:"friend"`
	Balance float64      `json:"balance"`
}

// ListFriends returns the caller's counterparties with their net peer
// balances. The list is the union of explicit friends, co-members of the
// caller's groups, and anyone sharing a peer expense; relationships with no
// expenses show a zero balance so "settled up" can render.
func (s *FriendService) ListFriends(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	me, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		slog.Error("ListFriends failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}
	if me == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	expenses, err := s.store.ListPeerExpenses(ctx, userID)
	if err != nil {
		slog.Error("ListFriends failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}

	known, err := s.knownCounterparties(c, me)
	if err != nil {
		slog.Error("ListFriends failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}

	balances := calculator.PeerBalances(userID, expenses, known)

	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		slog.Error("ListFriends failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friends"})
		return
	}

	friends := make([]FriendBalance, 0, len(ids))
	total := 0.0
	for _, id := range ids {
		user, ok := users[id]
		if !ok {
			// Counterparty with no account record: computed but not displayable.
			continue
		}
		friends = append(friends, FriendBalance{Friend: user, Balance: balances[id]})
		total += balances[id]
	}

	c.JSON(http.StatusOK, gin.H{"friends": friends, "totalBalance": total})
}

// knownCounterparties collects the IDs of the caller's explicit friends and
// of co-members across the caller's groups.
func (s *FriendService) knownCounterparties(c *gin.Context, me *models.User) ([]string, error) {
	known := append([]string(nil), me.FriendIDs...)
	if me.Email == "" {
		return known, nil
	}

	ctx := c.Request.Context()
	groups, err := s.store.ListGroupsByMember(ctx, me.Email)
	if err != nil {
		return nil, err
	}

	emailSet := make(map[string]bool)
	for _, group := range groups {
		for _, email := range group.Members {
			if email != me.Email {
				emailSet[email] = true
			}
		}
	}
	if len(emailSet) == 0 {
		return known, nil
	}

	emails := make([]string, 0, len(emailSet))
	for email := range emailSet {
		emails = append(emails, email)
	}

	users, err := s.store.GetUsersByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		known = append(known, user.ID)
	}

	return known, nil
}

type addFriendRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

// AddFriend links the caller with the user behind the identifier, creating
// that account if needed. Friendship is recorded in both directions.
func (s *FriendService) AddFriend(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req addFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifier required"})
		return
	}

	identifier := strings.TrimSpace(req.Identifier)
	if err := auth.ValidateIdentifier(identifier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	friend, err := findOrCreateUser(ctx, s.store, identifier)
	if err != nil {
		slog.Error("AddFriend failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add friend"})
		return
	}

	if friend.ID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you can't add yourself as a friend"})
		return
	}

	me, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		slog.Error("AddFriend failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add friend"})
		return
	}
	if me == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if isParticipant(friend.ID, me.FriendIDs) {
		c.JSON(http.StatusConflict, gin.H{"error": "this user is already your friend"})
		return
	}

	if err := s.store.AddFriend(ctx, userID, friend.ID); err != nil {
		slog.Error("AddFriend failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add friend"})
		return
	}
	if err := s.store.AddFriend(ctx, friend.ID, userID); err != nil {
		slog.Error("AddFriend failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add friend"})
		return
	}

	slog.Info("Friend added", "user_id", userID, "friend_id", friend.ID)
	c.JSON(http.StatusCreated, gin.H{"friend": friend})
}

// GetFriend returns the net balance with one friend and the peer expenses
// shared with them.
func (s *FriendService) GetFriend(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID := c.Param("id")
	ctx := c.Request.Context()

	friend, err := s.store.GetUserByID(ctx, friendID)
	if err != nil {
		slog.Error("GetFriend failed", "friend_id", friendID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friend"})
		return
	}
	if friend == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	expenses, err := s.store.ListPeerExpenses(ctx, userID)
	if err != nil {
		slog.Error("GetFriend failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load friend"})
		return
	}

	shared := make([]*models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if isParticipant(friendID, e.Participants) {
			shared = append(shared, e)
		}
	}

	balance := calculator.PeerBalances(userID, shared, []string{friendID})[friendID]

	c.JSON(http.StatusOK, gin.H{
		"friend":   friend,
		"balance":  balance,
		"expenses": shared,
	})
}
