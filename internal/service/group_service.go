package service

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smartsplit/smartsplit/internal/auth"
	"github.com/smartsplit/smartsplit/internal/calculator"
	"github.com/smartsplit/smartsplit/internal/middleware"
	"github.com/smartsplit/smartsplit/internal/models"
	"github.com/smartsplit/smartsplit/internal/storage"
)

// GroupService handles groups, group balances, and settle-up payments.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

type createGroupRequest struct {
	Name    string   `json:"name" binding:"required"`
	Members []string `json:"members"`
}

// MemberBalance is one member's net position within a group.
type MemberBalance struct {
	UserID  string  `json:"userId"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// SuggestedTransfer is a settle-up suggestion with display names attached.
type SuggestedTransfer struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	FromName string  `json:"fromName"`
	ToName   string  `json:"toName"`
	Amount   float64 `json:"amount"`
}

// CreateGroup creates a group from a name and a list of member identifiers.
// Unknown identifiers get accounts created on the fly. The member set is
// stored as emails; the creator is always included.
func (s *GroupService) CreateGroup(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group name required"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group name required"})
		return
	}

	ctx := c.Request.Context()
	me, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		slog.Error("CreateGroup failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create group"})
		return
	}
	if me == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	seen := make(map[string]bool)
	var members []string
	if me.Email != "" {
		members = append(members, me.Email)
		seen[me.Email] = true
	}

	for _, identifier := range req.Members {
		identifier = strings.TrimSpace(identifier)
		if identifier == "" {
			continue
		}
		if err := auth.ValidateIdentifier(identifier); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := findOrCreateUser(ctx, s.store, identifier)
		if err != nil {
			slog.Error("CreateGroup failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create group"})
			return
		}
		// Membership is tracked by email; a mobile-only member has no entry
		// until they add one.
		if user.Email != "" && !seen[user.Email] {
			members = append(members, user.Email)
			seen[user.Email] = true
		}
	}

	group := &models.Group{
		Name:      strings.TrimSpace(req.Name),
		Members:   members,
		CreatedBy: userID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create group"})
		return
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	c.JSON(http.StatusCreated, gin.H{"group": group})
}

// ListGroups returns the groups the caller belongs to.
func (s *GroupService) ListGroups(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	me, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load groups"})
		return
	}
	if me == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	groups := []*models.Group{}
	if me.Email != "" {
		groups, err = s.store.ListGroupsByMember(ctx, me.Email)
		if err != nil {
			slog.Error("ListGroups failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load groups"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GetGroup returns a group with its resolved member users and expenses.
func (s *GroupService) GetGroup(c *gin.Context) {
	group, _, ok := s.authorizeMember(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	members, _, err := s.resolveMembers(c, group)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", group.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load group"})
		return
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", group.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"group":    group,
		"members":  members,
		"expenses": expenses,
	})
}

// GetGroupBalances computes each member's net position and the suggested
// transfers that settle the group.
func (s *GroupService) GetGroupBalances(c *gin.Context) {
	group, _, ok := s.authorizeMember(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	members, usersByID, err := s.resolveMembers(c, group)
	if err != nil {
		slog.Error("GetGroupBalances failed", "group_id", group.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute balances"})
		return
	}

	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("GetGroupBalances failed", "group_id", group.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute balances"})
		return
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, group.ID)
	if err != nil {
		slog.Error("GetGroupBalances failed", "group_id", group.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute balances"})
		return
	}

	balances := calculator.GroupBalances(memberIDs, expenses, settlements)
	transfers := calculator.Settle(memberIDs, balances)

	memberBalances := make([]MemberBalance, len(members))
	for i, m := range members {
		memberBalances[i] = MemberBalance{
			UserID:  m.ID,
			Name:    m.DisplayName(),
			Balance: balances[m.ID],
		}
	}

	suggested := make([]SuggestedTransfer, len(transfers))
	for i, t := range transfers {
		suggested[i] = SuggestedTransfer{
			From:     t.From,
			To:       t.To,
			FromName: displayName(usersByID, t.From),
			ToName:   displayName(usersByID, t.To),
			Amount:   t.Amount,
		}
	}

	slog.Info("Group balances computed",
		"group_id", group.ID,
		"members_count", len(members),
		"expenses_count", len(expenses),
		"transfers_count", len(suggested),
	)

	c.JSON(http.StatusOK, gin.H{
		"balances":    memberBalances,
		"settlements": suggested,
	})
}

type createSettlementRequest struct {
	ToUserID string  `json:"toUserId" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Note     string  `json:"note"`
}

// CreateSettlement records a settle-up payment from the caller to another
// group member.
func (s *GroupService) CreateSettlement(c *gin.Context) {
	group, me, ok := s.authorizeMember(c)
	if !ok {
		return
	}

	var req createSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "toUserId and a positive amount are required"})
		return
	}
	if req.ToUserID == me.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you can't settle up with yourself"})
		return
	}

	ctx := c.Request.Context()
	toUser, err := s.store.GetUserByID(ctx, req.ToUserID)
	if err != nil {
		slog.Error("CreateSettlement failed", "group_id", group.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record settlement"})
		return
	}
	if toUser == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if !group.HasMember(toUser.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipient is not a group member"})
		return
	}

	settlement := &models.Settlement{
		GroupID:    group.ID,
		FromUserID: me.ID,
		ToUserID:   toUser.ID,
		Amount:     req.Amount,
		CreatedBy:  me.ID,
		Note:       req.Note,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("CreateSettlement failed", "group_id", group.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record settlement"})
		return
	}

	slog.Info("Settlement recorded",
		"group_id", group.ID,
		"from_user_id", settlement.FromUserID,
		"to_user_id", settlement.ToUserID,
	)
	c.JSON(http.StatusCreated, gin.H{"settlement": settlement})
}

// ListSettlements returns a group's recorded settle-up payments.
func (s *GroupService) ListSettlements(c *gin.Context) {
	group, _, ok := s.authorizeMember(c)
	if !ok {
		return
	}

	settlements, err := s.store.ListSettlementsByGroup(c.Request.Context(), group.ID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", group.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settlements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settlements": settlements})
}

// authorizeMember loads the group from the :id route param and verifies the
// caller's email belongs to it. On failure it writes the error response and
// returns ok=false.
func (s *GroupService) authorizeMember(c *gin.Context) (*models.Group, *models.User, bool) {
	userID := middleware.GetUserID(c)
	groupID := c.Param("id")
	ctx := c.Request.Context()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return nil, nil, false
	}

	me, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		slog.Error("Group authorization failed", "group_id", groupID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load group"})
		return nil, nil, false
	}
	if me == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return nil, nil, false
	}

	if !group.HasMember(me.Email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you must be a member of this group"})
		return nil, nil, false
	}

	return group, me, true
}

// resolveMembers maps a group's member emails to user records, preserving
// member order. Emails with no account yet are skipped. The second return
// value indexes the same users by ID for name lookups.
func (s *GroupService) resolveMembers(c *gin.Context, group *models.Group) ([]*models.User, map[string]*models.User, error) {
	byEmail, err := s.store.GetUsersByEmails(c.Request.Context(), group.Members)
	if err != nil {
		return nil, nil, err
	}

	members := make([]*models.User, 0, len(byEmail))
	byID := make(map[string]*models.User, len(byEmail))
	for _, email := range group.Members {
		if user, ok := byEmail[email]; ok {
			members = append(members, user)
			byID[user.ID] = user
		}
	}

	return members, byID, nil
}
