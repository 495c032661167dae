package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartsplit/smartsplit/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "smartsplit-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID and CreatedAt", func(t *testing.T) {
		user := &models.User{Name: "alice", Email: "alice@example.com"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if user.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetUserByEmail finds user", func(t *testing.T) {
		user := &models.User{Name: "bob", Email: "bob@example.com"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		got, err := store.GetUserByEmail(ctx, "bob@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil || got.ID != user.ID {
			t.Errorf("GetUserByEmail = %+v, want ID %s", got, user.ID)
		}
	})

	t.Run("GetUserByEmail returns nil for unknown email", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil user, got %+v", got)
		}
	})

	t.Run("GetUserByMobile finds user", func(t *testing.T) {
		user := &models.User{Name: "carol", Mobile: "9876543210"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		got, err := store.GetUserByMobile(ctx, "9876543210")
		if err != nil {
			t.Fatalf("GetUserByMobile failed: %v", err)
		}
		if got == nil || got.ID != user.ID {
			t.Errorf("GetUserByMobile = %+v, want ID %s", got, user.ID)
		}
	})

	t.Run("UpdateUser changes name", func(t *testing.T) {
		user := &models.User{Name: "dave", Email: "dave@example.com"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		user.Name = "David"
		if err := store.UpdateUser(ctx, user); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}

		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.Name != "David" {
			t.Errorf("Name = %q, want %q", got.Name, "David")
		}
	})

	t.Run("UpdateUser errors for unknown user", func(t *testing.T) {
		err := store.UpdateUser(ctx, &models.User{ID: "missing", Name: "x"})
		if err == nil {
			t.Error("expected error for unknown user")
		}
	})

	t.Run("AddFriend is bidirectionally usable and idempotent", func(t *testing.T) {
		u1 := &models.User{Email: "f1@example.com"}
		u2 := &models.User{Email: "f2@example.com"}
		for _, u := range []*models.User{u1, u2} {
			if err := store.CreateUser(ctx, u); err != nil {
				t.Fatalf("CreateUser failed: %v", err)
			}
		}

		for i := 0; i < 2; i++ {
			if err := store.AddFriend(ctx, u1.ID, u2.ID); err != nil {
				t.Fatalf("AddFriend failed: %v", err)
			}
		}
		if err := store.AddFriend(ctx, u2.ID, u1.ID); err != nil {
			t.Fatalf("AddFriend failed: %v", err)
		}

		friends, err := store.ListFriendIDs(ctx, u1.ID)
		if err != nil {
			t.Fatalf("ListFriendIDs failed: %v", err)
		}
		if len(friends) != 1 || friends[0] != u2.ID {
			t.Errorf("friends = %v, want [%s]", friends, u2.ID)
		}

		got, err := store.GetUserByID(ctx, u2.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if len(got.FriendIDs) != 1 || got.FriendIDs[0] != u1.ID {
			t.Errorf("FriendIDs = %v, want [%s]", got.FriendIDs, u1.ID)
		}
	})

	t.Run("GetUsersByIDs omits unknown IDs", func(t *testing.T) {
		user := &models.User{Email: "known@example.com"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		users, err := store.GetUsersByIDs(ctx, []string{user.ID, "missing"})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 1 {
			t.Errorf("got %d users, want 1", len(users))
		}
		if users[user.ID] == nil {
			t.Error("expected known user in result")
		}
	})
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup and GetGroup preserve member order", func(t *testing.T) {
		group := &models.Group{
			Name:      "Roommates",
			Members:   []string{"c@example.com", "a@example.com", "b@example.com"},
			CreatedBy: "creator",
		}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Roommates" || got.CreatedBy != "creator" {
			t.Errorf("GetGroup = %+v", got)
		}
		for i, email := range group.Members {
			if got.Members[i] != email {
				t.Errorf("member %d = %s, want %s", i, got.Members[i], email)
			}
		}
	})

	t.Run("GetGroup errors for unknown group", func(t *testing.T) {
		if _, err := store.GetGroup(ctx, "missing"); err == nil {
			t.Error("expected error for unknown group")
		}
	})

	t.Run("ListGroupsByMember filters by email", func(t *testing.T) {
		g1 := &models.Group{Name: "Trip", Members: []string{"x@example.com", "y@example.com"}, CreatedBy: "u"}
		g2 := &models.Group{Name: "Flat", Members: []string{"y@example.com"}, CreatedBy: "u"}
		for _, g := range []*models.Group{g1, g2} {
			if err := store.CreateGroup(ctx, g); err != nil {
				t.Fatalf("CreateGroup failed: %v", err)
			}
		}

		groups, err := store.ListGroupsByMember(ctx, "x@example.com")
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != g1.ID {
			t.Errorf("groups = %v, want just %s", groups, g1.ID)
		}
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Dinner club", Members: []string{"a@example.com"}, CreatedBy: "a"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("CreateExpense round trip with distribution", func(t *testing.T) {
		expense := &models.Expense{
			GroupID:      group.ID,
			Description:  "Pizza",
			Amount:       60,
			PaidBy:       "a",
			Participants: []string{"a", "b"},
			Split: models.Split{
				Type:         models.SplitAmount,
				Distribution: map[string]float64{"a": 20, "b": 40},
			},
			Category: "Food",
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" || expense.CreatedAt == 0 || expense.Date == "" {
			t.Errorf("expected generated fields, got %+v", expense)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Description != "Pizza" || got.Amount != 60 || got.PaidBy != "a" {
			t.Errorf("GetExpense = %+v", got)
		}
		if got.Split.Type != models.SplitAmount {
			t.Errorf("Split.Type = %s, want %s", got.Split.Type, models.SplitAmount)
		}
		if got.Split.Distribution["b"] != 40 {
			t.Errorf("Distribution[b] = %v, want 40", got.Split.Distribution["b"])
		}
		if len(got.Participants) != 2 || got.Participants[0] != "a" || got.Participants[1] != "b" {
			t.Errorf("Participants = %v, want [a b]", got.Participants)
		}
	})

	t.Run("ListExpensesByGroup returns only group expenses", func(t *testing.T) {
		peer := &models.Expense{
			Description:  "Cab",
			Amount:       30,
			PaidBy:       "a",
			Participants: []string{"a", "b"},
			Split:        models.Split{Type: models.SplitEqually},
			Category:     "Travel",
		}
		if err := store.CreateExpense(ctx, peer); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		for _, e := range expenses {
			if e.GroupID != group.ID {
				t.Errorf("expense %s has group %q, want %q", e.ID, e.GroupID, group.ID)
			}
		}
	})

	t.Run("ListPeerExpenses returns only non-group expenses involving user", func(t *testing.T) {
		expenses, err := store.ListPeerExpenses(ctx, "b")
		if err != nil {
			t.Fatalf("ListPeerExpenses failed: %v", err)
		}
		if len(expenses) == 0 {
			t.Fatal("expected at least one peer expense")
		}
		for _, e := range expenses {
			if e.GroupID != "" {
				t.Errorf("expense %s is a group expense", e.ID)
			}
		}
	})

	t.Run("ListExpensesByUser includes paid and participated", func(t *testing.T) {
		expenses, err := store.ListExpensesByUser(ctx, "a", 10)
		if err != nil {
			t.Fatalf("ListExpensesByUser failed: %v", err)
		}
		if len(expenses) < 2 {
			t.Errorf("got %d expenses, want at least 2", len(expenses))
		}
	})
}

func TestSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Flat", Members: []string{"a@example.com"}, CreatedBy: "a"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("CreateSettlement and list", func(t *testing.T) {
		settlement := &models.Settlement{
			GroupID:    group.ID,
			FromUserID: "b",
			ToUserID:   "a",
			Amount:     50,
			CreatedBy:  "b",
			Note:       "rent share",
		}
		if err := store.CreateSettlement(ctx, settlement); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}
		if settlement.ID == "" {
			t.Error("Expected settlement ID to be generated")
		}

		settlements, err := store.ListSettlementsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		if len(settlements) != 1 {
			t.Fatalf("got %d settlements, want 1", len(settlements))
		}
		got := settlements[0]
		if got.FromUserID != "b" || got.ToUserID != "a" || got.Amount != 50 || got.Note != "rent share" {
			t.Errorf("settlement = %+v", got)
		}
	})

	t.Run("empty note round trips as empty", func(t *testing.T) {
		settlement := &models.Settlement{
			GroupID:    group.ID,
			FromUserID: "c",
			ToUserID:   "a",
			Amount:     10,
			CreatedBy:  "c",
		}
		if err := store.CreateSettlement(ctx, settlement); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		settlements, err := store.ListSettlementsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		if settlements[0].Note != "" {
			t.Errorf("Note = %q, want empty", settlements[0].Note)
		}
	})
}
