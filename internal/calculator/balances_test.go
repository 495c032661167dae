package calculator

import (
	"math"
	"testing"

	"github.com/smartsplit/smartsplit/internal/models"
)

func TestGroupBalances(t *testing.T) {
	tests := []struct {
		name        string
		memberIDs   []string
		expenses    []*models.Expense
		settlements []*models.Settlement
		want        map[string]float64
	}{
		{
			name:      "single equal expense between two members",
			memberIDs: []string{"a", "b"},
			expenses: []*models.Expense{
				{
					Amount:       100,
					PaidBy:       "a",
					Participants: []string{"a", "b"},
					Split:        models.Split{Type: models.SplitEqually},
				},
			},
			want: map[string]float64{"a": 50, "b": -50},
		},
		{
			name:      "percentage expense with zero share for payer",
			memberIDs: []string{"a", "b", "c"},
			expenses: []*models.Expense{
				{
					Amount:       90,
					PaidBy:       "a",
					Participants: []string{"a", "b", "c"},
					Split: models.Split{
						Type:         models.SplitPercentage,
						Distribution: map[string]float64{"a": 0, "b": 50, "c": 50},
					},
				},
			},
			want: map[string]float64{"a": 90, "b": -45, "c": -45},
		},
		{
			name:      "amount expense",
			memberIDs: []string{"a", "b"},
			expenses: []*models.Expense{
				{
					Amount:       60,
					PaidBy:       "a",
					Participants: []string{"a", "b"},
					Split: models.Split{
						Type:         models.SplitAmount,
						Distribution: map[string]float64{"a": 20, "b": 40},
					},
				},
			},
			want: map[string]float64{"a": 40, "b": -40},
		},
		{
			name:      "multiple expenses accumulate",
			memberIDs: []string{"a", "b", "c"},
			expenses: []*models.Expense{
				{
					Amount:       90,
					PaidBy:       "a",
					Participants: []string{"a", "b", "c"},
					Split:        models.Split{Type: models.SplitEqually},
				},
				{
					Amount:       30,
					PaidBy:       "b",
					Participants: []string{"a", "b", "c"},
					Split:        models.Split{Type: models.SplitEqually},
				},
			},
			want: map[string]float64{"a": 50, "b": -20, "c": -40},
		},
		{
			name:      "unknown participant contributes nothing",
			memberIDs: []string{"a", "b"},
			expenses: []*models.Expense{
				{
					Amount:       90,
					PaidBy:       "a",
					Participants: []string{"a", "b", "ghost"},
					Split:        models.Split{Type: models.SplitEqually},
				},
			},
			// ghost's 30 share is computed but lands nowhere.
			want: map[string]float64{"a": 60, "b": -30},
		},
		{
			name:      "unknown payer contributes nothing",
			memberIDs: []string{"a", "b"},
			expenses: []*models.Expense{
				{
					Amount:       40,
					PaidBy:       "ghost",
					Participants: []string{"a", "b"},
					Split:        models.Split{Type: models.SplitEqually},
				},
			},
			want: map[string]float64{"a": -20, "b": -20},
		},
		{
			name:      "settlement credits payer and debits receiver",
			memberIDs: []string{"a", "b"},
			expenses: []*models.Expense{
				{
					Amount:       100,
					PaidBy:       "a",
					Participants: []string{"a", "b"},
					Split:        models.Split{Type: models.SplitEqually},
				},
			},
			settlements: []*models.Settlement{
				{FromUserID: "b", ToUserID: "a", Amount: 50},
			},
			want: map[string]float64{"a": 0, "b": 0},
		},
		{
			name:      "no expenses leaves everyone at zero",
			memberIDs: []string{"a", "b", "c"},
			want:      map[string]float64{"a": 0, "b": 0, "c": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupBalances(tt.memberIDs, tt.expenses, tt.settlements)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d balances, want %d", len(got), len(tt.want))
			}
			for id, want := range tt.want {
				if math.Abs(got[id]-want) > Tolerance {
					t.Errorf("balance[%s] = %v, want %v", id, got[id], want)
				}
			}
		})
	}
}

func TestGroupBalancesZeroSum(t *testing.T) {
	memberIDs := []string{"a", "b", "c", "d"}
	expenses := []*models.Expense{
		{
			Amount:       123.45,
			PaidBy:       "a",
			Participants: []string{"a", "b", "c", "d"},
			Split:        models.Split{Type: models.SplitEqually},
		},
		{
			Amount:       77.10,
			PaidBy:       "b",
			Participants: []string{"b", "c"},
			Split: models.Split{
				Type:         models.SplitPercentage,
				Distribution: map[string]float64{"b": 30, "c": 70},
			},
		},
		{
			Amount:       50,
			PaidBy:       "d",
			Participants: []string{"a", "d"},
			Split: models.Split{
				Type:         models.SplitAmount,
				Distribution: map[string]float64{"a": 12.5, "d": 37.5},
			},
		},
	}

	balances := GroupBalances(memberIDs, expenses, nil)
	sum := 0.0
	for _, b := range balances {
		sum += b
	}
	if math.Abs(sum) > Tolerance {
		t.Errorf("balances sum to %v, want ~0", sum)
	}
}

func TestGroupBalancesIdempotent(t *testing.T) {
	memberIDs := []string{"a", "b"}
	expenses := []*models.Expense{
		{
			Amount:       100,
			PaidBy:       "a",
			Participants: []string{"a", "b"},
			Split:        models.Split{Type: models.SplitEqually},
		},
	}

	first := GroupBalances(memberIDs, expenses, nil)
	second := GroupBalances(memberIDs, expenses, nil)
	for id := range first {
		if first[id] != second[id] {
			t.Errorf("balance[%s] differs between runs: %v vs %v", id, first[id], second[id])
		}
	}
}

func TestPeerBalances(t *testing.T) {
	tests := []struct {
		name     string
		refID    string
		expenses []*models.Expense
		known    []string
		want     map[string]float64
	}{
		{
			name:  "reference paid equally split",
			refID: "me",
			expenses: []*models.Expense{
				{
					Amount:       100,
					PaidBy:       "me",
					Participants: []string{"me", "friend"},
					Split:        models.Split{Type: models.SplitEqually},
				},
			},
			want: map[string]float64{"friend": 50},
		},
		{
			name:  "friend paid equally split",
			refID: "me",
			expenses: []*models.Expense{
				{
					Amount:       100,
					PaidBy:       "friend",
					Participants: []string{"me", "friend"},
					Split:        models.Split{Type: models.SplitEqually},
				},
			},
			want: map[string]float64{"friend": -50},
		},
		{
			name:  "reference paid amount split",
			refID: "me",
			expenses: []*models.Expense{
				{
					Amount:       60,
					PaidBy:       "me",
					Participants: []string{"me", "friend"},
					Split: models.Split{
						Type:         models.SplitAmount,
						Distribution: map[string]float64{"me": 20, "friend": 40},
					},
				},
			},
			want: map[string]float64{"friend": 40},
		},
		{
			name:  "friend paid percentage split",
			refID: "me",
			expenses: []*models.Expense{
				{
					Amount:       200,
					PaidBy:       "friend",
					Participants: []string{"me", "friend"},
					Split: models.Split{
						Type:         models.SplitPercentage,
						Distribution: map[string]float64{"me": 25, "friend": 75},
					},
				},
			},
			want: map[string]float64{"friend": -50},
		},
		{
			name:  "offsetting expenses settle to zero",
			refID: "me",
			expenses: []*models.Expense{
				{
					Amount:       80,
					PaidBy:       "me",
					Participants: []string{"me", "friend"},
					Split:        models.Split{Type: models.SplitEqually},
				},
				{
					Amount:       80,
					PaidBy:       "friend",
					Participants: []string{"me", "friend"},
					Split:        models.Split{Type: models.SplitEqually},
				},
			},
			want: map[string]float64{"friend": 0},
		},
		{
			name:  "expense with no counterparty is skipped",
			refID: "me",
			expenses: []*models.Expense{
				{
					Amount:       40,
					PaidBy:       "me",
					Participants: []string{"me"},
					Split:        models.Split{Type: models.SplitEqually},
				},
			},
			want: map[string]float64{},
		},
		{
			name:  "known counterparties get zero entries",
			refID: "me",
			known: []string{"alice", "bob", "me"},
			expenses: []*models.Expense{
				{
					Amount:       30,
					PaidBy:       "me",
					Participants: []string{"me", "alice"},
					Split:        models.Split{Type: models.SplitEqually},
				},
			},
			want: map[string]float64{"alice": 15, "bob": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeerBalances(tt.refID, tt.expenses, tt.known)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d balances (%v), want %d", len(got), got, len(tt.want))
			}
			for id, want := range tt.want {
				if math.Abs(got[id]-want) > Tolerance {
					t.Errorf("balance[%s] = %v, want %v", id, got[id], want)
				}
			}
		})
	}
}
