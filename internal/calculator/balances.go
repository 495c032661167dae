package calculator

import "github.com/smartsplit/smartsplit/internal/models"

// PeerBalances computes the reference user's net position against each
// counterparty from their peer (non-group) expenses.
//
// For each expense the counterparty is the first participant that is not the
// reference user; expenses with no such participant are skipped as malformed.
// If the reference user paid, the counterparty owes their own share; if the
// counterparty (or anyone else) paid, the reference user owes their share.
// Positive values mean the counterparty owes the reference user.
//
// Every ID in known ends up with an entry, zero-valued if no expense touched
// it, so "settled up" relationships still render. The known list never
// affects accumulation.
func PeerBalances(refID string, expenses []*models.Expense, known []string) map[string]float64 {
	balances := make(map[string]float64, len(known))

	for _, e := range expenses {
		other := otherParticipant(refID, e.Participants)
		if other == "" {
			continue
		}
		if e.PaidBy == refID {
			balances[other] += Share(e, other)
		} else {
			balances[other] -= Share(e, refID)
		}
	}

	for _, id := range known {
		if id == refID {
			continue
		}
		if _, ok := balances[id]; !ok {
			balances[id] = 0
		}
	}

	return balances
}

// GroupBalances computes each member's net position from the group's
// expenses and recorded settlements. Every member starts at zero; each
// expense credits its payer with the full amount and debits each participant
// by their share. A recorded settlement credits its payer and debits its
// receiver. References to users outside the member list contribute nothing.
//
// Positive means owed money, negative means owes money. Absent rounding the
// values sum to zero.
func GroupBalances(memberIDs []string, expenses []*models.Expense, settlements []*models.Settlement) map[string]float64 {
	balances := make(map[string]float64, len(memberIDs))
	for _, id := range memberIDs {
		balances[id] = 0
	}

	for _, e := range expenses {
		if _, ok := balances[e.PaidBy]; ok {
			balances[e.PaidBy] += e.Amount
		}
		for _, p := range e.Participants {
			if _, ok := balances[p]; ok {
				balances[p] -= Share(e, p)
			}
		}
	}

	for _, s := range settlements {
		if _, ok := balances[s.FromUserID]; ok {
			balances[s.FromUserID] += s.Amount
		}
		if _, ok := balances[s.ToUserID]; ok {
			balances[s.ToUserID] -= s.Amount
		}
	}

	return balances
}

// otherParticipant returns the first participant that is not refID, or ""
// if there is none.
func otherParticipant(refID string, participants []string) string {
	for _, p := range participants {
		if p != refID {
			return p
		}
	}
	return ""
}
