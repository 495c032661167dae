package calculator

import (
	"math"
	"sort"
)

// Transfer is a suggested payment that reduces outstanding balances.
type Transfer struct {
	// From is the debtor's user ID.
	From string `json:"from"`

	// To is the creditor's user ID.
	To string `json:"to"`

	// Amount is the payment amount.
	Amount float64 `json:"amount"`
}

type party struct {
	id      string
	balance float64
}

// Settle collapses a group's net balances into a list of transfers that
// bring every balance within Tolerance of zero, using greedy
// largest-debt-to-largest-credit matching.
//
// Members within Tolerance of zero are excluded up front. Debtors are taken
// most-negative first, creditors largest first; ties keep the memberIDs
// enumeration order, so output is deterministic for a given member list.
// At most len(memberIDs)-1 transfers are produced.
//
// The greedy matching is the usual cash-flow heuristic: deterministic and
// tight in practice, not guaranteed globally minimal.
func Settle(memberIDs []string, balances map[string]float64) []Transfer {
	var debtors, creditors []party
	for _, id := range memberIDs {
		b := balances[id]
		switch {
		case b < -Tolerance:
			debtors = append(debtors, party{id: id, balance: b})
		case b > Tolerance:
			creditors = append(creditors, party{id: id, balance: b})
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].balance < debtors[j].balance
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].balance > creditors[j].balance
	})

	var transfers []Transfer
	for len(debtors) > 0 && len(creditors) > 0 {
		debtor := &debtors[0]
		creditor := &creditors[0]

		amount := math.Min(-debtor.balance, creditor.balance)
		transfers = append(transfers, Transfer{
			From:   debtor.id,
			To:     creditor.id,
			Amount: amount,
		})

		debtor.balance += amount
		creditor.balance -= amount

		if math.Abs(debtor.balance) < Tolerance {
			debtors = debtors[1:]
		}
		if math.Abs(creditor.balance) < Tolerance {
			creditors = creditors[1:]
		}
	}

	return transfers
}
