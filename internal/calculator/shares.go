// Package calculator computes balances and settlement suggestions from
// recorded expenses. All functions are pure: they never mutate their inputs,
// retain no state between calls, and are safe to invoke concurrently.
//
// Money is float64 throughout, with Tolerance treating near-zero remainders
// as settled. Lookup misses (unknown users, missing distribution entries)
// degrade to zero contributions rather than errors; input validation belongs
// to the admission layer, not here.
package calculator

import "github.com/smartsplit/smartsplit/internal/models"

// Tolerance is the band within which a balance counts as zero. One cent,
// fixed: recorded expectations depend on it.
const Tolerance = 0.01

// Share returns userID's monetary share of the expense under its split
// policy. A participant missing from a percentage/amount distribution has a
// zero share. An expense with no participants yields zero for everyone;
// admission guarantees that never happens for stored expenses.
func Share(e *models.Expense, userID string) float64 {
	switch e.Split.Type {
	case models.SplitPercentage:
		return e.Amount * e.Split.Distribution[userID] / 100
	case models.SplitAmount:
		return e.Split.Distribution[userID]
	default:
		// SplitEqually, and legacy expenses recorded with no split tag.
		if len(e.Participants) == 0 {
			return 0
		}
		return e.Amount / float64(len(e.Participants))
	}
}
