package ledger

import (
	"slices"

	"github.com/mmynk/tabsplit/internal/models"
)

// applyRemoval returns the expense collection as it must look once
// participantID is gone. The inputs are left untouched so the caller can
// commit the result atomically.
//
// For every expense:
//  1. participantID is dropped from the split set.
//  2. If participantID paid, the expense is deleted when its split set is now
//     empty, otherwise the first remaining split member becomes the payer.
//  3. If someone else paid, the expense is kept even when its split set is
//     now empty.
func applyRemoval(
	participantID string,
	expenses map[string]*models.Expense,
	order []string,
) (map[string]*models.Expense, []string) {
	nextExpenses := make(map[string]*models.Expense, len(expenses))
	nextOrder := make([]string, 0, len(order))

	for _, id := range order {
		e := expenses[id].Clone()
		e.SplitBetween = slices.DeleteFunc(e.SplitBetween, func(pid string) bool {
			return pid == participantID
		})

		if e.PaidBy == participantID {
			if len(e.SplitBetween) == 0 {
				continue
			}
			e.PaidBy = e.SplitBetween[0]
		}

		nextExpenses[id] = &e
		nextOrder = append(nextOrder, id)
	}

	return nextExpenses, nextOrder
}
