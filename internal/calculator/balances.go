package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/models"
)

// Balances holds every participant's net position in participant order.
// Positive = owed money, Negative = owes money.
type Balances struct {
	entries []models.Balance
	index   map[string]int
}

// NewBalances builds a Balances from an ordered list. Later duplicates of an
// ID are ignored.
func NewBalances(entries []models.Balance) Balances {
	b := Balances{
		entries: make([]models.Balance, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := b.index[e.ParticipantID]; dup {
			continue
		}
		b.index[e.ParticipantID] = len(b.entries)
		b.entries = append(b.entries, e)
	}
	return b
}

// All returns the balances in enumeration order.
func (b Balances) All() []models.Balance {
	out := make([]models.Balance, len(b.entries))
	copy(out, b.entries)
	return out
}

// Get returns the balance of a participant and whether it is known.
func (b Balances) Get(participantID string) (decimal.Decimal, bool) {
	i, ok := b.index[participantID]
	if !ok {
		return decimal.Zero, false
	}
	return b.entries[i].Amount, true
}

// Len returns the number of participants.
func (b Balances) Len() int {
	return len(b.entries)
}

// Sum returns the total of all balances. It is zero for any ledger state up
// to the division precision used for shares.
func (b Balances) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range b.entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// ComputeBalances derives each participant's net position.
//
// Algorithm:
//   - Every participant starts at zero
//   - For each expense: share = amount / len(split)
//   - The payer is credited the full amount
//   - Every split member is debited one share (the payer too, if included)
//
// Expenses with an empty split set contribute nothing: nobody is left to
// share the cost, and crediting the payer alone would break conservation.
// IDs that are not among participants are skipped.
func ComputeBalances(participants []models.Participant, expenses []models.Expense) Balances {
	amounts := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		amounts[p.ID] = decimal.Zero
	}

	for _, e := range expenses {
		if len(e.SplitBetween) == 0 {
			continue
		}
		share := e.Amount.Div(decimal.NewFromInt(int64(len(e.SplitBetween))))

		if bal, ok := amounts[e.PaidBy]; ok {
			amounts[e.PaidBy] = bal.Add(e.Amount)
		}
		for _, pid := range e.SplitBetween {
			if bal, ok := amounts[pid]; ok {
				amounts[pid] = bal.Sub(share)
			}
		}
	}

	entries := make([]models.Balance, 0, len(participants))
	for _, p := range participants {
		entries = append(entries, models.Balance{ParticipantID: p.ID, Amount: amounts[p.ID]})
	}
	return NewBalances(entries)
}
