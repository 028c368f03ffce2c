package calculator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/models"
)

// MinimumTransfer is the threshold a rounded transfer must exceed to be
// emitted. Anything at or below it is treated as noise.
var MinimumTransfer = decimal.NewFromInt(1)

// Mode selects how the settlement planner treats balances it has already
// promised to someone.
type Mode int

const (
	// ModeAllocating subtracts every proposed transfer from a working copy
	// of the balances, so a creditor is never promised more than it is owed.
	ModeAllocating Mode = iota

	// ModePairwise proposes every debtor/creditor pair from the original
	// balances. A creditor can appear under several debtors with a total
	// larger than what it is owed.
	ModePairwise
)

func (m Mode) String() string {
	switch m {
	case ModeAllocating:
		return "allocating"
	case ModePairwise:
		return "pairwise"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as used in configuration.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "allocating", "":
		return ModeAllocating, nil
	case "pairwise":
		return ModePairwise, nil
	default:
		return 0, fmt.Errorf("unknown settlement mode %q (want allocating or pairwise)", s)
	}
}

// ComputeSettlements proposes debtor→creditor transfers.
//
// Debtors (negative balance) form the outer loop and creditors (positive
// balance) the inner loop, both in the balances' enumeration order. Each pair
// is offered min(owed, owing), rounded to the nearest whole unit. A transfer
// is emitted only if the rounded amount exceeds MinimumTransfer. The result
// is grouped by debtor, then creditor; it is not sorted by amount.
func ComputeSettlements(balances Balances, mode Mode) []models.Settlement {
	var debtors, creditors []models.Balance
	for _, b := range balances.entries {
		switch {
		case b.Amount.IsNegative():
			debtors = append(debtors, b)
		case b.Amount.IsPositive():
			creditors = append(creditors, b)
		}
	}

	// Remaining credit per creditor, only consulted in ModeAllocating.
	credit := make([]decimal.Decimal, len(creditors))
	for i, c := range creditors {
		credit[i] = c.Amount
	}

	var settlements []models.Settlement
	for _, debtor := range debtors {
		owed := debtor.Amount.Abs()

		for i, creditor := range creditors {
			if creditor.ParticipantID == debtor.ParticipantID {
				continue
			}

			available := creditor.Amount
			if mode == ModeAllocating {
				available = credit[i]
				if !owed.IsPositive() {
					break
				}
				if !available.IsPositive() {
					continue
				}
			}

			amount := decimal.Min(owed, available)
			if mode == ModeAllocating {
				owed = owed.Sub(amount)
				credit[i] = credit[i].Sub(amount)
			}

			rounded := amount.Round(0)
			if rounded.GreaterThan(MinimumTransfer) {
				settlements = append(settlements, models.Settlement{
					From:   debtor.ParticipantID,
					To:     creditor.ParticipantID,
					Amount: rounded,
				})
			}
		}
	}

	return settlements
}
