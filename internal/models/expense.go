package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategory is assigned to expenses recorded without a category.
const DefaultCategory = "Other"

// Expense is a single payment made by one participant and shared among
// a set of participants.
type Expense struct {
	// ID is the unique identifier assigned by the ledger's ID generator.
	ID string `json:"id"`

	// Description is what the money was spent on (e.g., "Dinner", "Cab").
	Description string `json:"description"`

	// Amount is the full amount paid. Always positive.
	Amount decimal.Decimal `json:"amount"`

	// PaidBy is the ID of the participant who paid.
	PaidBy string `json:"paidBy"`

	// SplitBetween lists the participant IDs sharing the cost, without
	// duplicates. Order is preserved because the removal cascade picks the
	// first remaining member as the new payer.
	//
	// May be empty only after the payer's split group was removed entirely
	// while the payer survived.
	SplitBetween []string `json:"splitBetween"`

	// Date is when the expense was recorded.
	Date time.Time `json:"date"`

	// Category groups expenses for display. Defaults to DefaultCategory.
	Category string `json:"category"`
}

// Clone returns a copy of the expense that shares no memory with e.
func (e Expense) Clone() Expense {
	e.SplitBetween = slices.Clone(e.SplitBetween)
	return e
}

// IsSplitWith reports whether participantID is in the split set.
func (e Expense) IsSplitWith(participantID string) bool {
	return slices.Contains(e.SplitBetween, participantID)
}
