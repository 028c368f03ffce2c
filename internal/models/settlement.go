package models

import "github.com/shopspring/decimal"

// Settlement is a proposed payment from a debtor to a creditor.
// Settlements are derived from balances and never stored.
type Settlement struct {
	// From is the participant who owes money.
	From string `json:"from"`

	// To is the participant who is owed money.
	To string `json:"to"`

	// Amount is a whole number of currency units, always greater than one.
	Amount decimal.Decimal `json:"amount"`
}
