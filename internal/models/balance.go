package models

import "github.com/shopspring/decimal"

// Balance is one participant's net position across all expenses.
type Balance struct {
	ParticipantID string `json:"participantId"`

	// Amount is positive when the participant is owed money and negative
	// when they owe money.
	Amount decimal.Decimal `json:"amount"`
}
