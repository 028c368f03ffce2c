// Package view turns ledger state into display-ready data for the front end.
// Everything here is a pure function of its inputs.
package view

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/models"
)

// DefaultRecentLimit is how many expenses the dashboard lists by default.
const DefaultRecentLimit = 5

// Balance status values, used by the front end for styling.
const (
	StatusPositive = "positive"
	StatusNegative = "negative"
	StatusZero     = "zero"
)

// Dashboard is everything the front end renders on its main page.
type Dashboard struct {
	FriendsCount     int             `json:"friendsCount"`
	ExpensesCount    int             `json:"expensesCount"`
	SettlementsCount int             `json:"settlementsCount"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	TotalFormatted   string          `json:"totalFormatted"`

	Balances       []BalanceRow    `json:"balances"`
	Settlements    []SettlementRow `json:"settlements"`
	RecentExpenses []ExpenseRow    `json:"recentExpenses"`
}

type BalanceRow struct {
	ParticipantID string          `json:"participantId"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Initials      string          `json:"initials"`
	Amount        decimal.Decimal `json:"amount"`
	Formatted     string          `json:"formatted"`
	Status        string          `json:"status"`
}

type SettlementRow struct {
	From      string          `json:"from"`
	FromName  string          `json:"fromName"`
	To        string          `json:"to"`
	ToName    string          `json:"toName"`
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
}

type ExpenseRow struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	PaidBy      string          `json:"paidBy"`
	PaidByName  string          `json:"paidByName"`
	Amount      decimal.Decimal `json:"amount"`
	Formatted   string          `json:"formatted"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	SplitCount  int             `json:"splitCount"`
}

// BuildDashboard assembles the dashboard from a ledger snapshot and the
// values derived from it. Recent expenses are listed most recent first;
// recentLimit <= 0 selects DefaultRecentLimit.
func BuildDashboard(
	snap models.Snapshot,
	balances calculator.Balances,
	settlements []models.Settlement,
	recentLimit int,
) Dashboard {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}

	names := make(map[string]models.Participant, len(snap.Participants))
	for _, p := range snap.Participants {
		names[p.ID] = p
	}

	total := decimal.Zero
	for _, e := range snap.Expenses {
		total = total.Add(e.Amount)
	}

	d := Dashboard{
		FriendsCount:     len(snap.Participants),
		ExpensesCount:    len(snap.Expenses),
		SettlementsCount: len(settlements),
		TotalAmount:      total,
		TotalFormatted:   FormatCurrency(total),
		Balances:         make([]BalanceRow, 0, len(snap.Participants)),
		Settlements:      make([]SettlementRow, 0, len(settlements)),
		RecentExpenses:   make([]ExpenseRow, 0, min(recentLimit, len(snap.Expenses))),
	}

	for _, p := range snap.Participants {
		amount, _ := balances.Get(p.ID)
		d.Balances = append(d.Balances, BalanceRow{
			ParticipantID: p.ID,
			Name:          p.Name,
			Email:         p.Email,
			Initials:      Initials(p.Name),
			Amount:        amount,
			Formatted:     FormatCurrency(amount),
			Status:        status(amount),
		})
	}

	for _, s := range settlements {
		d.Settlements = append(d.Settlements, SettlementRow{
			From:      s.From,
			FromName:  names[s.From].Name,
			To:        s.To,
			ToName:    names[s.To].Name,
			Amount:    s.Amount,
			Formatted: FormatCurrency(s.Amount),
		})
	}

	for i := len(snap.Expenses) - 1; i >= 0 && len(d.RecentExpenses) < recentLimit; i-- {
		e := snap.Expenses[i]
		d.RecentExpenses = append(d.RecentExpenses, ExpenseRow{
			ID:          e.ID,
			Description: e.Description,
			PaidBy:      e.PaidBy,
			PaidByName:  names[e.PaidBy].Name,
			Amount:      e.Amount,
			Formatted:   FormatCurrency(e.Amount),
			Date:        e.Date,
			Category:    e.Category,
			SplitCount:  len(e.SplitBetween),
		})
	}

	return d
}

func status(amount decimal.Decimal) string {
	// Match the two-decimal display so "-0.00" is never shown as negative.
	rounded := amount.Round(2)
	switch {
	case rounded.IsPositive():
		return StatusPositive
	case rounded.IsNegative():
		return StatusNegative
	default:
		return StatusZero
	}
}
