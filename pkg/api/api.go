// Package api defines the request and response messages of the
// tabsplit.v1.LedgerService RPC service. Messages are plain structs
// encoded as JSON (see apiconnect.Codec).
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/models"
	"github.com/mmynk/tabsplit/internal/view"
)

type AddParticipantRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AddParticipantResponse struct {
	Participant models.Participant `json:"participant"`
}

type RemoveParticipantRequest struct {
	ParticipantID string `json:"participantId"`
}

type RemoveParticipantResponse struct{}

type AddExpenseRequest struct {
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	PaidBy       string          `json:"paidBy"`
	SplitBetween []string        `json:"splitBetween"`

	// Date defaults to the time the expense is recorded.
	Date *time.Time `json:"date,omitempty"`

	// Category defaults to "Other".
	Category string `json:"category,omitempty"`
}

type AddExpenseResponse struct {
	Expense models.Expense `json:"expense"`
}

type RemoveExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type RemoveExpenseResponse struct{}

type ListParticipantsRequest struct{}

type ListParticipantsResponse struct {
	Participants []models.Participant `json:"participants"`
}

type ListExpensesRequest struct {
	// MostRecentFirst reverses the insertion order.
	MostRecentFirst bool `json:"mostRecentFirst,omitempty"`

	// Limit caps the number of expenses returned; zero means no limit.
	Limit int `json:"limit,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []models.Expense `json:"expenses"`
}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	Balances []models.Balance `json:"balances"`
}

type GetSettlementsRequest struct{}

type GetSettlementsResponse struct {
	Settlements []models.Settlement `json:"settlements"`

	// Mode is the settlement strategy the server used.
	Mode string `json:"mode"`
}

type GetDashboardRequest struct {
	// RecentLimit is the number of recent expenses to include. Defaults to 5.
	RecentLimit int `json:"recentLimit,omitempty"`
}

type GetDashboardResponse struct {
	Dashboard view.Dashboard `json:"dashboard"`
}
