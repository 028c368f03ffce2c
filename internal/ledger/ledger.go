// Package ledger owns the participants and expenses of a shared-expense
// group and enforces their referential invariants.
//
// A Ledger is not safe for concurrent use. Callers that share one across
// goroutines must serialize access (see internal/service).
package ledger

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/models"
)

// maxIDAttempts bounds retries when a generator returns an ID already in use.
const maxIDAttempts = 8

// Ledger is the authoritative store of participants and expenses.
type Ledger struct {
	participants     map[string]*models.Participant
	participantOrder []string

	expenses     map[string]*models.Expense
	expenseOrder []string

	ids IDGenerator
	now func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithIDGenerator sets the generator used for new participant and expense IDs.
func WithIDGenerator(g IDGenerator) Option {
	return func(l *Ledger) {
		l.ids = g
	}
}

// WithClock sets the clock used to date expenses recorded without a date.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// New creates an empty ledger. By default IDs are TypeIDs and the clock is
// time.Now.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		participants: make(map[string]*models.Participant),
		expenses:     make(map[string]*models.Expense),
		ids:          TypeIDGenerator{},
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewExpense holds the input for AddExpense.
type NewExpense struct {
	Description  string
	Amount       decimal.Decimal
	PaidBy       string
	SplitBetween []string

	// Date defaults to the ledger clock when nil.
	Date *time.Time

	// Category defaults to models.DefaultCategory when empty.
	Category string
}

// AddParticipant records a new participant and returns it.
func (l *Ledger) AddParticipant(name, email string) (models.Participant, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return models.Participant{}, ErrInvalidParticipant
	}

	id, err := l.newID(KindParticipant, func(id string) bool {
		_, taken := l.participants[id]
		return taken
	})
	if err != nil {
		return models.Participant{}, err
	}

	p := &models.Participant{ID: id, Name: name, Email: email}
	l.participants[id] = p
	l.participantOrder = append(l.participantOrder, id)
	return *p, nil
}

// RemoveParticipant removes a participant and cascades the removal through
// every expense (see applyRemoval).
func (l *Ledger) RemoveParticipant(id string) error {
	if _, ok := l.participants[id]; !ok {
		return participantNotFound(id)
	}

	expenses, order := applyRemoval(id, l.expenses, l.expenseOrder)

	// Commit. Nothing below can fail.
	l.expenses = expenses
	l.expenseOrder = order
	delete(l.participants, id)
	l.participantOrder = slices.DeleteFunc(l.participantOrder, func(pid string) bool {
		return pid == id
	})
	return nil
}

// AddExpense validates and records a new expense.
func (l *Ledger) AddExpense(in NewExpense) (models.Expense, error) {
	if !in.Amount.IsPositive() {
		return models.Expense{}, invalidExpense("amount must be greater than zero, got %s", in.Amount)
	}
	if _, ok := l.participants[in.PaidBy]; !ok {
		return models.Expense{}, invalidExpense("unknown payer %q", in.PaidBy)
	}

	split := make([]string, 0, len(in.SplitBetween))
	for _, pid := range in.SplitBetween {
		if _, ok := l.participants[pid]; !ok {
			return models.Expense{}, invalidExpense("unknown participant %q in split", pid)
		}
		if !slices.Contains(split, pid) {
			split = append(split, pid)
		}
	}
	if len(split) == 0 {
		return models.Expense{}, invalidExpense("split must include at least one participant")
	}

	id, err := l.newID(KindExpense, func(id string) bool {
		_, taken := l.expenses[id]
		return taken
	})
	if err != nil {
		return models.Expense{}, err
	}

	date := l.now()
	if in.Date != nil {
		date = *in.Date
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	e := &models.Expense{
		ID:           id,
		Description:  strings.TrimSpace(in.Description),
		Amount:       in.Amount,
		PaidBy:       in.PaidBy,
		SplitBetween: split,
		Date:         date,
		Category:     category,
	}
	l.expenses[id] = e
	l.expenseOrder = append(l.expenseOrder, id)
	return e.Clone(), nil
}

// RemoveExpense deletes an expense.
func (l *Ledger) RemoveExpense(id string) error {
	if _, ok := l.expenses[id]; !ok {
		return expenseNotFound(id)
	}
	delete(l.expenses, id)
	l.expenseOrder = slices.DeleteFunc(l.expenseOrder, func(eid string) bool {
		return eid == id
	})
	return nil
}

// ListParticipants returns all participants in insertion order.
func (l *Ledger) ListParticipants() []models.Participant {
	out := make([]models.Participant, 0, len(l.participantOrder))
	for _, id := range l.participantOrder {
		out = append(out, *l.participants[id])
	}
	return out
}

// ListExpenses returns all expenses in insertion order.
func (l *Ledger) ListExpenses() []models.Expense {
	out := make([]models.Expense, 0, len(l.expenseOrder))
	for _, id := range l.expenseOrder {
		out = append(out, l.expenses[id].Clone())
	}
	return out
}

// Participant looks up a participant by ID.
func (l *Ledger) Participant(id string) (models.Participant, error) {
	p, ok := l.participants[id]
	if !ok {
		return models.Participant{}, participantNotFound(id)
	}
	return *p, nil
}

// Expense looks up an expense by ID.
func (l *Ledger) Expense(id string) (models.Expense, error) {
	e, ok := l.expenses[id]
	if !ok {
		return models.Expense{}, expenseNotFound(id)
	}
	return e.Clone(), nil
}

func (l *Ledger) newID(kind Kind, taken func(string) bool) (string, error) {
	// Sequence generators restart from 1 after a restore, so allow one
	// attempt per existing record on top of the fixed budget.
	attempts := maxIDAttempts + len(l.participants) + len(l.expenses)
	for range attempts {
		id, err := l.ids.NewID(kind)
		if err != nil {
			return "", err
		}
		if id != "" && !taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique %s id after %d attempts", kind, attempts)
}
