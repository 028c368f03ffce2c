package ledger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mmynk/tabsplit/internal/models"
)

// Snapshot returns a deep copy of the ledger state in insertion order.
func (l *Ledger) Snapshot() models.Snapshot {
	return models.Snapshot{
		Participants: l.ListParticipants(),
		Expenses:     l.ListExpenses(),
	}
}

// Restore replaces the ledger contents with snap. The snapshot is validated
// first; on any error the ledger is left unchanged.
//
// Unlike AddExpense, Restore accepts expenses with an empty split set since
// the removal cascade can legitimately produce them.
func (l *Ledger) Restore(snap models.Snapshot) error {
	participants := make(map[string]*models.Participant, len(snap.Participants))
	participantOrder := make([]string, 0, len(snap.Participants))
	for _, p := range snap.Participants {
		if p.ID == "" {
			return fmt.Errorf("%w: participant with empty id", ErrInvalidSnapshot)
		}
		if _, dup := participants[p.ID]; dup {
			return fmt.Errorf("%w: duplicate participant id %q", ErrInvalidSnapshot, p.ID)
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: participant %q has no name", ErrInvalidSnapshot, p.ID)
		}
		participants[p.ID] = &p
		participantOrder = append(participantOrder, p.ID)
	}

	expenses := make(map[string]*models.Expense, len(snap.Expenses))
	expenseOrder := make([]string, 0, len(snap.Expenses))
	for _, e := range snap.Expenses {
		if e.ID == "" {
			return fmt.Errorf("%w: expense with empty id", ErrInvalidSnapshot)
		}
		if _, dup := expenses[e.ID]; dup {
			return fmt.Errorf("%w: duplicate expense id %q", ErrInvalidSnapshot, e.ID)
		}
		if !e.Amount.IsPositive() {
			return fmt.Errorf("%w: expense %q has non-positive amount %s", ErrInvalidSnapshot, e.ID, e.Amount)
		}
		if _, ok := participants[e.PaidBy]; !ok {
			return fmt.Errorf("%w: expense %q paid by unknown participant %q", ErrInvalidSnapshot, e.ID, e.PaidBy)
		}
		for i, pid := range e.SplitBetween {
			if _, ok := participants[pid]; !ok {
				return fmt.Errorf("%w: expense %q split with unknown participant %q", ErrInvalidSnapshot, e.ID, pid)
			}
			if slices.Contains(e.SplitBetween[:i], pid) {
				return fmt.Errorf("%w: expense %q lists participant %q twice", ErrInvalidSnapshot, e.ID, pid)
			}
		}
		e := e.Clone()
		if e.Category == "" {
			e.Category = models.DefaultCategory
		}
		expenses[e.ID] = &e
		expenseOrder = append(expenseOrder, e.ID)
	}

	l.participants = participants
	l.participantOrder = participantOrder
	l.expenses = expenses
	l.expenseOrder = expenseOrder
	return nil
}
