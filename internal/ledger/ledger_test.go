package ledger

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/models"
)

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(
		WithIDGenerator(NewSequenceGenerator()),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func mustAddParticipant(t *testing.T, l *Ledger, name string) models.Participant {
	t.Helper()
	p, err := l.AddParticipant(name, strings.ToLower(name)+"@example.com")
	if err != nil {
		t.Fatalf("AddParticipant(%s) failed: %v", name, err)
	}
	return p
}

func mustAddExpense(t *testing.T, l *Ledger, amount string, paidBy string, split ...string) models.Expense {
	t.Helper()
	e, err := l.AddExpense(NewExpense{
		Description:  "Dinner",
		Amount:       decimal.RequireFromString(amount),
		PaidBy:       paidBy,
		SplitBetween: split,
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return e
}

func TestAddParticipant(t *testing.T) {
	l := newTestLedger(t)

	alice, err := l.AddParticipant("  Alice ", " alice@example.com ")
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if alice.ID != "p1" {
		t.Errorf("expected id p1, got %s", alice.ID)
	}
	if alice.Name != "Alice" || alice.Email != "alice@example.com" {
		t.Errorf("expected trimmed fields, got %+v", alice)
	}

	bob := mustAddParticipant(t, l, "Bob")
	if bob.ID == alice.ID {
		t.Errorf("expected unique ids, both are %s", bob.ID)
	}

	got := l.ListParticipants()
	if len(got) != 2 || got[0].ID != alice.ID || got[1].ID != bob.ID {
		t.Errorf("expected insertion order [Alice Bob], got %+v", got)
	}
}

func TestAddParticipant_Validation(t *testing.T) {
	tests := []struct {
		name, pname, email string
	}{
		{name: "empty name", pname: "", email: "a@example.com"},
		{name: "blank name", pname: "   ", email: "a@example.com"},
		{name: "empty email", pname: "Alice", email: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t)
			if _, err := l.AddParticipant(tt.pname, tt.email); !errors.Is(err, ErrInvalidParticipant) {
				t.Errorf("expected ErrInvalidParticipant, got %v", err)
			}
			if len(l.ListParticipants()) != 0 {
				t.Error("expected ledger to stay empty")
			}
		})
	}
}

// collidingGenerator returns the same ID a few times before moving on.
type collidingGenerator struct {
	ids []string
}

func (g *collidingGenerator) NewID(Kind) (string, error) {
	id := g.ids[0]
	if len(g.ids) > 1 {
		g.ids = g.ids[1:]
	}
	return id, nil
}

func TestAddParticipant_RetriesOnCollision(t *testing.T) {
	l := New(WithIDGenerator(&collidingGenerator{ids: []string{"x", "x", "x", "y"}}))

	first := mustAddParticipant(t, l, "Alice")
	second := mustAddParticipant(t, l, "Bob")
	if first.ID != "x" || second.ID != "y" {
		t.Errorf("expected ids x and y, got %s and %s", first.ID, second.ID)
	}
}

func TestAddParticipant_GivesUpOnConstantCollision(t *testing.T) {
	l := New(WithIDGenerator(&collidingGenerator{ids: []string{"x"}}))
	mustAddParticipant(t, l, "Alice")

	if _, err := l.AddParticipant("Bob", "bob@example.com"); err == nil {
		t.Fatal("expected error when generator keeps colliding")
	}
	if len(l.ListParticipants()) != 1 {
		t.Error("expected failed add to leave ledger unchanged")
	}
}

func TestAddExpense(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddParticipant(t, l, "A")
	b := mustAddParticipant(t, l, "B")

	e, err := l.AddExpense(NewExpense{
		Description:  " Groceries ",
		Amount:       decimal.NewFromInt(300),
		PaidBy:       a.ID,
		SplitBetween: []string{a.ID, b.ID, a.ID},
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	if e.ID != "e1" {
		t.Errorf("expected id e1, got %s", e.ID)
	}
	if e.Description != "Groceries" {
		t.Errorf("expected trimmed description, got %q", e.Description)
	}
	if len(e.SplitBetween) != 2 || e.SplitBetween[0] != a.ID || e.SplitBetween[1] != b.ID {
		t.Errorf("expected duplicates collapsed in order, got %v", e.SplitBetween)
	}
	if !e.Date.Equal(fixedNow) {
		t.Errorf("expected date to default to clock, got %v", e.Date)
	}
	if e.Category != models.DefaultCategory {
		t.Errorf("expected default category %q, got %q", models.DefaultCategory, e.Category)
	}
}

func TestAddExpense_ExplicitDateAndCategory(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddParticipant(t, l, "A")

	date := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	e, err := l.AddExpense(NewExpense{
		Description:  "Cab",
		Amount:       decimal.NewFromFloat(12.5),
		PaidBy:       a.ID,
		SplitBetween: []string{a.ID},
		Date:         &date,
		Category:     "Travel",
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	if !e.Date.Equal(date) || e.Category != "Travel" {
		t.Errorf("expected explicit date and category, got %v %q", e.Date, e.Category)
	}
}

func TestAddExpense_Invalid(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddParticipant(t, l, "A")

	tests := []struct {
		name  string
		input NewExpense
	}{
		{
			name:  "zero amount",
			input: NewExpense{Amount: decimal.Zero, PaidBy: a.ID, SplitBetween: []string{a.ID}},
		},
		{
			name:  "negative amount",
			input: NewExpense{Amount: decimal.NewFromInt(-5), PaidBy: a.ID, SplitBetween: []string{a.ID}},
		},
		{
			name:  "empty split",
			input: NewExpense{Amount: decimal.NewFromInt(5), PaidBy: a.ID},
		},
		{
			name:  "unknown payer",
			input: NewExpense{Amount: decimal.NewFromInt(5), PaidBy: "nobody", SplitBetween: []string{a.ID}},
		},
		{
			name:  "unknown split member",
			input: NewExpense{Amount: decimal.NewFromInt(5), PaidBy: a.ID, SplitBetween: []string{a.ID, "nobody"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.AddExpense(tt.input)
			if !errors.Is(err, ErrInvalidExpense) {
				t.Fatalf("expected ErrInvalidExpense, got %v", err)
			}
			var invalid *InvalidExpenseError
			if !errors.As(err, &invalid) || invalid.Reason == "" {
				t.Errorf("expected InvalidExpenseError with a reason, got %v", err)
			}
			if len(l.ListExpenses()) != 0 {
				t.Error("expected rejected expense not to be stored")
			}
		})
	}
}

func TestRemoveExpense(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddParticipant(t, l, "A")
	first := mustAddExpense(t, l, "10", a.ID, a.ID)
	second := mustAddExpense(t, l, "20", a.ID, a.ID)

	if err := l.RemoveExpense(first.ID); err != nil {
		t.Fatalf("RemoveExpense failed: %v", err)
	}
	got := l.ListExpenses()
	if len(got) != 1 || got[0].ID != second.ID {
		t.Errorf("expected only %s to remain, got %+v", second.ID, got)
	}

	err := l.RemoveExpense(first.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second removal, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "expense" || nf.ID != first.ID {
		t.Errorf("expected NotFoundError for expense %s, got %v", first.ID, err)
	}
}

func TestListExpenses_ReturnsCopies(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddParticipant(t, l, "A")
	b := mustAddParticipant(t, l, "B")
	mustAddExpense(t, l, "10", a.ID, a.ID, b.ID)

	listed := l.ListExpenses()
	listed[0].SplitBetween[0] = "tampered"
	listed[0].PaidBy = "tampered"

	again := l.ListExpenses()
	if again[0].SplitBetween[0] != a.ID || again[0].PaidBy != a.ID {
		t.Errorf("expected ledger state to be isolated from callers, got %+v", again[0])
	}
}

func TestLookups(t *testing.T) {
	l := newTestLedger(t)
	a := mustAddParticipant(t, l, "A")
	e := mustAddExpense(t, l, "10", a.ID, a.ID)

	if got, err := l.Participant(a.ID); err != nil || got.Name != "A" {
		t.Errorf("Participant(%s) = %+v, %v", a.ID, got, err)
	}
	if got, err := l.Expense(e.ID); err != nil || got.ID != e.ID {
		t.Errorf("Expense(%s) = %+v, %v", e.ID, got, err)
	}
	if _, err := l.Participant("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := l.Expense("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
