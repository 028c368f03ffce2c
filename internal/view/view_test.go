package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/models"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "0.00"},
		{in: "100", want: "100.00"},
		{in: "1500", want: "1,500.00"},
		{in: "12.345", want: "12.35"},
		{in: "-100", want: "-100.00"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatCurrency(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInitials(t *testing.T) {
	tests := map[string]string{
		"Ashish":         "A",
		"ramneet kaur":   "RK",
		"  Pari  Singh ": "PS",
		"":               "",
	}
	for in, want := range tests {
		if got := Initials(in); got != want {
			t.Errorf("Initials(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildDashboard(t *testing.T) {
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	snap := models.Snapshot{
		Participants: []models.Participant{
			{ID: "a", Name: "Ashish Kumar", Email: "ashish@example.com"},
			{ID: "b", Name: "Ramneet", Email: "ramneet@example.com"},
			{ID: "c", Name: "Pari", Email: "pari@example.com"},
		},
	}
	for i := 0; i < 7; i++ {
		snap.Expenses = append(snap.Expenses, models.Expense{
			ID:           string(rune('1' + i)),
			Description:  "Expense",
			Amount:       decimal.NewFromInt(30),
			PaidBy:       "a",
			SplitBetween: []string{"a", "b", "c"},
			Date:         base.Add(time.Duration(i) * time.Hour),
			Category:     models.DefaultCategory,
		})
	}

	balances := calculator.ComputeBalances(snap.Participants, snap.Expenses)
	settlements := calculator.ComputeSettlements(balances, calculator.ModeAllocating)
	d := BuildDashboard(snap, balances, settlements, 0)

	if d.FriendsCount != 3 || d.ExpensesCount != 7 || d.SettlementsCount != 2 {
		t.Errorf("counts = %d/%d/%d, want 3/7/2", d.FriendsCount, d.ExpensesCount, d.SettlementsCount)
	}
	if !d.TotalAmount.Equal(decimal.NewFromInt(210)) || d.TotalFormatted != "210.00" {
		t.Errorf("total = %s (%q), want 210", d.TotalAmount, d.TotalFormatted)
	}

	if len(d.Balances) != 3 {
		t.Fatalf("expected 3 balance rows, got %d", len(d.Balances))
	}
	a := d.Balances[0]
	if a.Initials != "AK" || a.Status != StatusPositive || !a.Amount.Equal(decimal.NewFromInt(140)) {
		t.Errorf("unexpected row for a: %+v", a)
	}
	if d.Balances[1].Status != StatusNegative {
		t.Errorf("expected b to be negative, got %s", d.Balances[1].Status)
	}

	if len(d.Settlements) != 2 || d.Settlements[0].FromName != "Ramneet" || d.Settlements[0].ToName != "Ashish Kumar" {
		t.Errorf("unexpected settlements: %+v", d.Settlements)
	}
	if d.Settlements[0].Formatted != "70.00" {
		t.Errorf("settlement formatted = %q, want 70.00", d.Settlements[0].Formatted)
	}

	if len(d.RecentExpenses) != DefaultRecentLimit {
		t.Fatalf("expected %d recent expenses, got %d", DefaultRecentLimit, len(d.RecentExpenses))
	}
	if d.RecentExpenses[0].ID != "7" || d.RecentExpenses[4].ID != "3" {
		t.Errorf("expected most recent first, got %s..%s", d.RecentExpenses[0].ID, d.RecentExpenses[4].ID)
	}
	if d.RecentExpenses[0].PaidByName != "Ashish Kumar" || d.RecentExpenses[0].SplitCount != 3 {
		t.Errorf("unexpected expense row: %+v", d.RecentExpenses[0])
	}
}

func TestBuildDashboard_Empty(t *testing.T) {
	d := BuildDashboard(models.Snapshot{}, calculator.NewBalances(nil), nil, 3)
	if d.FriendsCount != 0 || d.TotalFormatted != "0.00" {
		t.Errorf("unexpected empty dashboard: %+v", d)
	}
	if d.Balances == nil || d.Settlements == nil || d.RecentExpenses == nil {
		t.Error("expected empty slices, not nil, so JSON renders []")
	}
}

func TestStatus_TinyAmountsAreZero(t *testing.T) {
	if got := status(decimal.RequireFromString("-0.000000001")); got != StatusZero {
		t.Errorf("status = %s, want %s", got, StatusZero)
	}
}
