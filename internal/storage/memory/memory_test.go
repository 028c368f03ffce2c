package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/models"
)

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	s := New()
	ctx := context.Background()

	empty, err := s.LoadSnapshot(ctx)
	if err != nil || len(empty.Participants) != 0 || len(empty.Expenses) != 0 {
		t.Fatalf("expected empty snapshot, got %+v err=%v", empty, err)
	}

	snap := models.Snapshot{
		Participants: []models.Participant{{ID: "p1", Name: "A", Email: "a@example.com"}},
		Expenses: []models.Expense{{
			ID: "e1", Amount: decimal.NewFromInt(10), PaidBy: "p1", SplitBetween: []string{"p1"},
		}},
	}
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	snap.Expenses[0].SplitBetween[0] = "tampered"

	got, err := s.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if got.Expenses[0].SplitBetween[0] != "p1" {
		t.Errorf("expected stored split to be isolated, got %v", got.Expenses[0].SplitBetween)
	}
	if s.Saves() != 1 {
		t.Errorf("expected 1 save, got %d", s.Saves())
	}
}
