package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"connectrpc.com/connect"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/ledger"
	"github.com/mmynk/tabsplit/internal/metrics"
	"github.com/mmynk/tabsplit/internal/models"
	"github.com/mmynk/tabsplit/internal/storage"
	"github.com/mmynk/tabsplit/internal/view"
	"github.com/mmynk/tabsplit/pkg/api"
	"github.com/mmynk/tabsplit/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService.
//
// The ledger is not safe for concurrent use, so every RPC holds mu for its
// whole duration: ledger work, derived values and persistence.
type LedgerService struct {
	mu      sync.Mutex
	ledger  *ledger.Ledger
	store   storage.Store
	mode    calculator.Mode
	metrics *metrics.Metrics
}

// Config holds the dependencies of a LedgerService.
type Config struct {
	Ledger  *ledger.Ledger
	Store   storage.Store
	Mode    calculator.Mode
	Metrics *metrics.Metrics // optional
}

// NewLedgerService creates a LedgerService and loads the stored snapshot
// into the ledger.
func NewLedgerService(ctx context.Context, cfg Config) (*LedgerService, error) {
	s := &LedgerService{
		ledger:  cfg.Ledger,
		store:   cfg.Store,
		mode:    cfg.Mode,
		metrics: cfg.Metrics,
	}

	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if err := s.ledger.Restore(snap); err != nil {
		return nil, fmt.Errorf("failed to restore ledger: %w", err)
	}
	slog.Info("Ledger restored",
		"participants", len(snap.Participants),
		"expenses", len(snap.Expenses),
	)

	s.updateGauges()
	return s, nil
}

// Seed adds the given friends when the ledger has no participants yet.
func (s *LedgerService) Seed(ctx context.Context, friends []models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ledger.ListParticipants()) > 0 {
		return nil
	}
	return s.mutate(ctx, func() error {
		for _, f := range friends {
			if _, err := s.ledger.AddParticipant(f.Name, f.Email); err != nil {
				return err
			}
		}
		slog.Info("Seeded demo friends", "count", len(friends))
		return nil
	})
}

// mutate applies fn to the ledger and persists the result. If fn or the
// save fails the ledger is rolled back to its previous state. Callers must
// hold s.mu.
func (s *LedgerService) mutate(ctx context.Context, fn func() error) error {
	before := s.ledger.Snapshot()

	if err := fn(); err != nil {
		if rerr := s.ledger.Restore(before); rerr != nil {
			slog.Error("Rollback failed", "error", rerr)
		}
		return err
	}

	if err := s.store.SaveSnapshot(ctx, s.ledger.Snapshot()); err != nil {
		slog.Error("SaveSnapshot failed, rolling back", "error", err)
		if rerr := s.ledger.Restore(before); rerr != nil {
			slog.Error("Rollback failed", "error", rerr)
		}
		return connect.NewError(connect.CodeInternal, fmt.Errorf("failed to save ledger: %w", err))
	}

	s.updateGauges()
	return nil
}

func (s *LedgerService) updateGauges() {
	if s.metrics == nil {
		return
	}
	participants := s.ledger.ListParticipants()
	expenses := s.ledger.ListExpenses()
	settlements := calculator.ComputeSettlements(calculator.ComputeBalances(participants, expenses), s.mode)
	s.metrics.SetLedgerSize(len(participants), len(expenses), len(settlements))
}

// toConnectError maps ledger errors onto connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, ledger.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, ledger.ErrInvalidExpense), errors.Is(err, ledger.ErrInvalidParticipant):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// AddParticipant adds a friend to the ledger.
func (s *LedgerService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p models.Participant
	err := s.mutate(ctx, func() error {
		var err error
		p, err = s.ledger.AddParticipant(req.Msg.Name, req.Msg.Email)
		return err
	})
	if err != nil {
		slog.Error("AddParticipant failed", "name", req.Msg.Name, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Participant added", "participant_id", p.ID, "name", p.Name)
	return connect.NewResponse(&api.AddParticipantResponse{Participant: p}), nil
}

// RemoveParticipant removes a friend and cascades the removal through
// every expense they were part of.
func (s *LedgerService) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	if req.Msg.ParticipantID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("participant_id required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expensesBefore := len(s.ledger.ListExpenses())
	err := s.mutate(ctx, func() error {
		return s.ledger.RemoveParticipant(req.Msg.ParticipantID)
	})
	if err != nil {
		slog.Error("RemoveParticipant failed", "participant_id", req.Msg.ParticipantID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Participant removed",
		"participant_id", req.Msg.ParticipantID,
		"expenses_deleted", expensesBefore-len(s.ledger.ListExpenses()),
	)
	return connect.NewResponse(&api.RemoveParticipantResponse{}), nil
}

// AddExpense records a shared expense.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Debug("Processing expense",
		"description", req.Msg.Description,
		"amount", req.Msg.Amount,
		"paid_by", req.Msg.PaidBy,
		"split_between", req.Msg.SplitBetween,
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	var e models.Expense
	err := s.mutate(ctx, func() error {
		var err error
		e, err = s.ledger.AddExpense(ledger.NewExpense{
			Description:  req.Msg.Description,
			Amount:       req.Msg.Amount,
			PaidBy:       req.Msg.PaidBy,
			SplitBetween: req.Msg.SplitBetween,
			Date:         req.Msg.Date,
			Category:     req.Msg.Category,
		})
		return err
	})
	if err != nil {
		slog.Error("AddExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense added", "expense_id", e.ID, "amount", e.Amount, "paid_by", e.PaidBy)
	return connect.NewResponse(&api.AddExpenseResponse{Expense: e}), nil
}

// RemoveExpense deletes an expense.
func (s *LedgerService) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	if req.Msg.ExpenseID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("expense_id required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.mutate(ctx, func() error {
		return s.ledger.RemoveExpense(req.Msg.ExpenseID)
	})
	if err != nil {
		slog.Error("RemoveExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense removed", "expense_id", req.Msg.ExpenseID)
	return connect.NewResponse(&api.RemoveExpenseResponse{}), nil
}

// ListParticipants returns all friends in the order they were added.
func (s *LedgerService) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return connect.NewResponse(&api.ListParticipantsResponse{
		Participants: s.ledger.ListParticipants(),
	}), nil
}

// ListExpenses returns expenses in insertion order, or most recent first
// when requested.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if req.Msg.Limit < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("limit must not be negative"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expenses := s.ledger.ListExpenses()
	if req.Msg.MostRecentFirst {
		for i, j := 0, len(expenses)-1; i < j; i, j = i+1, j-1 {
			expenses[i], expenses[j] = expenses[j], expenses[i]
		}
	}
	if req.Msg.Limit > 0 && len(expenses) > req.Msg.Limit {
		expenses = expenses[:req.Msg.Limit]
	}

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: expenses}), nil
}

// GetBalances returns every participant's net position.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balances := calculator.ComputeBalances(s.ledger.ListParticipants(), s.ledger.ListExpenses())
	return connect.NewResponse(&api.GetBalancesResponse{Balances: balances.All()}), nil
}

// GetSettlements returns the transfers that would zero out balances.
func (s *LedgerService) GetSettlements(ctx context.Context, req *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balances := calculator.ComputeBalances(s.ledger.ListParticipants(), s.ledger.ListExpenses())
	settlements := calculator.ComputeSettlements(balances, s.mode)
	if settlements == nil {
		settlements = []models.Settlement{}
	}

	return connect.NewResponse(&api.GetSettlementsResponse{
		Settlements: settlements,
		Mode:        s.mode.String(),
	}), nil
}

// GetDashboard returns the display-ready summary of the whole ledger.
func (s *LedgerService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	if req.Msg.RecentLimit < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("recent_limit must not be negative"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.ledger.Snapshot()
	balances := calculator.ComputeBalances(snap.Participants, snap.Expenses)
	settlements := calculator.ComputeSettlements(balances, s.mode)

	return connect.NewResponse(&api.GetDashboardResponse{
		Dashboard: view.BuildDashboard(snap, balances, settlements, req.Msg.RecentLimit),
	}), nil
}
