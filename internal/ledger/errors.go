package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidExpense     = errors.New("invalid expense")
	ErrInvalidParticipant = errors.New("name and email are required")
	ErrInvalidSnapshot    = errors.New("invalid snapshot")
)

// NotFoundError reports an operation on an unknown participant or expense.
// It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Kind string // "participant" or "expense"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidExpenseError reports why an expense was rejected.
// It matches ErrInvalidExpense with errors.Is.
type InvalidExpenseError struct {
	Reason string
}

func (e *InvalidExpenseError) Error() string {
	return "invalid expense: " + e.Reason
}

func (e *InvalidExpenseError) Is(target error) bool {
	return target == ErrInvalidExpense
}

func participantNotFound(id string) error {
	return &NotFoundError{Kind: "participant", ID: id}
}

func expenseNotFound(id string) error {
	return &NotFoundError{Kind: "expense", ID: id}
}

func invalidExpense(format string, args ...any) error {
	return &InvalidExpenseError{Reason: fmt.Sprintf(format, args...)}
}
