package ledger

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"go.jetify.com/typeid/v2"
)

// Kind identifies the entity an ID is generated for.
type Kind string

const (
	KindParticipant Kind = "friend"
	KindExpense     Kind = "exp"
)

// IDGenerator produces identifiers for new ledger records.
// The ledger retries when a generated ID is already taken.
type IDGenerator interface {
	NewID(kind Kind) (string, error)
}

// UUIDGenerator generates random UUIDv4 identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(Kind) (string, error) {
	return uuid.New().String(), nil
}

// TypeIDGenerator generates K-sortable, prefix-qualified identifiers such as
// "friend_01h2xcejqtf2nbrexx3vqjhp41".
type TypeIDGenerator struct{}

func (TypeIDGenerator) NewID(kind Kind) (string, error) {
	tid, err := typeid.Generate(string(kind))
	if err != nil {
		return "", fmt.Errorf("failed to generate %s id: %w", kind, err)
	}
	return tid.String(), nil
}

// SequenceGenerator hands out monotonic identifiers per kind:
// p1, p2, ... for participants and e1, e2, ... for expenses.
// Deterministic, which makes it the generator of choice in tests.
type SequenceGenerator struct {
	participants atomic.Uint64
	expenses     atomic.Uint64
}

func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{}
}

func (g *SequenceGenerator) NewID(kind Kind) (string, error) {
	switch kind {
	case KindParticipant:
		return "p" + strconv.FormatUint(g.participants.Add(1), 10), nil
	case KindExpense:
		return "e" + strconv.FormatUint(g.expenses.Add(1), 10), nil
	default:
		return "", fmt.Errorf("unknown id kind %q", kind)
	}
}

// NewIDGenerator returns the generator for a configured scheme name.
func NewIDGenerator(scheme string) (IDGenerator, error) {
	switch scheme {
	case "typeid", "":
		return TypeIDGenerator{}, nil
	case "uuid":
		return UUIDGenerator{}, nil
	case "sequence":
		return NewSequenceGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q", scheme)
	}
}
