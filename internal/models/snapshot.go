package models

// Snapshot is the complete state of a ledger, in insertion order.
// It is the unit of persistence and of bulk loading.
type Snapshot struct {
	Participants []Participant `json:"participants"`
	Expenses     []Expense     `json:"expenses"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Participants: make([]Participant, len(s.Participants)),
		Expenses:     make([]Expense, len(s.Expenses)),
	}
	copy(out.Participants, s.Participants)
	for i, e := range s.Expenses {
		out.Expenses[i] = e.Clone()
	}
	return out
}
