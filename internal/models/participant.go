package models

// Participant is a person tracked by the ledger.
type Participant struct {
	// ID is the unique, stable identifier assigned by the ledger's ID generator.
	ID string `json:"id"`

	// Name is the display name (e.g., "Ashish").
	Name string `json:"name"`

	// Email is the participant's contact address.
	// It is not required to be unique.
	Email string `json:"email"`
}
