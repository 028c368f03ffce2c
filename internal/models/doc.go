// Package models defines the core domain models for tabsplit.
//
// # Stored Models
//
// The ledger owns two collections:
//   - Participant: a friend who can pay for or owe part of an expense
//   - Expense: a single payment by one participant, shared among a split set
//
// # Derived Models
//
// These are never stored. They are recomputed from a ledger snapshot whenever
// they are needed:
//   - Balance: a participant's net position (positive = owed money)
//   - Settlement: a proposed direct payment that helps zero out balances
//
// # Design Principles
//
// 1. **IDs, not pointers**: expenses reference participants by ID string
// 2. **Exact money**: amounts are decimal.Decimal, never float64
// 3. **Ordered collections**: everything the ledger hands out keeps insertion order
package models
