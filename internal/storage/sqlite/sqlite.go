// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/tabsplit/internal/models"
	"github.com/mmynk/tabsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Pragmas are per connection; keep a single one so they stick.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSnapshot replaces every stored row with the contents of snap.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Children first because of foreign keys
	for _, table := range []string{"expense_splits", "expenses", "participants"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, p := range snap.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO participants (id, position, name, email) VALUES (?, ?, ?, ?)",
			p.ID, i, p.Name, p.Email,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i, e := range snap.Expenses {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO expenses (id, position, description, amount, paid_by, date, category)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, i, e.Description, e.Amount.String(), e.PaidBy, e.Date.Format(time.RFC3339Nano), e.Category,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for j, pid := range e.SplitBetween {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO expense_splits (expense_id, participant_id, position) VALUES (?, ?, ?)",
				e.ID, pid, j,
			)
			if err != nil {
				return fmt.Errorf("failed to insert expense split: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LoadSnapshot reads the stored ledger state in insertion order.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (models.Snapshot, error) {
	snap := models.Snapshot{
		Participants: []models.Participant{},
		Expenses:     []models.Expense{},
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email FROM participants ORDER BY position",
	)
	if err != nil {
		return snap, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Email); err != nil {
			return snap, fmt.Errorf("failed to scan participant: %w", err)
		}
		snap.Participants = append(snap.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("failed to iterate participants: %w", err)
	}

	splits, err := s.loadSplits(ctx)
	if err != nil {
		return snap, err
	}

	expenseRows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount, paid_by, date, category FROM expenses ORDER BY position",
	)
	if err != nil {
		return snap, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer expenseRows.Close()

	for expenseRows.Next() {
		var (
			e      models.Expense
			amount string
			date   string
		)
		if err := expenseRows.Scan(&e.ID, &e.Description, &amount, &e.PaidBy, &date, &e.Category); err != nil {
			return snap, fmt.Errorf("failed to scan expense: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return snap, fmt.Errorf("failed to parse amount of expense %s: %w", e.ID, err)
		}
		if e.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return snap, fmt.Errorf("failed to parse date of expense %s: %w", e.ID, err)
		}
		e.SplitBetween = splits[e.ID]
		if e.SplitBetween == nil {
			e.SplitBetween = []string{}
		}
		snap.Expenses = append(snap.Expenses, e)
	}
	if err := expenseRows.Err(); err != nil {
		return snap, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return snap, nil
}

// loadSplits returns the ordered split set of every expense, keyed by expense ID.
func (s *SQLiteStore) loadSplits(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, participant_id FROM expense_splits ORDER BY expense_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	splits := make(map[string][]string)
	for rows.Next() {
		var expenseID, participantID string
		if err := rows.Scan(&expenseID, &participantID); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		splits[expenseID] = append(splits[expenseID], participantID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}
	return splits, nil
}
