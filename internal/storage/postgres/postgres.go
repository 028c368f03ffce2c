// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using a pgx connection pool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tabsplit/internal/models"
	"github.com/mmynk/tabsplit/internal/storage"
)

var _ storage.Store = (*PostgresStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    email TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    description TEXT NOT NULL,
    amount NUMERIC NOT NULL,
    paid_by TEXT NOT NULL REFERENCES participants(id),
    date TIMESTAMPTZ NOT NULL,
    category TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS expense_splits (
    expense_id TEXT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
    participant_id TEXT NOT NULL REFERENCES participants(id),
    position INTEGER NOT NULL,
    PRIMARY KEY (expense_id, participant_id)
);

CREATE INDEX IF NOT EXISTS idx_expense_splits_expense_id ON expense_splits(expense_id);`

// PostgresStore implements storage.Store using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New connects to the database at connString and creates the schema.
func New(ctx context.Context, connString string) (*PostgresStore, error) {
	conf, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	conf.HealthCheckPeriod = 15 * time.Second
	conf.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes every connection in the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// SaveSnapshot replaces every stored row with the contents of snap.
func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE expense_splits, expenses, participants"); err != nil {
		return fmt.Errorf("failed to clear tables: %w", err)
	}

	batch := &pgx.Batch{}
	for i, p := range snap.Participants {
		batch.Queue(
			"INSERT INTO participants (id, position, name, email) VALUES ($1, $2, $3, $4)",
			p.ID, i, p.Name, p.Email,
		)
	}
	for i, e := range snap.Expenses {
		batch.Queue(
			`INSERT INTO expenses (id, position, description, amount, paid_by, date, category)
			 VALUES ($1, $2, $3, $4::text::numeric, $5, $6, $7)`,
			e.ID, i, e.Description, e.Amount.String(), e.PaidBy, e.Date, e.Category,
		)
		for j, pid := range e.SplitBetween {
			batch.Queue(
				"INSERT INTO expense_splits (expense_id, participant_id, position) VALUES ($1, $2, $3)",
				e.ID, pid, j,
			)
		}
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadSnapshot reads the stored ledger state in insertion order.
func (s *PostgresStore) LoadSnapshot(ctx context.Context) (models.Snapshot, error) {
	snap := models.Snapshot{
		Participants: []models.Participant{},
		Expenses:     []models.Expense{},
	}

	rows, err := s.pool.Query(ctx, "SELECT id, name, email FROM participants ORDER BY position")
	if err != nil {
		return snap, fmt.Errorf("failed to get participants: %w", err)
	}
	participants, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Participant, error) {
		var p models.Participant
		err := row.Scan(&p.ID, &p.Name, &p.Email)
		return p, err
	})
	if err != nil {
		return snap, fmt.Errorf("failed to scan participants: %w", err)
	}
	snap.Participants = participants

	splitRows, err := s.pool.Query(ctx,
		"SELECT expense_id, participant_id FROM expense_splits ORDER BY expense_id, position")
	if err != nil {
		return snap, fmt.Errorf("failed to get expense splits: %w", err)
	}
	splits := make(map[string][]string)
	var expenseID, participantID string
	_, err = pgx.ForEachRow(splitRows, []any{&expenseID, &participantID}, func() error {
		splits[expenseID] = append(splits[expenseID], participantID)
		return nil
	})
	if err != nil {
		return snap, fmt.Errorf("failed to scan expense splits: %w", err)
	}

	expenseRows, err := s.pool.Query(ctx,
		`SELECT id, description, amount::text, paid_by, date, category
		 FROM expenses ORDER BY position`)
	if err != nil {
		return snap, fmt.Errorf("failed to get expenses: %w", err)
	}
	expenses, err := pgx.CollectRows(expenseRows, func(row pgx.CollectableRow) (models.Expense, error) {
		var (
			e      models.Expense
			amount string
		)
		if err := row.Scan(&e.ID, &e.Description, &amount, &e.PaidBy, &e.Date, &e.Category); err != nil {
			return e, err
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return e, fmt.Errorf("failed to parse amount of expense %s: %w", e.ID, err)
		}
		e.Amount = d
		e.SplitBetween = splits[e.ID]
		if e.SplitBetween == nil {
			e.SplitBetween = []string{}
		}
		return e, nil
	})
	if err != nil {
		return snap, fmt.Errorf("failed to scan expenses: %w", err)
	}
	snap.Expenses = expenses

	return snap, nil
}
