package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const slotMigration = `
CREATE TABLE IF NOT EXISTS session_slot (
    slot smallint PRIMARY KEY DEFAULT 1 CHECK (slot = 1),
    data jsonb NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT NOW()
);
`

// PostgresStore keeps the session slot in a single-row table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(ctx context.Context, db *sql.DB) (*PostgresStore, error) {
	if _, err := db.ExecContext(ctx, slotMigration); err != nil {
		return nil, fmt.Errorf("session: slot migration failed: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Save(ctx context.Context, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO session_slot (slot, data)
		VALUES (1, $1)
		ON CONFLICT (slot)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, data)

	return err
}

func (p *PostgresStore) Load(ctx context.Context) (*Session, error) {
	var data []byte

	err := p.db.QueryRowContext(ctx, `
		SELECT data FROM session_slot WHERE slot = 1
	`).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, nil
	}

	return &s, nil
}

func (p *PostgresStore) Clear(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM session_slot WHERE slot = 1`)
	return err
}
