package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const DefaultTable = "storefront_state"

// SQLStore keeps one row per key in a bucket/payload table.
type SQLStore struct {
	db        *sql.DB
	selectSQL string
	upsertSQL string
}

// NewSQLStore creates the table when missing. driver picks the placeholder
// style: "sqlite" uses ?, "pgx" and "postgres" use $n.
func NewSQLStore(ctx context.Context, db *sql.DB, driver, table string) (*SQLStore, error) {
	if table == "" {
		table = DefaultTable
	}
	ident := pq.QuoteIdentifier(table)

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		bucket TEXT PRIMARY KEY,
		payload TEXT NOT NULL
	)`, ident)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}

	p1, p2 := "?", "?"
	if driver == "pgx" || driver == "postgres" {
		p1, p2 = "$1", "$2"
	}

	return &SQLStore{
		db:        db,
		selectSQL: fmt.Sprintf(`SELECT payload FROM %s WHERE bucket = %s`, ident, p1),
		upsertSQL: fmt.Sprintf(`INSERT INTO %s (bucket, payload) VALUES (%s, %s)
			ON CONFLICT (bucket) DO UPDATE SET payload = excluded.payload`, ident, p1, p2),
	}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, s.selectSQL, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return []byte(payload), nil
}

func (s *SQLStore) Put(ctx context.Context, key string, payload []byte) error {
	if _, err := s.db.ExecContext(ctx, s.upsertSQL, key, string(payload)); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}
