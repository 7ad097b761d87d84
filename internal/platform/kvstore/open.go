package kvstore

import (
	"context"

	"github.com/Manubolla/Dummyshop/internal/platform/database"
)

// Open returns the store for a storage driver together with a close func.
func Open(ctx context.Context, driver, dsn string) (Store, func() error, error) {
	if driver == "memory" {
		return NewMemoryStore(), func() error { return nil }, nil
	}

	db, err := database.Connect(ctx, driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	store, err := NewSQLStore(ctx, db, driver, DefaultTable)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, db.Close, nil
}
