package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Options selects the driver and connection string.
type Options struct {
	Driver string
	DSN    string
}

type implStore struct {
	db      *sql.DB
	dialect dialect
	closers []func() error
}

var _ Store = (*implStore)(nil)

// Open connects to the database described by opts and verifies the connection.
func Open(ctx context.Context, opts Options) (Store, error) {
	return open(ctx, opts)
}

func open(ctx context.Context, opts Options) (*implStore, error) {
	d, err := dialectFor(opts.Driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(d.driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if d.driver == "sqlite" {
		// Writers share one connection so concurrent inserts serialize instead of failing with SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &implStore{db: db, dialect: d}, nil
}

// Migrate creates the Audio and Dataset tables when missing.
func (s *implStore) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *implStore) Close() error {
	err := s.db.Close()
	for i := len(s.closers) - 1; i >= 0; i-- {
		if cerr := s.closers[i](); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
