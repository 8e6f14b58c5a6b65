// Package postgres provides a kv.Store kept in four PostgreSQL tables, one
// per value type, for deployments that already run Postgres instead of
// Redis. Batch runs inside a transaction, so the transactional write mode of
// the timeline store is fully atomic here.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/dbx"
	"github.com/dmitrijs2005/microblog/internal/kv"
	"github.com/dmitrijs2005/microblog/internal/kv/postgres/migrations"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

var _ kv.Store = (*Store)(nil)

type Store struct {
	db *sql.DB
	queries
}

// Open connects with the pgx driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	db.SetMaxOpenConns(50)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, mapError("ping", err)
	}
	return New(db), nil
}

func New(db *sql.DB) *Store {
	return &Store{db: db, queries: queries{db: db}}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations creates the key-value tables with the embedded goose
// migrations.
func (s *Store) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, s.db, ".")
}

func (s *Store) ZInterStore(ctx context.Context, dest string, keys ...string) (int64, error) {
	var n int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		n, err = queries{db: tx}.zinterstore(ctx, dest, keys)
		return err
	})
	return n, mapError("zinterstore", err)
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return queries{db: tx}.Del(ctx, keys...)
	})
	return mapError("del", err)
}

// Batch runs fn's writes in one transaction.
func (s *Store) Batch(ctx context.Context, fn func(w kv.Writer) error) error {
	var fnErr error
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		fnErr = fn(queries{db: tx})
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	return mapError("batch", err)
}

func (s *Store) Ping(ctx context.Context) error {
	return mapError("ping", s.db.PingContext(ctx))
}

func (s *Store) Close() error {
	return s.db.Close()
}

// mapError keeps server-side errors (*pgconn.PgError) as plain errors and
// classifies every other failure as ErrBackendUnavailable. Errors that were
// already classified pass through.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, common.ErrorNotFound):
		return common.ErrorNotFound
	case errors.Is(err, common.ErrBackendUnavailable):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("postgres %s: %w", op, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("postgres %s: %w", op, err)
	}
	return fmt.Errorf("postgres %s: %w: %v", op, common.ErrBackendUnavailable, err)
}
