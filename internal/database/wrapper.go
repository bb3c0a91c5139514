// Package database
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matt-dz/foodgram/internal/sql"
)

type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Database struct {
	Querier

	Pool Pool

	// BindTx returns a Querier running on tx. Defaults to New(tx).
	BindTx func(tx pgx.Tx) Querier
}

func NewDatabase(pool *pgxpool.Pool) *Database {
	return &Database{
		Querier: New(pool),
		Pool:    pool,
	}
}

// WithTx runs fn inside a single transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
func (db *Database) WithTx(ctx context.Context, fn func(q Querier) error) error {
	if db.Pool == nil {
		return errors.New("database pool not configured")
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	bind := db.BindTx
	if bind == nil {
		bind = func(tx pgx.Tx) Querier { return New(tx) }
	}

	if err := fn(bind(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// EnsureSchema ensures the database schema is applied to the
// Postgres database. The schema is applied to the database
// if the schema is not detected.
func EnsureSchema(ctx context.Context, db *Database) error {
	exists, err := db.CheckUsersTableExists(ctx)
	if err != nil {
		return fmt.Errorf("ensuring schema exists: %w", err)
	}

	if exists {
		return nil
	}

	if _, err := db.Pool.Exec(ctx, sql.Schema()); err != nil {
		return fmt.Errorf("applying database schema: %w", err)
	}

	return nil
}
