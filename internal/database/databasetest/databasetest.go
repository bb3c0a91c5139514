// Package databasetest provides in-memory stand-ins for the pgx pool
// and transaction used by database.Database.
package databasetest

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/matt-dz/foodgram/internal/database"
)

// Tx records whether it was committed or rolled back. Methods other
// than Commit and Rollback panic.
type Tx struct {
	pgx.Tx

	mu         sync.Mutex
	Committed  bool
	RolledBack bool
	CommitErr  error
}

func (t *Tx) Commit(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.CommitErr != nil {
		return t.CommitErr
	}
	t.Committed = true
	return nil
}

func (t *Tx) Rollback(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Committed {
		return pgx.ErrTxClosed
	}
	t.RolledBack = true
	return nil
}

// Pool hands out Tx values and remembers every one it began.
type Pool struct {
	mu       sync.Mutex
	BeginErr error
	Txs      []*Tx
	Execs    []string
}

func (p *Pool) Begin(context.Context) (pgx.Tx, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.BeginErr != nil {
		return nil, p.BeginErr
	}
	tx := &Tx{}
	p.Txs = append(p.Txs, tx)
	return tx, nil
}

func (p *Pool) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Execs = append(p.Execs, sql)
	return pgconn.NewCommandTag(""), nil
}

// LastTx returns the most recently started transaction, or nil.
func (p *Pool) LastTx() *Tx {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Txs) == 0 {
		return nil
	}
	return p.Txs[len(p.Txs)-1]
}

// New returns a Database whose queries, in and out of transactions,
// go to q.
func New(q database.Querier) (*database.Database, *Pool) {
	pool := &Pool{}
	return &database.Database{
		Querier: q,
		Pool:    pool,
		BindTx:  func(pgx.Tx) database.Querier { return q },
	}, pool
}
