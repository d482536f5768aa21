package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
	*Queries
	barrageTable string
}

func NewStore(pool *pgxpool.Pool, barrageTable string) *Store {
	return &Store{
		pool:         pool,
		Queries:      New(pool, barrageTable),
		barrageTable: barrageTable,
	}
}

func (s *Store) ExecTx(ctx context.Context, fn func(*Queries) error) error {
	return s.execTx(ctx, pgx.TxOptions{}, fn)
}

// ExecReadTx runs fn in a read-only repeatable-read transaction, so every
// query fn issues sees the same snapshot.
func (s *Store) ExecReadTx(ctx context.Context, fn func(*Queries) error) error {
	return s.execTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	}, fn)
}

func (s *Store) execTx(ctx context.Context, opts pgx.TxOptions, fn func(*Queries) error) error {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	q := New(tx, s.barrageTable)
	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) GetPool() *pgxpool.Pool {
	return s.pool
}
