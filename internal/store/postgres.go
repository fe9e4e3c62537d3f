package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgreSQL error codes the store translates.
const (
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
	pgForeignKeyViolation  = "23503"
	pgLockNotAvailable     = "55P03"
	pgDeadlockDetected     = "40P01"
	pgSerializationFailure = "40001"
	pgRaiseException       = "P0001"
)

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps the ledger in PostgreSQL. LockAccount takes a row
// lock (SELECT ... FOR NO KEY UPDATE), so units of work touching disjoint accounts
// run in parallel.
type PostgresStore struct {
	db          pgQuerier
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

var (
	_ Store      = (*PostgresStore)(nil)
	_ UnitOfWork = (*PostgresStore)(nil)
)

func NewPostgresStore(ctx context.Context, dsn string, maxConns int32, migrationsFS fs.FS, lockTimeout time.Duration) (*PostgresStore, error) {
	if err := runPostgresMigrations(dsn, migrationsFS); err != nil {
		return nil, fmt.Errorf("failed to migrate database : %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("can not open database : %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("can not connect with database : %w", err)
	}

	return &PostgresStore{db: pool, pool: pool, lockTimeout: lockTimeout}, nil
}

func (s *PostgresStore) ExecTx(ctx context.Context, fn func(UnitOfWork) error) (err error) {
	if _, ok := s.db.(pgx.Tx); ok {
		return fmt.Errorf("store is already in a transaction")
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", mapPostgresErr(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	// SET does not take bind parameters.
	timeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
	if _, err := tx.Exec(ctx, timeout); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to set lock timeout: %w", err)
	}

	if err := fn(&PostgresStore{db: tx, pool: s.pool, lockTimeout: s.lockTimeout}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %w, rb err: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", mapPostgresErr(err))
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if _, ok := s.db.(pgx.Tx); !ok {
		s.pool.Close()
	}
	return nil
}

func runPostgresMigrations(dsn string, migrationsFS fs.FS) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("can not open database : %w", err)
	}
	defer db.Close()

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("failed to set up migrate driver : %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "postgres")
	if err != nil {
		return fmt.Errorf("failed to create iofs source driver : %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("failed to set up migrate instance : %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migration(up) : %w", err)
	}
	return nil
}

func mapPostgresErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgLockNotAvailable, pgDeadlockDetected, pgSerializationFailure:
		return fmt.Errorf("%w: %v", ErrBusy, err)
	case pgUniqueViolation:
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case pgCheckViolation, pgForeignKeyViolation, pgRaiseException:
		return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
	default:
		return err
	}
}
