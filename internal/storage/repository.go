package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"minhasfinancas/internal/core"
	"minhasfinancas/internal/ports"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Repository is the SQL-backed EntryStore; Users exposes the UserDirectory
// over the same connection. The same code serves SQLite and PostgreSQL.
type Repository struct {
	db      *sql.DB
	dialect dialect
}

var (
	_ ports.EntryStore    = (*Repository)(nil)
	_ ports.UserDirectory = (*UserRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return open(sqliteDialect, dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
}

func NewPostgresRepository(dsn string) (*Repository, error) {
	return open(postgresDialect, dsn)
}

func open(d dialect, dsn string) (*Repository, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d.driver, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(d, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, dialect: d}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// inTx runs fn inside a transaction, committing only when fn succeeds.
func (r *Repository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// amountScanner reads an amount column or aggregate: integer cents from
// SQLite, numeric text from PostgreSQL, NULL for an empty SUM.
type amountScanner struct {
	value decimal.NullDecimal
}

func (a *amountScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		a.value = decimal.NullDecimal{}
	case int64:
		a.value = decimal.NewNullDecimal(core.FromCents(v))
	case float64:
		a.value = decimal.NewNullDecimal(core.RoundToCents(decimal.NewFromFloat(v)))
	case []byte:
		return a.parse(string(v))
	case string:
		return a.parse(v)
	default:
		return fmt.Errorf("scan amount: unsupported type %T", src)
	}
	return nil
}

func (a *amountScanner) parse(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("scan amount %q: %w", s, err)
	}
	a.value = decimal.NewNullDecimal(d)
	return nil
}
