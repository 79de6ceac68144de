package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"minhasfinancas/internal/core"
	applog "minhasfinancas/internal/log"
	"minhasfinancas/internal/ports"
)

func (r *Repository) selectEntries() string {
	return fmt.Sprintf(`SELECT e.id, e.description, e.month, e.year, e.%s, %s, e.kind, e.status,
		u.id, u.name, u.email
	FROM %s e JOIN %s u ON u.id = e.user_id`,
		r.dialect.amountCol, r.dialect.dateExpr, r.dialect.entries, r.dialect.users)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.Entry, error) {
	var (
		e          core.Entry
		u          core.User
		amount     amountScanner
		registered string
		kind       string
		status     string
	)
	if err := row.Scan(&e.ID, &e.Description, &e.Month, &e.Year, &amount, &registered, &kind, &status,
		&u.ID, &u.Name, &u.Email); err != nil {
		return core.Entry{}, err
	}

	date, err := core.ParseDate(registered)
	if err != nil {
		return core.Entry{}, fmt.Errorf("entry %d: parse registered_on %q: %w", e.ID, registered, err)
	}
	e.Amount = amount.value.Decimal
	e.RegisteredOn = date
	e.Kind = core.EntryKind(kind)
	e.Status = core.EntryStatus(status)
	e.User = &u
	return e, nil
}

// Save inserts the entry when its ID is zero and updates the stored row
// otherwise. Amounts are kept to cents.
func (r *Repository) Save(ctx context.Context, e core.Entry) (core.Entry, error) {
	if e.RegisteredOn.IsEmpty() {
		e.RegisteredOn = core.Today()
	}
	e.Amount = core.RoundToCents(e.Amount)
	d := r.dialect
	amount, err := d.amountValue(e.Amount)
	if err != nil {
		return core.Entry{}, fmt.Errorf("store entry: %w", err)
	}

	err = r.inTx(ctx, func(tx *sql.Tx) error {
		if e.ID == 0 {
			query := fmt.Sprintf(`INSERT INTO %s (description, month, year, %s, user_id, registered_on, kind, status)
				VALUES (%s, %s, %s, %s, %s, %s, %s, %s) RETURNING id`,
				d.entries, d.amountCol,
				d.placeholder(1), d.placeholder(2), d.placeholder(3), d.placeholder(4),
				d.placeholder(5), d.placeholder(6), d.placeholder(7), d.placeholder(8))
			return tx.QueryRowContext(ctx, query,
				e.Description, e.Month, e.Year, amount, e.UserID(),
				e.RegisteredOn.String(), string(e.Kind), string(e.Status),
			).Scan(&e.ID)
		}

		query := fmt.Sprintf(`UPDATE %s SET description = %s, month = %s, year = %s, %s = %s,
				user_id = %s, registered_on = %s, kind = %s, status = %s
			WHERE id = %s`,
			d.entries,
			d.placeholder(1), d.placeholder(2), d.placeholder(3), d.amountCol, d.placeholder(4),
			d.placeholder(5), d.placeholder(6), d.placeholder(7), d.placeholder(8), d.placeholder(9))
		res, err := tx.ExecContext(ctx, query,
			e.Description, e.Month, e.Year, amount, e.UserID(),
			e.RegisteredOn.String(), string(e.Kind), string(e.Status), e.ID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
	if err != nil {
		return core.Entry{}, fmt.Errorf("store entry: %w", err)
	}

	slog.DebugContext(ctx, "Entry stored",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldEntryID, e.ID,
		"backend", d.driver)
	return e, nil
}

func (r *Repository) Delete(ctx context.Context, e core.Entry) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = %s`, r.dialect.entries, r.dialect.placeholder(1))
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, e.ID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", e.ID, err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (core.Entry, bool, error) {
	query := r.selectEntries() + ` WHERE e.id = ` + r.dialect.placeholder(1)
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, false, nil
	}
	if err != nil {
		return core.Entry{}, false, fmt.Errorf("get entry by id: %w", err)
	}
	return e, true, nil
}

// FindMatching returns the entries accepted by the filter ordered by ID.
func (r *Repository) FindMatching(ctx context.Context, f core.EntryFilter) ([]core.Entry, error) {
	where, args := r.dialect.whereClause(f)
	rows, err := r.db.QueryContext(ctx, r.selectEntries()+where+` ORDER BY e.id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []core.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func (r *Repository) SumAmountByKindAndUser(ctx context.Context, userID int64, kind core.EntryKind) (decimal.NullDecimal, error) {
	d := r.dialect
	query := fmt.Sprintf(`SELECT SUM(%s) FROM %s WHERE user_id = %s AND kind = %s`,
		d.amountCol, d.entries, d.placeholder(1), d.placeholder(2))

	var sum amountScanner
	if err := r.db.QueryRowContext(ctx, query, userID, string(kind)).Scan(&sum); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("sum %s amounts for user %d: %w", kind, userID, err)
	}
	return sum.value, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}
