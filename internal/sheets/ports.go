// Package sheets defines the entry journal: an append-only log of entry
// events kept outside the ledger database.
package sheets

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"minhasfinancas/internal/core"
)

// Header is the first row of a journal sheet, in column order.
var Header = []string{"occurred_at", "event", "entry_id", "user_id", "year", "month", "description", "amount", "kind", "status"}

// JournalRow is one journaled entry event.
type JournalRow struct {
	OccurredAt  time.Time
	Event       core.EntryEventType
	EntryID     int64
	UserID      int64
	Year        int
	Month       int
	Description string
	Amount      decimal.Decimal
	Kind        core.EntryKind
	Status      core.EntryStatus
}

// RowFromEntry builds the row for ev using the entry's current fields.
func RowFromEntry(ev core.EntryEvent, e core.Entry) JournalRow {
	return JournalRow{
		OccurredAt:  ev.OccurredAt,
		Event:       ev.Type,
		EntryID:     e.ID,
		UserID:      e.UserID(),
		Year:        e.Year,
		Month:       e.Month,
		Description: e.Description,
		Amount:      e.Amount,
		Kind:        e.Kind,
		Status:      e.Status,
	}
}

// RowFromEvent builds the row from the event payload alone. Events that
// carry no amount journal it as zero.
func RowFromEvent(ev core.EntryEvent) JournalRow {
	amount, err := decimal.NewFromString(ev.Amount)
	if err != nil {
		amount = decimal.Zero
	}
	return JournalRow{
		OccurredAt:  ev.OccurredAt,
		Event:       ev.Type,
		EntryID:     ev.EntryID,
		UserID:      ev.UserID,
		Year:        ev.Year,
		Month:       ev.Month,
		Description: ev.Description,
		Amount:      amount,
		Kind:        ev.Kind,
		Status:      ev.Status,
	}
}

// Values renders the row in Header order. The amount uses two decimals.
func (r JournalRow) Values() []any {
	return []any{
		r.OccurredAt.UTC().Format(time.RFC3339),
		string(r.Event),
		strconv.FormatInt(r.EntryID, 10),
		strconv.FormatInt(r.UserID, 10),
		r.Year,
		r.Month,
		r.Description,
		r.Amount.StringFixed(2),
		string(r.Kind),
		string(r.Status),
	}
}

// Ports for outbound adapters.
type (
	JournalWriter interface {
		Append(ctx context.Context, row JournalRow) (rowRef string, err error)
	}
)
