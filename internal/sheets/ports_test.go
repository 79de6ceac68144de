package sheets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"minhasfinancas/internal/core"
)

func TestJournalRowValues(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	row := JournalRow{
		OccurredAt:  at,
		Event:       core.EntryCreated,
		EntryID:     12,
		UserID:      3,
		Year:        2024,
		Month:       3,
		Description: "Mercado",
		Amount:      decimal.RequireFromString("75.4"),
		Kind:        core.Debit,
		Status:      core.Pending,
	}

	got := row.Values()
	want := []any{"2024-03-01T12:30:00Z", "entry.created", "12", "3", 2024, 3, "Mercado", "75.40", "DEBIT", "PENDING"}
	if len(got) != len(Header) {
		t.Fatalf("values should line up with the header, got %d columns", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %s: got %v want %v", Header[i], got[i], want[i])
		}
	}
}

func TestRowFromEvent(t *testing.T) {
	e := core.Entry{
		ID:          4,
		Description: "Aluguel",
		Month:       1,
		Year:        2023,
		Amount:      decimal.NewFromInt(800),
		User:        &core.User{ID: 9},
		Kind:        core.Debit,
		Status:      core.Settled,
	}
	ev := core.NewEntryEvent(core.EntryDeleted, e)

	row := RowFromEvent(ev)
	if row.EntryID != 4 || row.UserID != 9 || row.Description != "Aluguel" || !row.Amount.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("unexpected row %+v", row)
	}

	bare := RowFromEvent(core.EntryEvent{Type: core.EntryUpdated, EntryID: 1})
	if !bare.Amount.IsZero() {
		t.Fatalf("missing amount should journal as zero, got %s", bare.Amount)
	}
}
