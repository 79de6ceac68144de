package worker

import (
	"context"
	"fmt"
	"log/slog"

	"minhasfinancas/internal/core"
	applog "minhasfinancas/internal/log"
	"minhasfinancas/internal/ports"
	"minhasfinancas/internal/sheets"
)

// EventSource delivers entry events to a handler until ctx is done. Both
// the AMQP client and the Kafka consumer implement it.
type EventSource interface {
	ConsumeEntryEvents(ctx context.Context, handler func(context.Context, core.EntryEvent) error) error
}

// JournalWorker appends a journal row for every entry event it receives.
type JournalWorker struct {
	entries ports.EntryStore
	journal sheets.JournalWriter
}

func NewJournalWorker(entries ports.EntryStore, journal sheets.JournalWriter) *JournalWorker {
	return &JournalWorker{entries: entries, journal: journal}
}

// Run consumes src until ctx is cancelled or the source fails.
func (w *JournalWorker) Run(ctx context.Context, src EventSource) error {
	err := src.ConsumeEntryEvents(ctx, w.HandleEntryEvent)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("consume entry events: %w", err)
	}
	return nil
}

// HandleEntryEvent journals ev. Created and updated events are journaled
// with the entry as currently stored; an entry that no longer exists, and
// every deleted event, is journaled from the event payload.
func (w *JournalWorker) HandleEntryEvent(ctx context.Context, ev core.EntryEvent) error {
	slog.InfoContext(ctx, "Processing entry event",
		applog.FieldComponent, applog.ComponentJournal,
		applog.FieldEventID, ev.ID,
		"type", ev.Type,
		applog.FieldEntryID, ev.EntryID)

	row, err := w.rowFor(ctx, ev)
	if err != nil {
		return err
	}

	ref, err := w.journal.Append(ctx, row)
	if err != nil {
		return fmt.Errorf("append journal row: %w", err)
	}

	slog.InfoContext(ctx, "Journaled entry event",
		applog.FieldComponent, applog.ComponentJournal,
		applog.FieldEventID, ev.ID,
		applog.FieldEntryID, ev.EntryID,
		"journal_ref", ref)
	return nil
}

func (w *JournalWorker) rowFor(ctx context.Context, ev core.EntryEvent) (sheets.JournalRow, error) {
	if ev.Type == core.EntryDeleted {
		return sheets.RowFromEvent(ev), nil
	}

	e, ok, err := w.entries.FindByID(ctx, ev.EntryID)
	if err != nil {
		return sheets.JournalRow{}, fmt.Errorf("load entry %d: %w", ev.EntryID, err)
	}
	if !ok {
		slog.WarnContext(ctx, "Entry no longer stored, journaling event payload",
			applog.FieldComponent, applog.ComponentJournal,
			applog.FieldEventID, ev.ID,
			applog.FieldEntryID, ev.EntryID)
		return sheets.RowFromEvent(ev), nil
	}
	return sheets.RowFromEntry(ev, e), nil
}
