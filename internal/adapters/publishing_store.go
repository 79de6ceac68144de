package adapters

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"minhasfinancas/internal/core"
	"minhasfinancas/internal/ports"
)

// PublishingEntryStore wraps an EntryStore and publishes an event after every
// successful write. Publishing is best effort: the write has already been
// committed, so a publish failure is logged and the write still succeeds.
type PublishingEntryStore struct {
	store     ports.EntryStore
	publisher ports.EventPublisher
}

var _ ports.EntryStore = (*PublishingEntryStore)(nil)

// NewPublishingEntryStore returns store itself when publisher is nil.
func NewPublishingEntryStore(store ports.EntryStore, publisher ports.EventPublisher) ports.EntryStore {
	if publisher == nil {
		return store
	}
	return &PublishingEntryStore{store: store, publisher: publisher}
}

func (s *PublishingEntryStore) Save(ctx context.Context, e core.Entry) (core.Entry, error) {
	eventType := core.EntryUpdated
	if e.ID == 0 {
		eventType = core.EntryCreated
	}

	saved, err := s.store.Save(ctx, e)
	if err != nil {
		return core.Entry{}, err
	}

	s.publish(ctx, core.NewEntryEvent(eventType, saved))
	return saved, nil
}

// Delete loads the entry first so the deleted event can carry its fields.
func (s *PublishingEntryStore) Delete(ctx context.Context, e core.Entry) error {
	snapshot := e
	if stored, ok, err := s.store.FindByID(ctx, e.ID); err == nil && ok {
		snapshot = stored
	}

	if err := s.store.Delete(ctx, e); err != nil {
		return err
	}

	s.publish(ctx, core.NewEntryEvent(core.EntryDeleted, snapshot))
	return nil
}

func (s *PublishingEntryStore) FindByID(ctx context.Context, id int64) (core.Entry, bool, error) {
	return s.store.FindByID(ctx, id)
}

func (s *PublishingEntryStore) FindMatching(ctx context.Context, f core.EntryFilter) ([]core.Entry, error) {
	return s.store.FindMatching(ctx, f)
}

func (s *PublishingEntryStore) SumAmountByKindAndUser(ctx context.Context, userID int64, kind core.EntryKind) (decimal.NullDecimal, error) {
	return s.store.SumAmountByKindAndUser(ctx, userID, kind)
}

func (s *PublishingEntryStore) publish(ctx context.Context, ev core.EntryEvent) {
	if err := s.publisher.PublishEntryEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry event",
			"event_id", ev.ID,
			"type", ev.Type,
			"entry_id", ev.EntryID,
			"error", err)
	}
}
