package services

import (
	"context"
	"fmt"
	"log/slog"

	"minhasfinancas/internal/core"
	applog "minhasfinancas/internal/log"
	"minhasfinancas/internal/ports"
)

// LedgerService applies the entry business rules on top of an EntryStore.
type LedgerService struct {
	store ports.EntryStore
}

func NewLedgerService(store ports.EntryStore) *LedgerService {
	return &LedgerService{store: store}
}

// Save validates a new entry, resets its status to PENDING and stores it.
// The amount is rounded to cents before validation. The store is not
// touched when validation fails.
func (s *LedgerService) Save(ctx context.Context, e core.Entry) (core.Entry, error) {
	e.Amount = core.RoundToCents(e.Amount)
	if err := core.ValidateEntry(e); err != nil {
		return core.Entry{}, err
	}
	e.Status = core.Pending
	if e.RegisteredOn.IsEmpty() {
		e.RegisteredOn = core.Today()
	}

	saved, err := s.store.Save(ctx, e)
	if err != nil {
		return core.Entry{}, fmt.Errorf("save entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved",
		applog.FieldComponent, applog.ComponentLedger,
		applog.FieldEntryID, saved.ID,
		applog.FieldUserID, saved.UserID(),
		applog.FieldKind, saved.Kind,
		applog.FieldAmount, saved.Amount.String())
	return saved, nil
}

// Update re-validates a stored entry and persists it as-is.
func (s *LedgerService) Update(ctx context.Context, e core.Entry) (core.Entry, error) {
	if e.ID == 0 {
		return core.Entry{}, fmt.Errorf("update entry: %w", core.ErrMissingID)
	}
	e.Amount = core.RoundToCents(e.Amount)
	if err := core.ValidateEntry(e); err != nil {
		return core.Entry{}, err
	}

	saved, err := s.store.Save(ctx, e)
	if err != nil {
		return core.Entry{}, fmt.Errorf("update entry %d: %w", e.ID, err)
	}

	slog.InfoContext(ctx, "Entry updated",
		applog.FieldComponent, applog.ComponentLedger,
		applog.FieldEntryID, saved.ID,
		"status", saved.Status)
	return saved, nil
}

// Delete removes a stored entry. No validation is run.
func (s *LedgerService) Delete(ctx context.Context, e core.Entry) error {
	if e.ID == 0 {
		return fmt.Errorf("delete entry: %w", core.ErrMissingID)
	}
	if err := s.store.Delete(ctx, e); err != nil {
		return fmt.Errorf("delete entry %d: %w", e.ID, err)
	}

	slog.InfoContext(ctx, "Entry deleted",
		applog.FieldComponent, applog.ComponentLedger,
		applog.FieldEntryID, e.ID)
	return nil
}

// Search returns the entries accepted by the filter, in store order.
func (s *LedgerService) Search(ctx context.Context, f core.EntryFilter) ([]core.Entry, error) {
	entries, err := s.store.FindMatching(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	return entries, nil
}

// TransitionStatus sets the status on e and updates it, so the whole Update
// contract applies. e keeps the new status even if the update fails.
func (s *LedgerService) TransitionStatus(ctx context.Context, e *core.Entry, status core.EntryStatus) (core.Entry, error) {
	e.Status = status
	return s.Update(ctx, *e)
}

// FindByID reports a missing entry with ok=false rather than an error.
func (s *LedgerService) FindByID(ctx context.Context, id int64) (core.Entry, bool, error) {
	e, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		return core.Entry{}, false, fmt.Errorf("find entry %d: %w", id, err)
	}
	return e, ok, nil
}
