package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"minhasfinancas/internal/core"
)

func salary() core.Entry {
	return core.Entry{
		Description: "Salário",
		Month:       1,
		Year:        2020,
		Amount:      decimal.NewFromInt(1000),
		Kind:        core.Credit,
		User:        &core.User{ID: 1},
	}
}

func TestLedgerService_Save(t *testing.T) {
	store := newFakeEntryStore()
	svc := NewLedgerService(store)

	saved, err := svc.Save(context.Background(), salary())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == 0 {
		t.Fatalf("expected store-assigned id")
	}
	if saved.Status != core.Pending {
		t.Fatalf("expected PENDING, got %s", saved.Status)
	}
	if saved.RegisteredOn.IsEmpty() {
		t.Fatalf("expected registration date to default to today")
	}
}

func TestLedgerService_SaveForcesPending(t *testing.T) {
	for _, status := range []core.EntryStatus{core.Settled, core.Cancelled, core.Pending} {
		t.Run(string(status), func(t *testing.T) {
			store := newFakeEntryStore()
			e := salary()
			e.Status = status

			saved, err := NewLedgerService(store).Save(context.Background(), e)
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if saved.Status != core.Pending || store.saved[0].Status != core.Pending {
				t.Fatalf("status should be forced to PENDING, got %s", saved.Status)
			}
		})
	}
}

func TestLedgerService_SaveKeepsRegistrationDate(t *testing.T) {
	store := newFakeEntryStore()
	e := salary()
	e.RegisteredOn = core.NewDate(2019, 12, 31)

	saved, err := NewLedgerService(store).Save(context.Background(), e)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !saved.RegisteredOn.Equal(core.NewDate(2019, 12, 31)) {
		t.Fatalf("caller supplied date should be kept, got %v", saved.RegisteredOn)
	}
}

func TestLedgerService_SaveValidationErrorSkipsStore(t *testing.T) {
	store := newFakeEntryStore()
	e := salary()
	e.Description = ""

	_, err := NewLedgerService(store).Save(context.Background(), e)
	if !errors.Is(err, core.ErrInvalidDescription) {
		t.Fatalf("expected description error, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("store must not be touched on validation failure")
	}
}

func TestLedgerService_SaveJudgesStoredAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   string
		err    error
	}{
		{"0.001", "", core.ErrInvalidAmount},
		{"1e20", "", core.ErrInvalidAmount},
		{"0.005", "0.01", nil},
		{"10.999", "11", nil},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			store := newFakeEntryStore()
			e := salary()
			e.Amount = decimal.RequireFromString(tt.amount)

			saved, err := NewLedgerService(store).Save(context.Background(), e)
			if tt.err != nil {
				if !errors.Is(err, tt.err) || len(store.saved) != 0 {
					t.Fatalf("expected %v without a store write, got %v (%d writes)", tt.err, err, len(store.saved))
				}
				return
			}
			if err != nil {
				t.Fatalf("save: %v", err)
			}
			if !store.saved[0].Amount.Equal(decimal.RequireFromString(tt.want)) || !saved.Amount.Equal(store.saved[0].Amount) {
				t.Fatalf("stored %s, returned %s, want %s", store.saved[0].Amount, saved.Amount, tt.want)
			}
		})
	}
}

func TestLedgerService_UpdateJudgesStoredAmount(t *testing.T) {
	store := newFakeEntryStore()
	e := salary()
	e.ID = 3
	e.Amount = decimal.RequireFromString("0.004")

	if _, err := NewLedgerService(store).Update(context.Background(), e); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected amount error, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("store must not be touched on validation failure")
	}
}

func TestLedgerService_SaveStoreError(t *testing.T) {
	store := newFakeEntryStore()
	store.saveErr = errStoreDown

	_, err := NewLedgerService(store).Save(context.Background(), salary())
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestLedgerService_Update(t *testing.T) {
	store := newFakeEntryStore()
	svc := NewLedgerService(store)

	e := salary()
	e.ID = 1
	e.Status = core.Settled

	updated, err := svc.Update(context.Background(), e)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != core.Settled {
		t.Fatalf("update must not force status, got %s", updated.Status)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected exactly one store save, got %d", len(store.saved))
	}
}

func TestLedgerService_UpdateAndDeleteRequireID(t *testing.T) {
	store := newFakeEntryStore()
	svc := NewLedgerService(store)

	// Invalid fields too: the precondition must be reported before validation.
	e := core.Entry{}

	if _, err := svc.Update(context.Background(), e); !errors.Is(err, core.ErrMissingID) {
		t.Fatalf("update: expected ErrMissingID, got %v", err)
	}
	if err := svc.Delete(context.Background(), e); !errors.Is(err, core.ErrMissingID) {
		t.Fatalf("delete: expected ErrMissingID, got %v", err)
	}
	if len(store.saved) != 0 || len(store.deleted) != 0 {
		t.Fatalf("store must not be touched without an id")
	}
}

func TestLedgerService_UpdateRevalidates(t *testing.T) {
	store := newFakeEntryStore()
	e := salary()
	e.ID = 3
	e.Amount = decimal.Zero

	_, err := NewLedgerService(store).Update(context.Background(), e)
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected amount error, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("store must not be touched on validation failure")
	}
}

func TestLedgerService_Delete(t *testing.T) {
	store := newFakeEntryStore()
	svc := NewLedgerService(store)

	// Delete runs no validation.
	if err := svc.Delete(context.Background(), core.Entry{ID: 9}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0].ID != 9 {
		t.Fatalf("expected entry 9 deleted, got %+v", store.deleted)
	}

	store.deleteErr = errStoreDown
	if err := svc.Delete(context.Background(), core.Entry{ID: 9}); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestLedgerService_Search(t *testing.T) {
	store := newFakeEntryStore()
	hit := salary()
	hit.ID = 1
	store.matching = []core.Entry{hit}

	filter := core.FilterFromEntry(core.Entry{Description: "sal", User: &core.User{ID: 1}})
	got, err := NewLedgerService(store).Search(context.Background(), filter)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("unexpected result %+v", got)
	}
	if len(store.filters) != 1 || *store.filters[0].Description != "sal" {
		t.Fatalf("filter not passed through: %+v", store.filters)
	}
}

func TestLedgerService_TransitionStatus(t *testing.T) {
	store := newFakeEntryStore()
	svc := NewLedgerService(store)

	e := salary()
	e.ID = 1
	e.Status = core.Pending

	updated, err := svc.TransitionStatus(context.Background(), &e, core.Settled)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if e.Status != core.Settled || updated.Status != core.Settled {
		t.Fatalf("expected SETTLED, got entry=%s updated=%s", e.Status, updated.Status)
	}
	if len(store.saved) != 1 || store.saved[0].Status != core.Settled {
		t.Fatalf("transition should persist through update")
	}
}

func TestLedgerService_TransitionStatusUsesUpdateContract(t *testing.T) {
	store := newFakeEntryStore()
	svc := NewLedgerService(store)

	unsaved := salary()
	if _, err := svc.TransitionStatus(context.Background(), &unsaved, core.Cancelled); !errors.Is(err, core.ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	if unsaved.Status != core.Cancelled {
		t.Fatalf("status is assigned before delegating to update")
	}

	invalid := salary()
	invalid.ID = 2
	invalid.Month = 0
	if _, err := svc.TransitionStatus(context.Background(), &invalid, core.Settled); !errors.Is(err, core.ErrInvalidMonth) {
		t.Fatalf("expected month validation error, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("store must not be touched")
	}
}

func TestLedgerService_FindByID(t *testing.T) {
	store := newFakeEntryStore()
	svc := NewLedgerService(store)

	saved, err := svc.Save(context.Background(), salary())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := svc.FindByID(context.Background(), saved.ID)
	if err != nil || !ok {
		t.Fatalf("expected entry, ok=%v err=%v", ok, err)
	}
	if got.Description != saved.Description || !got.Amount.Equal(saved.Amount) {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, saved)
	}

	_, ok, err = svc.FindByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("missing entry must not be an error: %v", err)
	}
	if ok {
		t.Fatalf("expected absent entry")
	}
}
