package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"minhasfinancas/internal/core"
	"minhasfinancas/internal/ports"
)

func entry(userID int64, desc string, kind core.EntryKind, amount string) core.Entry {
	return core.Entry{
		Description: desc,
		Month:       3,
		Year:        2021,
		Amount:      decimal.RequireFromString(amount),
		User:        &core.User{ID: userID},
		Kind:        kind,
		Status:      core.Pending,
	}
}

func TestEntryStore_SaveAssignsIDs(t *testing.T) {
	s := NewEntryStore()
	ctx := context.Background()

	a, _ := s.Save(ctx, entry(1, "a", core.Credit, "1"))
	b, _ := s.Save(ctx, entry(1, "b", core.Credit, "1"))
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected sequential ids, got %d %d", a.ID, b.ID)
	}
	if a.RegisteredOn.IsEmpty() {
		t.Fatalf("expected default registration date")
	}
}

func TestEntryStore_AmountLimits(t *testing.T) {
	s := NewEntryStore()
	ctx := context.Background()

	if _, err := s.Save(ctx, entry(1, "huge", core.Credit, "1e20")); !errors.Is(err, core.ErrAmountOutOfRange) {
		t.Fatalf("expected ErrAmountOutOfRange, got %v", err)
	}
	max, err := s.Save(ctx, entry(1, "max", core.Credit, "99999999999999.99"))
	if err != nil {
		t.Fatalf("save max: %v", err)
	}
	got, _, _ := s.FindByID(ctx, max.ID)
	if got.Amount.String() != "99999999999999.99" {
		t.Fatalf("stored %s", got.Amount)
	}
}

func TestEntryStore_UpdateDeleteMissing(t *testing.T) {
	s := NewEntryStore()
	ctx := context.Background()

	ghost := entry(1, "ghost", core.Debit, "1")
	ghost.ID = 7
	if _, err := s.Save(ctx, ghost); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
	if err := s.Delete(ctx, ghost); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestEntryStore_Isolation(t *testing.T) {
	s := NewEntryStore()
	ctx := context.Background()

	u := &core.User{ID: 1, Name: "Ana"}
	e := entry(1, "a", core.Credit, "1")
	e.User = u
	saved, _ := s.Save(ctx, e)

	u.Name = "changed"
	saved.User.Name = "changed too"

	got, _, _ := s.FindByID(ctx, saved.ID)
	if got.User.Name != "Ana" {
		t.Fatalf("stored user leaked through a pointer: %q", got.User.Name)
	}
}

func TestEntryStore_FindMatchingOrdersByID(t *testing.T) {
	s := NewEntryStore()
	ctx := context.Background()
	for _, d := range []string{"Mercado", "mercado livre", "Farmácia", "Supermercado"} {
		if _, err := s.Save(ctx, entry(1, d, core.Debit, "10")); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := s.FindMatching(ctx, core.EntryFilter{}.WithDescription("MERCADO"))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	want := []int64{1, 2, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i, e := range got {
		if e.ID != want[i] {
			t.Errorf("position %d: got id %d want %d", i, e.ID, want[i])
		}
	}
}

func TestEntryStore_Sum(t *testing.T) {
	s := NewEntryStore()
	ctx := context.Background()

	sum, _ := s.SumAmountByKindAndUser(ctx, 1, core.Credit)
	if sum.Valid {
		t.Fatalf("sum over no entries must be invalid")
	}

	s.Save(ctx, entry(1, "a", core.Credit, "0.10"))
	s.Save(ctx, entry(1, "b", core.Credit, "0.20"))
	s.Save(ctx, entry(1, "c", core.Debit, "5"))
	s.Save(ctx, entry(2, "d", core.Credit, "100"))

	sum, _ = s.SumAmountByKindAndUser(ctx, 1, core.Credit)
	if !sum.Valid || !sum.Decimal.Equal(decimal.RequireFromString("0.30")) {
		t.Fatalf("expected 0.30, got %+v", sum)
	}
}

func TestEntryStore_ConcurrentSaves(t *testing.T) {
	s := NewEntryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Save(ctx, entry(1, "x", core.Credit, "1"))
		}()
	}
	wg.Wait()

	got, _ := s.FindMatching(ctx, core.EntryFilter{})
	if len(got) != 50 {
		t.Fatalf("expected 50 entries, got %d", len(got))
	}
}

func TestUserDirectory(t *testing.T) {
	d := NewUserDirectory()
	ctx := context.Background()

	u, err := d.Save(ctx, core.User{Name: "Ana", Email: "a@x.com", Password: "p"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if ok, _ := d.ExistsByEmail(ctx, "a@x.com"); !ok {
		t.Fatalf("expected email to exist")
	}
	if _, err := d.Save(ctx, core.User{Email: "a@x.com"}); !errors.Is(err, core.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	u.Email = "ana@x.com"
	if _, err := d.Save(ctx, u); err != nil {
		t.Fatalf("update: %v", err)
	}
	if ok, _ := d.ExistsByEmail(ctx, "a@x.com"); ok {
		t.Fatalf("old email should be released")
	}
	got, ok, _ := d.FindByEmail(ctx, "ana@x.com")
	if !ok || got.ID != u.ID {
		t.Fatalf("expected user by new email, got %+v", got)
	}
	if _, ok, _ := d.FindByID(ctx, 99); ok {
		t.Fatalf("unexpected user 99")
	}
}
