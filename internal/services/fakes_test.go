package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"minhasfinancas/internal/core"
	"minhasfinancas/internal/ports"
)

var errStoreDown = errors.New("store down")

// fakeEntryStore records every call so tests can assert on store interaction.
type fakeEntryStore struct {
	nextID    int64
	saved     []core.Entry
	deleted   []core.Entry
	byID      map[int64]core.Entry
	matching  []core.Entry
	filters   []core.EntryFilter
	sums      map[core.EntryKind]decimal.NullDecimal
	sumCalls  []core.EntryKind
	saveErr   error
	deleteErr error
	sumErr    error
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{
		nextID: 1,
		byID:   map[int64]core.Entry{},
		sums:   map[core.EntryKind]decimal.NullDecimal{},
	}
}

func (f *fakeEntryStore) Save(_ context.Context, e core.Entry) (core.Entry, error) {
	f.saved = append(f.saved, e)
	if f.saveErr != nil {
		return core.Entry{}, f.saveErr
	}
	if e.ID == 0 {
		e.ID = f.nextID
		f.nextID++
	}
	f.byID[e.ID] = e
	return e, nil
}

func (f *fakeEntryStore) Delete(_ context.Context, e core.Entry) error {
	f.deleted = append(f.deleted, e)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byID, e.ID)
	return nil
}

func (f *fakeEntryStore) FindByID(_ context.Context, id int64) (core.Entry, bool, error) {
	e, ok := f.byID[id]
	return e, ok, nil
}

func (f *fakeEntryStore) FindMatching(_ context.Context, filter core.EntryFilter) ([]core.Entry, error) {
	f.filters = append(f.filters, filter)
	return f.matching, nil
}

func (f *fakeEntryStore) SumAmountByKindAndUser(_ context.Context, _ int64, kind core.EntryKind) (decimal.NullDecimal, error) {
	f.sumCalls = append(f.sumCalls, kind)
	if f.sumErr != nil {
		return decimal.NullDecimal{}, f.sumErr
	}
	return f.sums[kind], nil
}

type fakeUserDirectory struct {
	nextID      int64
	byEmail     map[string]core.User
	saved       []core.User
	existsCalls []string
	findErr     error
}

func newFakeUserDirectory(users ...core.User) *fakeUserDirectory {
	d := &fakeUserDirectory{nextID: 1, byEmail: map[string]core.User{}}
	for _, u := range users {
		d.byEmail[u.Email] = u
	}
	return d
}

func (d *fakeUserDirectory) FindByEmail(_ context.Context, email string) (core.User, bool, error) {
	if d.findErr != nil {
		return core.User{}, false, d.findErr
	}
	u, ok := d.byEmail[email]
	return u, ok, nil
}

func (d *fakeUserDirectory) FindByID(_ context.Context, id int64) (core.User, bool, error) {
	for _, u := range d.byEmail {
		if u.ID == id {
			return u, true, nil
		}
	}
	return core.User{}, false, nil
}

func (d *fakeUserDirectory) ExistsByEmail(_ context.Context, email string) (bool, error) {
	d.existsCalls = append(d.existsCalls, email)
	_, ok := d.byEmail[email]
	return ok, nil
}

func (d *fakeUserDirectory) Save(_ context.Context, u core.User) (core.User, error) {
	d.saved = append(d.saved, u)
	u.ID = d.nextID
	d.nextID++
	d.byEmail[u.Email] = u
	return u, nil
}

var (
	_ ports.EntryStore    = (*fakeEntryStore)(nil)
	_ ports.UserDirectory = (*fakeUserDirectory)(nil)
)
