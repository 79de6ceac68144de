// Package memory holds in-process implementations of the store ports for
// development and tests. Nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"minhasfinancas/internal/core"
	"minhasfinancas/internal/ports"
)

// EntryStore keeps entries in a map keyed by ID.
type EntryStore struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]core.Entry
}

func NewEntryStore() *EntryStore {
	return &EntryStore{nextID: 1, entries: make(map[int64]core.Entry)}
}

// Save mirrors the SQL store: amounts are kept to cents and the
// registration date defaults to today.
func (s *EntryStore) Save(_ context.Context, e core.Entry) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.RegisteredOn.IsEmpty() {
		e.RegisteredOn = core.Today()
	}
	e.Amount = core.RoundToCents(e.Amount)
	if !core.InRange(e.Amount) {
		return core.Entry{}, core.ErrAmountOutOfRange
	}
	e.User = copyUser(e.User)

	if e.ID == 0 {
		e.ID = s.nextID
		s.nextID++
	} else if _, ok := s.entries[e.ID]; !ok {
		return core.Entry{}, ports.ErrNotFound
	}
	s.entries[e.ID] = e
	return withUserCopy(e), nil
}

func (s *EntryStore) Delete(_ context.Context, e core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[e.ID]; !ok {
		return ports.ErrNotFound
	}
	delete(s.entries, e.ID)
	return nil
}

func (s *EntryStore) FindByID(_ context.Context, id int64) (core.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return core.Entry{}, false, nil
	}
	return withUserCopy(e), true, nil
}

// FindMatching returns matching entries ordered by ID.
func (s *EntryStore) FindMatching(_ context.Context, f core.EntryFilter) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []core.Entry{}
	for _, e := range s.entries {
		if f.Matches(e) {
			result = append(result, withUserCopy(e))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *EntryStore) SumAmountByKindAndUser(_ context.Context, userID int64, kind core.EntryKind) (decimal.NullDecimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum decimal.NullDecimal
	for _, e := range s.entries {
		if e.UserID() != userID || e.Kind != kind {
			continue
		}
		if !sum.Valid {
			sum = decimal.NewNullDecimal(e.Amount)
			continue
		}
		sum.Decimal = sum.Decimal.Add(e.Amount)
	}
	return sum, nil
}

// Callers must not be able to reach stored state through the user pointer.
func withUserCopy(e core.Entry) core.Entry {
	e.User = copyUser(e.User)
	return e
}

func copyUser(u *core.User) *core.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

var _ ports.EntryStore = (*EntryStore)(nil)
