package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// EntryFilter describes a search over entries. Each non-nil field is a
// constraint; nil fields match anything. Description matches as a
// case-insensitive substring, every other field by equality.
type EntryFilter struct {
	ID           *int64
	Description  *string
	Month        *int
	Year         *int
	UserID       *int64
	Amount       *decimal.Decimal
	RegisteredOn *Date
	Kind         *EntryKind
	Status       *EntryStatus
}

// FilterFromEntry turns a template entry into a filter: every field holding
// a non-zero value becomes a constraint.
func FilterFromEntry(e Entry) EntryFilter {
	var f EntryFilter
	if e.ID != 0 {
		f = f.WithID(e.ID)
	}
	if e.Description != "" {
		f = f.WithDescription(e.Description)
	}
	if e.Month != 0 {
		f = f.WithMonth(e.Month)
	}
	if e.Year != 0 {
		f = f.WithYear(e.Year)
	}
	if uid := e.UserID(); uid != 0 {
		f = f.WithUser(uid)
	}
	if !e.Amount.IsZero() {
		f = f.WithAmount(e.Amount)
	}
	if !e.RegisteredOn.IsEmpty() {
		f = f.WithRegisteredOn(e.RegisteredOn)
	}
	if e.Kind != "" {
		f = f.WithKind(e.Kind)
	}
	if e.Status != "" {
		f = f.WithStatus(e.Status)
	}
	return f
}

func (f EntryFilter) WithID(id int64) EntryFilter {
	f.ID = &id
	return f
}

func (f EntryFilter) WithDescription(s string) EntryFilter {
	f.Description = &s
	return f
}

func (f EntryFilter) WithMonth(m int) EntryFilter {
	f.Month = &m
	return f
}

func (f EntryFilter) WithYear(y int) EntryFilter {
	f.Year = &y
	return f
}

func (f EntryFilter) WithUser(id int64) EntryFilter {
	f.UserID = &id
	return f
}

func (f EntryFilter) WithAmount(d decimal.Decimal) EntryFilter {
	f.Amount = &d
	return f
}

func (f EntryFilter) WithRegisteredOn(d Date) EntryFilter {
	f.RegisteredOn = &d
	return f
}

func (f EntryFilter) WithKind(k EntryKind) EntryFilter {
	f.Kind = &k
	return f
}

func (f EntryFilter) WithStatus(s EntryStatus) EntryFilter {
	f.Status = &s
	return f
}

// IsEmpty reports whether the filter has no constraints.
func (f EntryFilter) IsEmpty() bool {
	return f.ID == nil && f.Description == nil && f.Month == nil && f.Year == nil &&
		f.UserID == nil && f.Amount == nil && f.RegisteredOn == nil && f.Kind == nil && f.Status == nil
}

// Matches evaluates the filter against a single entry.
func (f EntryFilter) Matches(e Entry) bool {
	if f.ID != nil && e.ID != *f.ID {
		return false
	}
	if f.Description != nil && !containsFold(e.Description, *f.Description) {
		return false
	}
	if f.Month != nil && e.Month != *f.Month {
		return false
	}
	if f.Year != nil && e.Year != *f.Year {
		return false
	}
	if f.UserID != nil && e.UserID() != *f.UserID {
		return false
	}
	if f.Amount != nil && !e.Amount.Equal(*f.Amount) {
		return false
	}
	if f.RegisteredOn != nil && !e.RegisteredOn.Equal(*f.RegisteredOn) {
		return false
	}
	if f.Kind != nil && e.Kind != *f.Kind {
		return false
	}
	if f.Status != nil && e.Status != *f.Status {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
