package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Credit EntryKind = "CREDIT"
	Debit  EntryKind = "DEBIT"
)

const (
	Pending   EntryStatus = "PENDING"
	Settled   EntryStatus = "SETTLED"
	Cancelled EntryStatus = "CANCELLED"
)

type (
	// EntryKind classifies an entry as income (CREDIT) or expense (DEBIT).
	EntryKind string

	// EntryStatus is the lifecycle marker of an entry.
	EntryStatus string

	Date struct {
		time.Time
	}

	User struct {
		ID       int64 // 0 until stored
		Name     string
		Email    string
		Password string
	}

	// Entry is one recorded financial movement for a user in a given month/year.
	Entry struct {
		ID           int64 // 0 until the first successful save
		Description  string
		Month        int
		Year         int
		Amount       decimal.Decimal
		User         *User
		RegisteredOn Date
		Kind         EntryKind
		Status       EntryStatus
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

// IsEmpty returns true if the date is zero
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// Equal compares two dates by calendar day.
func (d Date) Equal(other Date) bool {
	return d.String() == other.String()
}

func (k EntryKind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the known kinds.
func (k EntryKind) IsValid() bool {
	switch k {
	case Credit, Debit:
		return true
	default:
		return false
	}
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (EntryKind, error) {
	k := EntryKind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", &ValidationError{Reason: "unknown entry kind " + strconv.Quote(s)}
	}
	return k, nil
}

func (s EntryStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses.
func (s EntryStatus) IsValid() bool {
	switch s {
	case Pending, Settled, Cancelled:
		return true
	default:
		return false
	}
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(s string) (EntryStatus, error) {
	st := EntryStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", &ValidationError{Reason: "unknown entry status " + strconv.Quote(s)}
	}
	return st, nil
}

// UserID returns the owning user's identifier, or 0 when no user is set.
func (e Entry) UserID() int64 {
	if e.User == nil {
		return 0
	}
	return e.User.ID
}

// Validate applies the entry business rules. See ValidateEntry.
func (e Entry) Validate() error {
	return ValidateEntry(e)
}
