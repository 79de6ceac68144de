package core

import (
	"strconv"
	"strings"
)

// ValidateEntry checks the entry field rules in a fixed order and returns the
// first one that fails:
// description, month, year, user, amount, kind.
// The amount is judged after rounding to cents, as the stores keep it.
func ValidateEntry(e Entry) error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrInvalidDescription
	}
	if e.Month < 1 || e.Month > 12 {
		return ErrInvalidMonth
	}
	if len(strconv.Itoa(e.Year)) != 4 {
		return ErrInvalidYear
	}
	if e.User == nil || e.User.ID == 0 {
		return ErrMissingUser
	}
	if a := RoundToCents(e.Amount); !a.IsPositive() || !InRange(a) {
		return ErrInvalidAmount
	}
	if !e.Kind.IsValid() {
		return ErrMissingKind
	}
	return nil
}
