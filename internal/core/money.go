// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between decimal amounts and the cent representation used
// by the SQLite store.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// centsExp is the exponent of the smallest stored currency unit.
const centsExp = -2

// ParseAmount converts a decimal string to an amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Only
// strictly positive values are accepted; anything else returns
// ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-1")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// MaxAmount is the exclusive upper bound of a stored amount. It matches the
// NUMERIC(16,2) column of the PostgreSQL store and fits int64 cents.
var MaxAmount = decimal.New(1, 14)

// ErrAmountOutOfRange is returned by ToCents for amounts at or beyond
// MaxAmount in absolute value.
var ErrAmountOutOfRange = errors.New("amount out of range")

// InRange reports whether the amount, rounded to cents, is below MaxAmount
// in absolute value.
func InRange(d decimal.Decimal) bool {
	return RoundToCents(d).Abs().LessThan(MaxAmount)
}

// ToCents rounds the amount half away from zero to whole cents.
func ToCents(d decimal.Decimal) (int64, error) {
	if !InRange(d) {
		return 0, ErrAmountOutOfRange
	}
	return d.Shift(-centsExp).Round(0).IntPart(), nil
}

// FromCents builds an amount from whole cents.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, centsExp)
}

// RoundToCents drops precision beyond what the stores keep.
func RoundToCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(-centsExp)
}
