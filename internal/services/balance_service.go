package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"minhasfinancas/internal/core"
	"minhasfinancas/internal/ports"
)

// BalanceService derives a user's balance from the stored entries.
type BalanceService struct {
	store ports.EntryStore
}

func NewBalanceService(store ports.EntryStore) *BalanceService {
	return &BalanceService{store: store}
}

// BalanceForUser returns the sum of CREDIT amounts minus the sum of DEBIT
// amounts over the user's whole history. Missing sums count as zero.
func (s *BalanceService) BalanceForUser(ctx context.Context, userID int64) (decimal.Decimal, error) {
	credits, err := s.store.SumAmountByKindAndUser(ctx, userID, core.Credit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum credits for user %d: %w", userID, err)
	}
	debits, err := s.store.SumAmountByKindAndUser(ctx, userID, core.Debit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum debits for user %d: %w", userID, err)
	}
	return orZero(credits).Sub(orZero(debits)), nil
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
