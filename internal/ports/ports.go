package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"minhasfinancas/internal/core"
)

// ErrNotFound is returned by store writes that target a missing row.
var ErrNotFound = errors.New("not found")

// Ports for outbound adapters.
type (
	// EntryStore is the durable storage of ledger entries.
	EntryStore interface {
		// Save inserts the entry when its ID is zero and updates it otherwise.
		Save(ctx context.Context, e core.Entry) (core.Entry, error)
		Delete(ctx context.Context, e core.Entry) error
		FindByID(ctx context.Context, id int64) (core.Entry, bool, error)
		// FindMatching returns every entry accepted by the filter.
		FindMatching(ctx context.Context, f core.EntryFilter) ([]core.Entry, error)
		// SumAmountByKindAndUser is invalid (Valid=false) when the user has no
		// entries of that kind.
		SumAmountByKindAndUser(ctx context.Context, userID int64, kind core.EntryKind) (decimal.NullDecimal, error)
	}

	// UserDirectory is the durable storage of users, keyed by ID and unique email.
	UserDirectory interface {
		FindByEmail(ctx context.Context, email string) (core.User, bool, error)
		FindByID(ctx context.Context, id int64) (core.User, bool, error)
		ExistsByEmail(ctx context.Context, email string) (bool, error)
		Save(ctx context.Context, u core.User) (core.User, error)
	}

	// EventPublisher delivers entry events to a broker.
	EventPublisher interface {
		PublishEntryEvent(ctx context.Context, ev core.EntryEvent) error
	}
)
