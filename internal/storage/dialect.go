package storage

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"minhasfinancas/internal/core"
)

// dialect holds the SQL differences between the supported databases.
type dialect struct {
	// driver is the database/sql driver name and the golang-migrate database name.
	driver      string
	entries     string
	users       string
	amountCol   string
	dateExpr    string
	numbered    bool
	foldLike    bool
	amountValue func(decimal.Decimal) (any, error)
}

var sqliteDialect = dialect{
	driver:    "sqlite",
	entries:   "entries",
	users:     "users",
	amountCol: "amount_cents",
	dateExpr:  "e.registered_on",
	foldLike:  true,
	amountValue: func(d decimal.Decimal) (any, error) {
		return core.ToCents(d)
	},
}

var postgresDialect = dialect{
	driver:    "postgres",
	entries:   "financas.entries",
	users:     "financas.users",
	amountCol: "amount",
	dateExpr:  "to_char(e.registered_on, 'YYYY-MM-DD')",
	numbered:  true,
	amountValue: func(d decimal.Decimal) (any, error) {
		if !core.InRange(d) {
			return nil, core.ErrAmountOutOfRange
		}
		return core.RoundToCents(d), nil
	},
}

// placeholder returns the bind marker for the n-th (1-based) argument.
func (d dialect) placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// containsClause matches col against a substring ignoring case. SQLite
// LOWER only folds ASCII letters.
func (d dialect) containsClause(col, ph string) string {
	if d.foldLike {
		return "LOWER(" + col + ") LIKE " + ph + ` ESCAPE '\'`
	}
	return col + " ILIKE " + ph + ` ESCAPE '\'`
}

// containsPattern turns s into a LIKE pattern matching it anywhere.
func (d dialect) containsPattern(s string) string {
	s = likeEscaper.Replace(s)
	if d.foldLike {
		s = strings.ToLower(s)
	}
	return "%" + s + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
