package storage

import (
	"strings"

	"minhasfinancas/internal/core"
)

// whereClause translates a filter into a WHERE clause over the aliased
// entries table "e". It returns an empty clause for an empty filter.
func (d dialect) whereClause(f core.EntryFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond func(ph string) string, arg any) {
		args = append(args, arg)
		conds = append(conds, cond(d.placeholder(len(args))))
	}
	eq := func(col string) func(string) string {
		return func(ph string) string { return col + " = " + ph }
	}

	if f.ID != nil {
		add(eq("e.id"), *f.ID)
	}
	if f.Description != nil {
		add(func(ph string) string { return d.containsClause("e.description", ph) }, d.containsPattern(*f.Description))
	}
	if f.Month != nil {
		add(eq("e.month"), *f.Month)
	}
	if f.Year != nil {
		add(eq("e.year"), *f.Year)
	}
	if f.UserID != nil {
		add(eq("e.user_id"), *f.UserID)
	}
	if f.Amount != nil {
		if v, err := d.amountValue(*f.Amount); err == nil {
			add(eq("e."+d.amountCol), v)
		} else {
			// no stored amount is out of range
			conds = append(conds, "1 = 0")
		}
	}
	if f.RegisteredOn != nil {
		add(eq("e.registered_on"), f.RegisteredOn.String())
	}
	if f.Kind != nil {
		add(eq("e.kind"), string(*f.Kind))
	}
	if f.Status != nil {
		add(eq("e.status"), string(*f.Status))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
