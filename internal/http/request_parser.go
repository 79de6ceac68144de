package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"minhasfinancas/internal/core"
)

const maxBodyBytes = 1 << 20

// badRequestError reports a malformed request, as opposed to a request that
// breaks a business rule.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// entryRequest is the body of entry create and update calls.
type entryRequest struct {
	Description  string      `json:"description"`
	Month        int         `json:"month"`
	Year         int         `json:"year"`
	Amount       amountField `json:"amount"`
	UserID       int64       `json:"user_id"`
	RegisteredOn string      `json:"registered_on"`
	Kind         string      `json:"kind"`
	Status       string      `json:"status"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// amountField accepts a JSON number or a string with either decimal
// separator. A string that is not a positive amount decodes to zero so entry
// validation reports it in its usual order.
type amountField struct {
	decimal.Decimal
}

func (a *amountField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		d, err := core.ParseAmount(s)
		if err != nil {
			d = decimal.Zero
		}
		a.Decimal = d
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("amount must be a number or a string, got %s", b)
	}
	a.Decimal = d
	return nil
}

// decodeJSON reads one JSON object from the body into dst. Unknown fields
// and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var ve *core.ValidationError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &ve):
			return ve
		case errors.As(err, &maxErr):
			return badRequest("request body larger than %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return badRequest("request body is empty")
		default:
			return badRequest("invalid JSON body: %v", err)
		}
	}
	if dec.More() {
		return badRequest("request body must contain a single JSON object")
	}
	return nil
}

// toEntry builds the entry described by the request. An unknown kind is left
// empty so validation reports it as missing. The user carries only its ID
// until the handler resolves it.
func (req entryRequest) toEntry() (core.Entry, error) {
	e := core.Entry{
		Description: sanitizeInput(req.Description),
		Month:       req.Month,
		Year:        req.Year,
		Amount:      req.Amount.Decimal,
	}
	if req.UserID != 0 {
		e.User = &core.User{ID: req.UserID}
	}
	if k := core.EntryKind(strings.ToUpper(strings.TrimSpace(req.Kind))); k.IsValid() {
		e.Kind = k
	}
	if req.RegisteredOn != "" {
		d, err := core.ParseDate(req.RegisteredOn)
		if err != nil {
			return core.Entry{}, badRequest("invalid registered_on %q: want YYYY-MM-DD", req.RegisteredOn)
		}
		e.RegisteredOn = d
	}
	if req.Status != "" {
		st, err := core.ParseStatus(req.Status)
		if err != nil {
			return core.Entry{}, err
		}
		e.Status = st
	}
	return e, nil
}

// parseID reads a positive identifier from the named path segment.
func parseID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return id, nil
}

// parseSearchFilter turns the query string into an entry filter. Every
// non-empty parameter becomes a constraint.
func parseSearchFilter(q url.Values) (core.EntryFilter, error) {
	template := core.Entry{Description: sanitizeInput(q.Get("description"))}

	if v := strings.TrimSpace(q.Get("user")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return core.EntryFilter{}, badRequest("invalid user %q", v)
		}
		template.User = &core.User{ID: id}
	}
	if v := strings.TrimSpace(q.Get("kind")); v != "" {
		k, err := core.ParseKind(v)
		if err != nil {
			return core.EntryFilter{}, err
		}
		template.Kind = k
	}
	if v := strings.TrimSpace(q.Get("status")); v != "" {
		st, err := core.ParseStatus(v)
		if err != nil {
			return core.EntryFilter{}, err
		}
		template.Status = st
	}

	f := core.FilterFromEntry(template)

	// Month and year go straight to the filter so that an explicit zero is
	// still a constraint.
	for _, p := range []struct {
		name string
		set  func(core.EntryFilter, int) core.EntryFilter
	}{
		{"month", core.EntryFilter.WithMonth},
		{"year", core.EntryFilter.WithYear},
	} {
		v := strings.TrimSpace(q.Get(p.name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return core.EntryFilter{}, badRequest("invalid %s %q", p.name, v)
		}
		f = p.set(f, n)
	}
	return f, nil
}
