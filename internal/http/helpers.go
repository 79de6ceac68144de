package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"minhasfinancas/internal/core"
)

// userResponse never carries the password.
type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type entryResponse struct {
	ID           int64  `json:"id"`
	Description  string `json:"description"`
	Month        int    `json:"month"`
	Year         int    `json:"year"`
	Amount       string `json:"amount"`
	UserID       int64  `json:"user_id"`
	RegisteredOn string `json:"registered_on,omitempty"`
	Kind         string `json:"kind"`
	Status       string `json:"status"`
}

type balanceResponse struct {
	UserID  int64  `json:"user_id"`
	Balance string `json:"balance"`
}

func toUserResponse(u core.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toEntryResponse(e core.Entry) entryResponse {
	return entryResponse{
		ID:           e.ID,
		Description:  e.Description,
		Month:        e.Month,
		Year:         e.Year,
		Amount:       e.Amount.StringFixed(2),
		UserID:       e.UserID(),
		RegisteredOn: e.RegisteredOn.String(),
		Kind:         e.Kind.String(),
		Status:       e.Status.String(),
	}
}

func toEntryResponses(entries []core.Entry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response", "error", err, "path", r.URL.Path)
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
