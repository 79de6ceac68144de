package http

import (
	"context"
	"net/http"

	"minhasfinancas/internal/core"
)

// resolveUser validates the entry and then replaces its user reference with
// the stored user. Field rules come first so an unknown user is reported
// only for an otherwise valid entry.
func (s *Server) resolveUser(ctx context.Context, e *core.Entry) error {
	if err := core.ValidateEntry(*e); err != nil {
		return err
	}
	u, ok, err := s.auth.FindByID(ctx, e.UserID())
	if err != nil {
		return err
	}
	if !ok {
		return errUnknownUser
	}
	e.User = &u
	return nil
}

// loadEntry fetches the entry named by the id path segment.
func (s *Server) loadEntry(r *http.Request) (core.Entry, error) {
	id, err := parseID(r, "id")
	if err != nil {
		return core.Entry{}, err
	}
	e, ok, err := s.ledger.FindByID(r.Context(), id)
	if err != nil {
		return core.Entry{}, err
	}
	if !ok {
		return core.Entry{}, errEntryNotFound
	}
	return e, nil
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "create entry", err)
		return
	}
	e, err := req.toEntry()
	if err != nil {
		writeError(w, r, "create entry", err)
		return
	}
	if err := s.resolveUser(r.Context(), &e); err != nil {
		writeError(w, r, "create entry", err)
		return
	}

	saved, err := s.ledger.Save(r.Context(), e)
	if err != nil {
		writeError(w, r, "create entry", err)
		return
	}
	s.balances.Invalidate(saved.UserID())
	writeJSON(w, r, http.StatusCreated, toEntryResponse(saved))
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.loadEntry(r)
	if err != nil {
		writeError(w, r, "get entry", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toEntryResponse(e))
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	current, err := s.loadEntry(r)
	if err != nil {
		writeError(w, r, "update entry", err)
		return
	}

	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "update entry", err)
		return
	}
	e, err := req.toEntry()
	if err != nil {
		writeError(w, r, "update entry", err)
		return
	}
	if err := s.resolveUser(r.Context(), &e); err != nil {
		writeError(w, r, "update entry", err)
		return
	}

	e.ID = current.ID
	if e.Status == "" {
		e.Status = current.Status
	}
	if e.RegisteredOn.IsEmpty() {
		e.RegisteredOn = current.RegisteredOn
	}

	saved, err := s.ledger.Update(r.Context(), e)
	if err != nil {
		writeError(w, r, "update entry", err)
		return
	}
	s.balances.Invalidate(current.UserID())
	s.balances.Invalidate(saved.UserID())
	writeJSON(w, r, http.StatusOK, toEntryResponse(saved))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.loadEntry(r)
	if err != nil {
		writeError(w, r, "delete entry", err)
		return
	}
	if err := s.ledger.Delete(r.Context(), e); err != nil {
		writeError(w, r, "delete entry", err)
		return
	}
	s.balances.Invalidate(e.UserID())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransitionStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "transition status", err)
		return
	}
	status, err := core.ParseStatus(req.Status)
	if err != nil {
		writeError(w, r, "transition status", err)
		return
	}

	e, err := s.loadEntry(r)
	if err != nil {
		writeError(w, r, "transition status", err)
		return
	}
	saved, err := s.ledger.TransitionStatus(r.Context(), &e, status)
	if err != nil {
		writeError(w, r, "transition status", err)
		return
	}
	s.balances.Invalidate(saved.UserID())
	writeJSON(w, r, http.StatusOK, toEntryResponse(saved))
}

func (s *Server) handleSearchEntries(w http.ResponseWriter, r *http.Request) {
	f, err := parseSearchFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, "search entries", err)
		return
	}
	entries, err := s.ledger.Search(r.Context(), f)
	if err != nil {
		writeError(w, r, "search entries", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toEntryResponses(entries))
}
