package http

import (
	"net/http"

	"minhasfinancas/internal/core"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "register", err)
		return
	}

	u, err := s.auth.Register(r.Context(), core.User{
		Name:     sanitizeInput(req.Name),
		Email:    sanitizeInput(req.Email),
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, "register", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toUserResponse(u))
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, "authenticate", err)
		return
	}

	u, err := s.auth.Authenticate(r.Context(), sanitizeInput(req.Email), req.Password)
	if err != nil {
		writeError(w, r, "authenticate", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toUserResponse(u))
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, r, "balance", err)
		return
	}

	_, ok, err := s.auth.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, "balance", err)
		return
	}
	if !ok {
		writeError(w, r, "balance", errUserNotFound)
		return
	}

	balance, err := s.balances.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, "balance", err)
		return
	}
	writeJSON(w, r, http.StatusOK, balanceResponse{UserID: id, Balance: balance.StringFixed(2)})
}
