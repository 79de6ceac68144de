package http

import (
	"errors"
	"net/http"

	"minhasfinancas/internal/core"
	applog "minhasfinancas/internal/log"
	"minhasfinancas/internal/middleware/trace"
	"minhasfinancas/internal/ports"
)

type errorResponse struct {
	Error string `json:"error"`
}

// notFoundError reports a path identifier with no matching record.
type notFoundError struct {
	reason string
}

func (e *notFoundError) Error() string { return e.reason }

var (
	errEntryNotFound = &notFoundError{reason: "Lançamento não encontrado na base de dados."}
	errUserNotFound  = &notFoundError{reason: "Usuário não encontrado para o Id informado."}

	// errUnknownUser rejects an entry body naming a user that does not exist.
	errUnknownUser = &core.BusinessRuleError{Reason: "Usuário não encontrado para o Id informado."}
)

// statusFor maps an error to the response status and the message safe to
// show. Unclassified errors are reported as internal.
func statusFor(err error) (int, string) {
	var (
		ve  *core.ValidationError
		ae  *core.AuthenticationError
		be  *core.BusinessRuleError
		bre *badRequestError
		nfe *notFoundError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Reason
	case errors.As(err, &ae):
		return http.StatusBadRequest, ae.Reason
	case errors.As(err, &be):
		return http.StatusBadRequest, be.Reason
	case errors.As(err, &bre):
		return http.StatusBadRequest, bre.msg
	case errors.As(err, &nfe):
		return http.StatusNotFound, nfe.reason
	case errors.Is(err, ports.ErrNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeError sends err as a JSON error body. Server-side failures are logged
// with their full chain; the client only sees a generic message.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := statusFor(err)
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	if status >= http.StatusInternalServerError {
		applog.NewStructuredLogger(logger).LogError(ctx, "Request failed", err, op,
			applog.NewFields().WithRequestID(trace.GetRequestID(ctx)))
	} else {
		logger.DebugContext(ctx, "Request rejected", applog.FieldOperation, op, applog.FieldError, err.Error(), applog.FieldStatusCode, status)
	}
	writeJSON(w, r, status, errorResponse{Error: msg})
}
