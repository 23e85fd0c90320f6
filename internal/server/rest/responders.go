package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/dmitrijs2005/chatop/internal/logging"
)

const (
	msgUnauthenticated = "Full authentication is required to access this resource"
	msgAccessDenied    = "Access Denied"
	msgInternal        = "An unexpected error occurred"
	msgInvalidInput    = "Input validation failed"

	titleValidation = "Validation Failed"
)

// ErrorBody is the JSON shape of every rejected request.
type ErrorBody struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Path      string            `json:"path"`
	Details   map[string]string `json:"details,omitempty"`
}

// Responders is the only place client-visible error bodies are built.
type Responders struct {
	logger logging.Logger
	now    func() time.Time
}

func NewResponders(logger logging.Logger, clock func() time.Time) *Responders {
	if clock == nil {
		clock = time.Now
	}
	return &Responders{logger: logger.With("module", "responders"), now: clock}
}

// Unauthenticated writes a 401. An empty msg uses the default text.
func (rs *Responders) Unauthenticated(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = msgUnauthenticated
	}
	w.Header().Set("WWW-Authenticate", "Bearer")
	rs.write(w, r, http.StatusUnauthorized, msg, nil)
}

// AccessDenied writes a 403. An empty msg uses the default text.
func (rs *Responders) AccessDenied(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = msgAccessDenied
	}
	rs.write(w, r, http.StatusForbidden, msg, nil)
}

// Error maps a service error to a status and body. Anything it does not
// recognise becomes a 500 with a generic message; the detail only goes
// to the log.
func (rs *Responders) Error(w http.ResponseWriter, r *http.Request, err error) {
	var verr *common.ValidationError

	switch {
	case errors.As(err, &verr):
		rs.writeTitled(w, r, http.StatusBadRequest, titleValidation, msgInvalidInput, verr.Fields)
	case errors.Is(err, common.ErrValidation):
		rs.writeTitled(w, r, http.StatusBadRequest, titleValidation, common.ClientMessage(err, msgInvalidInput), nil)
	case errors.Is(err, common.ErrDuplicateIdentity):
		rs.write(w, r, http.StatusBadRequest, common.ClientMessage(err, common.ErrDuplicateIdentity.Error()), nil)
	case errors.Is(err, common.ErrBadRequest):
		rs.write(w, r, http.StatusBadRequest, common.ClientMessage(err, "Bad request"), nil)
	case errors.Is(err, common.ErrAuthenticationFailed):
		rs.Unauthenticated(w, r, common.ErrAuthenticationFailed.Error())
	case errors.Is(err, common.ErrUnauthenticated):
		rs.Unauthenticated(w, r, "")
	case errors.Is(err, common.ErrForbidden):
		rs.AccessDenied(w, r, common.ClientMessage(err, ""))
	case errors.Is(err, common.ErrNotFound):
		rs.write(w, r, http.StatusNotFound, common.ClientMessage(err, "Resource not found"), nil)
	default:
		rs.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		rs.write(w, r, http.StatusInternalServerError, msgInternal, nil)
	}
}

func (rs *Responders) write(w http.ResponseWriter, r *http.Request, status int, msg string, details map[string]string) {
	rs.writeTitled(w, r, status, http.StatusText(status), msg, details)
}

func (rs *Responders) writeTitled(w http.ResponseWriter, r *http.Request, status int, title, msg string, details map[string]string) {
	writeJSON(w, status, ErrorBody{
		Timestamp: rs.now(),
		Status:    status,
		Error:     title,
		Message:   msg,
		Path:      r.URL.Path,
		Details:   details,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
