package rest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/chatop/internal/server/auth"
	"github.com/dmitrijs2005/chatop/internal/server/services"
)

func (h *Handlers) CreateMessage(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responders.Unauthenticated(w, r, "")
		return
	}

	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responders.Error(w, r, err)
		return
	}

	msg, err := h.messages.Create(r.Context(), principal, services.MessageInput{
		Message:  strings.TrimSpace(req.Message),
		UserID:   *req.UserID,
		RentalID: *req.RentalID,
	})
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newMessageResponse(msg))
}
