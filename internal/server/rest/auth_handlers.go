package rest

import (
	"net/http"

	"github.com/dmitrijs2005/chatop/internal/server/auth"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responders.Error(w, r, err)
		return
	}

	user, token, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{User: newUserResponse(user), Auth: token})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.responders.Error(w, r, err)
		return
	}

	token, err := h.users.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responders.Unauthenticated(w, r, "")
		return
	}

	user, err := h.users.CurrentIdentity(r.Context(), principal.Email)
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}
