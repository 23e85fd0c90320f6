package rest

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// ServeFile streams a stored rental picture.
func (h *Handlers) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	obj, err := h.rentals.OpenPicture(r.Context(), name)
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Debug(r.Context(), "file stream interrupted", "name", name, "error", err)
	}
}

type healthResponse struct {
	Status string `json:"status"`
}

// Health reports UP when the database answers.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.logger.Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "DOWN"})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "UP"})
}
