package rest

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/dmitrijs2005/chatop/internal/server/auth"
	"github.com/dmitrijs2005/chatop/internal/server/services"
	"github.com/gorilla/mux"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// in-memory part of a multipart body; the rest spills to temp files
	multipartMemory = 1 << 20
)

func (h *Handlers) ListRentals(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 0)
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}
	size, err := queryInt(r, "size", defaultPageSize)
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}
	size = min(size, maxPageSize)

	result, err := h.rentals.List(r.Context(), page, size)
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}

	resp := pageResponse{
		Content:       make([]rentalResponse, 0, len(result.Content)),
		Page:          result.Page,
		Size:          result.Size,
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages,
	}
	for i := range result.Content {
		resp.Content = append(resp.Content, h.newRentalResponse(&result.Content[i]))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) GetRental(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}

	rental, err := h.rentals.Get(r.Context(), id)
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.newRentalResponse(rental))
}

func (h *Handlers) CreateRental(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responders.Unauthenticated(w, r, "")
		return
	}

	form, picture, cleanup, err := h.parseRentalForm(w, r)
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}
	defer cleanup()

	rental, err := h.rentals.Create(r.Context(), principal, form.input(), picture)
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/rentals/%d", rental.ID))
	writeJSON(w, http.StatusCreated, h.newRentalResponse(rental))
}

func (h *Handlers) UpdateRental(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responders.Unauthenticated(w, r, "")
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}

	form, picture, cleanup, err := h.parseRentalForm(w, r)
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}
	defer cleanup()

	rental, err := h.rentals.Update(r.Context(), principal, id, form.input(), picture)
	if err != nil {
		h.responders.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, h.newRentalResponse(rental))
}

// parseRentalForm reads a bounded multipart body. The returned cleanup
// must be called once the picture has been consumed.
func (h *Handlers) parseRentalForm(w http.ResponseWriter, r *http.Request) (*rentalForm, *services.Upload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, nil, common.NewError(common.ErrBadRequest,
				fmt.Sprintf("upload exceeds the limit of %d bytes", tooLarge.Limit))
		}
		return nil, nil, nil, common.NewError(common.ErrBadRequest, "multipart form data expected")
	}

	var file multipart.File
	cleanup := func() {
		if file != nil {
			_ = file.Close()
		}
		_ = r.MultipartForm.RemoveAll()
	}

	form, err := rentalFormFromRequest(r)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	var picture *services.Upload
	f, hdr, err := r.FormFile("picture")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		cleanup()
		return nil, nil, nil, common.NewError(common.ErrBadRequest, "unreadable picture")
	default:
		file = f
		picture = &services.Upload{
			Filename:    hdr.Filename,
			ContentType: hdr.Header.Get("Content-Type"),
			Size:        hdr.Size,
			Body:        f,
		}
	}

	return form, picture, cleanup, nil
}

func rentalFormFromRequest(r *http.Request) (*rentalForm, error) {
	form := &rentalForm{Name: r.FormValue("name")}
	invalid := map[string]string{}

	atoi := func(field, label string) *int {
		raw := strings.TrimSpace(r.FormValue(field))
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			invalid[field] = label + " must be a number"
			return nil
		}
		return &n
	}
	form.Surface = atoi("surface", "Surface")
	form.Price = atoi("price", "Price")

	if len(invalid) > 0 {
		return nil, &common.ValidationError{Fields: invalid}
	}

	if vals, ok := r.MultipartForm.Value["description"]; ok && len(vals) > 0 {
		d := vals[0]
		form.Description = &d
	}

	if err := validateStruct(form); err != nil {
		return nil, err
	}
	return form, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.NewError(common.ErrBadRequest, name+" must be an integer")
	}
	return n, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewError(common.ErrBadRequest, "invalid id")
	}
	return id, nil
}
