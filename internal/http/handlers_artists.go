package httpx

import (
	"errors"
	"net/http"

	"github.com/bndy/centrestage/internal/data"
	"github.com/bndy/centrestage/internal/domain/model"
	"github.com/bndy/centrestage/internal/service"
)

// ArtistHandlers provides HTTP handlers for artist-related operations.
type ArtistHandlers struct {
	Svc *service.ArtistService
}

// Create handles HTTP requests to create a new artist.
func (h *ArtistHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateArtistRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	artist, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrArtistNameExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "name_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, artist)
}

// List handles HTTP requests to list artists with pagination and filters.
func (h *ArtistHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxListLimit)

	opts := model.ArtistsListOptions{Limit: limit, Offset: offset}
	if q := r.URL.Query().Get("q"); q != "" {
		opts.Q = &q
	}
	if genre := r.URL.Query().Get("genre"); genre != "" {
		opts.Genre = &genre
	}

	artists, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"artists": artists,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetByID handles HTTP requests to get an artist by ID.
func (h *ArtistHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("artist id is required")},
		)
		return
	}

	artist, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrArtistNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "artist_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, artist)
}

// Update handles HTTP requests to update an artist.
func (h *ArtistHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("artist id is required")},
		)
		return
	}

	var req model.UpdateArtistRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	artist, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrArtistNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "artist_not_found", Err: err})
		case errors.Is(err, data.ErrArtistNameExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "name_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, artist)
}

// Delete handles HTTP requests to delete an artist.
func (h *ArtistHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("artist id is required")},
		)
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}

	if !deleted {
		WriteError(
			w,
			ErrorParams{Code: http.StatusNotFound, ErrCode: "artist_not_found", Err: errors.New("artist not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
