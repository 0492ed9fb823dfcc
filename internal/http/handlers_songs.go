package httpx

import (
	"errors"
	"net/http"

	"github.com/bndy/centrestage/internal/data"
	"github.com/bndy/centrestage/internal/domain/model"
	"github.com/bndy/centrestage/internal/service"
)

// SongHandlers provides HTTP handlers for song-related operations.
type SongHandlers struct {
	Svc *service.SongService
}

// Create handles HTTP requests to create a new song.
func (h *SongHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSongRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	song, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrSongExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "song_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, song)
}

// List handles HTTP requests to list songs with pagination and filters.
func (h *SongHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxListLimit)

	opts := model.SongsListOptions{Limit: limit, Offset: offset}
	if q := r.URL.Query().Get("q"); q != "" {
		opts.Q = &q
	}
	if artist := r.URL.Query().Get("artist"); artist != "" {
		opts.ArtistName = &artist
	}

	songs, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"songs":  songs,
		"limit":  limit,
		"offset": offset,
	})
}

// GetByID handles HTTP requests to get a song by ID.
func (h *SongHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("song id is required")},
		)
		return
	}

	song, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrSongNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "song_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, song)
}

// Update handles HTTP requests to update a song.
func (h *SongHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("song id is required")},
		)
		return
	}

	var req model.UpdateSongRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	song, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrSongNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "song_not_found", Err: err})
		case errors.Is(err, data.ErrSongExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "song_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, song)
}

// Delete handles HTTP requests to delete a song.
func (h *SongHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("song id is required")},
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
			ErrorParams{Code: http.StatusNotFound, ErrCode: "song_not_found", Err: errors.New("song not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
