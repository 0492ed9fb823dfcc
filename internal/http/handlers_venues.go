// Package httpx provides HTTP handlers and utilities for the centrestage API.
package httpx

import (
	"errors"
	"net/http"

	"github.com/bndy/centrestage/internal/data"
	"github.com/bndy/centrestage/internal/domain/model"
	"github.com/bndy/centrestage/internal/service"
)

// VenueHandlers provides HTTP handlers for venue-related operations.
type VenueHandlers struct {
	Svc *service.VenueService
}

const (
	maxListLimit = 100 // Maximum number of rows a single list call may request
)

// Create handles HTTP requests to create a new venue.
func (h *VenueHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateVenueRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	venue, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrVenueNameExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "name_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, venue)
}

// List handles HTTP requests to list venues with pagination and filters.
func (h *VenueHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxListLimit)

	opts := model.VenuesListOptions{Limit: limit, Offset: offset}
	if q := r.URL.Query().Get("q"); q != "" {
		opts.Q = &q
	}
	if v := r.URL.Query().Get("validated"); v == "true" || v == "false" {
		validated := v == "true"
		opts.Validated = &validated
	}

	venues, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"venues": venues,
		"limit":  limit,
		"offset": offset,
	})
}

// GetByID handles HTTP requests to get a venue by ID.
func (h *VenueHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("venue id is required")},
		)
		return
	}

	venue, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrVenueNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "venue_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, venue)
}

// Update handles HTTP requests to update a venue.
func (h *VenueHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("venue id is required")},
		)
		return
	}

	var req model.UpdateVenueRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	venue, err := h.Svc.Update(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrVenueNotFound):
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "venue_not_found", Err: err})
		case errors.Is(err, data.ErrVenueNameExists):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "name_conflict", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "update_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, venue)
}

// Delete handles HTTP requests to delete a venue.
func (h *VenueHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("venue id is required")},
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
			ErrorParams{Code: http.StatusNotFound, ErrCode: "venue_not_found", Err: errors.New("venue not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
