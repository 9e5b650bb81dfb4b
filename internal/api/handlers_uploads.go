// Profilehub - Personal Link Hub with Live Presence Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/profilehub

package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/profilehub/internal/logging"
	"github.com/tomtom215/profilehub/internal/store"
)

// multipartOverhead allows for boundaries and part headers around the file.
const multipartOverhead = 1 << 20

// UploadsResponse is the body of GET /api/admin/uploads.
type UploadsResponse struct {
	Uploads []store.UploadInfo `json:"uploads"`
}

// Uploads lists stored media, newest first.
func (h *Handler) Uploads(w http.ResponseWriter, r *http.Request) {
	list, err := h.uploads.List()
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "Failed to list uploads", err)
		return
	}
	respondJSON(w, http.StatusOK, UploadsResponse{Uploads: list})
}

// Upload stores the multipart part named "file". The body is streamed to
// disk; only images, audio and video are accepted.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxSize()+multipartOverhead)

	mr, err := r.MultipartReader()
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid upload", "Expected multipart/form-data", nil)
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			respondError(w, r, http.StatusBadRequest, "Invalid upload", "Missing form field \"file\"", nil)
			return
		}
		if err != nil {
			respondUploadError(w, r, err)
			return
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}

		info, err := h.uploads.Save(part)
		_ = part.Close()
		if err != nil {
			respondUploadError(w, r, err)
			return
		}

		logging.Ctx(r.Context()).Info().
			Str("name", info.Name).
			Str("mime", info.MIME).
			Int64("size", info.Size).
			Msg("Media uploaded")
		respondJSON(w, http.StatusCreated, info)
		return
	}
}

func respondUploadError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, store.ErrTooLarge), errors.As(err, &maxErr):
		respondError(w, r, http.StatusRequestEntityTooLarge, "File too large", "The upload exceeds the size limit", nil)
	case errors.Is(err, store.ErrUnsupportedType):
		respondError(w, r, http.StatusUnsupportedMediaType, "Unsupported file type", "Only image, audio and video files are accepted", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "Failed to store upload", err)
	}
}

// DeleteUpload removes the upload named by {name}.
func (h *Handler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	err := h.uploads.Delete(chi.URLParam(r, "name"))
	switch {
	case errors.Is(err, store.ErrInvalidName):
		respondError(w, r, http.StatusBadRequest, "Invalid name", "Upload name is invalid", nil)
	case errors.Is(err, store.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "Not found", "Upload not found", nil)
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, "Internal server error", "Failed to delete upload", err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
