package api

import (
	"net/http"

	"github.com/slidesmith/slidesmith-api/internal/domain"
	"github.com/slidesmith/slidesmith-api/internal/store"
)

// SowHandler handles the saved-SOW CRUD endpoints. Every operation is
// scoped to the authenticated user.
type SowHandler struct {
	sowStore store.SowStore
}

// NewSowHandler creates a new SowHandler with the given dependencies.
func NewSowHandler(sowStore store.SowStore) *SowHandler {
	return &SowHandler{sowStore: sowStore}
}

// Create handles POST /api/sows.
func (h *SowHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateSowRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := ValidateRequest(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	sow, err := domain.NewSow(userID, req.Title, req.SowNumber, req.ClientName, req.Slides)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid sow data: "+err.Error())
		return
	}

	if err := h.sowStore.Create(r.Context(), sow); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, sow)
}

// List handles GET /api/sows.
func (h *SowHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	sows, err := h.sowStore.ListByUser(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, SowListResponse{Sows: sows})
}

// Get handles GET /api/sows/{id}.
func (h *SowHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sow, err := h.sowStore.GetByID(r.Context(), userID, id)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, sow)
}

// Update handles PATCH /api/sows/{id}.
func (h *SowHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateSowRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	sow, err := h.sowStore.GetByID(r.Context(), userID, id)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	if req.Title != nil {
		if err := sow.Rename(*req.Title); err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "Invalid sow data: "+err.Error())
			return
		}
	}
	if req.SowNumber != nil {
		sow.SowNumber = *req.SowNumber
	}
	if req.ClientName != nil {
		sow.ClientName = *req.ClientName
	}
	if req.Slides != nil {
		sow.Slides = req.Slides
	}

	if err := sow.Validate(); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid sow data: "+err.Error())
		return
	}

	if err := h.sowStore.Update(r.Context(), sow); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, sow)
}

// Delete handles DELETE /api/sows/{id}.
func (h *SowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sowStore.Delete(r.Context(), userID, id); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
