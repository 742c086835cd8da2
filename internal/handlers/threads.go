package handlers

import (
	"net/http"

	"github.com/hostelcare/hostelcare/internal/api"
)

// handleGetThread handles GET /api/issues/{id}/thread
func (h *APIHandler) handleGetThread(w http.ResponseWriter, r *http.Request) {
	thread, err := h.threadService.GetThread(r.PathValue("id"))
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, thread)
}

// handleAddComment handles POST /api/issues/{id}/thread
func (h *APIHandler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req api.CommentRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	thread, err := h.threadService.AddComment(actor, r.PathValue("id"), req.Content)
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusCreated, thread)
}
