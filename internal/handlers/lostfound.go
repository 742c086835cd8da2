package handlers

import (
	"net/http"

	"github.com/hostelcare/hostelcare/internal/api"
	"github.com/hostelcare/hostelcare/internal/database"
	"github.com/hostelcare/hostelcare/internal/services"
)

// handleListItems handles GET /api/lostfound
func (h *APIHandler) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.lostFoundService.ListItems()
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, items)
}

// handleGetItem handles GET /api/lostfound/{id}
func (h *APIHandler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.lostFoundService.GetItem(r.PathValue("id"))
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, item)
}

// handleReportItem handles POST /api/lostfound
func (h *APIHandler) handleReportItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req api.ReportItemRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	item, err := h.lostFoundService.ReportItem(actor, services.ReportItemInput{
		Kind:          database.LostFoundKind(req.Kind),
		Name:          req.Name,
		Description:   req.Description,
		FoundLocation: req.FoundLocation,
		Photo:         api.ToAttachments(req.Photo),
	})
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusCreated, item)
}

// handleRequestClaim handles POST /api/lostfound/{id}/claim
func (h *APIHandler) handleRequestClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req api.ClaimRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	item, err := h.lostFoundService.RequestClaim(actor, r.PathValue("id"), req.Contact, req.Note)
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, item)
}

// handleApproveClaim handles POST /api/lostfound/{id}/claim/approve
func (h *APIHandler) handleApproveClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	item, err := h.lostFoundService.ApproveClaim(actor, r.PathValue("id"))
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, item)
}

// handleRejectClaim handles POST /api/lostfound/{id}/claim/reject
func (h *APIHandler) handleRejectClaim(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	item, err := h.lostFoundService.RejectClaim(actor, r.PathValue("id"))
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, item)
}

// handleResolveItem handles POST /api/lostfound/{id}/resolve
func (h *APIHandler) handleResolveItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	item, err := h.lostFoundService.ResolveItem(actor, r.PathValue("id"))
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, item)
}
