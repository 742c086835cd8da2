package handlers

import (
	"net/http"

	"github.com/hostelcare/hostelcare/internal/api"
	"github.com/hostelcare/hostelcare/internal/services"
)

// handleListAnnouncements handles GET /api/announcements
func (h *APIHandler) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.announcementService.ListAnnouncements(r.URL.Query().Get("hostel"))
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, announcements)
}

// handleCreateAnnouncement handles POST /api/announcements
func (h *APIHandler) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req api.AnnouncementRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	announcement, err := h.announcementService.CreateAnnouncement(actor, services.CreateAnnouncementInput{
		Title:   req.Title,
		Message: req.Message,
		Hostel:  req.Hostel,
		Blocks:  req.Blocks,
	})
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusCreated, announcement)
}

// handleDeleteAnnouncement handles DELETE /api/announcements/{id}
func (h *APIHandler) handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if err := h.announcementService.DeleteAnnouncement(r.PathValue("id")); err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondNoContent(w)
}
