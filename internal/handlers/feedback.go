package handlers

import (
	"net/http"
	"strconv"

	"github.com/hostelcare/hostelcare/internal/api"
	"github.com/hostelcare/hostelcare/internal/database"
	"github.com/hostelcare/hostelcare/internal/services"
)

// handleListFeedback handles GET /api/feedback. Students see their own
// submissions; management can request a whole month with ?month= and ?year=.
func (h *APIHandler) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	if actor.Role == database.UserRoleManagement || actor.Role == database.UserRoleAdmin {
		month, _ := strconv.Atoi(r.URL.Query().Get("month"))
		year, _ := strconv.Atoi(r.URL.Query().Get("year"))
		feedback, err := h.feedbackService.ListForMonth(month, year)
		if err != nil {
			api.RespondServiceError(w, err)
			return
		}
		api.RespondJSON(w, http.StatusOK, feedback)
		return
	}

	feedback, err := h.feedbackService.ListForStudent(actor.ID)
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, feedback)
}

// handleSubmitFeedback handles POST /api/feedback
func (h *APIHandler) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req api.FeedbackRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	feedback, err := h.feedbackService.Submit(actor, services.SubmitInput{
		Category: database.FeedbackCategory(req.Category),
		Rating:   req.Rating,
		Comment:  req.Comment,
		Hostel:   req.Hostel,
	})
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusCreated, feedback)
}
