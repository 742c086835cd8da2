package handlers

import (
	"net/http"

	"github.com/hostelcare/hostelcare/internal/api"
	"github.com/hostelcare/hostelcare/internal/database"
	"github.com/hostelcare/hostelcare/internal/services"
)

// handleListStaff handles GET /api/staff. An optional ?specialty= narrows the
// roster to one maintenance category.
func (h *APIHandler) handleListStaff(w http.ResponseWriter, r *http.Request) {
	specialty := database.StaffSpecialty(r.URL.Query().Get("specialty"))

	staff, err := h.staffService.ListStaff(specialty)
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, staff)
}

// handleGetStaff handles GET /api/staff/{id}
func (h *APIHandler) handleGetStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.staffService.GetStaff(r.PathValue("id"))
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, staff)
}

// handleCreateStaff handles POST /api/staff
func (h *APIHandler) handleCreateStaff(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req api.StaffRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	staff, err := h.staffService.CreateStaff(actor, services.CreateStaffInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Specialty: database.StaffSpecialty(req.Specialty),
		Hostel:    req.Hostel,
	})
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusCreated, staff)
}

// handleUpdateStaff handles PATCH /api/staff/{id}
func (h *APIHandler) handleUpdateStaff(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req api.UpdateStaffRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	input := services.UpdateStaffInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Hostel:   req.Hostel,
		IsActive: req.IsActive,
	}
	if req.Specialty != nil {
		specialty := database.StaffSpecialty(*req.Specialty)
		input.Specialty = &specialty
	}

	staff, err := h.staffService.UpdateStaff(actor, r.PathValue("id"), input)
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, staff)
}

// handleDeleteStaff handles DELETE /api/staff/{id}
func (h *APIHandler) handleDeleteStaff(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.staffService.DeleteStaff(actor, r.PathValue("id")); err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondNoContent(w)
}
