package handlers

import (
	"net/http"

	"github.com/hostelcare/hostelcare/internal/api"
	"github.com/hostelcare/hostelcare/internal/database"
	"github.com/hostelcare/hostelcare/internal/services"
)

// handleListIssues handles GET /api/issues
func (h *APIHandler) handleListIssues(w http.ResponseWriter, r *http.Request) {
	includeMerged := r.URL.Query().Get("include_merged") == "true"

	issues, err := h.issueService.ListIssues(includeMerged)
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}

	if r.URL.Query().Get("page") != "" || r.URL.Query().Get("per_page") != "" {
		params := api.ParsePagination(r)
		page, total := api.Slice(issues, params)
		api.RespondJSON(w, http.StatusOK, api.PaginatedResponse{
			Data: page,
			Pagination: api.PaginationMeta{
				Page:       params.Page,
				PerPage:    params.PerPage,
				Total:      total,
				TotalPages: params.TotalPages(total),
			},
		})
		return
	}

	api.RespondJSON(w, http.StatusOK, issues)
}

// handleCreateIssue handles POST /api/issues. When the new report is folded
// into an existing issue the response says so and carries the primary.
func (h *APIHandler) handleCreateIssue(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req api.CreateIssueRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	result, err := h.issueService.CreateIssue(actor, services.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    database.IssueCategory(req.Category),
		Priority:    database.IssuePriority(req.Priority),
		Hostel:      req.Hostel,
		Block:       req.Block,
		Room:        req.Room,
		Attachments: api.ToAttachments(req.Attachments),
	})
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}

	api.RespondJSON(w, http.StatusCreated, result)
}

// handleGetIssue handles GET /api/issues/{id}
func (h *APIHandler) handleGetIssue(w http.ResponseWriter, r *http.Request) {
	issue, err := h.issueService.GetIssue(r.PathValue("id"))
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, issue)
}

// handleDeleteIssue handles DELETE /api/issues/{id}
func (h *APIHandler) handleDeleteIssue(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.issueService.DeleteIssue(actor, r.PathValue("id")); err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondNoContent(w)
}

// handleFindSimilar handles GET /api/issues/{id}/similar
func (h *APIHandler) handleFindSimilar(w http.ResponseWriter, r *http.Request) {
	results, err := h.issueService.FindSimilarIssues(r.PathValue("id"))
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, results)
}

// handleMergeIssues handles POST /api/issues/{id}/merge. The path id is the
// primary; the body lists the duplicates to fold into it.
func (h *APIHandler) handleMergeIssues(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req api.MergeRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	primary, err := h.issueService.Merge(actor, r.PathValue("id"), req.DuplicateIDs)
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, primary)
}

// handleUnmergeIssue handles POST /api/issues/{id}/unmerge
func (h *APIHandler) handleUnmergeIssue(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	issue, err := h.issueService.Unmerge(actor, r.PathValue("id"))
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, issue)
}

// handleUpdateStatus handles PATCH /api/issues/{id}/status
func (h *APIHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req api.UpdateStatusRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	issue, err := h.issueService.UpdateStatus(actor, r.PathValue("id"), database.IssueStatus(req.Status))
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, issue)
}

// handleAssignStaff handles POST /api/issues/{id}/assign
func (h *APIHandler) handleAssignStaff(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req api.AssignStaffRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	issue, err := h.issueService.AssignStaff(actor, r.PathValue("id"), req.StaffID)
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, issue)
}

// handleAdminRemark handles POST /api/issues/{id}/remark
func (h *APIHandler) handleAdminRemark(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req api.AdminRemarkRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	issue, err := h.issueService.AddAdminRemark(actor, r.PathValue("id"), req.Remark)
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, issue)
}

// handleResolutionProof handles POST /api/issues/{id}/resolution-proof
func (h *APIHandler) handleResolutionProof(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req api.ResolutionProofRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	issue, err := h.issueService.SetResolutionProof(actor, r.PathValue("id"), api.ToAttachments(req.Proofs), req.Remark)
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, issue)
}

// handleReopenIssue handles POST /api/issues/{id}/reopen
func (h *APIHandler) handleReopenIssue(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	issue, err := h.issueService.Reopen(actor, r.PathValue("id"))
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, issue)
}
