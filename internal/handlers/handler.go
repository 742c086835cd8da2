package handlers

import (
	"net/http"

	"github.com/hostelcare/hostelcare/internal/api"
	"github.com/hostelcare/hostelcare/internal/database"
	"github.com/hostelcare/hostelcare/internal/middleware"
	"github.com/hostelcare/hostelcare/internal/services"
)

// APIHandler handles the REST endpoints for the hostel application.
type APIHandler struct {
	userService         *services.UserService
	issueService        *services.IssueService
	staffService        *services.StaffService
	lostFoundService    *services.LostFoundService
	feedbackService     *services.FeedbackService
	announcementService *services.AnnouncementService
	threadService       *services.ThreadService
	jwtAuth             *middleware.JWTAuthMiddleware
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(
	userService *services.UserService,
	issueService *services.IssueService,
	staffService *services.StaffService,
	lostFoundService *services.LostFoundService,
	feedbackService *services.FeedbackService,
	announcementService *services.AnnouncementService,
	threadService *services.ThreadService,
	jwtAuth *middleware.JWTAuthMiddleware,
) *APIHandler {
	return &APIHandler{
		userService:         userService,
		issueService:        issueService,
		staffService:        staffService,
		lostFoundService:    lostFoundService,
		feedbackService:     feedbackService,
		announcementService: announcementService,
		threadService:       threadService,
		jwtAuth:             jwtAuth,
	}
}

// SetupRoutes sets up all API routes
func (h *APIHandler) SetupRoutes(mux *http.ServeMux) {
	// Authentication
	mux.HandleFunc("POST /auth/signup", h.handleSignup)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.HandleFunc("GET /auth/me", h.handleGetMe)
	mux.HandleFunc("PATCH /auth/me", h.handleUpdateMe)

	// Issues and the duplicate-detection engine
	mux.HandleFunc("GET /api/issues", h.handleListIssues)
	mux.HandleFunc("POST /api/issues", h.handleCreateIssue)
	mux.HandleFunc("GET /api/issues/{id}", h.handleGetIssue)
	mux.HandleFunc("DELETE /api/issues/{id}", h.staffOnly(h.handleDeleteIssue))
	mux.HandleFunc("GET /api/issues/{id}/similar", h.handleFindSimilar)
	mux.HandleFunc("POST /api/issues/{id}/merge", h.staffOnly(h.handleMergeIssues))
	mux.HandleFunc("POST /api/issues/{id}/unmerge", h.staffOnly(h.handleUnmergeIssue))
	mux.HandleFunc("PATCH /api/issues/{id}/status", h.staffOnly(h.handleUpdateStatus))
	mux.HandleFunc("POST /api/issues/{id}/assign", h.staffOnly(h.handleAssignStaff))
	mux.HandleFunc("POST /api/issues/{id}/remark", h.staffOnly(h.handleAdminRemark))
	mux.HandleFunc("POST /api/issues/{id}/resolution-proof", h.staffOnly(h.handleResolutionProof))
	mux.HandleFunc("POST /api/issues/{id}/reopen", h.handleReopenIssue)

	// Issue discussion threads
	mux.HandleFunc("GET /api/issues/{id}/thread", h.handleGetThread)
	mux.HandleFunc("POST /api/issues/{id}/thread", h.handleAddComment)

	// Lost and found
	mux.HandleFunc("GET /api/lostfound", h.handleListItems)
	mux.HandleFunc("POST /api/lostfound", h.handleReportItem)
	mux.HandleFunc("GET /api/lostfound/{id}", h.handleGetItem)
	mux.HandleFunc("POST /api/lostfound/{id}/claim", h.handleRequestClaim)
	mux.HandleFunc("POST /api/lostfound/{id}/claim/approve", h.staffOnly(h.handleApproveClaim))
	mux.HandleFunc("POST /api/lostfound/{id}/claim/reject", h.staffOnly(h.handleRejectClaim))
	mux.HandleFunc("POST /api/lostfound/{id}/resolve", h.staffOnly(h.handleResolveItem))

	// Monthly feedback
	mux.HandleFunc("GET /api/feedback", h.handleListFeedback)
	mux.HandleFunc("POST /api/feedback", h.handleSubmitFeedback)

	// Announcements
	mux.HandleFunc("GET /api/announcements", h.handleListAnnouncements)
	mux.HandleFunc("POST /api/announcements", h.staffOnly(h.handleCreateAnnouncement))
	mux.HandleFunc("DELETE /api/announcements/{id}", h.staffOnly(h.handleDeleteAnnouncement))

	// Maintenance staff
	mux.HandleFunc("GET /api/staff", h.handleListStaff)
	mux.HandleFunc("GET /api/staff/{id}", h.handleGetStaff)
	mux.HandleFunc("POST /api/staff", h.staffOnly(h.handleCreateStaff))
	mux.HandleFunc("PATCH /api/staff/{id}", h.staffOnly(h.handleUpdateStaff))
	mux.HandleFunc("DELETE /api/staff/{id}", h.staffOnly(h.handleDeleteStaff))
}

// staffOnly restricts a handler to management and admin accounts.
func (h *APIHandler) staffOnly(next http.HandlerFunc) http.HandlerFunc {
	return middleware.RequireRole(next, database.UserRoleManagement, database.UserRoleAdmin)
}

// actorFromRequest resolves the authenticated account into a service actor.
// The user record is loaded fresh so role or room changes take effect without
// waiting for token expiry.
func (h *APIHandler) actorFromRequest(w http.ResponseWriter, r *http.Request) (services.Actor, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		api.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return services.Actor{}, false
	}

	user, err := h.userService.GetUser(claims.UserID)
	if err != nil {
		api.RespondError(w, http.StatusUnauthorized, "Account no longer exists")
		return services.Actor{}, false
	}
	return services.ActorFromUser(user), true
}
