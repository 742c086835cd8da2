package handlers

import (
	"log"
	"net/http"

	"github.com/hostelcare/hostelcare/internal/api"
	"github.com/hostelcare/hostelcare/internal/services"
)

// handleSignup handles POST /auth/signup
func (h *APIHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req api.SignupRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	user, err := h.userService.Signup(services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Hostel:   req.Hostel,
		Block:    req.Block,
		Room:     req.Room,
	})
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}

	token, err := h.jwtAuth.GenerateToken(user)
	if err != nil {
		log.Printf("Failed to generate token for %s: %v", user.Email, err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	api.RespondJSON(w, http.StatusCreated, api.TokenResponse{Token: token, User: user})
}

// handleLogin handles POST /auth/login
func (h *APIHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	user, err := h.userService.Authenticate(req.Email, req.Password)
	if err != nil {
		// Same response for unknown email and wrong password.
		api.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.jwtAuth.GenerateToken(user)
	if err != nil {
		log.Printf("Failed to generate token for %s: %v", user.Email, err)
		api.RespondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	api.RespondJSON(w, http.StatusOK, api.TokenResponse{Token: token, User: user})
}

// handleGetMe handles GET /auth/me
func (h *APIHandler) handleGetMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(actor.ID)
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, user)
}

// handleUpdateMe handles PATCH /auth/me
func (h *APIHandler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actorFromRequest(w, r)
	if !ok {
		return
	}

	var req api.UpdateProfileRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	user, err := h.userService.UpdateProfile(actor, services.UpdateProfileInput{
		Name:   req.Name,
		Phone:  req.Phone,
		Hostel: req.Hostel,
		Block:  req.Block,
		Room:   req.Room,
		Avatar: req.Avatar,
	})
	if err != nil {
		api.RespondServiceError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, user)
}
