package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/hostelcare/hostelcare/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// RespondJSON writes data as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON response: %v", err)
		}
	}
}

// RespondError writes a standard error response.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondValidationError writes field-level validation errors as a 422 response.
func RespondValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	RespondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "Validation failed",
		Code:    "validation_error",
		Details: fieldErrors,
	})
}

// RespondServiceError maps service-layer errors onto HTTP status codes:
// not-found becomes 404, validation failures become 400, anything else is a
// 500 with the detail kept out of the response body.
func RespondServiceError(w http.ResponseWriter, err error) {
	switch {
	case services.IsNotFound(err):
		RespondError(w, http.StatusNotFound, err.Error())
	case services.IsValidation(err):
		RespondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// RespondNoContent writes a 204 No Content response with no body.
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
