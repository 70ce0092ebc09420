package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"smartlens-backend/internal/models"
	"smartlens-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

// handleServiceError maps the generation error taxonomy onto API responses.
// Every failure is terminal for the one action that triggered it; the session
// stays usable and the caller may retry immediately.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var malformed *services.MalformedJSONError

	switch {
	case errors.Is(err, services.ErrEmptyInput):
		writeJSON(w, http.StatusBadRequest, errorResp("EMPTY_INPUT", "Source text is empty. Paste some content first.", r))
	case errors.Is(err, services.ErrNoCaptions):
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("NO_CAPTIONS", "This video has no captions. Try the paste-text option instead.", r))
	case errors.Is(err, services.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorResp("RATE_LIMITED", "The AI service is rate limited. Wait a moment and try again.", r))
	case errors.Is(err, services.ErrModelNotFound):
		writeJSON(w, http.StatusBadGateway, errorResp("AI_UNAVAILABLE", "The AI model is unavailable right now.", r))
	case errors.Is(err, services.ErrNoJSONFound), errors.As(err, &malformed), errors.Is(err, services.ErrNoQuestions):
		writeJSON(w, http.StatusBadGateway, errorResp("AI_FORMAT_ERROR", "The AI returned an unexpected format. Please try again.", r))
	default:
		log.Printf("Unhandled service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Something went wrong.", r))
	}
}
