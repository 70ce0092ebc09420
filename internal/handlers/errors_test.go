package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartlens-backend/internal/models"
	"smartlens-backend/internal/services"
)

func TestHandleServiceError_Taxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"empty input", services.ErrEmptyInput, http.StatusBadRequest, "EMPTY_INPUT"},
		{"no captions", fmt.Errorf("%w: video xyz", services.ErrNoCaptions), http.StatusUnprocessableEntity, "NO_CAPTIONS"},
		{"rate limited", fmt.Errorf("%w: quota", services.ErrRateLimited), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"model missing", services.ErrModelNotFound, http.StatusBadGateway, "AI_UNAVAILABLE"},
		{"no json", services.ErrNoJSONFound, http.StatusBadGateway, "AI_FORMAT_ERROR"},
		{"malformed json", &services.MalformedJSONError{Err: fmt.Errorf("bad token")}, http.StatusBadGateway, "AI_FORMAT_ERROR"},
		{"zero questions", services.ErrNoQuestions, http.StatusBadGateway, "AI_FORMAT_ERROR"},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/lessons/analyze-text", nil)
			rr := httptest.NewRecorder()

			handleServiceError(rr, req, tc.err)

			if rr.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tc.wantStatus)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", resp.Error.Code, tc.wantCode)
			}
		})
	}
}
