package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"smartlens-backend/internal/middleware"
	"smartlens-backend/internal/models"
	"smartlens-backend/internal/session"
)

type SessionHandler struct {
	auth     *middleware.SessionAuth
	sessions *session.Store
}

func NewSessionHandler(auth *middleware.SessionAuth, sessions *session.Store) *SessionHandler {
	return &SessionHandler{auth: auth, sessions: sessions}
}

// Create mints a new guest session and its token.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	token, sessionID, err := h.auth.IssueToken()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create session", r))
		return
	}

	h.sessions.GetOrCreate(sessionID)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token":      token,
		"session_id": sessionID,
	})
}

// Score returns the cumulative score and current streak.
func (h *SessionHandler) Score(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.GetOrCreate(middleware.GetSessionID(r.Context()))
	score, streak := sess.Score()
	writeJSON(w, http.StatusOK, models.ScoreResponse{Score: score, Streak: streak})
}

// SubmitAnswer grades one quiz question against the active lesson. An
// already-locked question is a no-op, reported as such.
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	sess := h.sessions.GetOrCreate(middleware.GetSessionID(r.Context()))

	result, err := sess.SubmitAnswer(req.QuestionIndex, req.Option)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoLesson):
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No active lesson to answer", r))
		case errors.Is(err, session.ErrQuestionOutOfRange):
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Question index out of range", r))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to grade answer", r))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.SubmitAnswerResponse{
		AlreadyAnswered: result.AlreadyAnswered,
		Correct:         result.Correct,
		Score:           result.Score,
		Streak:          result.Streak,
	})
}
