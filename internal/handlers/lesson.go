package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"smartlens-backend/internal/middleware"
	"smartlens-backend/internal/models"
	"smartlens-backend/internal/repository"
	"smartlens-backend/internal/services"
	"smartlens-backend/internal/session"
)

const maxUploadBytes = 10 << 20 // 10MB

type LessonHandler struct {
	lessons     *services.LessonService
	youtube     *services.YouTubeService
	fileExtract *services.FileExtractService
	lessonRepo  *repository.LessonRepo
	sessions    *session.Store
}

func NewLessonHandler(
	lessons *services.LessonService,
	youtube *services.YouTubeService,
	fileExtract *services.FileExtractService,
	lessonRepo *repository.LessonRepo,
	sessions *session.Store,
) *LessonHandler {
	return &LessonHandler{
		lessons:     lessons,
		youtube:     youtube,
		fileExtract: fileExtract,
		lessonRepo:  lessonRepo,
		sessions:    sessions,
	}
}

// AnalyzeVideo turns a YouTube link into a lesson: extract the video ID,
// fetch the caption transcript, run the generation pipeline.
func (h *LessonHandler) AnalyzeVideo(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	videoID, err := services.ExtractVideoID(req.URL)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Not a valid YouTube link", r))
		return
	}

	transcript, err := h.youtube.GetTranscript(videoID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.runAnalysis(w, r, transcript, h.youtube.GetVideoTitle(videoID))
}

// AnalyzeText runs the generation pipeline over pasted text.
func (h *LessonHandler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Pasted text"
	}

	h.runAnalysis(w, r, req.Text, title)
}

// AnalyzeFile extracts text from an uploaded document (.txt/.pdf/.docx) and
// feeds it through the same pipeline as pasted text.
func (h *LessonHandler) AnalyzeFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Upload too large or malformed", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing file field", r))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Could not read upload", r))
		return
	}

	text, err := h.fileExtract.ExtractText(header.Filename, data)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("VALIDATION_ERROR", err.Error(), r))
		return
	}

	h.runAnalysis(w, r, text, header.Filename)
}

// runAnalysis is the shared tail of all three input paths. Generation is
// all-or-nothing: on any failure the current lesson and scores are untouched.
func (h *LessonHandler) runAnalysis(w http.ResponseWriter, r *http.Request, source, title string) {
	sessionID := middleware.GetSessionID(r.Context())

	lesson, err := h.lessons.GenerateLesson(r.Context(), source, title)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	// History is a convenience; a storage hiccup should not discard a good lesson.
	if err := h.lessonRepo.Create(r.Context(), sessionID, lesson); err != nil {
		log.Printf("Failed to store lesson %s in history: %v", lesson.ID, err)
	}

	sess := h.sessions.GetOrCreate(sessionID)
	sess.SetLesson(lesson)
	score, streak := sess.Score()

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"lesson": lesson.Redact(),
		"score":  score,
		"streak": streak,
	})
}

// Current returns the active lesson with correct labels withheld, plus which
// questions are already locked.
func (h *LessonHandler) Current(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.GetOrCreate(middleware.GetSessionID(r.Context()))

	lesson := sess.Lesson()
	if lesson == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No active lesson", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lesson":   lesson.Redact(),
		"answered": sess.Answered(),
	})
}

// ClearCurrent drops the active lesson (the "new lesson" button).
func (h *LessonHandler) ClearCurrent(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.GetOrCreate(middleware.GetSessionID(r.Context()))
	sess.ClearLesson()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Lesson cleared"})
}

// History lists stored lessons for this session, newest first.
func (h *LessonHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	items, err := h.lessonRepo.ListBySession(r.Context(), sessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch history", r))
		return
	}
	if items == nil {
		items = []models.LessonSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"lessons": items})
}

// LoadHistory re-activates a stored lesson. The answered-set resets; score
// and streak are untouched.
func (h *LessonHandler) LoadHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid lesson ID", r))
		return
	}

	sessionID := middleware.GetSessionID(r.Context())

	lesson, err := h.lessonRepo.GetByID(r.Context(), sessionID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Lesson not found", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load lesson", r))
		return
	}

	sess := h.sessions.GetOrCreate(sessionID)
	sess.SetLesson(lesson)

	writeJSON(w, http.StatusOK, map[string]interface{}{"lesson": lesson.Redact()})
}
