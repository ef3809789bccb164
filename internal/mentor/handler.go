package mentor

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/learnpath/backend/internal/models"
)

// Handler exposes the mentor engine over HTTP. All routes expect an
// authenticated user id in the request context.
type Handler struct {
	service  *Service
	sessions *SessionManager
	bands    ScoreBandPolicy
}

func NewHandler(service *Service, sessions *SessionManager, bands ScoreBandPolicy) *Handler {
	return &Handler{service: service, sessions: sessions, bands: bands}
}

// GetStatus handles GET /courses/{slug}/mentor/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)
	slug := mux.Vars(r)["slug"]

	status, err := h.service.Status(r.Context(), userID, slug)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// GetAnalysis handles GET /courses/{slug}/mentor/analysis
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)
	slug := mux.Vars(r)["slug"]

	analysis, err := h.service.Analyze(r.Context(), userID, slug)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// GenerateGapQuiz handles POST /courses/{slug}/mentor/gap-quiz
func (h *Handler) GenerateGapQuiz(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)
	slug := mux.Vars(r)["slug"]

	var req models.GenerateGapQuizRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
			return
		}
	}

	quiz, cacheHit, err := h.service.ComposeGapQuiz(r.Context(), userID, slug, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	status := http.StatusCreated
	if cacheHit {
		status = http.StatusOK
	}
	writeJSON(w, status, models.GapQuizResponse{Quiz: *quiz, CacheHit: cacheHit})
}

// GetGapQuiz handles GET /mentor/gap-quizzes/{quizId}
func (h *Handler) GetGapQuiz(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)
	quizID := mux.Vars(r)["quizId"]

	quiz, err := h.service.GetGapQuiz(r.Context(), userID, quizID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

// sessionView is the client-facing snapshot of a live session.
type sessionView struct {
	SessionID string                  `json:"session_id"`
	QuizID    string                  `json:"quiz_id"`
	State     SessionState            `json:"state"`
	Position  int                     `json:"position"`
	Total     int                     `json:"total"`
	Question  *models.GapQuizQuestion `json:"question,omitempty"`
}

func snapshotSession(s *QuizSession) sessionView {
	view := sessionView{
		SessionID: s.ID,
		QuizID:    s.QuizID,
		State:     s.State(),
		Position:  s.Position(),
		Total:     s.TotalQuestions(),
	}
	if q, err := s.CurrentQuestion(); err == nil {
		view.Question = q
	}
	return view
}

// StartSession handles POST /mentor/gap-quizzes/{quizId}/session
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)
	quizID := mux.Vars(r)["quizId"]

	quiz, err := h.service.GetGapQuiz(r.Context(), userID, quizID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	session, err := h.sessions.Start(quiz)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshotSession(session))
}

// GetSession handles GET /mentor/sessions/{sessionId}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.sessions.Get(sessionID, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotSession(session))
}

type submitAnswerRequest struct {
	Answer string `json:"answer"`
}

type submitAnswerResponse struct {
	Record      AnswerRecord `json:"record"`
	Explanation string       `json:"explanation"`
	State       SessionState `json:"state"`
}

// SubmitAnswer handles POST /mentor/sessions/{sessionId}/answer
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.sessions.Get(sessionID, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	record, err := session.Submit(req.Answer)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := submitAnswerResponse{Record: *record, State: session.State()}
	if q, err := session.CurrentQuestion(); err == nil {
		resp.Explanation = q.Explanation
	}
	writeJSON(w, http.StatusOK, resp)
}

// Advance handles POST /mentor/sessions/{sessionId}/advance
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.sessions.Get(sessionID, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := session.Advance(); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotSession(session))
}

// GetResults handles GET /mentor/sessions/{sessionId}/results
func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.sessions.Get(sessionID, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := AggregateResults(session, h.bands)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DiscardSession handles DELETE /mentor/sessions/{sessionId}
func (h *Handler) DiscardSession(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)
	sessionID := mux.Vars(r)["sessionId"]

	h.sessions.Discard(sessionID, userID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: ve.Error()})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Not found"})
	case errors.Is(err, ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
	case errors.Is(err, ErrMentorLocked):
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Complete more chapters to unlock the mentor"})
	case errors.Is(err, ErrSessionProtocol):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Operation not valid in the session's current state"})
	case errors.Is(err, ErrGenerationFailed):
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Question generation failed, please retry"})
	default:
		log.Printf("WARN: mentor handler error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
