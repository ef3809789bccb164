package progress

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/learnpath/backend/internal/courses"
	"github.com/learnpath/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SubmitQuiz handles POST /courses/{slug}/chapters/{number}/submit
func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)
	vars := mux.Vars(r)
	slug := vars["slug"]
	number, err := strconv.Atoi(vars["number"])
	if err != nil || number < 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid chapter number"})
		return
	}

	var req models.SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.SubmitQuiz(r.Context(), userID, slug, number, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoAnswers):
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "At least one answer is required"})
		case errors.Is(err, courses.ErrNotFound):
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Course or chapter not found"})
		default:
			log.Printf("WARN: submit quiz for %s/%d failed: %v", slug, number, err)
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to submit quiz"})
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListProgress handles GET /courses/{slug}/progress
func (h *Handler) ListProgress(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(int64)
	slug := mux.Vars(r)["slug"]

	records, err := h.service.ListProgress(r.Context(), userID, slug)
	if err != nil {
		log.Printf("WARN: list progress for %s failed: %v", slug, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}
	if records == nil {
		records = []models.ProgressRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
