package courses

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/learnpath/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GenerateCourse handles POST /courses
func (h *Handler) GenerateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyBeginner
	}

	course, cached, err := h.service.GenerateCourse(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Course not found"})
			return
		}
		log.Printf("WARN: course generation failed: %v", err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Course generation failed, please retry"})
		return
	}

	status := http.StatusCreated
	message := "Course generated"
	if cached {
		status = http.StatusOK
		message = "Course already exists"
	}
	writeJSON(w, status, models.GenerateCourseResponse{Course: *course, Cached: cached, Message: message})
}

// ListCourses handles GET /courses
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.ListCourses(r.Context())
	if err != nil {
		log.Printf("WARN: list courses failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}
	writeJSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /courses/{slug}
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	course, err := h.service.GetCourse(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Course not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// GetChapterQuiz handles GET /courses/{slug}/chapters/{number}/quiz
// Questions are served without answers or explanations.
func (h *Handler) GetChapterQuiz(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slug := vars["slug"]
	number, err := strconv.Atoi(vars["number"])
	if err != nil || number < 1 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid chapter number"})
		return
	}

	quiz, err := h.service.GetOrGenerateChapterQuiz(r.Context(), slug, number)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Course or chapter not found"})
			return
		}
		log.Printf("WARN: chapter quiz for %s/%d failed: %v", slug, number, err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Quiz generation failed, please retry"})
		return
	}

	served := make([]models.ServedQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		served = append(served, q.Strip())
	}
	writeJSON(w, http.StatusOK, models.ChapterQuizResponse{
		CourseSlug:    slug,
		ChapterNumber: number,
		Questions:     served,
		Total:         len(served),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
