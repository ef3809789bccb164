package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/learnpath/backend/internal/auth"
	"github.com/learnpath/backend/internal/courses"
	"github.com/learnpath/backend/internal/database"
	"github.com/learnpath/backend/internal/generator"
	"github.com/learnpath/backend/internal/mentor"
	"github.com/learnpath/backend/internal/middleware"
	"github.com/learnpath/backend/internal/progress"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire services
	gen := generator.NewGenerator()

	courseStore := courses.NewStore(db)
	courseService := courses.NewService(courseStore, gen)
	courseHandler := courses.NewHandler(courseService)

	progressStore := progress.NewStore(db)
	progressService := progress.NewService(progressStore, courseService)
	progressHandler := progress.NewHandler(progressService)

	mentorStore := mentor.NewStore(db)
	mentorService := mentor.NewService(courseService, progressService, mentorStore, gen, mentor.ConfigFromEnv())
	mentorSessions := mentor.NewSessionManager()
	mentorHandler := mentor.NewHandler(mentorService, mentorSessions, mentor.ScoreBandPolicyFromEnv())

	authHandler := auth.NewHandler(db)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	// Courses and chapter quizzes
	protected.HandleFunc("/courses", courseHandler.GenerateCourse).Methods("POST")
	protected.HandleFunc("/courses", courseHandler.ListCourses).Methods("GET")
	protected.HandleFunc("/courses/{slug}", courseHandler.GetCourse).Methods("GET")
	protected.HandleFunc("/courses/{slug}/chapters/{number}/quiz", courseHandler.GetChapterQuiz).Methods("GET")

	// Progress
	protected.HandleFunc("/courses/{slug}/chapters/{number}/submit", progressHandler.SubmitQuiz).Methods("POST")
	protected.HandleFunc("/courses/{slug}/progress", progressHandler.ListProgress).Methods("GET")

	// Mentor
	protected.HandleFunc("/courses/{slug}/mentor/status", mentorHandler.GetStatus).Methods("GET")
	protected.HandleFunc("/courses/{slug}/mentor/analysis", mentorHandler.GetAnalysis).Methods("GET")
	protected.HandleFunc("/courses/{slug}/mentor/gap-quiz", mentorHandler.GenerateGapQuiz).Methods("POST")
	protected.HandleFunc("/mentor/gap-quizzes/{quizId}", mentorHandler.GetGapQuiz).Methods("GET")
	protected.HandleFunc("/mentor/gap-quizzes/{quizId}/session", mentorHandler.StartSession).Methods("POST")
	protected.HandleFunc("/mentor/sessions/{sessionId}", mentorHandler.GetSession).Methods("GET")
	protected.HandleFunc("/mentor/sessions/{sessionId}/answer", mentorHandler.SubmitAnswer).Methods("POST")
	protected.HandleFunc("/mentor/sessions/{sessionId}/advance", mentorHandler.Advance).Methods("POST")
	protected.HandleFunc("/mentor/sessions/{sessionId}/results", mentorHandler.GetResults).Methods("GET")
	protected.HandleFunc("/mentor/sessions/{sessionId}", mentorHandler.DiscardSession).Methods("DELETE")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
