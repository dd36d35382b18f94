package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"skillprofile-system/internal/auth"
	"skillprofile-system/internal/bank"
	"skillprofile-system/internal/models"
	"skillprofile-system/internal/quiz"
	"skillprofile-system/internal/refdata"
	"skillprofile-system/internal/skills"
	"skillprofile-system/internal/transcript"
	"skillprofile-system/pkg/cache"
	"skillprofile-system/pkg/database"
	"skillprofile-system/pkg/websocket"

	"github.com/gorilla/mux"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Initialize database
	dbConfig := &database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Student{},
		&models.CourseTaken{},
		&models.CourseSkillMap{},
		&models.SkillEvidence{},
		&models.SkillProfileClaimed{},
		&models.QuizPlan{},
		&models.QuizAttempt{},
		&models.QuizQuestion{},
		&models.QuizAnswer{},
		&models.QuestionBank{},
		&models.StudentSkillPortfolio{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize Redis cache
	redisCache := cache.NewRedisCache(os.Getenv("REDIS_ADDR"))

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// The academic year recency decays from; see skills.Service.
	currentAcademicYear := 4
	if raw := os.Getenv("CURRENT_ACADEMIC_YEAR"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("Invalid CURRENT_ACADEMIC_YEAR %q: %v", raw, err)
		}
		currentAcademicYear = year
	}

	// Initialize repositories
	authRepo := auth.NewRepository(db)
	skillsRepo := skills.NewRepository(db)
	quizRepo := quiz.NewRepository(db)
	transcriptRepo := transcript.NewRepository(db)
	bankRepo := bank.NewRepository(db)
	refdataRepo := refdata.NewRepository(db)

	// Initialize services
	jwtSecret := os.Getenv("JWT_SECRET")
	authService := auth.NewService(authRepo, jwtSecret)
	skillsService := skills.NewService(skillsRepo, redisCache, wsHub, currentAcademicYear)
	quizService := quiz.NewService(quizRepo, redisCache, wsHub)
	transcriptService := transcript.NewService(transcriptRepo, skillsService)
	bankService := bank.NewService(bankRepo)
	refdataService := refdata.NewService(refdataRepo)

	// Seed course-skill reference data when the table is empty
	skillMapPath := os.Getenv("COURSE_SKILL_MAP_PATH")
	if skillMapPath != "" {
		count, err := refdataService.CountMappings()
		if err != nil {
			log.Fatalf("Failed to check course skill map: %v", err)
		}
		if count == 0 {
			result, err := refdataService.LoadCourseSkillMapFile(skillMapPath)
			if err != nil {
				log.Fatalf("Failed to seed course skill map: %v", err)
			}
			log.Printf("Seeded course skill map: %d rows, %d skipped", result.Loaded, result.Skipped)
		}
	}

	// Initialize handlers
	authHandler := auth.NewHandler(authService)
	skillsHandler := skills.NewHandler(skillsService)
	quizHandler := quiz.NewHandler(quizService)
	transcriptHandler := transcript.NewHandler(transcriptService)
	bankHandler := bank.NewHandler(bankService)
	refdataHandler := refdata.NewHandler(refdataService, skillMapPath)

	// Setup router
	router := mux.NewRouter()

	// CORS middleware configuration
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, // Frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	handler := corsMiddleware.Handler(router)

	// Auth routes - no JWT required
	router.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Student routes - JWT required
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.JWTMiddleware(jwtSecret))

	apiRouter.HandleFunc("/students/{studentID}/transcript", transcriptHandler.IngestTranscript).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/students/{studentID}/courses", transcriptHandler.GetCourses).Methods("GET")
	apiRouter.HandleFunc("/students/{studentID}/skills/recompute", skillsHandler.RecomputeSkills).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/students/{studentID}/skills/evidence", skillsHandler.GetEvidence).Methods("GET")
	apiRouter.HandleFunc("/students/{studentID}/skills", skillsHandler.GetClaimedProfile).Methods("GET")
	apiRouter.HandleFunc("/students/{studentID}/quiz/plan/latest", quizHandler.GetLatestPlan).Methods("GET")
	apiRouter.HandleFunc("/students/{studentID}/quiz/plan", quizHandler.CreatePlan).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/students/{studentID}/quiz/sample", quizHandler.SampleQuiz).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/students/{studentID}/quiz/submit", quizHandler.SubmitQuiz).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/students/{studentID}/portfolio", quizHandler.GetPortfolio).Methods("GET")

	// Admin routes - question bank and reference data
	apiRouter.HandleFunc("/admin/question-bank/stats", bankHandler.GetStats).Methods("GET")
	apiRouter.HandleFunc("/admin/question-bank", bankHandler.AddQuestions).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc("/admin/refdata/reload", refdataHandler.ReloadCourseSkillMap).Methods("POST", "OPTIONS")

	// WebSocket endpoint
	router.HandleFunc("/ws/{studentID}", wsHub.HandleWebSocket)

	// Setup server with CORS handler
	srv := &http.Server{
		Addr:         ":8080",
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port 8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown setup
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown gracefully")
}
