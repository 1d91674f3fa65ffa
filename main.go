package main

import (
	"log"
	"time"

	"course-service/internal/config"
	"course-service/internal/content"
	"course-service/internal/event"
	"course-service/internal/handlers"
	"course-service/internal/progress"
	"course-service/internal/repository"
	"course-service/internal/service"
	"course-service/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	kv, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	// RabbitMQ event publisher
	var publisher *event.Publisher
	if cfg.RabbitMQ.URI != "" && cfg.RabbitMQ.Exchange != "" {
		publisher, err = event.NewPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, course events will not be published")
	}

	loader := content.NewLoader(cfg.Content.Dir)

	profileRepo := repository.NewProfileRepository(kv)
	progressRepo := repository.NewProgressRepository(kv, profileRepo)
	favoriteRepo := repository.NewFavoriteRepository(kv, profileRepo)

	trackerOpts := progress.Options{
		MinReadSeconds:        cfg.Progress.MinSectionSeconds,
		ScrollCompletePercent: cfg.Progress.ScrollCompletePercent,
	}

	courseService := service.NewCourseService(loader)
	progressService := service.NewProgressService(progressRepo, loader, publisher, trackerOpts)
	quizService := service.NewQuizService(progressRepo, loader, publisher)
	certificateService := service.NewCertificateService(progressRepo, loader, publisher)

	courseHandler := handlers.NewCourseHandler(courseService)
	profileHandler := handlers.NewProfileHandler(profileRepo)
	progressHandler := handlers.NewProgressHandler(progressService, favoriteRepo)
	quizHandler := handlers.NewQuizHandler(quizService)
	certificateHandler := handlers.NewCertificateHandler(certificateService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	courses := r.Group("/api/courses")
	{
		courses.GET("/", courseHandler.ListCourses)
		courses.GET("/:slug", courseHandler.GetCourse)
		courses.GET("/:slug/sections", courseHandler.GetSections)
		courses.GET("/:slug/quiz", quizHandler.GetQuiz)

		courses.GET("/:slug/progress", progressHandler.GetProgress)
		courses.POST("/:slug/progress/start", progressHandler.StartCourse)
		courses.POST("/:slug/progress/finalize", progressHandler.FinalizeCourse)
		courses.DELETE("/:slug/progress", progressHandler.ResetProgress)
		courses.DELETE("/:slug/progress/quiz", progressHandler.ResetQuiz)
		courses.POST("/:slug/sections/:sectionId/open", progressHandler.OpenSection)
		courses.PUT("/:slug/sections/:sectionId", progressHandler.UpdateSection)
		courses.POST("/:slug/sections/:sectionId/read", progressHandler.MarkSectionRead)

		courses.POST("/:slug/quiz/sessions", quizHandler.StartSession)
		courses.POST("/:slug/certificate", certificateHandler.GenerateCertificate)
		courses.GET("/:slug/certificate", certificateHandler.GetCertificate)
		courses.POST("/:slug/favorite", progressHandler.ToggleFavorite)
	}

	sessions := r.Group("/api/quiz/sessions")
	{
		sessions.GET("/:sessionId", quizHandler.GetSession)
		sessions.POST("/:sessionId/answers", quizHandler.SubmitAnswer)
		sessions.POST("/:sessionId/finish", quizHandler.FinishSession)
		sessions.POST("/:sessionId/retry", quizHandler.RetrySession)
	}

	profiles := r.Group("/api/profiles")
	{
		profiles.GET("/", profileHandler.ListProfiles)
		profiles.POST("/", profileHandler.CreateProfile)
		profiles.PUT("/:id", profileHandler.UpdateProfile)
		profiles.DELETE("/:id", profileHandler.DeleteProfile)
		profiles.POST("/:id/switch", profileHandler.SwitchProfile)
	}

	r.GET("/api/instructors", courseHandler.ListInstructors)
	r.GET("/api/instructors/:id", courseHandler.GetInstructor)
	r.GET("/api/progress", progressHandler.GetAllProgress)
	r.GET("/api/favorites", progressHandler.ListFavorites)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("course-service listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func newStore(cfg *config.Config) (store.KV, error) {
	switch cfg.Store.Backend {
	case "redis":
		return store.NewRedis(cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB)
	case "mongo":
		return store.NewMongo(cfg.Store.MongoURI, cfg.Store.MongoDatabase, "progress_kv")
	default:
		return store.NewMemory(), nil
	}
}
