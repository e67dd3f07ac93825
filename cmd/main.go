package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"learning-service/internal/achievement"
	"learning-service/internal/config"
	"learning-service/internal/database/mongo"
	"learning-service/internal/database/redis"
	"learning-service/internal/event"
	"learning-service/internal/handlers"
	"learning-service/internal/metrics"
	"learning-service/internal/middleware"
	"learning-service/internal/progression"
	"learning-service/internal/scoring"
	"learning-service/internal/selection"
	"learning-service/internal/service"
	"learning-service/pkg/discovery"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// setupLogging sends the standard logger to a dated file when a log
// directory is configured. Without one, logs stay on stderr.
func setupLogging(logDir string) (*os.File, error) {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if logDir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	return file, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()
	if err := cfg.Auth.Validate(); err != nil {
		log.Fatalf("Invalid auth configuration: %v", err)
	}

	logFile, err := setupLogging(cfg.Server.LogDirectory)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	mongoClient, database, err := mongo.Connect(cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repos, err := service.NewMongoRepositories(indexCtx, mongoClient, database)
	cancel()
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	var sessions middleware.SessionChecker
	if cfg.Redis.Enabled {
		redisClient := redis.Connect(cfg.Redis)
		defer redisClient.Close()
		sessions = middleware.NewRedisSessionChecker(redisClient)
	}

	publisher := event.NewDisabledPublisher()
	if cfg.RabbitMQ.Enabled {
		publisher, err = event.NewEventPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Printf("Warning: Failed to initialize event publisher: %v", err)
			publisher = event.NewDisabledPublisher()
		}
	}

	machine := progression.NewMachine(cfg.Learning.CompletionRatio)
	catalogService := service.NewCatalogService(repos)
	progressService := service.NewProgressService(repos, machine)
	userService := service.NewUserService(repos)
	learningService := service.NewLearningService(
		repos,
		selection.NewSelector(repos.Questions, rand.NewSource(time.Now().UnixNano())),
		scoring.NewEngine(&scoring.Config{
			CorrectReward: cfg.Learning.CorrectReward,
			WrongPenalty:  cfg.Learning.WrongPenalty,
		}),
		achievement.NewEvaluator(&achievement.Config{
			TrophyThreshold: cfg.Learning.TrophyThreshold,
			PointMilestones: cfg.Learning.PointMilestones,
		}, repos.Achievements),
		progressService,
		machine,
		publisher,
		service.BatchConfig{
			DefaultSize: cfg.Learning.DefaultBatchSize,
			MaxSize:     cfg.Learning.MaxBatchSize,
		},
	)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), metrics.Middleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", middleware.UserHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !allowsAnyOrigin(cfg.Server.AllowedOrigins),
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Learning Service is healthy")
	})
	router.GET("/metrics", metrics.Handler())

	handlers.RegisterRoutes(router, middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, sessions, cfg.Auth.TrustUserHeader), &handlers.Handlers{
		Courses:   handlers.NewCourseHandler(catalogService),
		Questions: handlers.NewQuestionHandler(learningService),
		Progress:  handlers.NewProgressHandler(progressService),
		Users:     handlers.NewUserHandler(userService),
	})

	var registry *discovery.ServiceRegistry
	if cfg.Consul.Enabled {
		registry, err = discovery.NewServiceRegistry(cfg)
		if err != nil {
			log.Printf("Warning: Failed to create service registry: %v", err)
		} else if err := registry.Register(); err != nil {
			log.Printf("Warning: %v", err)
			registry = nil
		}
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	shutdownChan := make(chan os.Signal, 1)
	doneChan := make(chan bool, 1)

	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
		doneChan <- true
	}()

	<-shutdownChan
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if registry != nil {
		if err := registry.Deregister(); err != nil {
			log.Printf("Error deregistering from service discovery: %v", err)
		}
	}

	if err := publisher.Close(); err != nil {
		log.Printf("Error closing event publisher: %v", err)
	}

	mongo.Disconnect(mongoClient)

	<-doneChan
	log.Println("Server exited, goodbye!")
}

// allowsAnyOrigin reports whether the wildcard origin is configured.
// Browsers refuse credentialed responses to a wildcard origin.
func allowsAnyOrigin(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
