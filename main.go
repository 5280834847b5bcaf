package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"quizzical/config"
	"quizzical/handlers"
	"quizzical/middleware"
	"quizzical/models"
	"quizzical/routes"
	"quizzical/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Redis is optional; without it rankings are computed on every request
	var rankingCache *services.RankingCache
	if redisClient := config.InitRedis(cfg); redisClient != nil {
		rankingCache = services.NewRankingCache(redisClient, cfg.RankingCacheTTL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run(ctx)

	// Initialize services
	quizService := services.NewQuizService(db, cfg.SlugAttempts)
	rankingService := services.NewRankingService(db, rankingCache)
	resultService := services.NewResultService(db, quizService, rankingService, hub)
	socialService := services.NewSocialService(db, rankingService, hub)
	userService := services.NewUserService(db)

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.CORS())

	routes.SetupRoutes(router, routes.Handlers{
		Quiz:   handlers.NewQuizHandler(quizService, rankingService),
		Result: handlers.NewResultHandler(quizService, resultService),
		Social: handlers.NewSocialHandler(quizService, socialService),
		User:   handlers.NewUserHandler(userService, quizService, resultService, socialService),
	}, hub, quizService, cfg.JWTSecret)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}
