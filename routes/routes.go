package routes

import (
	"log"
	"net/http"

	"quizzical/handlers"
	"quizzical/middleware"
	"quizzical/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handlers struct {
	Quiz   *handlers.QuizHandler
	Result *handlers.ResultHandler
	Social *handlers.SocialHandler
	User   *handlers.UserHandler
}

func SetupRoutes(
	router *gin.Engine,
	h Handlers,
	hub *services.Hub,
	quizService *services.QuizService,
	jwtSecret string,
) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Identity(jwtSecret))

	// Quiz routes
	quizzes := router.Group("/quiz")
	{
		quizzes.GET("", h.Quiz.GetAllQuizzes)
		quizzes.GET("/public", h.Quiz.GetPublicQuizzes)
		quizzes.GET("/categories", h.Quiz.GetCategories)
		quizzes.GET("/types", h.Quiz.GetTypes)
		quizzes.GET("/rankings/:metric", h.Quiz.GetRanking)
		quizzes.POST("", middleware.RequireUser(), h.Quiz.CreateQuiz)

		quizzes.GET("/:url", h.Quiz.GetQuizByURL)
		quizzes.POST("/:url/submit", h.Result.SubmitAnswers)
		quizzes.GET("/:url/results", h.Result.GetResultsForQuiz)
		quizzes.GET("/:url/stats", h.Result.GetQuizStats)

		// Ratings and favourites belong to the caller
		mine := quizzes.Group("/:url", middleware.RequireUser())
		{
			mine.GET("/rating", h.Social.GetRating)
			mine.PUT("/rating", h.Social.RateQuiz)
			mine.GET("/favourite", h.Social.GetFavourite)
			mine.POST("/favourite", h.Social.AddFavourite)
			mine.DELETE("/favourite", h.Social.DeleteFavourite)
		}
	}

	router.GET("/results/:type/:id", h.Result.GetResult)

	users := router.Group("/users")
	{
		users.GET("", h.User.GetAllUsers)
		users.POST("", h.User.CreateUser)
		users.GET("/lookup", h.User.LookupUser)
		users.GET("/:id/quizzes", h.User.GetUserQuizzes)
		users.GET("/:id/results", h.User.GetUserResults)
		users.GET("/:id/favourites", h.User.GetUserFavourites)
	}

	// WebSocket endpoint streaming activity on one quiz
	router.GET("/ws/quiz/:url", func(c *gin.Context) {
		url := c.Param("url")

		if _, err := quizService.GetQuizWithURL(c.Request.Context(), url); err != nil {
			log.Printf("WebSocket connection refused for quiz %s: %v", url, err)
			c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for quiz %s: %v", url, err)
			return
		}

		if hub.RegisterClient(conn, url) == nil {
			log.Printf("WebSocket connection for quiz %s dropped: hub is shut down", url)
		}
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
