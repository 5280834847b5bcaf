package handlers

import (
	"net/http"

	"quizzical/queries"
	"quizzical/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService    *services.QuizService
	rankingService *services.RankingService
}

func NewQuizHandler(quizService *services.QuizService, rankingService *services.RankingService) *QuizHandler {
	return &QuizHandler{
		quizService:    quizService,
		rankingService: rankingService,
	}
}

func (h *QuizHandler) GetAllQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.GetAllQuizzes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// GetPublicQuizzes serves one page of listed quizzes.
// Query params: filter_type, filter_name, sort, order, offset.
func (h *QuizHandler) GetPublicQuizzes(c *gin.Context) {
	offset, ok := parseIntQuery(c, "offset", 0)
	if !ok {
		return
	}

	opts := queries.ListOptions{
		FilterType: c.Query("filter_type"),
		FilterName: c.DefaultQuery("filter_name", queries.FilterAll),
		Sort:       c.DefaultQuery("sort", queries.SortCreated),
		Order:      c.DefaultQuery("order", queries.OrderDesc),
		Offset:     offset,
	}

	quizzes, err := h.quizService.GetPublicQuizzes(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quizzes":   quizzes,
		"page_size": queries.PageSize,
		"offset":    offset,
	})
}

func (h *QuizHandler) GetCategories(c *gin.Context) {
	categories, err := h.quizService.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *QuizHandler) GetTypes(c *gin.Context) {
	types, err := h.quizService.GetTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, types)
}

// GetRanking serves /quiz/rankings/:metric with an optional ?limit.
func (h *QuizHandler) GetRanking(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", 0)
	if !ok {
		return
	}

	ranked, err := h.rankingService.GetRanking(c.Request.Context(), c.Param("metric"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ranked)
}

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.CreateQuiz(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// GetQuizByURL returns { quiz, questions, answers } (plus outcomes for
// personality quizzes). ?shuffle=true shuffles answers per question.
func (h *QuizHandler) GetQuizByURL(c *gin.Context) {
	shuffle := c.Query("shuffle") == "true"

	view, err := h.quizService.GetQuizView(c.Request.Context(), c.Param("url"), shuffle)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
