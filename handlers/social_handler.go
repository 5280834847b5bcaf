package handlers

import (
	"net/http"

	"quizzical/services"

	"github.com/gin-gonic/gin"
)

// SocialHandler serves ratings and favourites. Every route runs behind
// RequireUser, so currentUser always resolves.
type SocialHandler struct {
	quizService   *services.QuizService
	socialService *services.SocialService
}

func NewSocialHandler(quizService *services.QuizService, socialService *services.SocialService) *SocialHandler {
	return &SocialHandler{
		quizService:   quizService,
		socialService: socialService,
	}
}

func (h *SocialHandler) GetRating(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := currentUser(c)

	quiz, err := h.quizService.GetQuizWithURL(ctx, c.Param("url"))
	if err != nil {
		respondError(c, err)
		return
	}

	rating, err := h.socialService.GetRating(ctx, userID, quiz.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

// RateQuiz adds or updates the caller's rating.
func (h *SocialHandler) RateQuiz(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := currentUser(c)

	var req services.RateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.GetQuizWithURL(ctx, c.Param("url"))
	if err != nil {
		respondError(c, err)
		return
	}

	rating, err := h.socialService.RateQuiz(ctx, userID, quiz, req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

func (h *SocialHandler) GetFavourite(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := currentUser(c)

	quiz, err := h.quizService.GetQuizWithURL(ctx, c.Param("url"))
	if err != nil {
		respondError(c, err)
		return
	}

	favourite, err := h.socialService.GetFavourite(ctx, userID, quiz.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, favourite)
}

func (h *SocialHandler) AddFavourite(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := currentUser(c)

	quiz, err := h.quizService.GetQuizWithURL(ctx, c.Param("url"))
	if err != nil {
		respondError(c, err)
		return
	}

	favourite, err := h.socialService.AddFavourite(ctx, userID, quiz)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, favourite)
}

func (h *SocialHandler) DeleteFavourite(c *gin.Context) {
	ctx := c.Request.Context()
	userID, _ := currentUser(c)

	quiz, err := h.quizService.GetQuizWithURL(ctx, c.Param("url"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.socialService.DeleteFavourite(ctx, userID, quiz); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favourite removed"})
}
