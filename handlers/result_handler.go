package handlers

import (
	"net/http"

	"quizzical/services"

	"github.com/gin-gonic/gin"
)

type ResultHandler struct {
	quizService   *services.QuizService
	resultService *services.ResultService
}

func NewResultHandler(quizService *services.QuizService, resultService *services.ResultService) *ResultHandler {
	return &ResultHandler{
		quizService:   quizService,
		resultService: resultService,
	}
}

// SubmitAnswers scores { answer_ids } against the quiz and records a result,
// attributed to the caller when a token was given.
func (h *ResultHandler) SubmitAnswers(c *gin.Context) {
	var req services.SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.resultService.SubmitAnswers(c.Request.Context(), c.Param("url"), optionalUser(c), req.AnswerIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

func (h *ResultHandler) GetResultsForQuiz(c *gin.Context) {
	ctx := c.Request.Context()

	quiz, err := h.quizService.GetQuizWithURL(ctx, c.Param("url"))
	if err != nil {
		respondError(c, err)
		return
	}

	results, err := h.resultService.GetAllResultsForQuiz(ctx, quiz)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetQuizStats returns the number of attempts and, when ?score is given,
// how many trivia results scored lower.
func (h *ResultHandler) GetQuizStats(c *gin.Context) {
	ctx := c.Request.Context()

	score, ok := parseIntQuery(c, "score", 0)
	if !ok {
		return
	}

	quiz, err := h.quizService.GetQuizWithURL(ctx, c.Param("url"))
	if err != nil {
		respondError(c, err)
		return
	}

	attempts, err := h.resultService.GetNumResultsForQuiz(ctx, quiz.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	stats := gin.H{"attempts": attempts}
	if quiz.IsTrivia() && c.Query("score") != "" {
		beaten, err := h.resultService.GetNumScoresBeatenForQuiz(ctx, quiz.ID, score)
		if err != nil {
			respondError(c, err)
			return
		}
		stats["beaten"] = beaten
	}

	c.JSON(http.StatusOK, stats)
}

// GetResult serves /results/:type/:id.
func (h *ResultHandler) GetResult(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.resultService.GetResult(c.Request.Context(), id, c.Param("type"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
