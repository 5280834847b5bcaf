package handlers

import (
	"net/http"

	"quizzical/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService   *services.UserService
	quizService   *services.QuizService
	resultService *services.ResultService
	socialService *services.SocialService
}

func NewUserHandler(
	userService *services.UserService,
	quizService *services.QuizService,
	resultService *services.ResultService,
	socialService *services.SocialService,
) *UserHandler {
	return &UserHandler{
		userService:   userService,
		quizService:   quizService,
		resultService: resultService,
		socialService: socialService,
	}
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// LookupUser serves /users/lookup?email=.
func (h *UserHandler) LookupUser(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	user, err := h.userService.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) GetUserQuizzes(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quizzes, err := h.quizService.GetQuizzesForUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

func (h *UserHandler) GetUserResults(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	results, err := h.resultService.GetResultsForUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *UserHandler) GetUserFavourites(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quizzes, err := h.socialService.GetFavouritesForUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}
