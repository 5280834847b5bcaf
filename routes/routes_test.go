package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quizzical/handlers"
	"quizzical/middleware"
	"quizzical/models"
	"quizzical/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

type testApp struct {
	db     *gorm.DB
	router *gin.Engine
	hub    *services.Hub
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := services.NewHub()
	go hub.Run(ctx)

	quizService := services.NewQuizService(db, 0)
	rankingService := services.NewRankingService(db, nil)
	resultService := services.NewResultService(db, quizService, rankingService, hub)
	socialService := services.NewSocialService(db, rankingService, hub)
	userService := services.NewUserService(db)

	router := gin.New()
	router.Use(middleware.CORS())
	SetupRoutes(router, Handlers{
		Quiz:   handlers.NewQuizHandler(quizService, rankingService),
		Result: handlers.NewResultHandler(quizService, resultService),
		Social: handlers.NewSocialHandler(quizService, socialService),
		User:   handlers.NewUserHandler(userService, quizService, resultService, socialService),
	}, hub, quizService, testSecret)

	return &testApp{db: db, router: router, hub: hub}
}

// do sends a JSON request and decodes the JSON response into out when out
// is non-nil.
func (a *testApp) do(t *testing.T, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decoding %q failed: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func triviaQuizBody(questions int) gin.H {
	fields := map[string]string{"count": fmt.Sprint(questions)}
	for i := 1; i <= questions; i++ {
		fields[fmt.Sprintf("question%d", i)] = fmt.Sprintf("Question %d?", i)
		for _, letter := range []string{"a", "b", "c", "d"} {
			fields[fmt.Sprintf("%s%d", letter, i)] = letter + " answer"
		}
		fields[fmt.Sprintf("correct%d", i)] = "2"
	}
	return gin.H{"title": "Space", "category": "Science", "type": "trivia", "fields": fields}
}

func (a *testApp) createUser(t *testing.T, email string) (models.User, string) {
	t.Helper()

	var user models.User
	if code := a.do(t, http.MethodPost, "/users", "", gin.H{"name": "Tester", "email": email}, &user); code != http.StatusCreated {
		t.Fatalf("POST /users: status %d, want 201", code)
	}
	token, err := middleware.SignUserToken(user.ID, testSecret)
	if err != nil {
		t.Fatalf("SignUserToken failed: %v", err)
	}
	return user, token
}

func (a *testApp) correctAnswers(t *testing.T, quizID uint) []uint {
	t.Helper()

	var ids []uint
	err := a.db.Model(&models.TriviaAnswer{}).
		Joins("JOIN trivia_questions ON trivia_questions.id = trivia_answers.question_id").
		Where("trivia_questions.quiz_id = ? AND trivia_answers.is_correct = ?", quizID, true).
		Pluck("trivia_answers.id", &ids).Error
	if err != nil {
		t.Fatalf("loading correct answers failed: %v", err)
	}
	return ids
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	if code := app.do(t, http.MethodGet, "/health", "", nil, nil); code != http.StatusOK {
		t.Fatalf("GET /health: status %d, want 200", code)
	}
}

func TestTriviaQuizFlow(t *testing.T) {
	app := newTestApp(t)
	user, token := app.createUser(t, "maker@example.com")

	if code := app.do(t, http.MethodPost, "/quiz", "", triviaQuizBody(2), nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous POST /quiz: status %d, want 401", code)
	}

	var quiz models.Quiz
	if code := app.do(t, http.MethodPost, "/quiz", token, triviaQuizBody(2), &quiz); code != http.StatusCreated {
		t.Fatalf("POST /quiz: status %d, want 201", code)
	}
	if quiz.CreatorID != user.ID || len(quiz.URL) != 8 {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}

	bad := triviaQuizBody(1)
	bad["fields"].(map[string]string)["correct1"] = "7"
	if code := app.do(t, http.MethodPost, "/quiz", token, bad, nil); code != http.StatusBadRequest {
		t.Fatalf("invalid content: status %d, want 400", code)
	}

	req := httptest.NewRequest(http.MethodGet, "/quiz/"+quiz.URL+"?shuffle=true", nil)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /quiz/:url: status %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "is_correct") {
		t.Fatalf("quiz view leaks correctness: %s", rec.Body.String())
	}

	var listing struct {
		Quizzes []models.Quiz `json:"quizzes"`
	}
	if code := app.do(t, http.MethodGet, "/quiz/public?filter_type=category&filter_name=Science", "", nil, &listing); code != http.StatusOK {
		t.Fatalf("GET /quiz/public: status %d, want 200", code)
	}
	if len(listing.Quizzes) != 1 {
		t.Fatalf("got %d public quizzes, want 1", len(listing.Quizzes))
	}
	if code := app.do(t, http.MethodGet, "/quiz/public?sort=title", "", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("unknown sort: status %d, want 400", code)
	}

	oversized := gin.H{"answer_ids": make([]uint, 101)}
	if code := app.do(t, http.MethodPost, "/quiz/"+quiz.URL+"/submit", token, oversized, nil); code != http.StatusBadRequest {
		t.Fatalf("oversized submission: status %d, want 400", code)
	}

	var submission services.Submission
	answers := gin.H{"answer_ids": app.correctAnswers(t, quiz.ID)}
	if code := app.do(t, http.MethodPost, "/quiz/"+quiz.URL+"/submit", token, answers, &submission); code != http.StatusCreated {
		t.Fatalf("POST submit: status %d, want 201", code)
	}
	if submission.TriviaResult == nil || submission.TriviaResult.Score != 2 || submission.Attempts != 1 {
		t.Fatalf("unexpected submission: %+v", submission)
	}

	var stats map[string]int64
	if code := app.do(t, http.MethodGet, "/quiz/"+quiz.URL+"/stats?score=3", "", nil, &stats); code != http.StatusOK {
		t.Fatalf("GET stats: status %d, want 200", code)
	}
	if stats["attempts"] != 1 || stats["beaten"] != 1 {
		t.Fatalf("unexpected stats: %v", stats)
	}

	var result services.ResultDetail
	path := fmt.Sprintf("/results/trivia/%d", submission.TriviaResult.ID)
	if code := app.do(t, http.MethodGet, path, "", nil, &result); code != http.StatusOK {
		t.Fatalf("GET %s: status %d, want 200", path, code)
	}
	if result.QuizURL != quiz.URL {
		t.Fatalf("unexpected result: %+v", result)
	}
	if code := app.do(t, http.MethodGet, "/results/trivia/abc", "", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("bad result id: status %d, want 400", code)
	}

	var mine services.UserResults
	if code := app.do(t, http.MethodGet, fmt.Sprintf("/users/%d/results", user.ID), "", nil, &mine); code != http.StatusOK {
		t.Fatalf("GET user results: status %d, want 200", code)
	}
	if len(mine.Trivia) != 1 {
		t.Fatalf("got %d trivia results, want 1", len(mine.Trivia))
	}

	if code := app.do(t, http.MethodGet, "/quiz/zzzz0000", "", nil, nil); code != http.StatusNotFound {
		t.Fatalf("unknown quiz: status %d, want 404", code)
	}
}

func TestRatingsAndFavourites(t *testing.T) {
	app := newTestApp(t)
	user, token := app.createUser(t, "fan@example.com")

	var quiz models.Quiz
	if code := app.do(t, http.MethodPost, "/quiz", token, triviaQuizBody(1), &quiz); code != http.StatusCreated {
		t.Fatalf("POST /quiz: status %d, want 201", code)
	}
	base := "/quiz/" + quiz.URL

	if code := app.do(t, http.MethodPut, base+"/rating", "", gin.H{"rating": 4}, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous rating: status %d, want 401", code)
	}
	if code := app.do(t, http.MethodPut, base+"/rating", token, gin.H{"rating": 9}, nil); code != http.StatusBadRequest {
		t.Fatalf("out of range rating: status %d, want 400", code)
	}
	for _, value := range []int{2, 4} {
		if code := app.do(t, http.MethodPut, base+"/rating", token, gin.H{"rating": value}, nil); code != http.StatusOK {
			t.Fatalf("PUT rating %d: status %d, want 200", value, code)
		}
	}
	var rating models.Rating
	if code := app.do(t, http.MethodGet, base+"/rating", token, nil, &rating); code != http.StatusOK || rating.Rating != 4 {
		t.Fatalf("GET rating: status %d rating %d, want 200 and 4", code, rating.Rating)
	}

	if code := app.do(t, http.MethodPost, base+"/favourite", token, nil, nil); code != http.StatusCreated {
		t.Fatalf("POST favourite: status %d, want 201", code)
	}
	if code := app.do(t, http.MethodPost, base+"/favourite", token, nil, nil); code != http.StatusConflict {
		t.Fatalf("duplicate favourite: status %d, want 409", code)
	}

	var favourites []models.Quiz
	if code := app.do(t, http.MethodGet, fmt.Sprintf("/users/%d/favourites", user.ID), "", nil, &favourites); code != http.StatusOK {
		t.Fatalf("GET favourites: status %d, want 200", code)
	}
	if len(favourites) != 1 {
		t.Fatalf("got %d favourites, want 1", len(favourites))
	}

	var ranked []services.RankedQuiz
	if code := app.do(t, http.MethodGet, "/quiz/rankings/rated?limit=5", "", nil, &ranked); code != http.StatusOK {
		t.Fatalf("GET rankings: status %d, want 200", code)
	}
	if len(ranked) != 1 || ranked[0].Metric != 4 {
		t.Fatalf("unexpected ranking: %+v", ranked)
	}
	if code := app.do(t, http.MethodGet, "/quiz/rankings/newest", "", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("unknown ranking: status %d, want 400", code)
	}

	if code := app.do(t, http.MethodDelete, base+"/favourite", token, nil, nil); code != http.StatusOK {
		t.Fatalf("DELETE favourite: status %d, want 200", code)
	}
	if code := app.do(t, http.MethodGet, base+"/favourite", token, nil, nil); code != http.StatusNotFound {
		t.Fatalf("GET removed favourite: status %d, want 404", code)
	}
}

func TestUsers(t *testing.T) {
	app := newTestApp(t)
	user, _ := app.createUser(t, "Someone@Example.com")

	if code := app.do(t, http.MethodPost, "/users", "", gin.H{"name": "Dup", "email": "someone@example.com"}, nil); code != http.StatusConflict {
		t.Fatalf("duplicate email: status %d, want 409", code)
	}
	if code := app.do(t, http.MethodPost, "/users", "", gin.H{"name": "Bad", "email": "not-an-email"}, nil); code != http.StatusBadRequest {
		t.Fatalf("invalid email: status %d, want 400", code)
	}

	var found models.User
	if code := app.do(t, http.MethodGet, "/users/lookup?email=someone@example.com", "", nil, &found); code != http.StatusOK || found.ID != user.ID {
		t.Fatalf("lookup: status %d user %d, want 200 and %d", code, found.ID, user.ID)
	}
	if code := app.do(t, http.MethodGet, "/users/lookup", "", nil, nil); code != http.StatusBadRequest {
		t.Fatalf("lookup without email: status %d, want 400", code)
	}

	var users []models.User
	if code := app.do(t, http.MethodGet, "/users", "", nil, &users); code != http.StatusOK || len(users) != 1 {
		t.Fatalf("GET /users: status %d, %d users", code, len(users))
	}
}

func TestActivityWebSocket(t *testing.T) {
	app := newTestApp(t)
	_, token := app.createUser(t, "watcher@example.com")

	var quiz models.Quiz
	if code := app.do(t, http.MethodPost, "/quiz", token, triviaQuizBody(1), &quiz); code != http.StatusCreated {
		t.Fatalf("POST /quiz: status %d, want 201", code)
	}

	srv := httptest.NewServer(app.router)
	defer srv.Close()
	wsBase := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/quiz/"

	if _, resp, err := websocket.DefaultDialer.Dial(wsBase+"zzzz0000", nil); err == nil {
		t.Fatalf("expected dial to an unknown quiz to fail")
	} else if resp != nil && resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown quiz: status %d, want 404", resp.StatusCode)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsBase+quiz.URL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for app.hub.ClientCount(quiz.URL) != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("websocket client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if code := app.do(t, http.MethodPost, "/quiz/"+quiz.URL+"/favourite", token, nil, nil); code != http.StatusCreated {
		t.Fatalf("POST favourite: status %d, want 201", code)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg services.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if msg.Type != services.EventFavouriteAdded {
		t.Fatalf("message type = %q, want %q", msg.Type, services.EventFavouriteAdded)
	}
}
