package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"quizzical/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
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
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user, err := NewUserService(db).CreateUser(context.Background(), &CreateUserRequest{Name: "Tester", Email: email})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

// triviaFields builds a trivia form with the given questions; correct[i] is
// the 1-based correct answer of question i.
func triviaFields(correct ...int) map[string]string {
	fields := map[string]string{"count": fmt.Sprint(len(correct))}
	for i, c := range correct {
		n := i + 1
		fields[fmt.Sprintf("question%d", n)] = fmt.Sprintf("Question %d?", n)
		for _, letter := range answerLetters {
			fields[fmt.Sprintf("%s%d", letter, n)] = fmt.Sprintf("%s answer to %d", letter, n)
		}
		fields[fmt.Sprintf("correct%d", n)] = fmt.Sprint(c)
	}
	return fields
}

// personalityFields builds a personality form with outcomes named after
// titles. pointers[i] lists the outcome each answer of question i votes for.
func personalityFields(titles []string, pointers ...[answersPerQuestion]string) map[string]string {
	fields := map[string]string{
		"outcome_count": fmt.Sprint(len(titles)),
		"count":         fmt.Sprint(len(pointers)),
	}
	for j, title := range titles {
		fields[fmt.Sprintf("outcome%d", j+1)] = title
		fields[fmt.Sprintf("outcome_description%d", j+1)] = "You are " + title
	}
	for i, row := range pointers {
		n := i + 1
		fields[fmt.Sprintf("question%d", n)] = fmt.Sprintf("Pick %d", n)
		for k, letter := range answerLetters {
			fields[fmt.Sprintf("%s%d", letter, n)] = fmt.Sprintf("%s option %d", letter, n)
			fields[fmt.Sprintf("%s%d_outcome", letter, n)] = row[k]
		}
	}
	return fields
}

func createTestQuiz(t *testing.T, svc *QuizService, creatorID uint, quizType, category string, fields map[string]string) *models.Quiz {
	t.Helper()

	quiz, err := svc.CreateQuiz(context.Background(), creatorID, &CreateQuizRequest{
		Title:    category + " " + quizType,
		Category: category,
		Type:     quizType,
		Fields:   fields,
	})
	if err != nil {
		t.Fatalf("CreateQuiz failed: %v", err)
	}
	return quiz
}

// fixedSlugs returns a generator handing out slugs in order, then falling
// back to RandomSlug.
func fixedSlugs(slugs ...string) SlugGenerator {
	return func() (string, error) {
		if len(slugs) == 0 {
			return RandomSlug()
		}
		next := slugs[0]
		slugs = slugs[1:]
		return next, nil
	}
}

// recordingListener remembers every activity event it receives.
type recordingListener struct {
	events []string
}

func (l *recordingListener) QuizActivity(ctx context.Context, quiz *models.Quiz, event string, payload interface{}) {
	l.events = append(l.events, quiz.URL+":"+event)
}
