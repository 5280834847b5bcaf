package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"quizzical/models"
	"quizzical/queries"

	"gorm.io/gorm"
)

const (
	EventResultRecorded   = "result_recorded"
	EventRatingUpdated    = "rating_updated"
	EventFavouriteAdded   = "favourite_added"
	EventFavouriteRemoved = "favourite_removed"
)

// ActivityListener is told about every write that changes a quiz's
// results, ratings or favourites.
type ActivityListener interface {
	QuizActivity(ctx context.Context, quiz *models.Quiz, event string, payload interface{})
}

func notify(ctx context.Context, listeners []ActivityListener, quiz *models.Quiz, event string, payload interface{}) {
	for _, l := range listeners {
		l.QuizActivity(ctx, quiz, event, payload)
	}
}

type ResultService struct {
	db        *gorm.DB
	quizzes   *QuizService
	listeners []ActivityListener
}

func NewResultService(db *gorm.DB, quizzes *QuizService, listeners ...ActivityListener) *ResultService {
	return &ResultService{db: db, quizzes: quizzes, listeners: listeners}
}

// A submission picks at most one answer per question.
type SubmitAnswersRequest struct {
	AnswerIDs []uint `json:"answer_ids" binding:"max=100"`
}

// ResultDetail is a result row of either kind. Score and Total are set for
// trivia results, OutcomeID for personality results; the quiz fields are set
// when the row was joined with its quiz.
type ResultDetail struct {
	ID          uint      `json:"id"`
	QuizID      uint      `json:"quiz_id"`
	UserID      *uint     `json:"user_id"`
	Score       *int      `json:"score,omitempty"`
	Total       *int      `json:"total,omitempty"`
	OutcomeID   *uint     `json:"outcome_id,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
	QuizTitle   string    `json:"quiz_title,omitempty"`
	QuizURL     string    `json:"quiz_url,omitempty"`
	QuizType    string    `json:"quiz_type,omitempty"`
}

type UserResults struct {
	Trivia      []ResultDetail `json:"trivia"`
	Personality []ResultDetail `json:"personality"`
}

type outcomeVotes struct {
	OutcomeID uint
	Votes     int64
}

type answerOwner struct {
	AnswerID   uint
	QuestionID uint
}

// Submission is what a taker gets back after submitting answers.
type Submission struct {
	Quiz              *models.Quiz               `json:"quiz"`
	TriviaResult      *models.TriviaResult       `json:"trivia_result,omitempty"`
	PersonalityResult *models.PersonalityResult  `json:"personality_result,omitempty"`
	Outcome           *models.PersonalityOutcome `json:"outcome,omitempty"`
	Attempts          int64                      `json:"attempts"`
	Beaten            int64                      `json:"beaten"`
}

// GetScore counts the correct answers among answerIDs. It performs no
// ownership checks; ScoreTrivia does.
func (s *ResultService) GetScore(ctx context.Context, answerIDs []uint) (int, error) {
	if len(answerIDs) == 0 {
		return 0, nil
	}
	q, err := queries.Score(answerIDs)
	if err != nil {
		return 0, classify(err)
	}
	var score int64
	if err := selectOne(ctx, s.db, q, &score); err != nil {
		return 0, err
	}
	return int(score), nil
}

// GetOutcome returns the outcome most answers point to; the lowest outcome
// id wins a tie.
func (s *ResultService) GetOutcome(ctx context.Context, answerIDs []uint) (uint, error) {
	if len(answerIDs) == 0 {
		return 0, invalidf("at least one answer is required to pick an outcome")
	}
	q, err := queries.Outcome(answerIDs)
	if err != nil {
		return 0, classify(err)
	}
	var row outcomeVotes
	if err := selectOne(ctx, s.db, q, &row); err != nil {
		return 0, err
	}
	return row.OutcomeID, nil
}

// validateSubmission enforces that every answer id belongs to quiz and that
// no question is answered more than once.
func (s *ResultService) validateSubmission(ctx context.Context, quiz *models.Quiz, answerIDs []uint) error {
	if len(answerIDs) == 0 {
		return nil
	}
	seen := make(map[uint]bool, len(answerIDs))
	for _, id := range answerIDs {
		if seen[id] {
			return invalidf("answer %d submitted twice", id)
		}
		seen[id] = true
	}

	q, err := queries.AnswerOwnership(quiz.ID, quiz.Type, answerIDs)
	if err != nil {
		return classify(err)
	}
	var rows []answerOwner
	if err := selectAll(ctx, s.db, q, &rows); err != nil {
		return err
	}
	if len(rows) != len(answerIDs) {
		return invalidf("%d of %d answers do not belong to quiz %s", len(answerIDs)-len(rows), len(answerIDs), quiz.URL)
	}

	answered := make(map[uint]bool, len(rows))
	for _, row := range rows {
		if answered[row.QuestionID] {
			return invalidf("question %d answered more than once", row.QuestionID)
		}
		answered[row.QuestionID] = true
	}
	return nil
}

// ScoreTrivia validates the submission against quiz and returns the score
// and the number of questions.
func (s *ResultService) ScoreTrivia(ctx context.Context, quiz *models.Quiz, answerIDs []uint) (score, total int, err error) {
	if !quiz.IsTrivia() {
		return 0, 0, invalidf("quiz %s is not a trivia quiz", quiz.URL)
	}
	if err := s.validateSubmission(ctx, quiz, answerIDs); err != nil {
		return 0, 0, err
	}
	if score, err = s.GetScore(ctx, answerIDs); err != nil {
		return 0, 0, err
	}
	q, err := queries.QuestionCount(quiz.ID, quiz.Type)
	if err != nil {
		return 0, 0, classify(err)
	}
	var count int64
	if err := selectOne(ctx, s.db, q, &count); err != nil {
		return 0, 0, err
	}
	return score, int(count), nil
}

// ResolveOutcome validates the submission against quiz and returns the
// winning outcome.
func (s *ResultService) ResolveOutcome(ctx context.Context, quiz *models.Quiz, answerIDs []uint) (*models.PersonalityOutcome, error) {
	if quiz.IsTrivia() {
		return nil, invalidf("quiz %s is not a personality quiz", quiz.URL)
	}
	if err := s.validateSubmission(ctx, quiz, answerIDs); err != nil {
		return nil, err
	}
	outcomeID, err := s.GetOutcome(ctx, answerIDs)
	if err != nil {
		return nil, err
	}
	return s.quizzes.GetOutcomeWithID(ctx, outcomeID)
}

func (s *ResultService) CreateTriviaResult(ctx context.Context, quizID uint, userID *uint, score, total int) (*models.TriviaResult, error) {
	result := models.TriviaResult{QuizID: quizID, UserID: userID, Score: score, Total: total}
	if err := s.db.WithContext(ctx).Create(&result).Error; err != nil {
		return nil, classify(err)
	}
	return &result, nil
}

func (s *ResultService) CreatePersonalityResult(ctx context.Context, quizID uint, userID *uint, outcomeID uint) (*models.PersonalityResult, error) {
	result := models.PersonalityResult{QuizID: quizID, UserID: userID, OutcomeID: outcomeID}
	if err := s.db.WithContext(ctx).Create(&result).Error; err != nil {
		return nil, classify(err)
	}
	return &result, nil
}

// SubmitAnswers scores a submission for the quiz at url and records the
// result. userID is nil for anonymous takers.
func (s *ResultService) SubmitAnswers(ctx context.Context, url string, userID *uint, answerIDs []uint) (*Submission, error) {
	if len(answerIDs) > maxQuestions {
		return nil, invalidf("at most %d answers may be submitted", maxQuestions)
	}
	quiz, err := s.quizzes.GetQuizWithURL(ctx, url)
	if err != nil {
		return nil, err
	}
	sub := &Submission{Quiz: quiz}

	if quiz.IsTrivia() {
		score, total, err := s.ScoreTrivia(ctx, quiz, answerIDs)
		if err != nil {
			return nil, err
		}
		if sub.TriviaResult, err = s.CreateTriviaResult(ctx, quiz.ID, userID, score, total); err != nil {
			return nil, err
		}
		if sub.Beaten, err = s.GetNumScoresBeatenForQuiz(ctx, quiz.ID, score); err != nil {
			return nil, err
		}
		notify(ctx, s.listeners, quiz, EventResultRecorded, sub.TriviaResult)
	} else {
		outcome, err := s.ResolveOutcome(ctx, quiz, answerIDs)
		if err != nil {
			return nil, err
		}
		if sub.PersonalityResult, err = s.CreatePersonalityResult(ctx, quiz.ID, userID, outcome.ID); err != nil {
			return nil, err
		}
		sub.Outcome = outcome
		notify(ctx, s.listeners, quiz, EventResultRecorded, sub.PersonalityResult)
	}

	if sub.Attempts, err = s.GetNumResultsForQuiz(ctx, quiz.ID); err != nil {
		return nil, err
	}
	log.Printf("Recorded %s result for quiz %s", quiz.Type, quiz.URL)
	return sub, nil
}

func (s *ResultService) GetResult(ctx context.Context, resultID uint, quizType string) (*ResultDetail, error) {
	q, err := queries.Result(resultID, quizType)
	if err != nil {
		return nil, classify(err)
	}
	var result ResultDetail
	if err := selectOne(ctx, s.db, q, &result); err != nil {
		return nil, fmt.Errorf("%s result %d: %w", quizType, resultID, err)
	}
	return &result, nil
}

func (s *ResultService) GetAllResultsForQuiz(ctx context.Context, quiz *models.Quiz) ([]ResultDetail, error) {
	results := []ResultDetail{}
	err := buildAndSelectAll(ctx, s.db, func() (queries.Query, error) {
		return queries.ResultsForQuiz(quiz.ID, quiz.Type)
	}, &results)
	return results, err
}

func (s *ResultService) GetNumResultsForQuiz(ctx context.Context, quizID uint) (int64, error) {
	var total int64
	err := selectOne(ctx, s.db, queries.NumResultsForQuiz(quizID), &total)
	return total, err
}

func (s *ResultService) GetNumScoresBeatenForQuiz(ctx context.Context, quizID uint, score int) (int64, error) {
	var beaten int64
	err := selectOne(ctx, s.db, queries.NumScoresBeaten(quizID, score), &beaten)
	return beaten, err
}

func (s *ResultService) GetResultsForUser(ctx context.Context, userID uint) (*UserResults, error) {
	results := &UserResults{Trivia: []ResultDetail{}, Personality: []ResultDetail{}}
	err := buildAndSelectAll(ctx, s.db, func() (queries.Query, error) {
		return queries.ResultsForUser(userID, models.QuizTypeTrivia)
	}, &results.Trivia)
	if err != nil {
		return nil, err
	}
	err = buildAndSelectAll(ctx, s.db, func() (queries.Query, error) {
		return queries.ResultsForUser(userID, models.QuizTypePersonality)
	}, &results.Personality)
	if err != nil {
		return nil, err
	}
	return results, nil
}
