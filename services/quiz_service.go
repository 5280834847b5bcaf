package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"quizzical/models"
	"quizzical/queries"

	"gorm.io/gorm"
)

const defaultSlugAttempts = 5

type QuizService struct {
	db           *gorm.DB
	newSlug      SlugGenerator
	slugAttempts int
}

func NewQuizService(db *gorm.DB, slugAttempts int) *QuizService {
	if slugAttempts <= 0 {
		slugAttempts = defaultSlugAttempts
	}
	return &QuizService{
		db:           db,
		newSlug:      RandomSlug,
		slugAttempts: slugAttempts,
	}
}

// WithSlugGenerator replaces the url generator, mainly for tests.
func (s *QuizService) WithSlugGenerator(gen SlugGenerator) *QuizService {
	s.newSlug = gen
	return s
}

type CreateQuizRequest struct {
	Title       string            `json:"title" binding:"required"`
	Photo       string            `json:"photo"`
	Listed      *bool             `json:"listed"`
	Category    string            `json:"category" binding:"required"`
	Type        string            `json:"type" binding:"required,oneof=trivia personality"`
	Description string            `json:"description"`
	Fields      map[string]string `json:"fields" binding:"required"`
}

// QuizView is everything needed to take a quiz. Questions and Answers hold
// the trivia or personality rows depending on the quiz type.
type QuizView struct {
	Quiz      *models.Quiz                `json:"quiz"`
	Questions interface{}                 `json:"questions"`
	Answers   interface{}                 `json:"answers"`
	Outcomes  []models.PersonalityOutcome `json:"outcomes,omitempty"`
}

// PublicTriviaAnswer hides the correctness flag from quiz takers.
type PublicTriviaAnswer struct {
	ID         uint   `json:"id"`
	QuestionID uint   `json:"question_id"`
	Answer     string `json:"answer"`
}

func (s *QuizService) GetAllQuizzes(ctx context.Context) ([]models.Quiz, error) {
	quizzes := []models.Quiz{}
	err := selectAll(ctx, s.db, queries.AllQuizzes(), &quizzes)
	return quizzes, err
}

func (s *QuizService) GetPublicQuizzes(ctx context.Context, opts queries.ListOptions) ([]models.Quiz, error) {
	quizzes := []models.Quiz{}
	err := buildAndSelectAll(ctx, s.db, func() (queries.Query, error) {
		return queries.PublicQuizzes(opts)
	}, &quizzes)
	return quizzes, err
}

func (s *QuizService) GetQuizzesForUser(ctx context.Context, userID uint) ([]models.Quiz, error) {
	quizzes := []models.Quiz{}
	err := selectAll(ctx, s.db, queries.QuizzesForUser(userID), &quizzes)
	return quizzes, err
}

func (s *QuizService) GetQuizWithID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := selectOne(ctx, s.db, queries.QuizWithID(id), &quiz); err != nil {
		return nil, fmt.Errorf("quiz %d: %w", id, err)
	}
	return &quiz, nil
}

func (s *QuizService) GetQuizWithURL(ctx context.Context, url string) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := selectOne(ctx, s.db, queries.QuizWithURL(url), &quiz); err != nil {
		return nil, fmt.Errorf("quiz %q: %w", url, err)
	}
	return &quiz, nil
}

func (s *QuizService) GetCategories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := selectAll(ctx, s.db, queries.Categories(), &categories)
	return categories, err
}

func (s *QuizService) GetTypes(ctx context.Context) ([]string, error) {
	types := []string{}
	err := selectAll(ctx, s.db, queries.Types(), &types)
	return types, err
}

func (s *QuizService) GetTriviaQuestions(ctx context.Context, quizID uint) ([]models.TriviaQuestion, error) {
	questions := []models.TriviaQuestion{}
	err := buildAndSelectAll(ctx, s.db, func() (queries.Query, error) {
		return queries.Questions(quizID, models.QuizTypeTrivia)
	}, &questions)
	return questions, err
}

func (s *QuizService) GetPersonalityQuestions(ctx context.Context, quizID uint) ([]models.PersonalityQuestion, error) {
	questions := []models.PersonalityQuestion{}
	err := buildAndSelectAll(ctx, s.db, func() (queries.Query, error) {
		return queries.Questions(quizID, models.QuizTypePersonality)
	}, &questions)
	return questions, err
}

func (s *QuizService) GetTriviaAnswers(ctx context.Context, questionID uint) ([]models.TriviaAnswer, error) {
	answers := []models.TriviaAnswer{}
	err := buildAndSelectAll(ctx, s.db, func() (queries.Query, error) {
		return queries.Answers(questionID, models.QuizTypeTrivia)
	}, &answers)
	return answers, err
}

func (s *QuizService) GetPersonalityAnswers(ctx context.Context, questionID uint) ([]models.PersonalityAnswer, error) {
	answers := []models.PersonalityAnswer{}
	err := buildAndSelectAll(ctx, s.db, func() (queries.Query, error) {
		return queries.Answers(questionID, models.QuizTypePersonality)
	}, &answers)
	return answers, err
}

func (s *QuizService) GetTriviaAnswersForQuiz(ctx context.Context, quizID uint) ([]models.TriviaAnswer, error) {
	answers := []models.TriviaAnswer{}
	err := buildAndSelectAll(ctx, s.db, func() (queries.Query, error) {
		return queries.AnswersForQuiz(quizID, models.QuizTypeTrivia)
	}, &answers)
	return answers, err
}

func (s *QuizService) GetPersonalityAnswersForQuiz(ctx context.Context, quizID uint) ([]models.PersonalityAnswer, error) {
	answers := []models.PersonalityAnswer{}
	err := buildAndSelectAll(ctx, s.db, func() (queries.Query, error) {
		return queries.AnswersForQuiz(quizID, models.QuizTypePersonality)
	}, &answers)
	return answers, err
}

func (s *QuizService) GetOutcomesForQuiz(ctx context.Context, quizID uint) ([]models.PersonalityOutcome, error) {
	outcomes := []models.PersonalityOutcome{}
	err := selectAll(ctx, s.db, queries.OutcomesForQuiz(quizID), &outcomes)
	return outcomes, err
}

func (s *QuizService) GetOutcomeWithID(ctx context.Context, id uint) (*models.PersonalityOutcome, error) {
	var outcome models.PersonalityOutcome
	if err := selectOne(ctx, s.db, queries.OutcomeWithID(id), &outcome); err != nil {
		return nil, fmt.Errorf("outcome %d: %w", id, err)
	}
	return &outcome, nil
}

// GetQuizView resolves a quiz by url, then its questions, then its answers
// (and outcomes for personality quizzes). With shuffle set, answers are
// shuffled within each question.
func (s *QuizService) GetQuizView(ctx context.Context, url string, shuffle bool) (*QuizView, error) {
	quiz, err := s.GetQuizWithURL(ctx, url)
	if err != nil {
		return nil, err
	}
	view := &QuizView{Quiz: quiz}

	if quiz.IsTrivia() {
		questions, err := s.GetTriviaQuestions(ctx, quiz.ID)
		if err != nil {
			return nil, err
		}
		answers, err := s.GetTriviaAnswersForQuiz(ctx, quiz.ID)
		if err != nil {
			return nil, err
		}
		if shuffle {
			answers = shuffleWithinQuestions(answers, func(a models.TriviaAnswer) uint { return a.QuestionID })
		}
		public := make([]PublicTriviaAnswer, len(answers))
		for i, a := range answers {
			public[i] = PublicTriviaAnswer{ID: a.ID, QuestionID: a.QuestionID, Answer: a.Answer}
		}
		view.Questions = questions
		view.Answers = public
		return view, nil
	}

	questions, err := s.GetPersonalityQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	answers, err := s.GetPersonalityAnswersForQuiz(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	outcomes, err := s.GetOutcomesForQuiz(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	if shuffle {
		answers = shuffleWithinQuestions(answers, func(a models.PersonalityAnswer) uint { return a.QuestionID })
	}
	view.Questions = questions
	view.Answers = answers
	view.Outcomes = outcomes
	return view, nil
}

// CreateQuiz inserts the quiz row and its whole content in one transaction.
// Content is reshaped and validated before anything is written; a failure
// at any later stage rolls everything back and is reported as *IngestError.
func (s *QuizService) CreateQuiz(ctx context.Context, creatorID uint, req *CreateQuizRequest) (*models.Quiz, error) {
	if !models.ValidQuizType(req.Type) {
		return nil, invalidf("unknown quiz type %q", req.Type)
	}

	var trivia *TriviaContent
	var personality *PersonalityContent
	var err error
	if req.Type == models.QuizTypeTrivia {
		trivia, err = SortTrivia(req.Fields)
	} else {
		personality, err = SortPersonality(req.Fields)
	}
	if err != nil {
		return nil, err
	}

	listed := true
	if req.Listed != nil {
		listed = *req.Listed
	}
	quiz := models.Quiz{
		CreatorID:   creatorID,
		Title:       req.Title,
		Photo:       req.Photo,
		Listed:      listed,
		Category:    req.Category,
		Type:        req.Type,
		Description: req.Description,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.insertQuiz(ctx, tx, &quiz); err != nil {
			return &IngestError{Stage: "quiz", Err: err}
		}
		if trivia != nil {
			return addTriviaContent(tx, quiz.ID, trivia)
		}
		return addPersonalityContent(tx, quiz.ID, personality)
	})
	if err != nil {
		var ingestErr *IngestError
		if errors.As(err, &ingestErr) {
			log.Printf("Quiz creation rolled back at stage %s: %v", ingestErr.Stage, ingestErr.Err)
			return nil, err
		}
		return nil, &IngestError{Stage: "commit", Err: classify(err)}
	}

	log.Printf("Created %s quiz %d with url %s", quiz.Type, quiz.ID, quiz.URL)
	return &quiz, nil
}

// insertQuiz assigns a fresh url and inserts the quiz. A url already taken,
// or lost to a concurrent insert, is regenerated up to slugAttempts times.
func (s *QuizService) insertQuiz(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	for attempt := 1; attempt <= s.slugAttempts; attempt++ {
		slug, err := s.newSlug()
		if err != nil {
			return err
		}

		var taken int64
		if err := selectOne(ctx, tx, queries.URLTaken(slug), &taken); err != nil {
			return err
		}
		if taken > 0 {
			log.Printf("Quiz url %s already taken, regenerating (attempt %d/%d)", slug, attempt, s.slugAttempts)
			continue
		}

		if err := tx.SavePoint("quiz_url").Error; err != nil {
			return classify(err)
		}
		quiz.ID = 0
		quiz.URL = slug
		err = tx.Create(quiz).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return classify(err)
		}
		log.Printf("Quiz url %s lost to a concurrent insert, regenerating (attempt %d/%d)", slug, attempt, s.slugAttempts)
		if err := tx.RollbackTo("quiz_url").Error; err != nil {
			return classify(err)
		}
	}
	return fmt.Errorf("%w: no unique quiz url after %d attempts", ErrConflict, s.slugAttempts)
}

func createQuestion(tx *gorm.DB, question interface{}) error {
	return classify(tx.Create(question).Error)
}

func createAnswers(tx *gorm.DB, answers interface{}) error {
	return classify(tx.Create(answers).Error)
}

// addTriviaContent inserts each question followed by exactly four answers,
// flagging the one at the submitted correct index.
func addTriviaContent(tx *gorm.DB, quizID uint, content *TriviaContent) error {
	for i, text := range content.Questions {
		question := models.TriviaQuestion{QuizID: quizID, Question: text}
		if err := createQuestion(tx, &question); err != nil {
			return &IngestError{Stage: "questions", Err: err}
		}

		answers := make([]models.TriviaAnswer, 0, answersPerQuestion)
		for k, answer := range content.Answers[i] {
			answers = append(answers, models.TriviaAnswer{
				QuestionID: question.ID,
				Answer:     answer,
				IsCorrect:  content.Correct[i] == k+1,
			})
		}
		if err := createAnswers(tx, &answers); err != nil {
			return &IngestError{Stage: "answers", Err: err}
		}
	}
	return nil
}

// addPersonalityContent inserts every outcome first, then the questions and
// answers. Answers reference outcomes through the title->id map built in the
// first phase, so no answer is written before its outcome exists.
func addPersonalityContent(tx *gorm.DB, quizID uint, content *PersonalityContent) error {
	outcomeIDs := make(map[string]uint, len(content.Outcomes))
	for _, def := range content.Outcomes {
		outcome := models.PersonalityOutcome{
			QuizID:      quizID,
			Title:       def.Title,
			Photo:       def.Photo,
			Description: def.Description,
		}
		if err := classify(tx.Create(&outcome).Error); err != nil {
			return &IngestError{Stage: "outcomes", Err: err}
		}
		outcomeIDs[def.Title] = outcome.ID
	}

	for i, text := range content.Questions {
		question := models.PersonalityQuestion{QuizID: quizID, Question: text}
		if err := createQuestion(tx, &question); err != nil {
			return &IngestError{Stage: "questions", Err: err}
		}

		answers := make([]models.PersonalityAnswer, 0, answersPerQuestion)
		for k, answer := range content.Answers[i] {
			outcomeID, ok := outcomeIDs[content.Pointers[i][k]]
			if !ok {
				return &IngestError{Stage: "answers", Err: invalidf("unknown outcome %q", content.Pointers[i][k])}
			}
			answers = append(answers, models.PersonalityAnswer{
				QuestionID: question.ID,
				OutcomeID:  outcomeID,
				Answer:     answer,
			})
		}
		if err := createAnswers(tx, &answers); err != nil {
			return &IngestError{Stage: "answers", Err: err}
		}
	}
	return nil
}
