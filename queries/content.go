package queries

import (
	"fmt"
)

// Question and answer tables differ per quiz type; the table name is chosen
// from this fixed set only.
var contentTables = map[string]struct{ questions, answers string }{
	"trivia":      {"trivia_questions", "trivia_answers"},
	"personality": {"personality_questions", "personality_answers"},
}

func tablesFor(quizType string) (questions, answers string, err error) {
	t, ok := contentTables[quizType]
	if !ok {
		return "", "", fmt.Errorf("%w: quiz type %q", ErrInvalidOption, quizType)
	}
	return t.questions, t.answers, nil
}

// Questions lists a quiz's questions in creation order.
func Questions(quizID uint, quizType string) (Query, error) {
	questions, _, err := tablesFor(quizType)
	if err != nil {
		return Query{}, err
	}
	return Query{
		SQL:  "SELECT * FROM " + questions + " WHERE quiz_id = ? ORDER BY id",
		Args: []interface{}{quizID},
	}, nil
}

// Answers lists the answers of one question in creation order.
func Answers(questionID uint, quizType string) (Query, error) {
	_, answers, err := tablesFor(quizType)
	if err != nil {
		return Query{}, err
	}
	return Query{
		SQL:  "SELECT * FROM " + answers + " WHERE question_id = ? ORDER BY id",
		Args: []interface{}{questionID},
	}, nil
}

// AnswersForQuiz lists every answer of a quiz, grouped by question.
func AnswersForQuiz(quizID uint, quizType string) (Query, error) {
	questions, answers, err := tablesFor(quizType)
	if err != nil {
		return Query{}, err
	}
	return Query{
		SQL: "SELECT a.* FROM " + answers + " a JOIN " + questions + " q ON a.question_id = q.id " +
			"WHERE q.quiz_id = ? ORDER BY a.question_id, a.id",
		Args: []interface{}{quizID},
	}, nil
}

func OutcomesForQuiz(quizID uint) Query {
	return Query{
		SQL:  "SELECT * FROM personality_outcomes WHERE quiz_id = ? ORDER BY id",
		Args: []interface{}{quizID},
	}
}

func OutcomeWithID(id uint) Query {
	return Query{SQL: "SELECT * FROM personality_outcomes WHERE id = ?", Args: []interface{}{id}}
}

// AnswerOwnership maps each of the given answer ids to its question, limited
// to answers belonging to quizID. Ids that belong elsewhere are simply
// absent from the rows.
func AnswerOwnership(quizID uint, quizType string, answerIDs []uint) (Query, error) {
	questions, answers, err := tablesFor(quizType)
	if err != nil {
		return Query{}, err
	}
	if len(answerIDs) == 0 {
		return Query{}, fmt.Errorf("%w: no answer ids", ErrInvalidOption)
	}
	args := append([]interface{}{quizID}, uintArgs(answerIDs)...)
	return Query{
		SQL: "SELECT a.id AS answer_id, a.question_id AS question_id FROM " + answers + " a " +
			"JOIN " + questions + " q ON a.question_id = q.id " +
			"WHERE q.quiz_id = ? AND a.id IN (" + placeholders(len(answerIDs)) + ")",
		Args: args,
	}, nil
}

// QuestionCount counts the questions of a quiz.
func QuestionCount(quizID uint, quizType string) (Query, error) {
	questions, _, err := tablesFor(quizType)
	if err != nil {
		return Query{}, err
	}
	return Query{
		SQL:  "SELECT COUNT(*) FROM " + questions + " WHERE quiz_id = ?",
		Args: []interface{}{quizID},
	}, nil
}
