package queries

import (
	"fmt"
)

var resultTables = map[string]string{
	"trivia":      "trivia_results",
	"personality": "personality_results",
}

func resultTable(quizType string) (string, error) {
	table, ok := resultTables[quizType]
	if !ok {
		return "", fmt.Errorf("%w: result type %q", ErrInvalidOption, quizType)
	}
	return table, nil
}

// Result selects one result row of the given kind together with its quiz's
// title and url.
func Result(resultID uint, quizType string) (Query, error) {
	table, err := resultTable(quizType)
	if err != nil {
		return Query{}, err
	}
	return Query{
		SQL: "SELECT r.*, quizzes.title AS quiz_title, quizzes.url AS quiz_url, quizzes.type AS quiz_type " +
			"FROM " + table + " r JOIN quizzes ON r.quiz_id = quizzes.id WHERE r.id = ?",
		Args: []interface{}{resultID},
	}, nil
}

func ResultsForQuiz(quizID uint, quizType string) (Query, error) {
	table, err := resultTable(quizType)
	if err != nil {
		return Query{}, err
	}
	return Query{
		SQL:  "SELECT * FROM " + table + " WHERE quiz_id = ? ORDER BY id",
		Args: []interface{}{quizID},
	}, nil
}

// NumResultsForQuiz counts results of both kinds for a quiz.
func NumResultsForQuiz(quizID uint) Query {
	return Query{
		SQL: "SELECT (SELECT COUNT(*) FROM trivia_results WHERE quiz_id = ?) + " +
			"(SELECT COUNT(*) FROM personality_results WHERE quiz_id = ?) AS total",
		Args: []interface{}{quizID, quizID},
	}
}

// NumScoresBeaten counts trivia results for the quiz scoring below score.
func NumScoresBeaten(quizID uint, score int) Query {
	return Query{
		SQL:  "SELECT COUNT(*) FROM trivia_results WHERE quiz_id = ? AND score < ?",
		Args: []interface{}{quizID, score},
	}
}

// ResultsForUser lists one user's results of the given kind, newest first.
func ResultsForUser(userID uint, quizType string) (Query, error) {
	table, err := resultTable(quizType)
	if err != nil {
		return Query{}, err
	}
	return Query{
		SQL: "SELECT r.*, quizzes.title AS quiz_title, quizzes.url AS quiz_url, quizzes.type AS quiz_type " +
			"FROM " + table + " r JOIN quizzes ON r.quiz_id = quizzes.id " +
			"WHERE r.user_id = ? ORDER BY r.completed_at DESC, r.id DESC",
		Args: []interface{}{userID},
	}, nil
}
