package queries

import (
	"fmt"
)

// Score counts how many of the submitted trivia answers are flagged correct.
func Score(answerIDs []uint) (Query, error) {
	if len(answerIDs) == 0 {
		return Query{}, fmt.Errorf("%w: no answer ids", ErrInvalidOption)
	}
	args := append([]interface{}{true}, uintArgs(answerIDs)...)
	return Query{
		SQL: "SELECT COUNT(*) AS score FROM trivia_answers WHERE is_correct = ? AND id IN (" +
			placeholders(len(answerIDs)) + ")",
		Args: args,
	}, nil
}

// Outcome picks the outcome most of the submitted personality answers point
// to, the lowest outcome id winning ties.
func Outcome(answerIDs []uint) (Query, error) {
	if len(answerIDs) == 0 {
		return Query{}, fmt.Errorf("%w: no answer ids", ErrInvalidOption)
	}
	return Query{
		SQL: "SELECT outcome_id, COUNT(*) AS votes FROM personality_answers WHERE id IN (" +
			placeholders(len(answerIDs)) + ") GROUP BY outcome_id ORDER BY votes DESC, outcome_id ASC LIMIT 1",
		Args: uintArgs(answerIDs),
	}, nil
}
