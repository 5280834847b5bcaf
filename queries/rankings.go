package queries

import (
	"fmt"
)

const (
	RankPopular    = "popular"
	RankRated      = "rated"
	RankFavourited = "favourited"
)

// The outer joins keep quizzes without any activity in the ranking with a
// metric of 0.
var rankingSelects = map[string]string{
	RankPopular: "SELECT quizzes.*, COALESCE(t.total, 0) + COALESCE(p.total, 0) AS metric FROM quizzes " +
		"LEFT JOIN (SELECT quiz_id, COUNT(*) AS total FROM trivia_results GROUP BY quiz_id) t ON t.quiz_id = quizzes.id " +
		"LEFT JOIN (SELECT quiz_id, COUNT(*) AS total FROM personality_results GROUP BY quiz_id) p ON p.quiz_id = quizzes.id",
	RankRated: "SELECT quizzes.*, CAST(COALESCE(AVG(ratings.rating), 0) AS FLOAT) AS metric FROM quizzes " +
		"LEFT JOIN ratings ON ratings.quiz_id = quizzes.id GROUP BY quizzes.id",
	RankFavourited: "SELECT quizzes.*, COUNT(favourites.id) AS metric FROM quizzes " +
		"LEFT JOIN favourites ON favourites.quiz_id = quizzes.id GROUP BY quizzes.id",
}

// Ranking orders every quiz by the chosen metric, highest first, quiz id
// breaking ties. A limit of 0 returns all quizzes.
func Ranking(metric string, limit int) (Query, error) {
	sel, ok := rankingSelects[metric]
	if !ok {
		return Query{}, fmt.Errorf("%w: ranking %q", ErrInvalidOption, metric)
	}
	if limit < 0 {
		return Query{}, fmt.Errorf("%w: limit %d", ErrInvalidOption, limit)
	}

	b := &builder{}
	b.write(sel)
	b.write("ORDER BY metric DESC, quizzes.id ASC")
	if limit > 0 {
		b.write("LIMIT ?", limit)
	}
	return b.query(), nil
}

func MostPopular(limit int) (Query, error)    { return Ranking(RankPopular, limit) }
func BestRated(limit int) (Query, error)      { return Ranking(RankRated, limit) }
func MostFavourited(limit int) (Query, error) { return Ranking(RankFavourited, limit) }
