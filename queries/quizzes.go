package queries

import (
	"fmt"
)

const (
	FilterType     = "type"
	FilterCategory = "category"
	FilterAll      = "All"

	SortCreated    = "created"
	SortPopular    = "popular"
	SortRating     = "rating"
	SortFavourites = "favourites"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListOptions selects, orders and pages the public quiz listing.
type ListOptions struct {
	FilterType string // type, category or empty
	FilterName string // exact match; "All" or empty disables the filter
	Sort       string // created (default), popular, rating, favourites
	Order      string // asc or desc (default)
	Offset     int    // row offset, applied as-is
}

// Each sort mode reads its metric from a different table, so each gets its
// own select expression. Quizzes without activity score 0.
var sortExpressions = map[string]string{
	SortCreated: "quizzes.created_at",
	SortPopular: "((SELECT COUNT(*) FROM trivia_results tr WHERE tr.quiz_id = quizzes.id) + " +
		"(SELECT COUNT(*) FROM personality_results pr WHERE pr.quiz_id = quizzes.id))",
	SortRating:     "CAST(COALESCE((SELECT AVG(r.rating) FROM ratings r WHERE r.quiz_id = quizzes.id), 0) AS FLOAT)",
	SortFavourites: "(SELECT COUNT(*) FROM favourites f WHERE f.quiz_id = quizzes.id)",
}

// PublicQuizzes builds the listing of listed quizzes for one page.
func PublicQuizzes(opts ListOptions) (Query, error) {
	sortName := opts.Sort
	if sortName == "" {
		sortName = SortCreated
	}
	expr, ok := sortExpressions[sortName]
	if !ok {
		return Query{}, fmt.Errorf("%w: sort %q", ErrInvalidOption, opts.Sort)
	}

	direction := "DESC"
	switch opts.Order {
	case "", OrderDesc:
	case OrderAsc:
		direction = "ASC"
	default:
		return Query{}, fmt.Errorf("%w: order %q", ErrInvalidOption, opts.Order)
	}

	if opts.Offset < 0 {
		return Query{}, fmt.Errorf("%w: offset %d", ErrInvalidOption, opts.Offset)
	}

	b := &builder{}
	if sortName == SortCreated {
		b.write("SELECT quizzes.* FROM quizzes")
	} else {
		b.write("SELECT quizzes.*, " + expr + " AS sort_metric FROM quizzes")
		expr = "sort_metric"
	}
	b.write("WHERE quizzes.listed = ?", true)

	if opts.FilterName != "" && opts.FilterName != FilterAll {
		switch opts.FilterType {
		case FilterType:
			b.write("AND quizzes.type = ?", opts.FilterName)
		case FilterCategory:
			b.write("AND quizzes.category = ?", opts.FilterName)
		case "":
		default:
			return Query{}, fmt.Errorf("%w: filter %q", ErrInvalidOption, opts.FilterType)
		}
	}

	b.write("ORDER BY " + expr + " " + direction + ", quizzes.id ASC")
	b.write("LIMIT ? OFFSET ?", PageSize, opts.Offset)
	return b.query(), nil
}

func AllQuizzes() Query {
	return Query{SQL: "SELECT * FROM quizzes ORDER BY id"}
}

func QuizzesForUser(userID uint) Query {
	return Query{
		SQL:  "SELECT * FROM quizzes WHERE creator_id = ? ORDER BY created_at DESC, id ASC",
		Args: []interface{}{userID},
	}
}

func QuizWithID(id uint) Query {
	return Query{SQL: "SELECT * FROM quizzes WHERE id = ?", Args: []interface{}{id}}
}

func QuizWithURL(url string) Query {
	return Query{SQL: "SELECT * FROM quizzes WHERE url = ?", Args: []interface{}{url}}
}

// URLTaken counts quizzes already using the slug.
func URLTaken(url string) Query {
	return Query{SQL: "SELECT COUNT(*) FROM quizzes WHERE url = ?", Args: []interface{}{url}}
}

func Categories() Query {
	return Query{SQL: "SELECT DISTINCT category FROM quizzes ORDER BY category"}
}

func Types() Query {
	return Query{SQL: "SELECT DISTINCT type FROM quizzes ORDER BY type"}
}
