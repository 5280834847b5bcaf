// Package queries builds the parameterized SQL statements used by the
// services. Builders never interpolate caller-supplied values into the SQL
// text: values travel in Args and every variable piece of the statement
// (table, sort column, direction) is picked from a fixed set.
package queries

import (
	"errors"
	"strings"
)

// PageSize is the number of quizzes returned per public listing page.
const PageSize = 12

var ErrInvalidOption = errors.New("invalid query option")

// Query is one SQL statement with `?` placeholders and its positional args.
type Query struct {
	SQL  string
	Args []interface{}
}

// builder accumulates SQL fragments and their args in order.
type builder struct {
	sql  strings.Builder
	args []interface{}
}

func (b *builder) write(fragment string, args ...interface{}) *builder {
	if b.sql.Len() > 0 {
		b.sql.WriteByte(' ')
	}
	b.sql.WriteString(fragment)
	b.args = append(b.args, args...)
	return b
}

func (b *builder) query() Query {
	return Query{SQL: b.sql.String(), Args: b.args}
}

// placeholders returns "?, ?, ?" for n values.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func uintArgs(ids []uint) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
