package services

import (
	"context"

	"quizzical/queries"

	"gorm.io/gorm"
)

// Every read goes through these helpers so that built queries are always
// executed with their positional args and errors come back classified.

func selectAll(ctx context.Context, db *gorm.DB, q queries.Query, dest interface{}) error {
	return classify(db.WithContext(ctx).Raw(q.SQL, q.Args...).Scan(dest).Error)
}

// selectOne scans a single row into dest, returning ErrNotFound for no rows.
func selectOne(ctx context.Context, db *gorm.DB, q queries.Query, dest interface{}) error {
	res := db.WithContext(ctx).Raw(q.SQL, q.Args...).Scan(dest)
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func execute(ctx context.Context, db *gorm.DB, q queries.Query) (int64, error) {
	res := db.WithContext(ctx).Exec(q.SQL, q.Args...)
	return res.RowsAffected, classify(res.Error)
}

func buildAndSelectAll(ctx context.Context, db *gorm.DB, build func() (queries.Query, error), dest interface{}) error {
	q, err := build()
	if err != nil {
		return classify(err)
	}
	return selectAll(ctx, db, q, dest)
}
