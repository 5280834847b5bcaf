package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"quizzical/queries"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("constraint violation")
	ErrInvalidInput = errors.New("invalid input")
	ErrTransient    = errors.New("transient storage failure")
)

// IngestError reports which stage of a quiz creation cascade failed. The
// whole cascade has been rolled back when it is returned.
type IngestError struct {
	Stage string
	Err   error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("quiz ingestion failed at %s: %v", e.Stage, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// classify maps a storage error onto one of the service sentinels, keeping
// the storage error in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidInput), errors.Is(err, ErrTransient):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, queries.ErrInvalidOption):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn), errors.As(err, &netErr):
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return err
}
