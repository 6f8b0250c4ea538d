package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/saxenaaman628/hobbyhub/internal/models"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func isPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}

// notFound maps sql.ErrNoRows to models.ErrNotFound and wraps anything else.
func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, models.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// expectOne checks that an UPDATE or DELETE touched a row.
func expectOne(result sql.Result, what, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, models.ErrNotFound)
	}
	return nil
}

// authorOf resolves the public author of a row once, at load time.
func authorOf(ownerID, username string, anonymous bool) models.Author {
	if anonymous {
		return models.AnonymousAuthor()
	}
	return models.Identified(ownerID, username)
}
