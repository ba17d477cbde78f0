package db

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	postgresUniqueValueViolationErrorCode = "23505"
	postgresCheckViolationErrorCode       = "23514"
)

var ErrConstraintViolation = errors.New("constraint violation")

func isErrorConstraintViolation(err error) bool {
	var psqlErr *pq.Error
	if errors.As(err, &psqlErr) {
		return psqlErr.Code == postgresUniqueValueViolationErrorCode ||
			psqlErr.Code == postgresCheckViolationErrorCode
	}

	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

func classifyError(err error) error {
	if isErrorConstraintViolation(err) {
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}
	return err
}
