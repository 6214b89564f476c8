package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"food-dispatch/internal/apperr"
)

// SQLSTATE codes the dispatch schema can raise on insert.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func pgCode(err error) string {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return ""
}

func isDuplicate(err error) bool { return pgCode(err) == codeUniqueViolation }

func isNoRows(err error) bool { return errors.Is(err, pgx.ErrNoRows) }

// violation maps a constraint failure onto the apperr sentinel callers branch on.
// A dangling reference reads as apperr.ErrNotFound and a failed CHECK (e.g. a taxi
// delivery without an office) as apperr.ErrInvalid. Other errors yield nil.
func violation(err error) error {
	switch pgCode(err) {
	case codeForeignKeyViolation:
		return apperr.ErrNotFound
	case codeCheckViolation:
		return apperr.ErrInvalid
	}
	return nil
}
