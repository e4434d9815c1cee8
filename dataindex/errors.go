package dataindex

import (
	"errors"
	"strings"

	"github.com/zeebo/errs"
	"gorm.io/gorm"
)

var (
	// ErrValidation is returned when a name or filename does not match its grammar.
	ErrValidation = errs.Class("validation")
	// ErrNotFound is returned when a lookup by name or key finds no row.
	ErrNotFound = errs.Class("missing reference data")
	// ErrConstraint wraps uniqueness, foreign-key and check violations reported by the database.
	ErrConstraint = errs.Class("constraint violation")
	// ErrConfig is returned for malformed configuration, including io_config blobs.
	ErrConfig = errs.Class("config")
)

var constraintMessages = []string{
	"UNIQUE constraint failed",
	"FOREIGN KEY constraint failed",
	"CHECK constraint failed",
	"NOT NULL constraint failed",
	"duplicate key value violates unique constraint",
	"violates foreign key constraint",
	"violates check constraint",
	"violates not-null constraint",
}

// ClassifyError maps database errors onto the package error classes.
// Errors that are already classified, and errors it does not recognise,
// are returned unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if ErrConstraint.Has(err) || ErrNotFound.Has(err) || ErrValidation.Has(err) || ErrConfig.Has(err) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound.Wrap(err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return ErrConstraint.Wrap(err)
	}
	msg := err.Error()
	for _, m := range constraintMessages {
		if strings.Contains(msg, m) {
			return ErrConstraint.Wrap(err)
		}
	}
	return err
}

func notFound(what string, key any, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound.New("%s %v", what, key)
	}
	return err
}
