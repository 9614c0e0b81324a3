package apperr

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// FromSQLite translates a constraint violation reported by the sqlite3
// driver into a structured user-facing error. Violations that slipped past
// pre-validation come back as raw driver errors; exposing those verbatim
// leaks schema internals, so the message is reshaped around the offending
// column. Non-constraint errors pass through unchanged.
func FromSQLite(err error) error {
	if err == nil {
		return nil
	}

	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return err
	}
	if serr.Code != sqlite3.ErrConstraint {
		return err
	}

	switch serr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		if cols := constraintColumns(serr.Error(), "UNIQUE constraint failed: "); cols != "" {
			return Conflict("duplicate value for %s", cols)
		}
		return Conflict("duplicate value")
	case sqlite3.ErrConstraintForeignKey:
		return BadRequest("referenced record does not exist")
	case sqlite3.ErrConstraintNotNull:
		if cols := constraintColumns(serr.Error(), "NOT NULL constraint failed: "); cols != "" {
			return BadRequest("%s is required", cols)
		}
		return BadRequest("required field is missing")
	default:
		return BadRequest("constraint violation: %v", serr)
	}
}

// constraintColumns extracts the "table.column, table.column" tail that
// sqlite appends to constraint messages and strips the table prefixes.
func constraintColumns(msg, prefix string) string {
	idx := strings.Index(msg, prefix)
	if idx < 0 {
		return ""
	}
	raw := strings.Split(msg[idx+len(prefix):], ", ")
	cols := make([]string, 0, len(raw))
	for _, qualified := range raw {
		qualified = strings.TrimSpace(qualified)
		if dot := strings.LastIndex(qualified, "."); dot >= 0 {
			qualified = qualified[dot+1:]
		}
		if qualified != "" {
			cols = append(cols, qualified)
		}
	}
	return strings.Join(cols, ", ")
}
