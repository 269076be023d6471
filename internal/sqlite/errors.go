package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/focuslog/internal/repository"
)

// constraint is the kind of SQLite constraint a failed statement tripped.
type constraint int

const (
	constraintNone constraint = iota
	constraintForeignKey
	constraintUnique
	constraintCheck
	constraintNotNull
)

// violated inspects the driver message. modernc reports constraint failures
// as "constraint failed: <KIND> constraint failed: <detail>".
func violated(err error) constraint {
	if err == nil {
		return constraintNone
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return constraintForeignKey
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return constraintUnique
	case strings.Contains(msg, "CHECK constraint failed"):
		return constraintCheck
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return constraintNotNull
	}
	return constraintNone
}

func isForeignKeyViolation(err error) bool { return violated(err) == constraintForeignKey }

func isUniqueViolation(err error) bool { return violated(err) == constraintUnique }

// writeError maps a failed write to the repository sentinel for the
// constraint it violated. A rejected enum column (sample kind, block
// activity type, suggestion status) or a missing required column surfaces
// as repository.ErrInvalidInput. Anything else is wrapped with op.
func writeError(op string, err error) error {
	switch violated(err) {
	case constraintForeignKey:
		return repository.ErrForeignKeyViolation
	case constraintUnique:
		return repository.ErrDuplicate
	case constraintCheck, constraintNotNull:
		return fmt.Errorf("%w: %s: %v", repository.ErrInvalidInput, op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
