package cli

import (
	"errors"

	"github.com/dailyquest/dq/internal/domain"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitConflict   = 3
	ExitAuth       = 4
	ExitBackend    = 5
)

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, domain.ErrNoFieldsToUpdate) || errors.Is(err, domain.ErrEmptyTaskFile) {
		return ExitValidation
	}
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return ExitValidation
	case domain.KindConflict:
		return ExitConflict
	case domain.KindUnauthorized:
		return ExitAuth
	case domain.KindNetwork, domain.KindBackend:
		return ExitBackend
	default:
		return ExitFailure
	}
}

// IsNotice reports whether err is an expected outcome that is reported to
// the user as a notice rather than a failure.
func IsNotice(err error) bool {
	return domain.KindOf(err) == domain.KindConflict
}

// FormatError renders err for the terminal.
func FormatError(err error) string {
	if IsNotice(err) {
		var e *domain.Error
		if errors.As(err, &e) && e.Message != "" {
			return "Notice: " + e.Message
		}
		return "Notice: " + err.Error()
	}
	return "Error: " + err.Error()
}
