package quiz

import (
	"errors"
	"fmt"
)

// Recoverable data failures: the caller redirects to a safe screen.
var (
	ErrBankNotFound = errors.New("bank not found")
	ErrBankEmpty    = errors.New("bank has no questions")
	ErrBadSnapshot  = errors.New("malformed session snapshot")
)

// UsageError marks a programming error: an operation invoked on a session
// outside InProgress, or with an invalid position or option index. It is
// never silently clamped, since clamping would corrupt answer semantics.
type UsageError struct {
	Op     string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("quiz: %s: %s", e.Op, e.Reason)
}

func usageErr(op, format string, args ...any) error {
	return &UsageError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// IsUsageError reports whether err is a session usage error.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}
