package cli

import (
	"fmt"

	"github.com/dashlint/dashlint/internal/domain"
)

// Exit statuses.
const (
	ExitPass = 0
	ExitFail = 1
	ExitWarn = 2
)

// ExitError carries a non-zero exit status out of a command. Err is nil when
// the command already printed everything it had to say.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// exitFor maps a verdict onto the process exit status. A fatal report always
// fails.
func exitFor(verdict domain.Verdict, fatal bool) error {
	switch {
	case fatal || verdict == domain.VerdictFail:
		return &ExitError{Code: ExitFail}
	case verdict == domain.VerdictWarn:
		return &ExitError{Code: ExitWarn}
	default:
		return nil
	}
}
