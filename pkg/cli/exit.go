package cli

import (
	"errors"

	"github.com/clst/UNREADABLESECTOR-merger/pkg/merge"
)

// Exit codes returned by the secmerge binary. Scripts can tell failure
// categories apart without parsing messages.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitOutputExists   = 3
	ExitSizeMismatch   = 4
	ExitSizeTooSmall   = 5
	ExitConflict       = 6
	ExitInvalidOptions = 7
)

// ExitCode maps an error returned by Run to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, merge.ErrOutputExists):
		return ExitOutputExists
	case errors.Is(err, merge.ErrSizeMismatch):
		return ExitSizeMismatch
	case errors.Is(err, merge.ErrSizeTooSmall):
		return ExitSizeTooSmall
	case errors.Is(err, merge.ErrUnresolvableConflict):
		return ExitConflict
	case errors.Is(err, merge.ErrInvalidOptions):
		return ExitInvalidOptions
	}
	return ExitFailure
}
