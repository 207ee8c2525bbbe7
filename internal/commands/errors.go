package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// failure is one way a conversion command can fail. Validation failures are
// reported under the validation category, everything else under command.
type failure struct {
	code       string
	message    string
	validation bool
}

var (
	failureInvalid   = failure{code: "MDTREE_COMMAND_INVALID", message: "command message is invalid", validation: true}
	failureCancelled = failure{code: "MDTREE_COMMAND_CANCELLED", message: "command execution cancelled"}
	failureTimeout   = failure{code: "MDTREE_COMMAND_TIMEOUT", message: "command execution deadline exceeded"}
	failureContext   = failure{code: "MDTREE_COMMAND_CONTEXT", message: "command context error"}
	failureExecute   = failure{code: "MDTREE_COMMAND_FAILED", message: "command execution failed"}
	failureNotFound  = failure{code: "MDTREE_COMMAND_TARGET_NOT_FOUND", message: "command target not found"}
)

// wrap tags err with the failure. Errors that already carry a category are
// returned as they are.
func (f failure) wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	if message == "" {
		message = f.message
	}
	category := goerrors.CategoryCommand
	if f.validation {
		category = goerrors.CategoryValidation
	}
	return goerrors.Wrap(err, category, message).WithTextCode(f.code)
}

func contextFailure(err error) failure {
	switch {
	case errors.Is(err, context.Canceled):
		return failureCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return failureTimeout
	default:
		return failureContext
	}
}

// NotFound tags err as a missing command target, such as a Markdown file or a
// snapshot, so callers can tell it apart from execution failures.
func NotFound(err error, message string) error {
	return failureNotFound.wrap(err, message)
}
