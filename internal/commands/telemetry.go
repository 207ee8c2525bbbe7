package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-mdtree/internal/logging"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
)

// Outcome classifies a finished command run.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeFailed      Outcome = "failed"
	OutcomeInterrupted Outcome = "interrupted"
)

func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeInterrupted
	default:
		return OutcomeFailed
	}
}

// Execution is what a Telemetry hook learns about one command run.
type Execution struct {
	Command   string
	Operation string
	Fields    map[string]any
	Started   time.Time
	Elapsed   time.Duration
	Err       error
	Outcome   Outcome
	// Logger already carries Fields.
	Logger interfaces.Logger
}

// Telemetry is invoked once after every run that passed validation.
type Telemetry[T command.Message] func(ctx context.Context, msg T, exec Execution)

// DefaultTelemetry logs the outcome of each run with its elapsed time.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, exec Execution) {
		entry := exec.Logger
		if entry == nil {
			entry = logging.WithFields(logger, exec.Fields)
		}
		logOutcome(entry, exec)
	}
}

func logOutcome(logger interfaces.Logger, exec Execution) {
	elapsed := exec.Elapsed.Milliseconds()
	switch exec.Outcome {
	case OutcomeOK:
		logger.Info("convert.command.completed", "elapsed_ms", elapsed)
	case OutcomeInterrupted:
		logger.Warn("convert.command.interrupted", "elapsed_ms", elapsed, "error", exec.Err)
	default:
		logger.Error("convert.command.failed", "elapsed_ms", elapsed, "error", exec.Err)
	}
}
