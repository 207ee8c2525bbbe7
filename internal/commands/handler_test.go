package commands

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
)

// fileMessage stands in for a conversion command that names a source file.
type fileMessage struct {
	Path string
}

func (fileMessage) Type() string { return "mdtree.test.file" }

func (m fileMessage) Validate() error {
	if m.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

type eventLogger struct {
	events []string
}

func (l *eventLogger) record(msg string)                             { l.events = append(l.events, msg) }
func (l *eventLogger) Trace(msg string, _ ...any)                    { l.record(msg) }
func (l *eventLogger) Debug(msg string, _ ...any)                    { l.record(msg) }
func (l *eventLogger) Info(msg string, _ ...any)                     { l.record(msg) }
func (l *eventLogger) Warn(msg string, _ ...any)                     { l.record(msg) }
func (l *eventLogger) Error(msg string, _ ...any)                    { l.record(msg) }
func (l *eventLogger) Fatal(msg string, _ ...any)                    { l.record(msg) }
func (l *eventLogger) WithContext(context.Context) interfaces.Logger { return l }

func TestHandlerOutcomes(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name         string
		ctx          context.Context
		msg          fileMessage
		exec         func(context.Context, fileMessage) error
		wantRun      bool
		wantErr      bool
		validation   bool
		wantEvent    string
	}{
		{
			name:      "success",
			ctx:       context.Background(),
			msg:       fileMessage{Path: "docs/a.md"},
			exec:      func(context.Context, fileMessage) error { return nil },
			wantRun:   true,
			wantEvent: "convert.command.completed",
		},
		{
			name:         "invalid message",
			ctx:          context.Background(),
			msg:          fileMessage{},
			exec:         func(context.Context, fileMessage) error { return nil },
			wantErr:      true,
			validation:   true,
		},
		{
			name:         "cancelled before run",
			ctx:          cancelled,
			msg:          fileMessage{Path: "docs/a.md"},
			exec:         func(context.Context, fileMessage) error { return nil },
			wantErr:      true,
		},
		{
			name:         "execution failure",
			ctx:          context.Background(),
			msg:          fileMessage{Path: "docs/a.md"},
			exec:         func(context.Context, fileMessage) error { return errors.New("unterminated fence") },
			wantRun:      true,
			wantErr:      true,
			wantEvent:    "convert.command.failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &eventLogger{}
			ran := false
			h := NewHandler(func(ctx context.Context, msg fileMessage) error {
				ran = true
				return tt.exec(ctx, msg)
			}, WithLogger[fileMessage](logger))

			err := h.Execute(tt.ctx, tt.msg)
			if ran != tt.wantRun {
				t.Fatalf("ran = %t, want %t", ran, tt.wantRun)
			}
			switch {
			case !tt.wantErr && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case tt.wantErr && tt.validation && !goerrors.IsCategory(err, goerrors.CategoryValidation):
				t.Fatalf("expected validation category, got %v", err)
			case tt.wantErr && !tt.validation && !goerrors.IsCategory(err, goerrors.CategoryCommand):
				t.Fatalf("expected command category, got %v", err)
			}
			if tt.wantEvent != "" && !slices.Contains(logger.events, tt.wantEvent) {
				t.Fatalf("expected %q in %v", tt.wantEvent, logger.events)
			}
		})
	}
}

func TestHandlerTimeoutIsInterrupted(t *testing.T) {
	var outcome Outcome
	h := NewHandler(func(ctx context.Context, _ fileMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	},
		WithTimeout[fileMessage](10*time.Millisecond),
		WithTelemetry(func(_ context.Context, _ fileMessage, exec Execution) {
			outcome = exec.Outcome
		}),
	)

	err := h.Execute(context.Background(), fileMessage{Path: "docs/slow.md"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
	if outcome != OutcomeInterrupted {
		t.Fatalf("expected interrupted outcome, got %q", outcome)
	}
}

func TestHandlerTelemetryReceivesMessageFields(t *testing.T) {
	var got Execution
	h := NewHandler(func(context.Context, fileMessage) error { return nil },
		WithOperation[fileMessage]("convert.import"),
		WithMessageFields(func(msg fileMessage) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
		WithTelemetry(func(_ context.Context, _ fileMessage, exec Execution) {
			got = exec
		}),
	)

	if err := h.Execute(context.Background(), fileMessage{Path: "docs/a.md"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Outcome != OutcomeOK || got.Operation != "convert.import" || got.Started.IsZero() {
		t.Fatalf("unexpected execution %+v", got)
	}
	if got.Fields["path"] != "docs/a.md" || got.Fields["command"] != "mdtree.test.file" {
		t.Fatalf("expected message fields, got %#v", got.Fields)
	}
}

func TestDefaultTelemetryLogsInterruptions(t *testing.T) {
	logger := &eventLogger{}
	DefaultTelemetry[fileMessage](logger)(context.Background(), fileMessage{}, Execution{
		Outcome: OutcomeInterrupted,
		Err:     context.Canceled,
	})
	if !slices.Equal(logger.events, []string{"convert.command.interrupted"}) {
		t.Fatalf("unexpected events %v", logger.events)
	}
}

func TestOutcomeOf(t *testing.T) {
	tests := map[error]Outcome{
		nil:                      OutcomeOK,
		context.Canceled:         OutcomeInterrupted,
		context.DeadlineExceeded: OutcomeInterrupted,
		errors.New("boom"):       OutcomeFailed,
	}
	for err, want := range tests {
		if got := outcomeOf(err); got != want {
			t.Fatalf("outcomeOf(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestNotFoundTagsCommandCategory(t *testing.T) {
	cause := errors.New("missing")
	err := NotFound(cause, "snapshot not found")
	if err == nil || err == cause {
		t.Fatalf("expected cause to be wrapped, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if NotFound(nil, "x") != nil {
		t.Fatal("expected nil for nil error")
	}
}
