// Package fixtures provides recording stand-ins for the registries, cron
// schedulers and dispatchers that conversion handlers are wired into.
package fixtures

import (
	"sync"

	command "github.com/goliatone/go-command"
)

// RecordingRegistry captures the handlers passed to RegisterCommand.
type RecordingRegistry struct {
	mu       sync.Mutex
	Handlers []any
	// Err, when set, is returned by RegisterCommand instead of recording.
	Err error
}

// NewRecordingRegistry returns an empty registry recorder.
func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{Handlers: make([]any, 0)}
}

func (r *RecordingRegistry) RegisterCommand(handler any) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Handlers = append(r.Handlers, handler)
	return nil
}

// CronRegistration is one job handed to a RecordingCron.
type CronRegistration struct {
	Config command.HandlerConfig
	// Run is nil when the registered handler was not a func() error.
	Run func() error
}

// RecordingCron captures cron registrations.
type RecordingCron struct {
	mu   sync.Mutex
	Jobs []CronRegistration
	Err  error
}

// Registrar returns a cron registration func that records into c.
func (c *RecordingCron) Registrar() func(command.HandlerConfig, any) error {
	return func(cfg command.HandlerConfig, handler any) error {
		if c.Err != nil {
			return c.Err
		}
		run, _ := handler.(func() error)
		c.mu.Lock()
		defer c.mu.Unlock()
		c.Jobs = append(c.Jobs, CronRegistration{Config: cfg, Run: run})
		return nil
	}
}
