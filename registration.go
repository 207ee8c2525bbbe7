package mdtree

import (
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"
)

// CommandRegistry collects handlers for hosts that expose them through a CLI
// or an admin surface.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes handlers to a message dispatcher.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription is returned by a dispatcher so hosts can detach a handler.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar schedules a cron capable handler. It receives the handler's
// cron options and its run function.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions selects the integrations the conversion handlers are
// handed to. Nil integrations are skipped.
type RegistrationOptions struct {
	Registry      CommandRegistry
	Dispatcher    CommandDispatcher
	CronRegistrar CronRegistrar
}

// RegistrationResult lists what RegisterCommands handed out.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
	// Scheduled holds the handlers given to the cron registrar.
	Scheduled []command.CronCommand
}

// Unsubscribe detaches every dispatcher subscription in r.
func (r *RegistrationResult) Unsubscribe() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		sub.Unsubscribe()
	}
	r.Subscriptions = nil
}

// RegisterCommands hands every conversion handler of m to the integrations in
// opts. Failures do not stop registration; they are returned joined, each
// naming the handler that failed.
func RegisterCommands(m *Module, opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      []any{},
		Subscriptions: []CommandSubscription{},
	}
	if m == nil {
		return result, nil
	}

	var errs []error
	fail := func(handler any, integration string, err error) {
		errs = append(errs, fmt.Errorf("mdtree: register %T with %s: %w", handler, integration, err))
	}

	for _, handler := range m.Commands().Handlers() {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				fail(handler, "registry", err)
			}
		}
		if opts.Dispatcher != nil {
			switch sub, err := opts.Dispatcher.RegisterCommand(handler); {
			case err != nil:
				fail(handler, "dispatcher", err)
			case sub != nil:
				result.Subscriptions = append(result.Subscriptions, sub)
			}
		}
		cron, ok := handler.(command.CronCommand)
		if !ok || opts.CronRegistrar == nil {
			continue
		}
		if err := opts.CronRegistrar(cron.CronOptions(), cron.CronHandler()); err != nil {
			fail(handler, "cron", err)
			continue
		}
		result.Scheduled = append(result.Scheduled, cron)
	}
	return result, errors.Join(errs...)
}
