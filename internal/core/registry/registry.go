// Package registry maps command names to executable handlers.
package registry

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/calc/internal/core/calc"
)

// ErrStop is returned by a handler to end the caller's dispatch loop.
// Dispatch passes it through without wrapping.
var ErrStop = errors.New("stop requested")

// Handler executes a command with its raw argument tokens.
type Handler interface {
	Execute(ctx context.Context, args []string) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, args []string) error

// Execute calls f(ctx, args).
func (f HandlerFunc) Execute(ctx context.Context, args []string) error {
	return f(ctx, args)
}

// Descriptor binds a unique command name to its handler.
type Descriptor struct {
	Name        string
	Description string
	Handler     Handler
}

// Entry is the menu view of a Descriptor.
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Registry owns the command descriptors. Names are unique; registering an
// existing name replaces the descriptor in place.
type Registry struct {
	log zerolog.Logger

	mu          sync.RWMutex
	order       []string
	descriptors map[string]Descriptor
}

// New creates an empty Registry.
func New(log zerolog.Logger) *Registry {
	return &Registry{
		log:         log,
		descriptors: make(map[string]Descriptor),
	}
}

// Register inserts d, overwriting any descriptor with the same name.
func (r *Registry) Register(d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[d.Name]; exists {
		r.log.Warn().Str("command", d.Name).Msg("command already registered, overwriting")
	} else {
		r.order = append(r.order, d.Name)
	}

	r.descriptors[d.Name] = d
	r.log.Debug().Str("command", d.Name).Msg("command registered")
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[name]
	return d, ok
}

// List returns name and description of every command in registration order.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.order))
	for _, name := range r.order {
		d := r.descriptors[name]
		entries = append(entries, Entry{Name: d.Name, Description: d.Description})
	}
	return entries
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Dispatch runs the command registered under name. A missing command fails
// with CommandNotFound; a handler error is wrapped in CommandExecutionFailed.
func (r *Registry) Dispatch(ctx context.Context, name string, args []string) error {
	d, ok := r.Lookup(name)
	if !ok {
		r.log.Debug().Str("command", name).Msg("command not found")
		return calc.CommandNotFound(name)
	}

	err := d.Handler.Execute(ctx, args)
	switch {
	case err == nil:
		r.log.Debug().Str("command", name).Strs("args", args).Msg("command executed")
	case errors.Is(err, ErrStop):
		return err
	default:
		r.log.Debug().Err(err).Str("command", name).Msg("error executing command")
		return calc.CommandExecutionFailed(name, err)
	}

	return nil
}
