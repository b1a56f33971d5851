// Package commands implements the named commands a script can issue, such as
// "writeInfoLine" or "Create TextGrid", over a session's workspace and info
// buffer.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/robbyt/go-praatscript/platform/session"
)

// Env is what a command runs against.
type Env struct {
	Session *session.Session

	// Dir resolves relative paths; empty means the session's default directory.
	Dir string

	Logger *slog.Logger
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Func runs one command. The returned value is None for commands that do not
// produce one. Errors carry the interpreter's diagnostic text.
type Func func(ctx context.Context, env *Env, args []session.Value) (session.Value, error)

// Registry maps command names to implementations.
type Registry struct {
	mu   sync.RWMutex
	cmds map[string]Func
}

func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]Func)}
}

// Register adds a command. Names are case-sensitive and must be unique.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return ErrEmptyName
	}
	if fn == nil {
		return fmt.Errorf("%w: %s", ErrNilFunc, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cmds[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	r.cmds[name] = fn
	return nil
}

func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.cmds[name]
	return fn, ok
}

// Names lists the registered commands in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Run looks up and runs one command.
func (r *Registry) Run(ctx context.Context, env *Env, name string, args []session.Value) (session.Value, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return session.Value{}, notAvailable(name)
	}
	env.logger().Debug("running command", "command", name, "args", len(args))
	return fn(ctx, env, args)
}

// NewDefault returns a registry holding every built-in command.
func NewDefault() *Registry {
	r := NewRegistry()
	for _, group := range []map[string]Func{infoCommands, selectionCommands, objectCommands, textGridCommands} {
		for name, fn := range group {
			if err := r.Register(name, fn); err != nil {
				panic(err)
			}
		}
	}
	return r
}

var defaultRegistry = sync.OnceValue(NewDefault)

// Default is the shared registry of built-in commands.
func Default() *Registry {
	return defaultRegistry()
}
