// Package praatscript runs Praat scripts from Go.
//
// A script goes through five stages: its form block is parsed, positional
// arguments are bound to the form's parameters, the bound values are injected
// as variables, the body runs against a session, and the final selection,
// captured info text and variables are extracted. Run does all of this once;
// the From* constructors compile a script once for many runs.
package praatscript

import (
	"context"
	"fmt"

	"github.com/robbyt/go-praatscript/engines/praat"
	"github.com/robbyt/go-praatscript/engines/praat/commands"
	"github.com/robbyt/go-praatscript/engines/praat/evaluator"
	"github.com/robbyt/go-praatscript/options"
	"github.com/robbyt/go-praatscript/platform"
	"github.com/robbyt/go-praatscript/platform/praaterr"
	"github.com/robbyt/go-praatscript/platform/script/loader"
	"github.com/robbyt/go-praatscript/platform/session"
)

// NewPraatEvaluator creates an evaluator from options. A loader is required.
func NewPraatEvaluator(opts ...options.Option) (*evaluator.Evaluator, error) {
	cfg := options.DefaultConfig()

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}

	// Apply defaults option as final step to fill in any missing values
	if err := options.WithDefaults()(cfg); err != nil {
		return nil, fmt.Errorf("error applying defaults: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ev, err := praat.NewEvaluator(cfg.GetHandler(), cfg.GetLoader(), cfg.GetDataProvider(), cfg.Settings())
	if err != nil {
		return nil, scriptError(err)
	}
	return ev, nil
}

// FromPraatString creates an evaluator from script text.
func FromPraatString(content string, opts ...options.Option) (*evaluator.Evaluator, error) {
	l, err := loader.NewFromString(content)
	if err != nil {
		return nil, err
	}
	return NewPraatEvaluator(append([]options.Option{options.WithLoader(l)}, opts...)...)
}

// FromPraatFile creates an evaluator from a script on disk. Relative file
// names in the script resolve against the script's directory unless
// options.WithDirectory says otherwise.
func FromPraatFile(path string, opts ...options.Option) (*evaluator.Evaluator, error) {
	l, err := loader.NewFromDisk(path)
	if err != nil {
		return nil, err
	}
	return NewPraatEvaluator(append([]options.Option{options.WithLoader(l)}, opts...)...)
}

// FromPraatGit creates an evaluator from file at revision of a git
// repository, local or remote.
func FromPraatGit(repo, revision, file string, opts ...options.Option) (*evaluator.Evaluator, error) {
	l, err := loader.NewFromGit(repo, revision, file)
	if err != nil {
		return nil, err
	}
	return NewPraatEvaluator(append([]options.Option{options.WithLoader(l)}, opts...)...)
}

// Run compiles and runs script once with args. script is anything
// loader.InferLoader accepts: script text, a path, a URL, bytes, a reader or
// a loader. Script-level failures are returned as *praaterr.Error.
func Run(ctx context.Context, script any, args []any, opts ...options.Option) (platform.EvaluatorResponse, error) {
	l, err := loader.InferLoader(script)
	if err != nil {
		return nil, err
	}

	ev, err := NewPraatEvaluator(append([]options.Option{options.WithLoader(l)}, opts...)...)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		ctx, err = ev.AddArgsToContext(ctx, args...)
		if err != nil {
			return nil, err
		}
	}

	resp, err := ev.Eval(ctx)
	if err != nil {
		return nil, scriptError(err)
	}
	return resp, nil
}

// Call runs one command against sess outside any script, the way a script
// line "command: args..." would. A nil sess means session.Default(). The
// result is nil for commands that return nothing, otherwise a float64,
// string, []float64 or []string.
func Call(ctx context.Context, sess *session.Session, command string, args ...any) (any, error) {
	if sess == nil {
		sess = session.Default()
	}

	vals := make([]session.Value, len(args))
	for i, a := range args {
		v, err := session.FromGo(a)
		if err != nil {
			return nil, praaterr.New(praaterr.KindArgumentType,
				"Argument %d of « %s » cannot be a %T.", i+1, command, a).WithCause(err)
		}
		vals[i] = v
	}

	unlock := sess.Lock()
	defer unlock()

	v, err := commands.Default().Run(ctx, &commands.Env{Session: sess}, command, vals)
	if err != nil {
		return nil, praaterr.New(praaterr.KindRuntime, "%s", err.Error()).WithCause(err)
	}
	return v.Interface(), nil
}

// scriptError unwraps a *praaterr.Error from err's chain, so that callers
// see the interpreter's message rather than the wrapping layers.
func scriptError(err error) error {
	if pe, ok := praaterr.As(err); ok {
		return pe
	}
	return err
}
