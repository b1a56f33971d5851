// Package evaluator runs compiled Praat scripts: arguments are bound to the
// form parameters and injected into the session scope, the body runs with
// the session locked, and the selection, captured output and variables are
// read back.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-praatscript/engines/praat/commands"
	"github.com/robbyt/go-praatscript/engines/praat/compiler"
	"github.com/robbyt/go-praatscript/internal/helpers"
	"github.com/robbyt/go-praatscript/platform"
	"github.com/robbyt/go-praatscript/platform/data"
	"github.com/robbyt/go-praatscript/platform/form"
	"github.com/robbyt/go-praatscript/platform/script"
	"github.com/robbyt/go-praatscript/platform/session"
)

var (
	ErrNoExecUnit  = errors.New("executable unit is nil")
	ErrNoContent   = errors.New("content is nil")
	ErrBadBytecode = errors.New("invalid bytecode type")
	ErrNoProvider  = errors.New("no data provider available")
	ErrEmptyExeID  = errors.New("exeID is empty")
)

// Settings are the per-evaluator run switches.
type Settings struct {
	// Session is the state scripts run against. Nil means session.Default().
	Session *session.Session

	// Registry holds the commands scripts can call. Nil means
	// commands.Default().
	Registry *commands.Registry

	// CaptureOutput returns info-buffer text written during the run.
	CaptureOutput bool

	// TeeOutput captures and also forwards text to the previous sink.
	TeeOutput bool

	// ReturnVariables returns a snapshot of the scope after the run.
	ReturnVariables bool

	// MaxSteps stops runaway scripts after this many statements. Zero means
	// no limit.
	MaxSteps int

	// Dir resolves relative file names. Empty means the directory of a
	// script loaded from disk, else the session's default directory.
	Dir string
}

// dirLoader is implemented by loaders that know the script's directory.
type dirLoader interface {
	Dir() string
}

// Evaluator runs one compiled Praat script, any number of times.
type Evaluator struct {
	execUnit *script.ExecutableUnit
	settings Settings

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates an Evaluator for execUnit.
func New(handler slog.Handler, execUnit *script.ExecutableUnit, settings Settings) *Evaluator {
	handler, logger := helpers.SetupLogger(handler, "praat", "Evaluator")

	if settings.Dir == "" && execUnit != nil {
		if dl, ok := execUnit.GetLoader().(dirLoader); ok {
			settings.Dir = dl.Dir()
		}
	}

	return &Evaluator{
		execUnit:   execUnit,
		settings:   settings,
		logHandler: handler,
		logger:     logger,
	}
}

func (be *Evaluator) String() string {
	return "praat.Evaluator"
}

func (be *Evaluator) session() *session.Session {
	if be.settings.Session != nil {
		return be.settings.Session
	}
	return session.Default()
}

func (be *Evaluator) registry() *commands.Registry {
	if be.settings.Registry != nil {
		return be.settings.Registry
	}
	return commands.Default()
}

// Parameters returns the script's bindable form parameters.
func (be *Evaluator) Parameters() []form.Parameter {
	exe, err := be.executable()
	if err != nil {
		return nil
	}
	return exe.Parameters()
}

func (be *Evaluator) executable() (*compiler.Executable, error) {
	if be.execUnit == nil {
		return nil, ErrNoExecUnit
	}
	content := be.execUnit.GetContent()
	if content == nil {
		return nil, ErrNoContent
	}
	exe, ok := content.GetByteCode().(*compiler.Executable)
	if !ok || exe == nil {
		return nil, fmt.Errorf("%w: expected *compiler.Executable, got %T", ErrBadBytecode, content.GetByteCode())
	}
	return exe, nil
}

// loadArgs retrieves positional arguments through the unit's provider.
func (be *Evaluator) loadArgs(ctx context.Context) ([]any, error) {
	logger := be.logger.WithGroup("loadArgs")

	provider := be.execUnit.GetDataProvider()
	if provider == nil {
		logger.DebugContext(ctx, "no data provider available, running with defaults")
		return nil, nil
	}
	args, err := provider.GetArgs(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get arguments from provider", "error", err)
		return nil, err
	}
	logger.DebugContext(ctx, "arguments loaded from provider", "count", len(args))
	return args, nil
}

// Eval binds the arguments, runs the script and extracts the results.
// Script-level failures are returned as *praaterr.Error.
func (be *Evaluator) Eval(ctx context.Context) (platform.EvaluatorResponse, error) {
	logger := be.logger.WithGroup("Eval")

	exe, err := be.executable()
	if err != nil {
		return nil, err
	}
	exeID := be.execUnit.GetID()
	if exeID == "" {
		return nil, ErrEmptyExeID
	}
	logger = logger.With("exeID", exeID)

	// 1. Bind positional arguments to the form parameters
	args, err := be.loadArgs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get input arguments: %w", err)
	}
	bound, err := form.Bind(exe.Parameters(), args)
	if err != nil {
		return nil, err
	}

	// 2. Borrow the session for the whole run
	sess := be.session()
	unlock := sess.Lock()
	defer unlock()

	sess.InstallAmbient(be.settings.Dir)

	// 3. Inject the bound arguments
	if err := inject(sess.Scope(), bound); err != nil {
		logger.WarnContext(ctx, "argument injection failed", "error", err)
		return nil, err
	}

	// 4. Redirect the info buffer when output is wanted
	var capture *session.Capture
	if be.settings.CaptureOutput || be.settings.TeeOutput {
		capture = sess.Info().Capture(be.settings.TeeOutput)
		defer capture.Release()
	}

	// 5. Run the body
	r := newRunner(ctx, sess, be.registry(), be.settings.Dir, be.settings.MaxSteps, logger)
	start := time.Now()
	err = r.run(exe.Program())
	execTime := time.Since(start)
	if err != nil {
		logger.DebugContext(ctx, "script failed", "error", err, "steps", r.steps)
		return nil, err
	}
	logger.DebugContext(ctx, "script complete", "steps", r.steps, "execTime", execTime)

	// 6. Collect results
	result := newEvalResult(be.logHandler, execTime, exeID)
	extract(result, sess, capture, be.settings.ReturnVariables)
	return result, nil
}

// AddArgsToContext implements data.Setter: args are stored for the next
// Eval with the returned context.
func (be *Evaluator) AddArgsToContext(ctx context.Context, args ...any) (context.Context, error) {
	logger := be.logger.WithGroup("AddArgsToContext")

	if be.execUnit == nil || be.execUnit.GetDataProvider() == nil {
		return ctx, ErrNoProvider
	}
	return data.AddArgsToContextHelper(ctx, logger, be.execUnit.GetDataProvider(), args...)
}
