package praat

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-praatscript/engines/praat/compiler"
	"github.com/robbyt/go-praatscript/engines/praat/evaluator"
	"github.com/robbyt/go-praatscript/platform/constants"
	"github.com/robbyt/go-praatscript/platform/data"
	"github.com/robbyt/go-praatscript/platform/script"
	"github.com/robbyt/go-praatscript/platform/script/loader"
)

// FromPraatLoader creates a Praat evaluator whose arguments come only from
// the context (ContextProvider). Use AddArgsToContext before each Eval, or
// Eval with no arguments to run with the form defaults.
func FromPraatLoader(
	logHandler slog.Handler,
	ldr loader.Loader,
	settings evaluator.Settings,
) (*evaluator.Evaluator, error) {
	return NewEvaluator(
		logHandler,
		ldr,
		data.NewContextProvider(constants.EvalArgs),
		settings,
	)
}

// FromPraatLoaderWithArgs creates a Praat evaluator with fixed positional
// arguments. Arguments added with AddArgsToContext replace them for one run.
func FromPraatLoaderWithArgs(
	logHandler slog.Handler,
	ldr loader.Loader,
	settings evaluator.Settings,
	args ...any,
) (*evaluator.Evaluator, error) {
	return NewEvaluator(
		logHandler,
		ldr,
		data.NewCompositeProvider(
			data.NewStaticProvider(args...),
			data.NewContextProvider(constants.EvalArgs),
		),
		settings,
	)
}

// NewCompiler creates a new Praat compiler using the functional options pattern.
func NewCompiler(opts ...compiler.FunctionalOption) (*compiler.Compiler, error) {
	return compiler.New(opts...)
}

// NewEvaluator compiles the loader's script and returns an evaluator ready
// to run it.
func NewEvaluator(
	logHandler slog.Handler,
	ldr loader.Loader,
	dataProvider data.Provider,
	settings evaluator.Settings,
) (*evaluator.Evaluator, error) {
	if dataProvider == nil {
		return nil, fmt.Errorf("provider is nil")
	}
	if ldr == nil {
		return nil, script.ErrNoLoader
	}

	var opts []compiler.FunctionalOption
	if logHandler != nil {
		opts = append(opts, compiler.WithLogHandler(logHandler))
	}
	c, err := NewCompiler(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Praat compiler: %w", err)
	}

	execUnitID := ""
	if sourceURL := ldr.GetSourceURL(); sourceURL != nil {
		execUnitID = sourceURL.String()
	}

	execUnit, err := script.NewExecutableUnit(
		logHandler,
		execUnitID,
		ldr,
		c,
		dataProvider,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return evaluator.New(logHandler, execUnit, settings), nil
}
