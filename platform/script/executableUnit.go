package script

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robbyt/go-praatscript/internal/helpers"
	"github.com/robbyt/go-praatscript/platform/data"
	"github.com/robbyt/go-praatscript/platform/script/loader"
)

const checksumLength = 12

// ExecutableUnit is one compiled version of a script together with the
// provider that supplies its arguments at eval time.
type ExecutableUnit struct {
	// ID identifies this version, by default a prefix of the source's SHA256.
	ID string

	CreatedAt time.Time

	ScriptLoader loader.Loader
	Compiler     Compiler
	Content      ExecutableContent

	// DataProvider supplies positional arguments for each Eval. When
	// static arguments were given to NewExecutableUnit it is a
	// CompositeProvider in which runtime arguments replace the static ones.
	DataProvider data.Provider

	logHandler slog.Handler
	logger     *slog.Logger
}

// NewExecutableUnit loads and compiles the script once. staticArgs, when
// non-empty, are used for every Eval that receives no runtime arguments.
func NewExecutableUnit(
	handler slog.Handler,
	versionID string,
	scriptLoader loader.Loader,
	compiler Compiler,
	dataProvider data.Provider,
	staticArgs []any,
) (*ExecutableUnit, error) {
	handler, logger := helpers.SetupLogger(handler, "script", "ExecutableUnit")

	if scriptLoader == nil {
		return nil, ErrNoLoader
	}
	if compiler == nil {
		return nil, fmt.Errorf("%w: compiler is nil", ErrCompiler)
	}

	reader, err := scriptLoader.GetReader()
	if err != nil {
		return nil, fmt.Errorf("failed to get reader from loader: %w", err)
	}

	exe, err := compiler.Compile(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompiler, err)
	}

	if versionID == "" {
		versionID = helpers.ShortSHA256([]byte(exe.GetSource()), checksumLength)
	}

	var provider data.Provider
	switch {
	case dataProvider != nil && len(staticArgs) > 0:
		provider = data.NewCompositeProvider(data.NewStaticProvider(staticArgs...), dataProvider)
	case dataProvider != nil:
		provider = dataProvider
	default:
		provider = data.NewStaticProvider(staticArgs...)
	}

	logger = logger.With("ID", versionID)
	logger.Debug("script compiled", "source", scriptLoader.GetSourceURL())

	return &ExecutableUnit{
		ID:           versionID,
		CreatedAt:    time.Now(),
		ScriptLoader: scriptLoader,
		Compiler:     compiler,
		Content:      exe,
		DataProvider: provider,
		logHandler:   handler,
		logger:       logger,
	}, nil
}

func (exe *ExecutableUnit) String() string {
	return fmt.Sprintf("ExecutableUnit{ID: %s, CreatedAt: %s, Compiler: %s, Loader: %s}",
		exe.ID, exe.CreatedAt, exe.Compiler, exe.ScriptLoader)
}

// GetID returns the version identifier.
func (exe *ExecutableUnit) GetID() string {
	return exe.ID
}

// GetContent returns the compiled script content.
func (exe *ExecutableUnit) GetContent() ExecutableContent {
	return exe.Content
}

func (exe *ExecutableUnit) GetCreatedAt() time.Time {
	return exe.CreatedAt
}

func (exe *ExecutableUnit) GetCompiler() Compiler {
	return exe.Compiler
}

func (exe *ExecutableUnit) GetLoader() loader.Loader {
	return exe.ScriptLoader
}

// GetDataProvider returns the argument provider for this unit.
func (exe *ExecutableUnit) GetDataProvider() data.Provider {
	return exe.DataProvider
}

// GetArgs returns the arguments the provider currently yields for ctx.
func (exe *ExecutableUnit) GetArgs(ctx context.Context) ([]any, error) {
	if exe.DataProvider == nil {
		return nil, nil
	}
	return exe.DataProvider.GetArgs(ctx)
}
