// Package compiler parses Praat scripts into executables: the leading form
// block is split off and the rest is built into a block tree, so structural
// errors surface before any argument is bound.
package compiler

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/robbyt/go-praatscript/engines/praat/internal/program"
	"github.com/robbyt/go-praatscript/platform/form"
	"github.com/robbyt/go-praatscript/platform/script"
)

type Compiler struct {
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Praat compiler with the provided options.
func New(opts ...FunctionalOption) (*Compiler, error) {
	c := &Compiler{}
	c.applyDefaults()

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("error applying compiler option: %w", err)
		}
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid compiler configuration: %w", err)
	}

	c.setupLogger()
	return c, nil
}

func (c *Compiler) String() string {
	return "praat.Compiler"
}

// Compile reads and closes scriptReader, then parses the script.
func (c *Compiler) Compile(scriptReader io.ReadCloser) (script.ExecutableContent, error) {
	if scriptReader == nil {
		return nil, ErrContentNil
	}

	body, err := io.ReadAll(scriptReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	if err := scriptReader.Close(); err != nil {
		return nil, fmt.Errorf("failed to close reader: %w", err)
	}

	return c.compile(string(body))
}

// CompileString parses source directly.
func (c *Compiler) CompileString(source string) (*Executable, error) {
	return c.compile(source)
}

func (c *Compiler) compile(source string) (*Executable, error) {
	logger := c.logger.WithGroup("compile")
	if source == "" {
		logger.Error("Compile called with empty script")
		return nil, ErrContentNil
	}

	f, err := form.Parse(source)
	if err != nil {
		logger.Warn("form parse failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	prog, err := program.Parse(f.Body)
	if err != nil {
		logger.Warn("body parse failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	logger.Debug("script compiled",
		"hasForm", f.HasBlock,
		"parameters", len(f.Bindable()),
		"statements", prog.Statements,
	)
	return newExecutable(source, f, prog), nil
}
