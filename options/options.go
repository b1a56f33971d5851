package options

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-praatscript/engines/praat/commands"
	"github.com/robbyt/go-praatscript/engines/praat/evaluator"
	"github.com/robbyt/go-praatscript/platform/data"
	"github.com/robbyt/go-praatscript/platform/script/loader"
	"github.com/robbyt/go-praatscript/platform/session"
)

var (
	ErrNoLoader        = errors.New("no loader specified")
	ErrInvalidMaxSteps = errors.New("max steps must not be negative")
)

// Config holds all configuration for creating a Praat script evaluator
type Config struct {
	// Logger for the evaluator and its compiler
	handler slog.Handler
	// Data provider for the script's positional arguments
	dataProvider data.Provider
	// Loader for the script content
	loader loader.Loader
	// Session the script runs against, nil for the process default
	session *session.Session
	// Commands available to the script, nil for the built-in set
	registry *commands.Registry

	captureOutput   bool
	teeOutput       bool
	returnVariables bool
	maxSteps        int
	dir             string
}

// Option is a function that modifies Config
type Option func(*Config) error

// WithLogHandler sets the log handler
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Config) error {
		if handler != nil {
			c.handler = handler
		}
		return nil
	}
}

// WithLogger sets the log handler from an existing logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		if logger != nil {
			c.handler = logger.Handler()
		}
		return nil
	}
}

// WithDataProvider sets the provider of positional arguments
func WithDataProvider(provider data.Provider) Option {
	return func(c *Config) error {
		if provider != nil {
			c.dataProvider = provider
		}
		return nil
	}
}

// WithArgs binds fixed positional arguments to every run. Arguments stored
// with AddArgsToContext still replace them for a single run.
func WithArgs(args ...any) Option {
	return func(c *Config) error {
		c.dataProvider = data.NewCompositeProvider(
			data.NewStaticProvider(args...),
			DefaultDataProvider(),
		)
		return nil
	}
}

// WithLoader sets the script loader
func WithLoader(l loader.Loader) Option {
	return func(c *Config) error {
		if l != nil {
			c.loader = l
		}
		return nil
	}
}

// WithSession runs scripts against sess instead of the process default
func WithSession(sess *session.Session) Option {
	return func(c *Config) error {
		if sess == nil {
			return fmt.Errorf("session is nil")
		}
		c.session = sess
		return nil
	}
}

// WithRegistry replaces the set of commands scripts can call
func WithRegistry(r *commands.Registry) Option {
	return func(c *Config) error {
		if r == nil {
			return fmt.Errorf("command registry is nil")
		}
		c.registry = r
		return nil
	}
}

// WithCaptureOutput returns the text the script writes to the info buffer
func WithCaptureOutput(capture bool) Option {
	return func(c *Config) error {
		c.captureOutput = capture
		return nil
	}
}

// WithTeeOutput captures info-buffer text and also forwards it to the
// session's info writer
func WithTeeOutput(tee bool) Option {
	return func(c *Config) error {
		c.teeOutput = tee
		return nil
	}
}

// WithReturnVariables returns a snapshot of the script's variables
func WithReturnVariables(vars bool) Option {
	return func(c *Config) error {
		c.returnVariables = vars
		return nil
	}
}

// WithMaxSteps stops a run after n statements, 0 disables the limit
func WithMaxSteps(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidMaxSteps, n)
		}
		c.maxSteps = n
		return nil
	}
}

// WithDirectory sets the directory relative file names resolve against
func WithDirectory(dir string) Option {
	return func(c *Config) error {
		c.dir = dir
		return nil
	}
}

// Validate performs basic validation on the configuration
func (c *Config) Validate() error {
	if c.loader == nil {
		return ErrNoLoader
	}
	if c.maxSteps < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSteps, c.maxSteps)
	}
	return nil
}

// GetHandler returns the configured log handler
func (c *Config) GetHandler() slog.Handler {
	return c.handler
}

// SetHandler sets the log handler
func (c *Config) SetHandler(handler slog.Handler) {
	c.handler = handler
}

// GetDataProvider returns the configured data provider
func (c *Config) GetDataProvider() data.Provider {
	return c.dataProvider
}

// SetDataProvider sets the data provider
func (c *Config) SetDataProvider(provider data.Provider) {
	c.dataProvider = provider
}

// GetLoader returns the configured loader
func (c *Config) GetLoader() loader.Loader {
	return c.loader
}

// GetSession returns the configured session, nil meaning the default one
func (c *Config) GetSession() *session.Session {
	return c.session
}

// Settings returns the run switches for the evaluator
func (c *Config) Settings() evaluator.Settings {
	return evaluator.Settings{
		Session:         c.session,
		Registry:        c.registry,
		CaptureOutput:   c.captureOutput,
		TeeOutput:       c.teeOutput,
		ReturnVariables: c.returnVariables,
		MaxSteps:        c.maxSteps,
		Dir:             c.dir,
	}
}
