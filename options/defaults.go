package options

import (
	"log/slog"
	"os"

	"github.com/robbyt/go-praatscript/platform/constants"
	"github.com/robbyt/go-praatscript/platform/data"
)

// DefaultConfig initializes a Config with sensible defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.SetHandler(DefaultHandler())
	cfg.SetDataProvider(DefaultDataProvider())
	return cfg
}

// DefaultHandler returns the default logging handler. It writes to stderr
// because stdout carries the info buffer of command line runs.
func DefaultHandler() slog.Handler {
	return slog.NewTextHandler(os.Stderr, nil)
}

// DefaultDataProvider returns a provider reading arguments stored with
// AddArgsToContext
func DefaultDataProvider() data.Provider {
	return data.NewContextProvider(constants.EvalArgs)
}

// WithDefaults applies default values to any config properties that are nil
func WithDefaults() Option {
	return func(c *Config) error {
		if c.handler == nil {
			c.handler = DefaultHandler()
		}

		if c.dataProvider == nil {
			c.dataProvider = DefaultDataProvider()
		}

		return nil
	}
}
