package helpers

import (
	"log/slog"
	"os"
)

// SetupLogger returns handler grouped under component, and a logger for
// groupName within it. A nil handler is replaced by a text handler on stderr,
// since stdout carries the info buffer of scripts run from the command line.
func SetupLogger(handler slog.Handler, component string, groupName string) (slog.Handler, *slog.Logger) {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, nil).WithGroup(component)
		slog.New(handler).Warn("Handler is nil, using the default logger configuration.")
	}

	if groupName == "" {
		return handler, slog.New(handler)
	}
	return handler, slog.New(handler.WithGroup(groupName))
}
