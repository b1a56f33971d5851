package helpers

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	t.Run("groups under the given names", func(t *testing.T) {
		var buf bytes.Buffer
		base := slog.NewTextHandler(&buf, nil)

		handler, logger := SetupLogger(base, "praat", "Evaluator")
		require.Equal(t, base, handler)

		logger.Info("ran", "steps", 3)
		assert.Contains(t, buf.String(), "Evaluator.steps=3")
	})

	t.Run("no group", func(t *testing.T) {
		var buf bytes.Buffer
		_, logger := SetupLogger(slog.NewTextHandler(&buf, nil), "praat", "")
		logger.Info("ran", "steps", 3)
		assert.Contains(t, buf.String(), " steps=3")
	})

	t.Run("nil handler", func(t *testing.T) {
		handler, logger := SetupLogger(nil, "praat", "Compiler")
		require.NotNil(t, handler)
		require.NotNil(t, logger)
	})
}
