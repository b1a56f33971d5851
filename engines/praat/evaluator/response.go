package evaluator

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/robbyt/go-praatscript/internal/helpers"
	"github.com/robbyt/go-praatscript/platform/session"
)

// execResult is the platform.EvaluatorResponse of one run.
type execResult struct {
	objects     []session.Handle
	output      string
	hasOutput   bool
	variables   map[string]any
	hasVars     bool
	execTime    time.Duration
	scriptExeID string
	logger      *slog.Logger
}

func newEvalResult(handler slog.Handler, execTime time.Duration, versionID string) *execResult {
	_, logger := helpers.SetupLogger(handler, "praat", "execResult")
	return &execResult{
		objects:     []session.Handle{},
		execTime:    execTime,
		scriptExeID: versionID,
		logger:      logger,
	}
}

func (r *execResult) String() string {
	return fmt.Sprintf(
		"ExecResult{Objects: %d, Output: %t, Variables: %t, ExecTime: %s, ScriptExeID: %s}",
		len(r.objects), r.hasOutput, r.hasVars, r.GetExecTime(), r.GetScriptExeID())
}

func (r *execResult) Objects() []session.Handle {
	return slices.Clone(r.objects)
}

func (r *execResult) Output() (string, bool) {
	return r.output, r.hasOutput
}

func (r *execResult) Variables() (map[string]any, bool) {
	if !r.hasVars {
		return nil, false
	}
	return maps.Clone(r.variables), true
}

func (r *execResult) Tuple() []any {
	tuple := []any{r.Objects()}
	if r.hasOutput {
		tuple = append(tuple, r.output)
	}
	if r.hasVars {
		tuple = append(tuple, maps.Clone(r.variables))
	}
	return tuple
}

func (r *execResult) Interface() any {
	if !r.hasOutput && !r.hasVars {
		return r.Objects()
	}
	return r.Tuple()
}

func (r *execResult) Inspect() string {
	keys := make([]string, len(r.objects))
	for i, h := range r.objects {
		keys[i] = h.Key()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "objects=[%s]", strings.Join(keys, ", "))
	if r.hasOutput {
		fmt.Fprintf(&b, " output=%q", r.output)
	}
	if r.hasVars {
		fmt.Fprintf(&b, " variables=%d", len(r.variables))
	}
	return b.String()
}

func (r *execResult) GetScriptExeID() string {
	return r.scriptExeID
}

func (r *execResult) GetExecTime() string {
	return r.execTime.String()
}
