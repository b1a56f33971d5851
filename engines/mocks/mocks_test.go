package mocks

import (
	"testing"

	"github.com/robbyt/go-praatscript/platform"
)

func TestMocksImplementInterfaces(t *testing.T) {
	t.Parallel()

	var _ platform.Evaluator = (*Evaluator)(nil)
	var _ platform.EvaluatorResponse = (*EvaluatorResponse)(nil)
}
