package evaluator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-praatscript/engines/praat/commands"
	"github.com/robbyt/go-praatscript/engines/praat/internal/expr"
	"github.com/robbyt/go-praatscript/engines/praat/internal/program"
	"github.com/robbyt/go-praatscript/platform/praaterr"
	"github.com/robbyt/go-praatscript/platform/session"
)

// errStop unwinds the statement tree after a plain exitScript.
var errStop = errors.New("script stopped")

// runner executes one program against one locked session.
type runner struct {
	ctx      context.Context
	sess     *session.Session
	scope    *session.Scope
	env      *commands.Env
	registry *commands.Registry
	eval     *expr.Evaluator
	thread   *starlarkLib.Thread
	maxSteps int
	steps    int
	logger   *slog.Logger
}

func newRunner(
	ctx context.Context,
	sess *session.Session,
	registry *commands.Registry,
	dir string,
	maxSteps int,
	logger *slog.Logger,
) *runner {
	thread := &starlarkLib.Thread{
		Name: "praat",
		Print: func(_ *starlarkLib.Thread, msg string) {
			logger.InfoContext(ctx, msg)
		},
	}
	return &runner{
		ctx:      ctx,
		sess:     sess,
		scope:    sess.Scope(),
		env:      &commands.Env{Session: sess, Dir: dir, Logger: logger},
		registry: registry,
		eval:     expr.NewEvaluator(thread, sess.Scope(), expr.Functions(sess)),
		thread:   thread,
		maxSteps: maxSteps,
		logger:   logger,
	}
}

// run executes the program body. A plain exitScript ends it without error.
func (r *runner) run(prog *program.Program) error {
	stop := context.AfterFunc(r.ctx, func() {
		r.thread.Cancel(r.ctx.Err().Error())
	})
	defer stop()

	err := r.block(prog.Body)
	if errors.Is(err, errStop) {
		r.logger.DebugContext(r.ctx, "script exited early", "steps", r.steps)
		return nil
	}
	return err
}

func (r *runner) block(stmts []program.Stmt) error {
	for _, stmt := range stmts {
		if err := r.stmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) stmt(stmt program.Stmt) error {
	switch s := stmt.(type) {
	case *program.Simple:
		if err := r.tick(s.Line, s.Text); err != nil {
			return err
		}
		return r.simple(s)
	case *program.If:
		return r.ifStmt(s)
	case *program.For:
		return r.forStmt(s)
	case *program.While:
		return r.whileStmt(s)
	case *program.Repeat:
		return r.repeatStmt(s)
	default:
		return fmt.Errorf("unknown statement type %T", stmt)
	}
}

// tick counts one step and checks for cancellation and the step limit.
func (r *runner) tick(line int, text string) error {
	if err := r.ctx.Err(); err != nil {
		return praaterr.AtLine(praaterr.KindRuntime, line, text, "Script interrupted: "+err.Error()+".").WithCause(err)
	}
	r.steps++
	if r.maxSteps > 0 && r.steps > r.maxSteps {
		return praaterr.AtLine(praaterr.KindRuntime, line, text,
			fmt.Sprintf("Script exceeded the limit of %d statements.", r.maxSteps))
	}
	return nil
}

func (r *runner) condition(line int, text, cond string) (bool, error) {
	ok, err := r.eval.EvalCondition(expr.Interpolate(cond, r.scope))
	if err != nil {
		return false, fault(line, text, err)
	}
	return ok, nil
}

func (r *runner) ifStmt(s *program.If) error {
	for _, b := range s.Branches {
		if err := r.tick(b.Line, b.Text); err != nil {
			return err
		}
		ok, err := r.condition(b.Line, b.Text, b.Cond)
		if err != nil {
			return err
		}
		if ok {
			return r.block(b.Body)
		}
	}
	return r.block(s.Else)
}

// forStmt runs "for i from a to b" as "i = a; while i <= b; ...; i += 1",
// so i is b+1 after a loop that ran to completion.
func (r *runner) forStmt(s *program.For) error {
	if err := r.tick(s.Line, s.Text); err != nil {
		return err
	}
	from, err := r.eval.EvalNumber(expr.Interpolate(s.From, r.scope))
	if err != nil {
		return fault(s.Line, s.Text, err)
	}
	to, err := r.eval.EvalNumber(expr.Interpolate(s.To, r.scope))
	if err != nil {
		return fault(s.Line, s.Text, err)
	}

	for i := from; ; i++ {
		if err := r.scope.Set(s.Var, session.Number(i)); err != nil {
			return fault(s.Line, s.Text, err)
		}
		if i > to {
			return nil
		}
		if err := r.block(s.Body); err != nil {
			return err
		}
		if err := r.tick(s.Line, s.Text); err != nil {
			return err
		}
	}
}

func (r *runner) whileStmt(s *program.While) error {
	for {
		if err := r.tick(s.Line, s.Text); err != nil {
			return err
		}
		ok, err := r.condition(s.Line, s.Text, s.Cond)
		if err != nil || !ok {
			return err
		}
		if err := r.block(s.Body); err != nil {
			return err
		}
	}
}

func (r *runner) repeatStmt(s *program.Repeat) error {
	for {
		if err := r.block(s.Body); err != nil {
			return err
		}
		if err := r.tick(s.UntilLine, s.UntilText); err != nil {
			return err
		}
		done, err := r.condition(s.UntilLine, s.UntilText, s.Until)
		if err != nil || done {
			return err
		}
	}
}

// fault attaches line context to a statement failure. Failures that
// already carry it pass through unchanged.
func fault(line int, text string, err error) error {
	if pe, ok := praaterr.As(err); ok && pe.Line > 0 {
		return pe
	}
	if errors.Is(err, errStop) {
		return err
	}
	return praaterr.AtLine(praaterr.KindRuntime, line, text, expr.Diagnostic(err)).WithCause(err)
}
