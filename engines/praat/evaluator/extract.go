package evaluator

import "github.com/robbyt/go-praatscript/platform/session"

// extract reads the selection, and the capture text and scope snapshot
// when they were requested. capture is nil when output was not captured.
func extract(r *execResult, sess *session.Session, capture *session.Capture, returnVariables bool) {
	r.objects = sess.Workspace().Selected()
	if capture != nil {
		r.output = capture.Text()
		r.hasOutput = true
	}
	if returnVariables {
		r.variables = sess.Scope().Snapshot()
		r.hasVars = true
	}
	r.logger.Debug("results extracted",
		"objects", len(r.objects),
		"output", r.hasOutput,
		"variables", len(r.variables),
	)
}
