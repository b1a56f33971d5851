package script

import "io"

// Compiler validates a script and returns it as ExecutableContent. Parse
// failures surface here, before any argument is bound.
type Compiler interface {
	Compile(scriptReader io.ReadCloser) (ExecutableContent, error)
}
