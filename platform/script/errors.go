package script

import "errors"

var (
	ErrCompiler = errors.New("compiler failed or is invalid")
	ErrNoLoader = errors.New("script loader is nil")
)
