package loader

import "errors"

var (
	ErrSchemeUnsupported  = errors.New("unsupported scheme")
	ErrScriptNotAvailable = errors.New("script not available")
	ErrInputEmpty         = errors.New("input is empty")
	ErrRevisionNotFound   = errors.New("revision not found")
)
