package compiler

import "errors"

var (
	ErrContentNil       = errors.New("praat script content is nil")
	ErrValidationFailed = errors.New("praat script validation error")
)
