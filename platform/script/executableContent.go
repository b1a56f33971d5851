package script

// ExecutableContent is validated script content that is ready for
// evaluation.
type ExecutableContent interface {
	// GetSource returns the script text exactly as it was loaded.
	GetSource() string

	// GetByteCode returns the compiled form of the script. The evaluator
	// asserts it into the type it requires and fails at runtime when the
	// two do not match.
	GetByteCode() any
}
