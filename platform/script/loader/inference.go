package loader

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
)

// InferLoader picks a loader for input:
//   - string: http/https URLs load over HTTP, file URLs and absolute
//     paths ending in .praat load from disk, anything else is inline
//     script text
//   - []byte: FromBytes
//   - io.Reader: FromIoReader
//   - Loader: returned as-is
//
// Praat script text routinely contains slashes, so a string is only
// treated as a path when it is a single absolute path.
func InferLoader(input any) (Loader, error) {
	switch v := input.(type) {
	case Loader:
		return v, nil
	case string:
		return inferFromString(v)
	case []byte:
		return NewFromBytes(v)
	case io.Reader:
		return NewFromIoReader(v, "inferred")
	default:
		return nil, fmt.Errorf("unsupported input type: %T", input)
	}
}

func inferFromString(input string) (Loader, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty string input", ErrInputEmpty)
	}
	if strings.ContainsAny(trimmed, "\n\r") {
		return NewFromString(input)
	}

	if parsed, err := url.Parse(trimmed); err == nil && len(parsed.Scheme) > 1 {
		switch parsed.Scheme {
		case "http", "https":
			return NewFromHTTP(trimmed)
		case "file":
			path := parsed.Path
			if !filepath.IsAbs(path) {
				abs, err := filepath.Abs(path)
				if err != nil {
					return nil, fmt.Errorf("failed to resolve relative path %q: %w", path, err)
				}
				path = abs
			}
			return NewFromDisk(path)
		}
	}

	if filepath.IsAbs(trimmed) && strings.EqualFold(filepath.Ext(trimmed), ".praat") {
		return NewFromDisk(trimmed)
	}
	return NewFromString(input)
}
