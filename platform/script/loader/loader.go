// Package loader provides implementations of the Loader interface for the
// places a Praat script can come from.
package loader

import (
	"io"
	"net/url"
)

// Loader is an interface used by the compiler to read script source.
type Loader interface {
	GetReader() (io.ReadCloser, error)
	GetSourceURL() *url.URL
}
