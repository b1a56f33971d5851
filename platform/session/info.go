package session

import (
	"io"
	"slices"
	"strings"
	"sync"
)

// sink receives info-buffer traffic.
type sink interface {
	clear()
	append(s string)
}

// writerSink forwards text to the host's default output. Text already written
// cannot be taken back, so clear is a no-op.
type writerSink struct {
	w io.Writer
}

func (s *writerSink) clear() {}

func (s *writerSink) append(text string) {
	if s.w != nil {
		_, _ = io.WriteString(s.w, text)
	}
}

// Info is the session's output buffer. Writes go to the innermost active
// Capture, or to the default writer when no capture is active.
type Info struct {
	mu       sync.Mutex
	base     sink
	captures []*Capture
}

func newInfo(w io.Writer) *Info {
	return &Info{base: &writerSink{w: w}}
}

func (i *Info) active() sink {
	if n := len(i.captures); n > 0 {
		return i.captures[n-1]
	}
	return i.base
}

// Write replaces the buffer content with text.
func (i *Info) Write(text string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	s := i.active()
	s.clear()
	s.append(text)
}

// Append adds text to the end of the buffer.
func (i *Info) Append(text string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.active().append(text)
}

func (i *Info) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.active().clear()
}

// Capture opens an isolated capture scope. Until Release is called, all info
// traffic lands in the returned Capture. With tee set, the traffic is also
// forwarded to the sink that was active before.
func (i *Info) Capture(tee bool) *Capture {
	i.mu.Lock()
	defer i.mu.Unlock()
	c := &Capture{info: i}
	if tee {
		c.parent = i.active()
	}
	i.captures = append(i.captures, c)
	return c
}

// Depth is the number of open capture scopes.
func (i *Info) Depth() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.captures)
}

// Capture is one capture scope on an Info buffer.
type Capture struct {
	info     *Info
	buf      strings.Builder
	parent   sink
	released bool
}

func (c *Capture) clear() {
	c.buf.Reset()
	if c.parent != nil {
		c.parent.clear()
	}
}

func (c *Capture) append(text string) {
	c.buf.WriteString(text)
	if c.parent != nil {
		c.parent.append(text)
	}
}

// Text returns everything captured so far.
func (c *Capture) Text() string {
	c.info.mu.Lock()
	defer c.info.mu.Unlock()
	return c.buf.String()
}

// Release closes the scope and restores the previous sink. Safe to call more
// than once.
func (c *Capture) Release() {
	c.info.mu.Lock()
	defer c.info.mu.Unlock()
	if c.released {
		return
	}
	c.released = true
	c.info.captures = slices.DeleteFunc(c.info.captures, func(o *Capture) bool { return o == c })
}
