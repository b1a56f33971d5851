package session

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
)

var (
	ErrInvalidName  = errors.New("invalid variable name")
	ErrKindMismatch = errors.New("variable kind does not match its name")
)

var namePattern = regexp.MustCompile(`^[a-z][A-Za-z0-9_.]*$`)

type scopeKey struct {
	name string
	kind Kind
}

// Scope is the interpreter's flat variable namespace. Entries are keyed by
// base name and kind; the type suffix ($, #, $#) is only added when names
// cross the scope boundary.
type Scope struct {
	mu   sync.RWMutex
	vars map[scopeKey]Value
}

func newScope() *Scope {
	return &Scope{vars: make(map[scopeKey]Value)}
}

// SplitName separates a suffixed variable name into its base and kind.
func SplitName(full string) (string, Kind) {
	switch {
	case strings.HasSuffix(full, "$#"):
		return strings.TrimSuffix(full, "$#"), KindStringArray
	case strings.HasSuffix(full, "$"):
		return strings.TrimSuffix(full, "$"), KindString
	case strings.HasSuffix(full, "#"):
		return strings.TrimSuffix(full, "#"), KindNumericVector
	default:
		return full, KindNumber
	}
}

// JoinName appends the suffix for kind to a base name.
func JoinName(base string, kind Kind) string {
	return base + kind.Suffix()
}

// ValidName reports whether base is usable as a variable name.
func ValidName(base string) bool {
	return namePattern.MatchString(base)
}

// Set binds base to v, under the kind carried by v.
func (s *Scope) Set(base string, v Value) error {
	if !ValidName(base) {
		return fmt.Errorf("%w: %q", ErrInvalidName, JoinName(base, v.Kind()))
	}
	if v.IsNone() {
		return fmt.Errorf("%w: %q has no value", ErrKindMismatch, base)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vars[scopeKey{base, v.Kind()}] = v
	return nil
}

// SetNamed binds a suffixed name, checking that the suffix matches v.
func (s *Scope) SetNamed(full string, v Value) error {
	base, kind := SplitName(full)
	if kind != v.Kind() {
		return fmt.Errorf("%w: %q cannot hold a %s", ErrKindMismatch, full, v.Kind())
	}
	return s.Set(base, v)
}

func (s *Scope) Get(base string, kind Kind) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[scopeKey{base, kind}]
	return v, ok
}

// Lookup finds a variable by its suffixed name.
func (s *Scope) Lookup(full string) (Value, bool) {
	base, kind := SplitName(full)
	return s.Get(base, kind)
}

func (s *Scope) Delete(full string) {
	base, kind := SplitName(full)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vars, scopeKey{base, kind})
}

func (s *Scope) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vars)
}

// Names returns the suffixed names of all variables, sorted.
func (s *Scope) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.vars))
	for k := range s.vars {
		names = append(names, JoinName(k.name, k.kind))
	}
	slices.Sort(names)
	return names
}

// Each calls fn for every variable with its base name, in no particular order.
func (s *Scope) Each(fn func(base string, v Value)) {
	s.mu.RLock()
	vars := maps.Clone(s.vars)
	s.mu.RUnlock()
	for k, v := range vars {
		fn(k.name, v)
	}
}

// Snapshot copies the scope into the caller-visible form: suffixed names
// mapped to float64, string, []float64 or []string.
func (s *Scope) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.vars))
	for k, v := range s.vars {
		out[JoinName(k.name, k.kind)] = v.Interface()
	}
	return out
}

// Reset removes every variable.
func (s *Scope) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.vars)
}
