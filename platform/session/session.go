// Package session holds the ambient interpreter state a script runs against:
// the object workspace, the variable scope and the info buffer.
//
// A Session is owned by the caller and passed into every run. Runs against the
// same Session are serialized through Lock; objects and variables persist
// between runs until explicitly cleared.
package session

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	// PraatVersion is the language version scripts observe as praatVersion$.
	PraatVersion = "6.4.27"

	// PraatVersionNumber is the numeric form observed as praatVersion.
	PraatVersionNumber = 6427
)

type Session struct {
	mu        sync.Mutex
	workspace *Workspace
	scope     *Scope
	info      *Info
	dir       string
}

// Option configures a Session at creation.
type Option func(*Session)

// WithInfoWriter sets the default destination of info-buffer output.
func WithInfoWriter(w io.Writer) Option {
	return func(s *Session) {
		s.info = newInfo(w)
	}
}

// WithDefaultDirectory sets the directory relative file paths resolve against.
func WithDefaultDirectory(dir string) Option {
	return func(s *Session) {
		if dir != "" {
			s.dir = dir
		}
	}
}

// New creates an isolated session with ambient variables installed.
func New(opts ...Option) *Session {
	s := &Session{
		workspace: newWorkspace(),
		scope:     newScope(),
		info:      newInfo(os.Stdout),
	}
	if wd, err := os.Getwd(); err == nil {
		s.dir = wd
	}
	for _, opt := range opts {
		opt(s)
	}
	s.InstallAmbient("")
	return s
}

var defaultSession = sync.OnceValue(func() *Session { return New() })

// Default returns the process-wide session used when none is injected.
func Default() *Session {
	return defaultSession()
}

func (s *Session) Workspace() *Workspace { return s.workspace }

func (s *Session) Scope() *Scope { return s.scope }

func (s *Session) Info() *Info { return s.info }

// Lock borrows the session for one run and returns the matching unlock.
func (s *Session) Lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// TryLock is Lock without blocking; ok is false when another run holds it.
func (s *Session) TryLock() (unlock func(), ok bool) {
	if !s.mu.TryLock() {
		return nil, false
	}
	return s.mu.Unlock, true
}

// DefaultDirectory is where relative paths are resolved.
func (s *Session) DefaultDirectory() string {
	return s.dir
}

// ResolvePath makes path absolute against dir, or the session's default
// directory when dir is empty.
func (s *Session) ResolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if dir == "" {
		dir = s.dir
	}
	return filepath.Join(dir, path)
}

// InstallAmbient (re)binds the predefined variables every script can see.
// dir overrides defaultDirectory$ when not empty.
func (s *Session) InstallAmbient(dir string) {
	if dir == "" {
		dir = s.dir
	}
	home, _ := os.UserHomeDir()
	prefs, err := os.UserConfigDir()
	if err == nil {
		prefs = filepath.Join(prefs, "Praat")
	}
	shell, _ := os.Getwd()

	strs := map[string]string{
		"newline":              "\n",
		"tab":                  "\t",
		"shellDirectory":       shell,
		"defaultDirectory":     dir,
		"preferencesDirectory": prefs,
		"homeDirectory":        home,
		"temporaryDirectory":   os.TempDir(),
		"praatVersion":         PraatVersion,
	}
	nums := map[string]float64{
		"macintosh":    boolNum(runtime.GOOS == "darwin"),
		"windows":      boolNum(runtime.GOOS == "windows"),
		"unix":         boolNum(runtime.GOOS != "darwin" && runtime.GOOS != "windows"),
		"left":         1,
		"right":        2,
		"mono":         1,
		"stereo":       2,
		"all":          0,
		"average":      0,
		"praatVersion": PraatVersionNumber,
	}
	for name, v := range strs {
		_ = s.scope.Set(name, String(v))
	}
	for name, v := range nums {
		_ = s.scope.Set(name, Number(v))
	}
}

// AmbientNames lists the suffixed names InstallAmbient binds.
func AmbientNames() []string {
	return []string{
		"newline$", "tab$", "shellDirectory$", "defaultDirectory$",
		"preferencesDirectory$", "homeDirectory$", "temporaryDirectory$",
		"macintosh", "windows", "unix", "left", "right", "mono", "stereo",
		"all", "average", "praatVersion$", "praatVersion",
	}
}

// ResetVariables clears the scope and reinstalls the ambient variables.
func (s *Session) ResetVariables() {
	s.scope.Reset()
	s.InstallAmbient("")
}

// Reset clears variables and objects.
func (s *Session) Reset() {
	s.workspace.Clear()
	s.ResetVariables()
}

func boolNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
