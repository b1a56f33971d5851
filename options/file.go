package options

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is a run configuration read from YAML:
//
//	capture_output: true
//	return_variables: false
//	max_steps: 100000
//	directory: ./data
//	log_level: debug
//	args: [100, 0.01, yes]
type File struct {
	CaptureOutput   bool   `yaml:"capture_output"`
	TeeOutput       bool   `yaml:"tee_output"`
	ReturnVariables bool   `yaml:"return_variables"`
	MaxSteps        int    `yaml:"max_steps"`
	Directory       string `yaml:"directory"`
	LogLevel        string `yaml:"log_level"`
	Args            []any  `yaml:"args"`

	// Path is the absolute path the file was read from.
	Path string `yaml:"-"`
}

// LoadFile reads a run configuration. Unknown keys are an error.
func LoadFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", abs, err)
	}
	defer file.Close()

	f, err := decodeFile(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	f.Path = abs
	if f.Directory != "" && !filepath.IsAbs(f.Directory) {
		f.Directory = filepath.Join(filepath.Dir(abs), f.Directory)
	}
	return f, nil
}

func decodeFile(r io.Reader) (*File, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var f File
	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, err
	}
	if f.MaxSteps < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxSteps, f.MaxSteps)
	}
	if _, err := f.Level(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Level returns the slog level named by LogLevel, info when empty.
func (f *File) Level() (slog.Level, error) {
	var level slog.Level
	if f.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(f.LogLevel))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", f.LogLevel)
	}
	return level, nil
}

// Options converts the file into options. Args are only applied when the
// file lists some.
func (f *File) Options() []Option {
	opts := []Option{
		WithCaptureOutput(f.CaptureOutput),
		WithTeeOutput(f.TeeOutput),
		WithReturnVariables(f.ReturnVariables),
		WithMaxSteps(f.MaxSteps),
		WithDirectory(f.Directory),
	}
	if len(f.Args) > 0 {
		opts = append(opts, WithArgs(f.Args...))
	}
	return opts
}
