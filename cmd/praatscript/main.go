// Command praatscript runs Praat scripts from the command line.
//
//	praatscript run [flags] script.praat [args...]
//	praatscript check script.praat
//	praatscript repl
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/term"

	praatscript "github.com/robbyt/go-praatscript"
	"github.com/robbyt/go-praatscript/options"
	"github.com/robbyt/go-praatscript/platform/form"
	"github.com/robbyt/go-praatscript/platform/script/loader"
	"github.com/robbyt/go-praatscript/platform/session"
)

var errUsage = errors.New("invalid command")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := runCLI(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func runCLI(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) < 2 {
		printUsage(stderr)
		return errUsage
	}
	switch args[1] {
	case "run":
		return runCommand(ctx, args[2:], stdout, stderr)
	case "check":
		return checkCommand(args[2:], stdout, stderr)
	case "repl":
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("praatscript repl: stdin is not a terminal")
		}
		return runREPL(stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return errUsage
	}
}

type runFlags struct {
	capture  bool
	tee      bool
	vars     bool
	objects  bool
	config   string
	maxSteps int
	dir      string
	logLevel string
}

func runCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var f runFlags
	fs.BoolVar(&f.capture, "capture", false, "capture the info buffer and print it after the run")
	fs.BoolVar(&f.tee, "tee", false, "print the info buffer while capturing it")
	fs.BoolVar(&f.vars, "vars", false, "print the script's variables after the run")
	fs.BoolVar(&f.objects, "objects", false, "print the selected objects after the run")
	fs.StringVar(&f.config, "config", "", "YAML run configuration")
	fs.IntVar(&f.maxSteps, "max-steps", 0, "stop after this many statements (0 for no limit)")
	fs.StringVar(&f.dir, "dir", "", "directory relative file names resolve against")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("praatscript run: %w", err)
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("praatscript run: script path required")
	}
	path, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}

	opts, err := runOptions(fs, f, stderr)
	if err != nil {
		return err
	}
	sess := session.New(session.WithInfoWriter(stdout))
	opts = append(opts, options.WithSession(sess))

	l, err := loader.NewFromDisk(path)
	if err != nil {
		return err
	}
	resp, err := praatscript.Run(ctx, l, parseArgs(remaining[1:]), opts...)
	if err != nil {
		return err
	}

	if out, ok := resp.Output(); ok && !f.tee {
		fmt.Fprint(stdout, out)
	}
	if f.objects {
		for _, h := range resp.Objects() {
			fmt.Fprintln(stdout, h.String())
		}
	}
	if vars, ok := resp.Variables(); ok {
		printVariables(stdout, vars)
	}
	return nil
}

// runOptions merges the config file with the flags set on the command line,
// flags taking precedence.
func runOptions(fs *flag.FlagSet, f runFlags, stderr io.Writer) ([]options.Option, error) {
	var opts []options.Option
	level := slog.LevelWarn
	if f.config != "" {
		cfg, err := options.LoadFile(f.config)
		if err != nil {
			return nil, err
		}
		opts = append(opts, cfg.Options()...)
		if cfg.LogLevel != "" {
			level, _ = cfg.Level()
		}
	}

	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["capture"] {
		opts = append(opts, options.WithCaptureOutput(f.capture))
	}
	if set["tee"] {
		opts = append(opts, options.WithTeeOutput(f.tee))
	}
	if set["vars"] {
		opts = append(opts, options.WithReturnVariables(f.vars))
	}
	if set["max-steps"] {
		opts = append(opts, options.WithMaxSteps(f.maxSteps))
	}
	if set["dir"] {
		opts = append(opts, options.WithDirectory(f.dir))
	}
	if set["log-level"] {
		if err := level.UnmarshalText([]byte(strings.ToUpper(f.logLevel))); err != nil {
			return nil, fmt.Errorf("praatscript run: unknown log level %q", f.logLevel)
		}
	}
	handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	return append([]options.Option{options.WithLogHandler(handler)}, opts...), nil
}

// parseArgs turns command line words into script arguments: words that
// parse as numbers become float64, everything else stays a string.
func parseArgs(raw []string) []any {
	args := make([]any, len(raw))
	for i, s := range raw {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			args[i] = f
			continue
		}
		args[i] = s
	}
	return args
}

func printVariables(w io.Writer, vars map[string]any) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s = %s\n", name, formatVariable(vars[name]))
	}
}

func formatVariable(v any) string {
	switch x := v.(type) {
	case float64:
		return session.FormatNumber(x)
	case string:
		return strconv.Quote(x)
	case []float64:
		parts := make([]string, len(x))
		for i, f := range x {
			parts[i] = session.FormatNumber(f)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []string:
		parts := make([]string, len(x))
		for i, s := range x {
			parts[i] = strconv.Quote(s)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}

func checkCommand(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		return errors.New("praatscript check: exactly one script path required")
	}
	handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	ev, err := praatscript.FromPraatFile(args[0], options.WithLogHandler(handler))
	if err != nil {
		return err
	}
	params := ev.Parameters()
	if len(params) == 0 {
		fmt.Fprintln(stdout, "no parameters")
		return nil
	}
	for i, p := range params {
		fmt.Fprintf(stdout, "%d. %s = %q (%s)%s\n", i+1, p.VariableName(), p.Default, p.Type, optionList(p))
	}
	return nil
}

func optionList(p form.Parameter) string {
	if len(p.Options) == 0 {
		return ""
	}
	return " [" + strings.Join(p.Options, " | ") + "]"
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  praatscript run [flags] <script.praat> [args...]")
	fmt.Fprintln(w, "  praatscript check <script.praat>")
	fmt.Fprintln(w, "  praatscript repl")
	fmt.Fprintln(w, "Run flags:")
	fmt.Fprintln(w, "  -capture      capture the info buffer and print it after the run")
	fmt.Fprintln(w, "  -tee          print the info buffer while capturing it")
	fmt.Fprintln(w, "  -vars         print the script's variables after the run")
	fmt.Fprintln(w, "  -objects      print the selected objects after the run")
	fmt.Fprintln(w, "  -config file  YAML run configuration")
	fmt.Fprintln(w, "  -max-steps n  stop after n statements")
	fmt.Fprintln(w, "  -dir path     directory relative file names resolve against")
	fmt.Fprintln(w, "  -log-level l  debug, info, warn or error")
}
