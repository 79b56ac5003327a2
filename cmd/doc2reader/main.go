package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-doc2reader"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	os.Exit(runMain(os.Args[1:], DefaultEnv()))
}

// runMain dispatches a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]
	switch {
	case cmd == "convert":
		return runWithSignals(env, func(ctx context.Context) error {
			return runConvertCmd(ctx, rest, env)
		})
	case cmd == "palettes":
		return report(env, runPalettesCmd(rest, env))
	case cmd == "doctor":
		return runDoctorCmd(rest, env)
	case cmd == "version" || cmd == "--version":
		fmt.Fprintf(env.Stdout, "doc2reader %s\n", Version)
		return ExitSuccess
	case cmd == "help" || cmd == "-h" || cmd == "--help":
		return runHelp(rest, env)
	case looksLikeDocument(cmd):
		// "doc2reader report.docx" is shorthand for convert.
		return runWithSignals(env, func(ctx context.Context) error {
			return runConvertCmd(ctx, args, env)
		})
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// runWithSignals runs fn with a context cancelled on SIGINT/SIGTERM.
func runWithSignals(env *Environment, fn func(ctx context.Context) error) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()
	return report(env, fn(ctx))
}

// report prints err to stderr and returns its exit code.
func report(env *Environment, err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(env.Stderr, "error: interrupted")
		return ExitGeneral
	}
	fmt.Fprintf(env.Stderr, "error: %v\n", err)
	return exitCodeFor(err)
}

// looksLikeDocument reports whether arg names a file rather than a command.
func looksLikeDocument(arg string) bool {
	if strings.HasPrefix(arg, "-") {
		return false
	}
	return filepath.Ext(arg) != "" || doc2reader.IsMarkdown(arg)
}

// hintedError appends an operator hint to an error's message.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string { return e.err.Error() + e.hint }
func (e *hintedError) Unwrap() error { return e.err }

// withHint returns err carrying hint; an empty hint returns err unchanged.
func withHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return &hintedError{err: err, hint: hint}
}
