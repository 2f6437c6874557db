// Package main provides the steadyspace binary entry point.
// Steadyspace enumerates the steady states of qualitative regulatory network
// models and writes them as CSV.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/katalvlaran/steadyspace/internal/runner"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "steadyspace"
)

// Process exit codes.
const (
	exitOK      = 0
	exitUsage   = 1 // bad flags, arguments or configuration
	exitModel   = 2 // a model could not be loaded
	exitCompute = 3 // the search or its output failed
	exitBounds  = 4 // a bound override is invalid for a model
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(exitCompute)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command line args and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := rootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	}

	return exitCode(err)
}

// exitError forces a specific exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	switch runner.KindOf(err) {
	case runner.KindModel:
		return exitModel
	case runner.KindBounds:
		return exitBounds
	case runner.KindCompute:
		return exitCompute
	}
	if errors.Is(err, runner.ErrNoMatch) {
		return exitModel
	}

	return exitUsage
}
