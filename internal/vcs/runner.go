package vcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Runner executes a git command line in a directory.
//
// stdout is the raw standard output. exitCode is the process exit status,
// or -1 when the process could not be started at all (git not installed,
// directory missing). err is non-nil whenever exitCode != 0.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (stdout string, exitCode int, err error)
}

// ExecRunner runs the git binary found on PATH.
type ExecRunner struct {
	// Binary overrides the executable name. Default: "git".
	Binary string
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, int, error) {
	bin := r.Binary
	if bin == "" {
		bin = "git"
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stderr strings.Builder
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err == nil {
		return string(output), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(output), exitErr.ExitCode(), &QueryError{
			Dir:    dir,
			Args:   args,
			Err:    err,
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}
	return "", -1, &QueryError{Dir: dir, Args: args, Err: err}
}

// QueryError describes a failed git invocation.
type QueryError struct {
	Dir    string
	Args   []string
	Err    error
	Stderr string
}

func (e *QueryError) Error() string {
	msg := fmt.Sprintf("git %s in %s: %s", strings.Join(e.Args, " "), e.Dir, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
