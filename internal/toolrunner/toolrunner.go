// Package toolrunner executes the external tools a generated project needs:
// package managers, the Prisma CLI and formatters.
//
// Commands arrive as the literal lines produced by the variant resolvers and
// are split into argv with POSIX shell rules, so the line shown to a user and
// the process that runs are always the same command.
package toolrunner

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"time"

	"github.com/cockroachdb/errors"
	"mvdan.cc/sh/v3/shell"
)

// Sentinel errors for command execution.
var (
	ErrEmptyCommand  = errors.New("toolrunner: empty command")
	ErrNotFound      = errors.New("toolrunner: executable not found")
	ErrTimeout       = errors.New("toolrunner: command timed out")
	ErrCommandFailed = errors.New("toolrunner: command failed")
)

// CommandResult is the captured outcome of one process.
type CommandResult struct {
	Line     string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Executor runs command lines. Implementations must honour ctx cancellation.
type Executor interface {
	// Run executes line in dir with the given timeout. A non-zero exit code
	// returns the populated result together with an error marked
	// ErrCommandFailed.
	Run(ctx context.Context, dir, line string, timeout time.Duration) (*CommandResult, error)

	// LookPath resolves an executable on PATH.
	LookPath(name string) (string, error)
}

// Runner is the os/exec backed Executor.
type Runner struct {
	logger *slog.Logger
}

// New returns a Runner. A nil logger discards output.
func New(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{logger: logger}
}

// Split parses a command line into argv without expanding variables.
func Split(line string) ([]string, error) {
	args, err := shell.Fields(line, func(string) string { return "" })
	if err != nil {
		return nil, errors.Wrapf(err, "parse command %q", line)
	}
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}
	return args, nil
}

// LookPath implements Executor.
func (r *Runner) LookPath(name string) (string, error) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "look up %s", name), ErrNotFound)
	}
	return p, nil
}

// Run implements Executor.
func (r *Runner) Run(ctx context.Context, dir, line string, timeout time.Duration) (*CommandResult, error) {
	args, err := Split(line)
	if err != nil {
		return nil, err
	}
	bin, err := r.LookPath(args[0])
	if err != nil {
		return nil, err
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, args[1:]...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running command", "dir", dir, "line", line, "timeout", timeout)
	start := time.Now()
	runErr := cmd.Run()

	result := &CommandResult{
		Line:     line,
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	r.logger.Debug("command finished", "line", line, "exit_code", result.ExitCode, "duration", result.Duration)

	switch {
	case runErr == nil:
		return result, nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return result, errors.Mark(errors.Wrapf(runErr, "%s: exceeded %s", line, timeout), ErrTimeout)
	case ctx.Err() != nil:
		return result, errors.Wrapf(ctx.Err(), "%s", line)
	default:
		return result, errors.Mark(errors.Wrapf(runErr, "%s: exit code %d", line, result.ExitCode), ErrCommandFailed)
	}
}
