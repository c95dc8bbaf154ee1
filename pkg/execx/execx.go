// Package execx runs external commands for wintweak.
//
// Every mutation and probe in wintweak ultimately shells out to a host
// tool (reg.exe, powershell.exe). The Runner abstraction keeps that
// boundary narrow: callers get a Result value, never an error, so they
// can decide whether a failure means "absent" or "alert the user".
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ghostytools/wintweak/pkg/logging"
)

// DefaultTimeout bounds commands whose callers pass a non-positive timeout.
const DefaultTimeout = 30 * time.Second

// Command describes a single external process invocation.
type Command struct {
	Name    string
	Args    []string
	Stdin   string
	Timeout time.Duration
}

// Result is the outcome of running a Command. Failure is a value, not an
// error: ExitCode and Stderr carry the diagnosis.
type Result struct {
	Succeeded bool
	ExitCode  int
	Stdout    string
	Stderr    string
	TimedOut  bool
}

// Runner executes commands. The real implementation is System; tests use
// Script.
type Runner interface {
	Run(ctx context.Context, cmd Command) Result
}

// System runs commands on the host. It spawns exactly one child process per
// Run and suppresses any visible console window on Windows.
type System struct{}

// NewSystem returns a host-backed Runner.
func NewSystem() *System {
	return &System{}
}

// Run executes the command, enforcing the timeout. On expiry the child is
// killed and the result carries a distinguishable timeout marker in Stderr.
func (s *System) Run(ctx context.Context, cmd Command) Result {
	logger := logging.GetLogger("execx")

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c := exec.CommandContext(runCtx, cmd.Name, cmd.Args...)
	// Without WaitDelay, Run blocks past the deadline whenever a grandchild
	// inherits the stdout/stderr pipes and outlives the killed child.
	c.WaitDelay = time.Second
	hideWindow(c)
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	elapsed := time.Since(start)

	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	switch {
	case runCtx.Err() == context.DeadlineExceeded:
		res.TimedOut = true
		res.ExitCode = -1
		res.Stderr = appendLine(res.Stderr, fmt.Sprintf("command timed out after %s", timeout))
	case err == nil:
		res.Succeeded = true
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			// Spawn failure (binary missing, permission); surface it in stderr.
			res.ExitCode = -1
			res.Stderr = appendLine(res.Stderr, err.Error())
		}
	}

	logger.Debug().
		Str("command", cmd.Name).
		Strs("args", cmd.Args).
		Bool("succeeded", res.Succeeded).
		Int("exitCode", res.ExitCode).
		Dur("duration", elapsed).
		Msg("Command finished")

	return res
}

func appendLine(existing, line string) string {
	if existing == "" {
		return line
	}
	return strings.TrimRight(existing, "\n") + "\n" + line
}
