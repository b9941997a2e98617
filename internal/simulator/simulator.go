package simulator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/cornergrid/internal/ctxlog"
)

// DefaultCommand runs ngspice in batch mode. The deck path is appended.
var DefaultCommand = []string{"ngspice", "-b"}

// waitDelay bounds how long Wait blocks on output pipes after the process
// has been killed.
const waitDelay = 5 * time.Second

// Result describes a finished simulator invocation.
type Result struct {
	// ExitCode is the process exit status; -1 if it was killed by a signal.
	ExitCode int
	Duration time.Duration
	// TimedOut is set when the run was killed after exceeding its timeout.
	TimedOut bool
}

// Simulator runs one deck and captures its output into logPath. A non-zero
// exit is reported through Result, not as an error; errors mean the
// simulator could not be run at all or the context was cancelled.
type Simulator interface {
	Run(ctx context.Context, deckPath, logPath string) (Result, error)
}

// Func adapts a function to the Simulator interface.
type Func func(ctx context.Context, deckPath, logPath string) (Result, error)

// Run implements Simulator.
func (f Func) Run(ctx context.Context, deckPath, logPath string) (Result, error) {
	return f(ctx, deckPath, logPath)
}

// Process runs an external command per deck.
type Process struct {
	// Command is the program and its leading arguments. The deck path is
	// appended as the last argument.
	Command []string
	// Timeout kills a run that takes longer. Zero disables it.
	Timeout time.Duration
	// Dir is the working directory of the simulator. Empty means the
	// current directory.
	Dir string
	// Env holds extra environment variables on top of the inherited ones.
	Env map[string]string
}

// NewProcess returns a Process running command, or DefaultCommand if empty.
func NewProcess(command []string, timeout time.Duration) *Process {
	if len(command) == 0 {
		command = DefaultCommand
	}
	return &Process{
		Command: append([]string(nil), command...),
		Timeout: timeout,
	}
}

// String renders the command line without the deck.
func (p *Process) String() string {
	return strings.Join(p.Command, " ")
}

// Run implements Simulator.
func (p *Process) Run(ctx context.Context, deckPath, logPath string) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	if len(p.Command) == 0 {
		return Result{}, errors.New("simulator command is empty")
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.Create(logPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	runCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	args := append(append([]string(nil), p.Command[1:]...), deckPath)
	cmd := exec.CommandContext(runCtx, p.Command[0], args...)
	cmd.Dir = p.Dir
	cmd.Env = buildEnv(p.Env)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		return killProcessGroup(cmd)
	}

	logger.Debug("Starting simulator.", "command", p.String(), "deck", deckPath, "log", logPath)
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("failed to start simulator: %w", err)
	}
	waitErr := cmd.Wait()
	res := Result{Duration: time.Since(start)}

	// The parent context wins over the timeout: a cancelled batch is not a
	// timed out run.
	if ctx.Err() != nil {
		return res, fmt.Errorf("simulator run cancelled: %w", ctx.Err())
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		res.ExitCode = -1
		fmt.Fprintf(logFile, "\n*** killed after exceeding the %s run timeout\n", p.Timeout)
		return res, nil
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return res, fmt.Errorf("failed to run simulator: %w", waitErr)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	return res, nil
}

// buildEnv inherits the process environment and overlays extra.
func buildEnv(extra map[string]string) []string {
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}
