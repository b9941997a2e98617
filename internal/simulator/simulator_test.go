package simulator

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell based simulator stand-ins need a POSIX sh")
	}
}

// shell builds a command where the appended deck path becomes $0.
func shell(script string) []string {
	return []string{"sh", "-c", script}
}

func TestProcess_CapturesOutputAndExitCode(t *testing.T) {
	requireShell(t)

	// --- Arrange ---
	dir := t.TempDir()
	deck := filepath.Join(dir, "case.spice")
	logPath := filepath.Join(dir, "logs", "case.log")
	require.NoError(t, os.WriteFile(deck, []byte(".end\n"), 0o644))
	p := NewProcess(shell(`echo "simulating $0"; echo "oops" >&2; exit 3`), 0)

	// --- Act ---
	res, err := p.Run(context.Background(), deck, logPath)

	// --- Assert ---
	require.NoError(t, err, "a non-zero exit is not a run error")
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.TimedOut)
	assert.Greater(t, res.Duration, time.Duration(0))

	log, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(log), "simulating "+deck)
	assert.Contains(t, string(log), "oops")
}

func TestProcess_Success(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	p := NewProcess(shell(`test -n "$CORNER" && echo "$CORNER"`), time.Minute)
	p.Env = map[string]string{"CORNER": "ss_ll_mm"}
	p.Dir = dir

	res, err := p.Run(context.Background(), "deck.spice", filepath.Join(dir, "run.log"))

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	log, err := os.ReadFile(filepath.Join(dir, "run.log"))
	require.NoError(t, err)
	assert.Equal(t, "ss_ll_mm\n", string(log))
}

func TestProcess_Timeout(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	p := NewProcess(shell(`sleep 10`), 100*time.Millisecond)

	start := time.Now()
	res, err := p.Run(context.Background(), "deck.spice", filepath.Join(dir, "run.log"))

	require.NoError(t, err, "a timeout is an outcome, not an error")
	assert.True(t, res.TimedOut)
	assert.Equal(t, -1, res.ExitCode)
	assert.Less(t, time.Since(start), 5*time.Second)
	log, err := os.ReadFile(filepath.Join(dir, "run.log"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "run timeout")
}

func TestProcess_Cancelled(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	p := NewProcess(shell(`sleep 10`), 0)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	res, err := p.Run(ctx, "deck.spice", filepath.Join(dir, "run.log"))

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, res.TimedOut)
}

func TestProcess_StartFailure(t *testing.T) {
	dir := t.TempDir()
	p := NewProcess([]string{filepath.Join(dir, "no-such-simulator")}, 0)

	_, err := p.Run(context.Background(), "deck.spice", filepath.Join(dir, "run.log"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start simulator")
}

func TestNewProcess_DefaultCommand(t *testing.T) {
	p := NewProcess(nil, 0)
	assert.Equal(t, "ngspice -b", p.String())

	cmd := []string{"xyce"}
	p = NewProcess(cmd, 0)
	cmd[0] = "changed"
	assert.Equal(t, "xyce", p.String(), "command is copied")
}

func TestFunc(t *testing.T) {
	var gotDeck, gotLog string
	sim := Func(func(_ context.Context, deck, log string) (Result, error) {
		gotDeck, gotLog = deck, log
		return Result{ExitCode: 7}, nil
	})

	res, err := sim.Run(context.Background(), "a.spice", "a.log")

	require.NoError(t, err)
	assert.Equal(t, 7, res.ExitCode)
	assert.Equal(t, "a.spice", gotDeck)
	assert.Equal(t, "a.log", gotLog)
}
