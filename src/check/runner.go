package check

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// Runner runs an external command and returns its captured output and exit
// code. A non-nil error means the command could not be run at all; a tool
// that ran and reported findings is a nonzero exit code, not an error.
type Runner interface {
	Run(ctx context.Context, argv []string) (stdout, stderr []byte, exitCode int, err error)
}

// ExecRunner invokes commands via os/exec with the given working directory.
// No timeout is imposed: a tool that never returns blocks its caller. That
// mirrors the tools' own behavior; callers wanting a bound can cancel ctx.
type ExecRunner struct {
	Dir     string
	Verbose bool
}

func (r *ExecRunner) Run(ctx context.Context, argv []string) ([]byte, []byte, int, error) {
	if r.Verbose {
		log.Debug("exec", "cmd", strings.Join(argv, " "))
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, nil, -1, err
		}
		return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), nil
	}

	return stdout.Bytes(), stderr.Bytes(), 0, nil
}

// outputLines splits captured tool output into lines, dropping a trailing
// newline but preserving interior blank lines.
func outputLines(output []byte) []string {
	text := strings.TrimSuffix(string(output), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
