package services

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner abstracts subprocess execution so service clients can be
// exercised in tests without the underlying binaries installed.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// RunCommand executes a command and returns its combined output. Failures
// include the trailing output so operators see the tool's own diagnostics.
func RunCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s: %w: %s", name, err, tailOf(string(output)))
	}
	return output, nil
}

// tailOf trims command output to the last few lines for error messages.
func tailOf(output string) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return "no output"
	}
	lines := strings.Split(trimmed, "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
