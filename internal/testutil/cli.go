package testutil

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"testing"
)

// ExecResult holds the result of a CLI command execution.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunCLI executes the certexpiry binary with the given arguments.
// The binary is taken from $CERTEXPIRY_BIN, or the repository root, where
// it must be built first (go build ./cmd/certexpiry).
func RunCLI(tb testing.TB, args ...string) ExecResult {
	tb.Helper()

	binary := os.Getenv("CERTEXPIRY_BIN")
	if binary == "" {
		binary = findBinary(tb)
	}

	cmd := exec.Command(binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		tb.Fatalf("failed to run certexpiry: %v", err)
	}

	return ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

func findBinary(tb testing.TB) string {
	tb.Helper()
	// project root, then two levels up from cmd/certexpiry
	for _, candidate := range []string{"./certexpiry", "../../certexpiry"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	tb.Fatalf("certexpiry binary not found - run 'go build ./cmd/certexpiry' first")
	return ""
}
