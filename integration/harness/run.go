package harness

import (
	"bytes"
	"os/exec"
	"testing"
)

// Run executes the CLI in the provided working directory and returns
// stdout, stderr, and the exit code.
func Run(t *testing.T, binPath, workDir string, args []string) (string, string, int) {
	t.Helper()

	cmd := exec.Command(binPath, args...)
	cmd.Dir = workDir

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		} else {
			t.Fatalf("run %s: %v", binPath, err)
		}
	}

	return stdout.String(), stderr.String(), exitCode
}

// MustRun executes the CLI and fails the test on a non-zero exit.
func MustRun(t *testing.T, binPath, workDir string, args []string) string {
	t.Helper()
	stdout, stderr, code := Run(t, binPath, workDir, args)
	if code != 0 {
		t.Fatalf("scorebook %v exit code %d\nstdout:\n%s\nstderr:\n%s", args, code, stdout, stderr)
	}
	return stdout
}
