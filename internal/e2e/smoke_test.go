package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	stdout, stderr, err := runNebuloViz(t, binaryPath, home, "login", "--token", "smoke-token")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "signed in")

	stdout, stderr, err = runNebuloViz(t, binaryPath, home, "session")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "opaque token")

	stdout, stderr, err = runNebuloViz(t, binaryPath, home, "snapshot", "--route", "/missing")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "NebuloViz Advanced Sales Dashboard")
	assert.Contains(t, stdout, `404: no page at "/missing".`)

	stdout, stderr, err = runNebuloViz(t, binaryPath, home, "logout")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "signed out")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "nebuloviz-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/nebuloviz")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build nebuloviz binary: %s", string(output))
	return binaryPath
}

func runNebuloViz(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home, "NEBULOVIZ_LOG_OUTPUT=discard")

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
