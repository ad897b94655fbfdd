package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv is an isolated config and data directory for running the CLI
// in process.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tempDir := t.TempDir()
	env := &testEnv{
		t:         t,
		configDir: filepath.Join(tempDir, "config"),
		dataDir:   filepath.Join(tempDir, "data"),
	}
	env.writeConfig("fields: [name, city]\n")
	return env
}

func (e *testEnv) writeConfig(content string) {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(e.t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(content), 0o644))
}

// cmdResult holds the outcome of one csvmgr invocation.
type cmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

func (e *testEnv) run(args ...string) cmdResult {
	e.t.Helper()
	return e.runWithInput("", args...)
}

func (e *testEnv) runWithInput(input string, args ...string) cmdResult {
	e.t.Helper()
	all := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	var stdout, stderr bytes.Buffer
	code := run(all, strings.NewReader(input), &stdout, &stderr)
	return cmdResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: code}
}

// mustRun runs csvmgr and fails the test on a non-zero exit code.
func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	res := e.run(args...)
	if res.ExitCode != 0 {
		e.t.Fatalf("csvmgr %v exited %d:\nstdout: %s\nstderr: %s", args, res.ExitCode, res.Stdout, res.Stderr)
	}
	return res
}

func (e *testEnv) dataFile() string {
	return filepath.Join(e.dataDir, "data.csv")
}

func (e *testEnv) readData() string {
	e.t.Helper()
	data, err := os.ReadFile(e.dataFile())
	require.NoError(e.t, err)
	return string(data)
}

func (e *testEnv) writeData(content string) {
	e.t.Helper()
	require.NoError(e.t, os.MkdirAll(e.dataDir, 0o755))
	require.NoError(e.t, os.WriteFile(e.dataFile(), []byte(content), 0o644))
}
