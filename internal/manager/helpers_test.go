package manager

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

// testEnv is an isolated data directory with a Manager attached to it.
type testEnv struct {
	dir string
	cfg types.Config
	mgr *Manager
	now time.Time
}

func newTestEnv(t *testing.T, fields ...string) *testEnv {
	t.Helper()
	if len(fields) == 0 {
		fields = []string{"name"}
	}
	dir := t.TempDir()
	env := &testEnv{
		dir: dir,
		cfg: types.Config{
			DataFile:  filepath.Join(dir, "data.csv"),
			BackupDir: filepath.Join(dir, "backups"),
			Fields:    fields,
		},
		now: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}
	mgr, err := New(env.cfg,
		WithLogger(zaptest.NewLogger(t)),
		WithClock(func() time.Time { return env.now }),
	)
	require.NoError(t, err)
	env.mgr = mgr
	return env
}

func (e *testEnv) readData(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.cfg.DataFile)
	require.NoError(t, err)
	return string(data)
}

func (e *testEnv) writeData(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.cfg.DataFile, []byte(content), 0o644))
}

func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (e *testEnv) mustAdd(t *testing.T, values map[string]string) types.Record {
	t.Helper()
	rec, err := e.mgr.Add(values)
	require.NoError(t, err)
	return rec
}

func ids(records []types.Record) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
