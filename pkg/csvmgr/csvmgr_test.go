package csvmgr

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

func TestOpenCreatesDataFile(t *testing.T) {
	dir := t.TempDir()
	cfg := types.Config{
		DataFile:  filepath.Join(dir, "data.csv"),
		BackupDir: filepath.Join(dir, "backups"),
		Fields:    []string{"name"},
	}

	mgr, err := Open(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg.DataFile, mgr.DataFile())

	data, err := os.ReadFile(cfg.DataFile)
	require.NoError(t, err)
	assert.Equal(t, "id,name\n", string(data))
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	_, err := Open(types.Config{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrValidation))
}
