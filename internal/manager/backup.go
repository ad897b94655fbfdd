package manager

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/csvmgr/internal/logging"
	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

// BackupTimeFormat is the timestamp embedded in backup file names.
const BackupTimeFormat = "20060102_150405"

// maxBackupSuffix bounds the disambiguating counter for backups taken within
// the same second.
const maxBackupSuffix = 1000

// Backup copies the live CSV file byte for byte into the backup directory as
// <stem>_<timestamp>.csv and returns the path written. A backup taken in the
// same second as an existing one gets a _1, _2, ... suffix instead of
// overwriting it.
func (m *Manager) Backup() (string, error) {
	log := logging.ForOperation(m.log, "backup")

	src := m.store.Path()
	in, err := os.Open(src)
	if err != nil {
		log.Error("open source failed", zap.Error(err))
		return "", fmt.Errorf("%w: opening %s: %v", types.ErrIO, src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(m.backupDir, 0o755); err != nil {
		log.Error("create backup dir failed", zap.Error(err))
		return "", fmt.Errorf("%w: creating %s: %v", types.ErrIO, m.backupDir, err)
	}

	out, dst, err := m.createBackupFile(src)
	if err != nil {
		log.Error("create backup file failed", zap.Error(err))
		return "", err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		log.Error("copy failed", zap.Error(err))
		return "", fmt.Errorf("%w: copying to %s: %v", types.ErrIO, dst, err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("%w: syncing %s: %v", types.ErrIO, dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("%w: closing %s: %v", types.ErrIO, dst, err)
	}

	log.Info("backup created", zap.String("path", dst))
	return dst, nil
}

// createBackupFile exclusively creates the first free backup name for src.
func (m *Manager) createBackupFile(src string) (*os.File, string, error) {
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	base := stem + "_" + m.now().Format(BackupTimeFormat)

	for n := 0; n < maxBackupSuffix; n++ {
		name := base
		if n > 0 {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		dst := filepath.Join(m.backupDir, name+".csv")

		f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("%w: creating %s: %v", types.ErrIO, dst, err)
		}
		return f, dst, nil
	}
	return nil, "", fmt.Errorf("%w: no free backup name for %s in %s", types.ErrIO, base, m.backupDir)
}
