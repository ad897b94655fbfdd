// Package paths resolves configuration and data locations for csvmgr.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Directory and file names used when nothing is configured.
const (
	AppDirName          = "csvmgr"
	DefaultDataDirName  = "CSVManager"
	DefaultDataFileName = "data.csv"
	DefaultBackupDir    = "backups"
	DefaultExportName   = "data.json"
	DefaultLogFileName  = "csvmgr.log"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "CSVMGR_CONFIG_DIR"
	EnvDataDir   = "CSVMGR_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/csvmgr (fallback ~/.config/csvmgr)
// macOS:   ~/Library/Application Support/csvmgr
// Windows: %APPDATA%/csvmgr
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppDirName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppDirName), nil
	}
}

// DefaultDataDir returns ~/Documents/CSVManager on every platform, the
// location people already keep their dataset in.
func DefaultDataDir() (string, error) {
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Documents", DefaultDataDirName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > CSVMGR_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > CSVMGR_DATA_DIR env > DefaultDataDir().
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}

// ResolveIn returns value unchanged when it is absolute, joined onto dir when
// it is relative, and dir/fallback when it is empty.
func ResolveIn(dir, value, fallback string) string {
	if value == "" {
		value = fallback
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(dir, value)
}
