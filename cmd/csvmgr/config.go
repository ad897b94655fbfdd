// Config loading for the csvmgr CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/csvmgr/internal/logging"
	"github.com/mesh-intelligence/csvmgr/internal/paths"
	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir   = "data_dir"
	cfgKeyDataFile  = "data_file"
	cfgKeyBackupDir = "backup_dir"
	cfgKeyFields    = "fields"
	cfgKeyLogLevel  = "log_level"
	cfgKeyLogFile   = "log_file"

	defaultLogLevel = "info"
)

const configHeader = `# csvmgr configuration
#
# data_dir:   directory holding the data file, backups and log
#             (default: ~/Documents/CSVManager, overridable by --data-dir)
# data_file:  CSV file name, relative to data_dir
# backup_dir: backup directory, relative to data_dir
# fields:     user columns after the id column
# log_level:  debug, info, warn or error
# log_file:   log file, relative to data_dir, or "stderr"

`

// fileConfig is the on-disk layout of config.yaml.
type fileConfig struct {
	DataDir   string   `yaml:"data_dir,omitempty"`
	DataFile  string   `yaml:"data_file"`
	BackupDir string   `yaml:"backup_dir"`
	Fields    []string `yaml:"fields"`
	LogLevel  string   `yaml:"log_level"`
	LogFile   string   `yaml:"log_file"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		DataFile:  paths.DefaultDataFileName,
		BackupDir: paths.DefaultBackupDir,
		Fields:    types.DefaultFields,
		LogLevel:  defaultLogLevel,
		LogFile:   paths.DefaultLogFileName,
	}
}

// settings are the fully resolved locations and options of one invocation.
type settings struct {
	ConfigDir string   `yaml:"config_dir" json:"config_dir"`
	DataDir   string   `yaml:"data_dir" json:"data_dir"`
	DataFile  string   `yaml:"data_file" json:"data_file"`
	BackupDir string   `yaml:"backup_dir" json:"backup_dir"`
	Fields    []string `yaml:"fields" json:"fields"`
	LogLevel  string   `yaml:"log_level" json:"log_level"`
	LogFile   string   `yaml:"log_file" json:"log_file"`
	JSONPath  string   `yaml:"json_path" json:"json_path"`
}

func (s settings) managerConfig() types.Config {
	return types.Config{
		DataFile:  s.DataFile,
		BackupDir: s.BackupDir,
		Fields:    s.Fields,
	}
}

// loadConfig reads config.yaml from the config directory using Viper.
// It creates the directory and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, ioError("create config dir", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, err
	}

	def := defaultFileConfig()
	v := viper.New()
	v.SetDefault(cfgKeyDataFile, def.DataFile)
	v.SetDefault(cfgKeyBackupDir, def.BackupDir)
	v.SetDefault(cfgKeyFields, def.Fields)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyLogFile, def.LogFile)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", types.ErrParse, filepath.Join(configDir, configFileExt), err)
	}
	return v, nil
}

// ensureDefaultConfigFile writes a default config.yaml if none exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return ioError("stat config file", err)
	}

	body, err := yaml.Marshal(defaultFileConfig())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(configHeader), body...), 0o644); err != nil {
		return ioError("write default config", err)
	}
	return nil
}

// resolveSettings combines flags and config values. Flags win over
// config.yaml; relative paths are taken inside the data directory.
func resolveSettings(configDir string, v *viper.Viper, f rootFlags) (settings, error) {
	dataDir, err := paths.ResolveDataDir(f.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, ioError("resolve data dir", err)
	}

	s := settings{
		ConfigDir: configDir,
		DataDir:   dataDir,
		DataFile:  paths.ResolveIn(dataDir, firstNonEmpty(f.dataFile, v.GetString(cfgKeyDataFile)), paths.DefaultDataFileName),
		BackupDir: paths.ResolveIn(dataDir, firstNonEmpty(f.backupDir, v.GetString(cfgKeyBackupDir)), paths.DefaultBackupDir),
		Fields:    slices.Clone(v.GetStringSlice(cfgKeyFields)),
		LogLevel:  firstNonEmpty(f.logLevel, v.GetString(cfgKeyLogLevel)),
		JSONPath:  filepath.Join(dataDir, paths.DefaultExportName),
	}
	for i, field := range s.Fields {
		s.Fields[i] = strings.TrimSpace(field)
	}
	if len(s.Fields) == 0 {
		s.Fields = slices.Clone(types.DefaultFields)
	}

	switch logFile := v.GetString(cfgKeyLogFile); logFile {
	case logging.OutputStderr, logging.OutputStdout:
		s.LogFile = logFile
	default:
		s.LogFile = paths.ResolveIn(dataDir, logFile, paths.DefaultLogFileName)
	}

	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return settings{}, fmt.Errorf("%w: %v", types.ErrValidation, err)
	}
	return s, nil
}

func newLogger(s settings) (*zap.Logger, error) {
	logger, err := logging.New(s.LogLevel, s.LogFile)
	if err != nil {
		return nil, ioError("open log", err)
	}
	return logger, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
