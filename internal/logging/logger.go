// Package logging builds the zap logger shared by the CLI, the menu and the
// record manager.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output values that are passed through to zap instead of being treated as
// file paths.
const (
	OutputStderr = "stderr"
	OutputStdout = "stdout"
)

// New returns a JSON production logger at the given level writing to output.
// Level values: "debug", "info", "warn", "error" (default "info").
// Output is "stderr", "stdout" or a file path; parent directories of a file
// are created.
func New(level, output string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	if output == "" {
		output = OutputStderr
	}
	if output != OutputStderr && output != OutputStdout {
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{output}
	config.ErrorOutputPaths = []string{OutputStderr}
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel converts a level name to a zapcore.Level. An empty name is info.
func ParseLevel(level string) (zapcore.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// ForOperation returns a logger carrying the operation name and a fresh
// operation id, so every entry of one user action can be correlated.
func ForOperation(logger *zap.Logger, op string) *zap.Logger {
	return logger.With(zap.String("op", op), zap.String("op_id", newOperationID()))
}

// newOperationID generates a UUID v7, falling back to v4.
func newOperationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
