package types

import (
	"errors"
	"fmt"
)

// Config holds the locations and column layout handed to the record manager.
// Every path is explicit; no component keeps process-wide defaults.
type Config struct {
	DataFile  string   `json:"data_file" yaml:"data_file"`
	BackupDir string   `json:"backup_dir" yaml:"backup_dir"`
	Fields    []string `json:"fields" yaml:"fields"`
}

// Config validation errors.
var (
	ErrDataFileEmpty  = errors.New("data file must not be empty")
	ErrBackupDirEmpty = errors.New("backup directory must not be empty")
	ErrNoFields       = errors.New("at least one field is required")
	ErrFieldName      = errors.New("invalid field name")
)

// DefaultFields is the column layout used when no fields are configured.
var DefaultFields = []string{"nama kapal", "bendera", "agen", "gt", "muatan", "tujuan"}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.DataFile == "" {
		return ErrDataFileEmpty
	}
	if c.BackupDir == "" {
		return ErrBackupDirEmpty
	}
	_, err := NewSchema(c.Fields)
	return err
}

// Schema returns the validated schema for the configured fields.
func (c Config) Schema() (Schema, error) {
	return NewSchema(c.Fields)
}

// NewSchema builds a Schema from user field names, rejecting empty,
// duplicate, and reserved names.
func NewSchema(fields []string) (Schema, error) {
	if len(fields) == 0 {
		return Schema{}, ErrNoFields
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		switch {
		case f == "":
			return Schema{}, fmt.Errorf("%w: empty name", ErrFieldName)
		case f == FieldID:
			return Schema{}, fmt.Errorf("%w: %q is reserved", ErrFieldName, FieldID)
		case seen[f]:
			return Schema{}, fmt.Errorf("%w: duplicate %q", ErrFieldName, f)
		}
		seen[f] = true
	}
	out := make([]string, len(fields))
	copy(out, fields)
	return Schema{fields: out}, nil
}
