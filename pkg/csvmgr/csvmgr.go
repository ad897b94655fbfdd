// Package csvmgr is the public entry point for managing a CSV-backed record
// collection. It exposes the manager factory while keeping the store, index,
// and manager implementations internal.
package csvmgr

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/csvmgr/internal/manager"
	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

// Version is the csvmgr release version.
const Version = "v0.1.0"

// Manager is the set of record operations over one CSV file.
type Manager interface {
	Schema() types.Schema
	DataFile() string
	BackupDir() string

	View() ([]types.Record, error)
	Get(id int) (types.Record, error)
	Find(q types.Query) ([]types.Record, error)
	Add(values map[string]string) (types.Record, error)
	Update(id int, values map[string]string) (types.Record, error)
	Delete(id int) error
	EraseAll() (int, error)

	Backup() (string, error)
	Export(path string) (int, error)
	Import(path string) (types.ImportResult, error)
}

var _ Manager = (*manager.Manager)(nil)

// Open validates cfg, creates the data file if it is missing, and returns a
// Manager for it. A nil logger discards log output.
//
// Example:
//
//	mgr, err := csvmgr.Open(types.Config{
//	    DataFile:  "data.csv",
//	    BackupDir: "backups",
//	    Fields:    types.DefaultFields,
//	}, nil)
func Open(cfg types.Config, logger *zap.Logger) (Manager, error) {
	var opts []manager.Option
	if logger != nil {
		opts = append(opts, manager.WithLogger(logger))
	}
	mgr, err := manager.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return mgr, nil
}

// EncodeJSON renders records in the export format: an indented array of
// objects with keys in header order and id as a number.
func EncodeJSON(schema types.Schema, records []types.Record) ([]byte, error) {
	return manager.EncodeJSON(schema, records)
}
