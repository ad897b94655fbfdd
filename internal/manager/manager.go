// Package manager implements the record operations of csvmgr on top of the
// CSV store: create, update, delete, erase, search, backup, and JSON
// export/import. Every operation reloads the store, so a Manager holds no
// record state between calls.
package manager

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/csvmgr/internal/index"
	"github.com/mesh-intelligence/csvmgr/internal/logging"
	"github.com/mesh-intelligence/csvmgr/internal/store"
	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

// Manager runs record operations against one CSV store and backup directory.
type Manager struct {
	store     *store.Store
	schema    types.Schema
	backupDir string
	now       func() time.Time
	log       *zap.Logger
}

// Option customizes a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithClock sets the time source used for backup names.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New validates cfg and returns a Manager for it. The data file is created
// with its header if it does not exist yet.
func New(cfg types.Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrValidation, err)
	}
	schema, err := cfg.Schema()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrValidation, err)
	}

	m := &Manager{
		store:     store.New(cfg.DataFile, schema),
		schema:    schema,
		backupDir: cfg.BackupDir,
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.store.Init(); err != nil {
		return nil, err
	}
	return m, nil
}

// Schema returns the column layout of the managed file.
func (m *Manager) Schema() types.Schema {
	return m.schema
}

// DataFile returns the path of the live CSV file.
func (m *Manager) DataFile() string {
	return m.store.Path()
}

// BackupDir returns the directory backups are written to.
func (m *Manager) BackupDir() string {
	return m.backupDir
}

// View returns every record in file order.
func (m *Manager) View() ([]types.Record, error) {
	log := logging.ForOperation(m.log, "view")
	records, err := m.store.Load()
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return nil, err
	}
	log.Debug("records loaded", zap.Int("count", len(records)))
	return records, nil
}

// Get returns the record with the given id.
func (m *Manager) Get(id int) (types.Record, error) {
	records, err := m.store.Load()
	if err != nil {
		return types.Record{}, err
	}
	i := indexOf(records, id)
	if i < 0 {
		return types.Record{}, notFound(id)
	}
	return records[i], nil
}

// Add appends a record built from values, which must name every user field
// exactly once. The new id comes from NextID.
func (m *Manager) Add(values map[string]string) (types.Record, error) {
	log := logging.ForOperation(m.log, "add")

	if err := m.checkComplete(values); err != nil {
		log.Warn("add rejected", zap.Error(err))
		return types.Record{}, err
	}
	records, err := m.store.Load()
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return types.Record{}, err
	}

	id, err := NextID(records)
	if err != nil {
		log.Warn("add rejected", zap.Error(err))
		return types.Record{}, err
	}
	rec := types.Record{ID: id, Values: make(map[string]string, len(values))}
	for k, v := range values {
		rec.Values[k] = v
	}
	if err := m.store.Save(append(records, rec)); err != nil {
		log.Error("save failed", zap.Error(err))
		return types.Record{}, err
	}

	log.Info("record added", zap.Int("id", rec.ID))
	return rec, nil
}

// Update replaces the given fields of record id and leaves the others alone.
// The file is not written when id does not exist.
func (m *Manager) Update(id int, values map[string]string) (types.Record, error) {
	log := logging.ForOperation(m.log, "update").With(zap.Int("id", id))

	if err := m.checkPartial(values); err != nil {
		log.Warn("update rejected", zap.Error(err))
		return types.Record{}, err
	}
	records, err := m.store.Load()
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return types.Record{}, err
	}
	i := indexOf(records, id)
	if i < 0 {
		log.Warn("record not found")
		return types.Record{}, notFound(id)
	}

	rec := records[i].Clone()
	for k, v := range values {
		rec.Values[k] = v
	}
	records[i] = rec
	if err := m.store.Save(records); err != nil {
		log.Error("save failed", zap.Error(err))
		return types.Record{}, err
	}

	log.Info("record updated", zap.Strings("fields", slices.Sorted(maps.Keys(values))))
	return rec, nil
}

// Delete removes record id. Remaining ids are not renumbered.
func (m *Manager) Delete(id int) error {
	log := logging.ForOperation(m.log, "delete").With(zap.Int("id", id))

	records, err := m.store.Load()
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return err
	}
	i := indexOf(records, id)
	if i < 0 {
		log.Warn("record not found")
		return notFound(id)
	}
	if err := m.store.Save(slices.Delete(records, i, i+1)); err != nil {
		log.Error("save failed", zap.Error(err))
		return err
	}

	log.Info("record deleted")
	return nil
}

// EraseAll removes every record, keeping the header, and returns how many
// records were removed.
func (m *Manager) EraseAll() (int, error) {
	log := logging.ForOperation(m.log, "erase")

	records, err := m.store.Load()
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return 0, err
	}
	if err := m.store.EraseAll(); err != nil {
		log.Error("erase failed", zap.Error(err))
		return 0, err
	}

	log.Info("all records erased", zap.Int("count", len(records)))
	return len(records), nil
}

// Find returns the records matching q, ordered as q requests.
func (m *Manager) Find(q types.Query) ([]types.Record, error) {
	log := logging.ForOperation(m.log, "find")

	records, err := m.store.Load()
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return nil, err
	}

	ix, err := index.Build(m.schema, records)
	if err != nil {
		log.Error("index build failed", zap.Error(err))
		return nil, err
	}
	defer ix.Close()

	ids, err := ix.Find(q)
	if err != nil {
		log.Warn("query rejected", zap.Error(err))
		return nil, err
	}
	log.Debug("query matched", zap.Int("count", len(ids)), zap.Any("where", q.Where))

	byID := make(map[int]types.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	out := make([]types.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out, nil
}

// checkComplete requires values to name every user field and nothing else.
func (m *Manager) checkComplete(values map[string]string) error {
	if err := m.checkPartial(values); err != nil {
		return err
	}
	for _, f := range m.schema.Fields() {
		if _, ok := values[f]; !ok {
			return fmt.Errorf("%w: missing field %q", types.ErrValidation, f)
		}
	}
	return nil
}

// checkPartial requires every key of values to be a user field.
func (m *Manager) checkPartial(values map[string]string) error {
	for k := range values {
		if k == types.FieldID {
			return fmt.Errorf("%w: %q is assigned by the system", types.ErrValidation, types.FieldID)
		}
		if !m.schema.Has(k) {
			return fmt.Errorf("%w: unknown field %q", types.ErrValidation, k)
		}
	}
	return nil
}

func indexOf(records []types.Record, id int) int {
	return slices.IndexFunc(records, func(r types.Record) bool { return r.ID == id })
}

func notFound(id int) error {
	return fmt.Errorf("%w: id %d", types.ErrNotFound, id)
}
