package manager

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/csvmgr/internal/logging"
	"github.com/mesh-intelligence/csvmgr/internal/store"
	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

// Export writes every record to path as a JSON array of objects and returns
// the number of records written. Keys follow the CSV header order; id is a
// number and every other value a string.
func (m *Manager) Export(path string) (int, error) {
	log := logging.ForOperation(m.log, "export").With(zap.String("path", path))

	records, err := m.store.Load()
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return 0, err
	}

	data, err := EncodeJSON(m.schema, records)
	if err != nil {
		return 0, err
	}
	if err := store.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		log.Error("write failed", zap.Error(err))
		return 0, fmt.Errorf("%w: exporting to %s: %v", types.ErrIO, path, err)
	}

	log.Info("records exported", zap.Int("count", len(records)))
	return len(records), nil
}

// EncodeJSON renders records as an indented JSON array with keys in
// schema order. encoding/json sorts map keys, so objects are assembled by
// hand from individually encoded keys and values.
func EncodeJSON(schema types.Schema, records []types.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`{"id":`)
		fmt.Fprintf(&buf, "%d", r.ID)
		for _, f := range schema.Fields() {
			buf.WriteByte(',')
			if err := writeJSONString(&buf, f); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			if err := writeJSONString(&buf, r.Values[f]); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("indenting export: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// writeJSONString encodes s without HTML escaping so exported text reads the
// same as the CSV.
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding %q: %w", s, err)
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
