package manager

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/csvmgr/internal/logging"
	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

// candidate is one parsed import object. hasID is false when the object
// carried no usable id and one must be allocated.
type candidate struct {
	id     int
	hasID  bool
	values map[string]string
}

// Import appends the records in the JSON file at path.
//
// A candidate whose id already exists in the store, or appeared earlier in
// the same file, is skipped. A candidate without an id is given the next free
// one. The whole file is parsed before anything changes and the store is
// saved once at the end, so a failed import leaves the file untouched.
func (m *Manager) Import(path string) (types.ImportResult, error) {
	log := logging.ForOperation(m.log, "import").With(zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("read failed", zap.Error(err))
		return types.ImportResult{}, fmt.Errorf("%w: reading %s: %v", types.ErrIO, path, err)
	}
	candidates, err := m.parseCandidates(data)
	if err != nil {
		log.Warn("parse failed", zap.Error(err))
		return types.ImportResult{}, fmt.Errorf("%s: %w", path, err)
	}

	records, err := m.store.Load()
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return types.ImportResult{}, err
	}

	result, records, err := assignIDs(records, candidates)
	if err != nil {
		log.Warn("import rejected", zap.Error(err))
		return types.ImportResult{}, err
	}

	if len(result.Added) > 0 {
		if err := m.store.Save(records); err != nil {
			log.Error("save failed", zap.Error(err))
			return types.ImportResult{}, err
		}
	}

	log.Info("records imported", zap.Int("added", len(result.Added)), zap.Ints("skipped", result.Skipped))
	return result, nil
}

// assignIDs appends candidates to records in file order. Explicit ids are
// settled first, so an allocated id never takes an id that a later candidate
// names. Missing ids are then allocated above every id in the store and the
// file.
func assignIDs(records []types.Record, candidates []candidate) (types.ImportResult, []types.Record, error) {
	taken := make(map[int]bool, len(records)+len(candidates))
	for _, r := range records {
		taken[r.ID] = true
	}
	reserved := slices.Clone(records)
	accepted := make([]bool, len(candidates))
	for i, c := range candidates {
		if !c.hasID || taken[c.id] {
			continue
		}
		taken[c.id] = true
		accepted[i] = true
		reserved = append(reserved, types.Record{ID: c.id})
	}

	var next int
	var result types.ImportResult
	for i, c := range candidates {
		id := c.id
		switch {
		case !c.hasID:
			if next == 0 {
				first, err := NextID(reserved)
				if err != nil {
					return types.ImportResult{}, nil, err
				}
				next = first
			}
			if next < 0 {
				return types.ImportResult{}, nil, fmt.Errorf("%w: id space exhausted", types.ErrValidation)
			}
			id = next
			if next == math.MaxInt {
				next = -1
			} else {
				next++
			}
		case !accepted[i]:
			result.Skipped = append(result.Skipped, id)
			continue
		}
		records = append(records, types.Record{ID: id, Values: c.values})
		result.Added = append(result.Added, id)
	}
	return result, records, nil
}

// parseCandidates decodes a JSON array of flat objects whose keys are the
// header fields. Every user field must be present; id is optional.
func (m *Manager) parseCandidates(data []byte) ([]candidate, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of objects: %v", types.ErrParse, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: expected a JSON array of objects, got null", types.ErrParse)
	}

	out := make([]candidate, 0, len(items))
	for i, item := range items {
		c, err := m.parseCandidate(item)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", types.ErrParse, i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *Manager) parseCandidate(item json.RawMessage) (candidate, error) {
	var obj map[string]any
	dec := json.NewDecoder(bytes.NewReader(item))
	dec.UseNumber()
	if err := dec.Decode(&obj); err != nil {
		return candidate{}, fmt.Errorf("not an object: %v", err)
	}
	if obj == nil {
		return candidate{}, fmt.Errorf("not an object: null")
	}

	c := candidate{values: make(map[string]string, len(obj))}
	for key, raw := range obj {
		if key == types.FieldID {
			id, ok, err := parseID(raw)
			if err != nil {
				return candidate{}, err
			}
			c.id, c.hasID = id, ok
			continue
		}
		if !m.schema.Has(key) {
			return candidate{}, fmt.Errorf("unknown field %q", key)
		}
		switch v := raw.(type) {
		case string:
			c.values[key] = v
		case json.Number:
			c.values[key] = v.String()
		default:
			return candidate{}, fmt.Errorf("field %q: expected a string, got %T", key, raw)
		}
	}
	for _, f := range m.schema.Fields() {
		if _, ok := c.values[f]; !ok {
			return candidate{}, fmt.Errorf("missing field %q", f)
		}
	}
	return c, nil
}

// parseID accepts a positive integer as a JSON number or a digit string.
// null and "" mean the candidate has no id.
func parseID(raw any) (int, bool, error) {
	var text string
	switch v := raw.(type) {
	case nil:
		return 0, false, nil
	case json.Number:
		text = v.String()
	case string:
		if v == "" {
			return 0, false, nil
		}
		text = v
	default:
		return 0, false, fmt.Errorf("id: expected an integer, got %T", raw)
	}

	id, err := strconv.Atoi(text)
	if err != nil {
		return 0, false, fmt.Errorf("id %q is not an integer", text)
	}
	if id <= 0 {
		return 0, false, fmt.Errorf("id %d is not positive", id)
	}
	return id, true, nil
}
