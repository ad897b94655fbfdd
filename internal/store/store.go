// Package store persists records in a CSV file with a header row.
// The file is the source of truth: every operation loads it in full and
// every mutation rewrites it atomically.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

// Store implements types.RecordStore for one CSV file.
type Store struct {
	path   string
	schema types.Schema
}

var _ types.RecordStore = (*Store)(nil)

// New returns a Store for the CSV file at path. The file is not touched until
// the first call.
func New(path string, schema types.Schema) *Store {
	return &Store{path: path, schema: schema}
}

// Path returns the location of the CSV file.
func (s *Store) Path() string {
	return s.path
}

// Schema returns the column layout the store reads and writes.
func (s *Store) Schema() types.Schema {
	return s.schema
}

// Init creates the CSV file with only its header if it does not exist.
func (s *Store) Init() error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %v", types.ErrIO, s.path, err)
	}
	return s.Save(nil)
}

// Load reads every record in file order. A missing file is created with its
// header and yields no records.
func (s *Store) Load() ([]types.Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.Init(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", types.ErrIO, s.path, err)
	}
	defer f.Close()

	return s.decode(f)
}

func (s *Store) decode(r io.Reader) ([]types.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: missing header row", types.ErrValidation, s.path)
	}
	if err != nil {
		return nil, readError(s.path, err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	if err := s.checkHeader(header); err != nil {
		return nil, err
	}

	fields := s.schema.Fields()
	seen := make(map[int]bool)
	var records []types.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(s.path, err)
		}
		line, _ := cr.FieldPos(0)
		if len(row) != len(header) {
			return nil, fmt.Errorf("%w: %s line %d: expected %d columns, got %d",
				types.ErrValidation, s.path, line, len(header), len(row))
		}

		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: id %q is not an integer", types.ErrParse, s.path, line, row[0])
		}
		// Ids must be spelled the way Save writes them.
		if strconv.Itoa(id) != row[0] {
			return nil, fmt.Errorf("%w: %s line %d: id %q is not in canonical form", types.ErrParse, s.path, line, row[0])
		}
		if id <= 0 {
			return nil, fmt.Errorf("%w: %s line %d: id %d is not positive", types.ErrValidation, s.path, line, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %s line %d: duplicate id %d", types.ErrValidation, s.path, line, id)
		}
		seen[id] = true

		values := make(map[string]string, len(fields))
		for i, f := range fields {
			values[f] = row[i+1]
		}
		records = append(records, types.Record{ID: id, Values: values})
	}
	return records, nil
}

func (s *Store) checkHeader(header []string) error {
	want := s.schema.Header()
	if len(header) != len(want) {
		return fmt.Errorf("%w: %s: header has %d columns, expected %d (%v)",
			types.ErrValidation, s.path, len(header), len(want), want)
	}
	for i := range want {
		if header[i] != want[i] {
			return fmt.Errorf("%w: %s: header column %d is %q, expected %q",
				types.ErrValidation, s.path, i+1, header[i], want[i])
		}
	}
	return nil
}

// readError classifies a csv.Reader failure: syntax problems are parse
// errors, anything else came from the underlying file.
func readError(path string, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return fmt.Errorf("%w: %s: %v", types.ErrParse, path, err)
	}
	return fmt.Errorf("%w: reading %s: %v", types.ErrIO, path, err)
}

// Save atomically replaces the file with the header and the given records.
func (s *Store) Save(records []types.Record) error {
	err := WriteAtomic(s.path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(s.schema.Header()); err != nil {
			return err
		}
		for _, r := range records {
			if err := cw.Write(r.Row(s.schema)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return fmt.Errorf("%w: saving %s: %v", types.ErrIO, s.path, err)
	}
	return nil
}

// EraseAll rewrites the file with only its header.
func (s *Store) EraseAll() error {
	return s.Save(nil)
}
