package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/csvmgr/pkg/types"
)

func newTestStore(t *testing.T, fields ...string) *Store {
	t.Helper()
	if len(fields) == 0 {
		fields = []string{"name"}
	}
	schema, err := types.NewSchema(fields)
	require.NoError(t, err)
	return New(filepath.Join(t.TempDir(), "data", "data.csv"), schema)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestLoadCreatesMissingFileWithHeader(t *testing.T) {
	s := newTestStore(t, "name", "value")

	records, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, "id,name,value\n", readFile(t, s.Path()))
}

func TestInitKeepsExistingFile(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Path(), "id,name\n1,Alice\n")

	require.NoError(t, s.Init())
	assert.Equal(t, "id,name\n1,Alice\n", readFile(t, s.Path()))
}

func TestLoadReadsRecordsInOrder(t *testing.T) {
	s := newTestStore(t, "name", "value")
	writeFile(t, s.Path(), "id,name,value\n3,Carol,c\n1,Alice,a\n")

	records, err := s.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 3, records[0].ID)
	assert.Equal(t, "Carol", records[0].Get("name"))
	assert.Equal(t, 1, records[1].ID)
	assert.Equal(t, "a", records[1].Get("value"))
}

func TestLoadAcceptsByteOrderMark(t *testing.T) {
	s := newTestStore(t)
	writeFile(t, s.Path(), "\ufeffid,name\n1,Alice\n")

	records, err := s.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "empty file", content: "", wantErr: types.ErrValidation},
		{name: "header mismatch", content: "id,title\n", wantErr: types.ErrValidation},
		{name: "header column count", content: "id,name,extra\n", wantErr: types.ErrValidation},
		{name: "row column count", content: "id,name\n1,Alice,extra\n", wantErr: types.ErrValidation},
		{name: "non-integer id", content: "id,name\nx,Alice\n", wantErr: types.ErrParse},
		{name: "leading zero id", content: "id,name\n01,Alice\n", wantErr: types.ErrParse},
		{name: "plus-signed id", content: "id,name\n+1,Alice\n", wantErr: types.ErrParse},
		{name: "non-positive id", content: "id,name\n0,Alice\n", wantErr: types.ErrValidation},
		{name: "duplicate id", content: "id,name\n1,Alice\n1,Bob\n", wantErr: types.ErrValidation},
		{name: "bad quoting", content: "id,name\n1,\"Ali\"ce\n", wantErr: types.ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			writeFile(t, s.Path(), tt.content)

			_, err := s.Load()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
		})
	}
}

func TestLoadUnreadableIsIOError(t *testing.T) {
	s := newTestStore(t)
	// A directory in place of the file cannot be read as CSV.
	require.NoError(t, os.MkdirAll(s.Path(), 0o755))

	_, err := s.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrIO)
}

func TestSaveLoadIsByteIdempotent(t *testing.T) {
	s := newTestStore(t, "nama kapal", "muatan")
	content := "id,nama kapal,muatan\n1,KM Sinar,\"beras, gula\"\n4,\"KM \"\"Jaya\"\"\",\n7,Ölfrachter,kopi\n"
	writeFile(t, s.Path(), content)

	records, err := s.Load()
	require.NoError(t, err)
	require.NoError(t, s.Save(records))

	assert.Equal(t, content, readFile(t, s.Path()))
}

func TestSaveWritesHeaderAndRows(t *testing.T) {
	s := newTestStore(t, "name")
	records := []types.Record{
		{ID: 2, Values: map[string]string{"name": "Bob"}},
		{ID: 3, Values: map[string]string{"name": "Carol"}},
	}

	require.NoError(t, s.Save(records))
	assert.Equal(t, "id,name\n2,Bob\n3,Carol\n", readFile(t, s.Path()))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save([]types.Record{{ID: 1, Values: map[string]string{"name": "A"}}}))

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "data.csv", entries[0].Name())
}

func TestSaveFailureKeepsPreviousContent(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	s := newTestStore(t)
	writeFile(t, s.Path(), "id,name\n1,Alice\n")

	dir := filepath.Dir(s.Path())
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	err := s.Save(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrIO)
	assert.Equal(t, "id,name\n1,Alice\n", readFile(t, s.Path()))
}

func TestEraseAllKeepsHeader(t *testing.T) {
	s := newTestStore(t, "name", "value")
	writeFile(t, s.Path(), "id,name,value\n1,Alice,a\n2,Bob,b\n")

	require.NoError(t, s.EraseAll())
	assert.Equal(t, "id,name,value\n", readFile(t, s.Path()))

	records, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWriteAtomicWriterErrorRemovesTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	writeFile(t, path, "old")

	err := WriteAtomic(path, func(w io.Writer) error {
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, "old", readFile(t, path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
