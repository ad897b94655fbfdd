package types

import "errors"

// RecordStore persists the full ordered record set for one schema.
// Load creates the backing file with only its header when it is absent.
type RecordStore interface {
	// Load returns every record in file order.
	Load() ([]Record, error)

	// Save replaces the stored records. On failure the previous content
	// remains intact.
	Save(records []Record) error

	// EraseAll discards every record, keeping the header.
	EraseAll() error
}

// Operation errors. Callers match them with errors.Is; the wrapped message
// carries the detail.
var (
	ErrIO         = errors.New("i/o error")
	ErrNotFound   = errors.New("record not found")
	ErrParse      = errors.New("parse error")
	ErrValidation = errors.New("validation error")
)
