package types

import "strconv"

// FieldID is the name of the system-assigned identifier column.
const FieldID = "id"

// Schema is the ordered set of user-defined fields. The id column is implied
// and always comes first.
type Schema struct {
	fields []string
}

// Fields returns the user-defined field names in column order.
func (s Schema) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Header returns the full CSV header: id followed by the user fields.
func (s Schema) Header() []string {
	return append([]string{FieldID}, s.fields...)
}

// Has reports whether name is a user-defined field.
func (s Schema) Has(name string) bool {
	for _, f := range s.fields {
		if f == name {
			return true
		}
	}
	return false
}

// Record is one row of the managed dataset.
type Record struct {
	ID     int
	Values map[string]string
}

// Get returns the value of a user field, or "" when unset.
func (r Record) Get(field string) string {
	return r.Values[field]
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	values := make(map[string]string, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	return Record{ID: r.ID, Values: values}
}

// Row returns the record's cells in schema header order.
func (r Record) Row(s Schema) []string {
	row := make([]string, 0, len(s.fields)+1)
	row = append(row, strconv.Itoa(r.ID))
	for _, f := range s.fields {
		row = append(row, r.Values[f])
	}
	return row
}
