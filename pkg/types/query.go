package types

// Query selects and orders records for a search.
type Query struct {
	// Where maps field names (including id) to the value to match.
	// Conditions are ANDed; an empty map matches every record.
	Where map[string]string

	// Contains switches Where from exact matching to case-insensitive
	// substring matching.
	Contains bool

	// SortBy names the ordering field. Empty keeps file order.
	SortBy string

	// Desc reverses the ordering.
	Desc bool
}

// ImportResult reports what an import did with each candidate.
type ImportResult struct {
	Added   []int
	Skipped []int
}
