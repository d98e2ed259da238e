package queryir

import (
	"strings"

	"github.com/roach88/featureql/internal/catalog"
)

// ParseFilter splits a "column=value" filter parameter at the first '='.
// The value may itself contain '=' and may be empty.
func ParseFilter(raw string) (column, value string, err error) {
	column, value, ok := strings.Cut(raw, "=")
	if !ok {
		return "", "", NewInvalidParameter("filter", "expected column=value")
	}
	column = strings.TrimSpace(column)
	if column == "" {
		return "", "", NewInvalidParameter("filter", "empty column name")
	}
	return column, value, nil
}

// NewAttributeEquals validates column against the collection's property
// columns. The id and geometry columns are rejected like any unknown name.
// The value is bound exactly as given.
func NewAttributeEquals(coll *catalog.Collection, column, value string) (*AttributeEquals, error) {
	if !coll.HasColumn(column) {
		return nil, NewInvalidParameter("filter", "unknown column %q for collection %q", column, coll.ID)
	}
	return &AttributeEquals{Column: column, Value: value}, nil
}
