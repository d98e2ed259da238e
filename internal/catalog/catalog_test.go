package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollection_HasColumn(t *testing.T) {
	c := &Collection{GeometryColumn: "geom", Columns: []string{"name", "kind"}}

	assert.True(t, c.HasColumn("name"))
	assert.False(t, c.HasColumn("missing"))
	assert.False(t, c.HasColumn("id"))
	assert.False(t, c.HasColumn("geom"))
}

func TestLimits_Clamp(t *testing.T) {
	l := Limits{Default: 10, Max: 100}

	assert.Equal(t, 10, l.Clamp(0, false))
	assert.Equal(t, 5, l.Clamp(5, true))
	assert.Equal(t, 100, l.Clamp(100, true))
	assert.Equal(t, 100, l.Clamp(5000, true))
}

func TestCatalog_LookupUnknown(t *testing.T) {
	cat := New(Limits{Default: 1, Max: 1}, &Collection{ID: "a"})

	_, err := cat.Lookup("b")
	var unknown *ErrUnknownCollection
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, "b", unknown.ID)
}
