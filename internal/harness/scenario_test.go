package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes a catalogue and a scenario into a temp dir and
// returns the scenario path.
func writeScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	catalog, err := os.ReadFile("testdata/catalog.cue")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.cue"), catalog, 0o644))

	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario_ResolvesCatalogRelativeToFile(t *testing.T) {
	path := writeScenario(t, `
name: ok
description: "resolves"
catalog: catalog.cue
collection: buildings
golden: true
`)
	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "catalog.cue"), s.Catalog)
	assert.True(t, s.Golden)
}

func TestLoadScenario_Params(t *testing.T) {
	path := writeScenario(t, `
name: params
description: "all params"
catalog: catalog.cue
collection: buildings
params:
  limit: "5"
  cursor: "7"
  bbox: "1,2,3,4"
  bbox-crs: "EPSG:3857"
  datetime: "2020-01-01T00:00:00Z"
  filter: "kind=school"
  crs: "EPSG:25832"
golden: true
`)
	s, err := LoadScenario(path)
	require.NoError(t, err)

	q := s.Params.Query()
	assert.Equal(t, "5", q.Limit)
	assert.Equal(t, "7", q.Cursor)
	assert.Equal(t, "1,2,3,4", q.BBox)
	assert.Equal(t, "EPSG:3857", q.BBoxCRS)
	assert.Equal(t, "2020-01-01T00:00:00Z", q.Datetime)
	assert.Equal(t, "kind=school", q.Filter)
	assert.Equal(t, "EPSG:25832", q.CRS)
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "unknown field",
			body: "name: x\ndescription: d\ncatalog: catalog.cue\ncollection: c\ngolden: true\nassertion: []\n",
			want: "failed to parse YAML",
		},
		{
			name: "missing name",
			body: "description: d\ncatalog: catalog.cue\ncollection: c\ngolden: true\n",
			want: "name is required",
		},
		{
			name: "missing description",
			body: "name: x\ncatalog: catalog.cue\ncollection: c\ngolden: true\n",
			want: "description is required",
		},
		{
			name: "missing catalog file",
			body: "name: x\ndescription: d\ncatalog: nope.cue\ncollection: c\ngolden: true\n",
			want: "catalog file not found",
		},
		{
			name: "missing collection",
			body: "name: x\ndescription: d\ncatalog: catalog.cue\ngolden: true\n",
			want: "collection is required",
		},
		{
			name: "nothing to check",
			body: "name: x\ndescription: d\ncatalog: catalog.cue\ncollection: c\n",
			want: "assertions list is required",
		},
		{
			name: "negative rows",
			body: "name: x\ndescription: d\ncatalog: catalog.cue\ncollection: c\nrows: -1\ngolden: true\n",
			want: "rows must be non-negative",
		},
		{
			name: "expect_error without code",
			body: "name: x\ndescription: d\ncatalog: catalog.cue\ncollection: c\nexpect_error:\n  param: bbox\n",
			want: "code is required",
		},
		{
			name: "expect_error with golden",
			body: "name: x\ndescription: d\ncatalog: catalog.cue\ncollection: c\ngolden: true\nexpect_error:\n  code: NOT_FOUND\n",
			want: "cannot be combined",
		},
		{
			name: "unknown assertion type",
			body: "name: x\ndescription: d\ncatalog: catalog.cue\ncollection: c\nassertions:\n  - type: sql_equals\n",
			want: `unknown assertion type "sql_equals"`,
		},
		{
			name: "missing statement",
			body: "name: x\ndescription: d\ncatalog: catalog.cue\ncollection: c\nassertions:\n  - type: sql_contains\n    text: WHERE\n",
			want: "statement is required",
		},
		{
			name: "unknown statement",
			body: "name: x\ndescription: d\ncatalog: catalog.cue\ncollection: c\nassertions:\n  - type: arg_count\n    statement: delete\n",
			want: `unknown statement "delete"`,
		},
		{
			name: "sql_contains without text",
			body: "name: x\ndescription: d\ncatalog: catalog.cue\ncollection: c\nassertions:\n  - type: sql_contains\n    statement: items\n",
			want: "text is required",
		},
		{
			name: "arg_contains without value",
			body: "name: x\ndescription: d\ncatalog: catalog.cue\ncollection: c\nassertions:\n  - type: arg_contains\n    statement: items\n",
			want: "value is required",
		},
		{
			name: "pages without count",
			body: "name: x\ndescription: d\ncatalog: catalog.cue\ncollection: c\nassertions:\n  - type: pages\n",
			want: "count must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
