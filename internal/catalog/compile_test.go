package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/featureql/internal/crs"
)

const buildingsCUE = `
limits: { default_limit: 20, max_limit: 500 }

collections: buildings: {
	title:           "Buildings"
	table:           "buildings"
	storage_crs:     25832
	datetime_column: "built_at"
	columns:         ["name", "height", "kind"]
	crs:             [3857]
}

collections: parcels: {
	schema: "cadastre"
	table:  "parcels"
}
`

func compileString(t *testing.T, src string) (*Catalog, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return Compile(v, crs.Default())
}

func TestCompile_Basic(t *testing.T) {
	cat, err := compileString(t, buildingsCUE)
	require.NoError(t, err)

	assert.Equal(t, Limits{Default: 20, Max: 500}, cat.Limits)
	assert.Equal(t, 2, cat.Len())

	b, err := cat.Lookup("buildings")
	require.NoError(t, err)
	assert.Equal(t, "Buildings", b.Title)
	assert.Equal(t, "public", b.Schema)
	assert.Equal(t, "buildings", b.Table)
	assert.Equal(t, "geom", b.GeometryColumn)
	assert.Equal(t, 25832, b.StorageSRID)
	assert.Equal(t, "built_at", b.DatetimeColumn)
	assert.Equal(t, []string{"name", "height", "kind"}, b.Columns)
	assert.Equal(t, []int{3857, 4326, 25832}, b.CRS)
}

func TestCompile_Defaults(t *testing.T) {
	cat, err := compileString(t, `collections: roads: table: "roads"`)
	require.NoError(t, err)

	assert.Equal(t, Limits{Default: 10, Max: 1000}, cat.Limits)

	r, err := cat.Lookup("roads")
	require.NoError(t, err)
	assert.Equal(t, "roads", r.Title)
	assert.Equal(t, 4326, r.StorageSRID)
	assert.Empty(t, r.Columns)
	assert.False(t, r.HasDatetime())
	assert.Equal(t, []int{4326}, r.CRS)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "no collections",
			src:  `limits: default_limit: 5`,
			want: "at least one collection",
		},
		{
			name: "missing table",
			src:  `collections: roads: { title: "Roads" }`,
			want: "table",
		},
		{
			name: "table is not an identifier",
			src:  `collections: roads: table: "roads; DROP TABLE x"`,
			want: "roads",
		},
		{
			name: "id as property column",
			src:  `collections: roads: { table: "roads", columns: ["id"] }`,
			want: "cannot be a property column",
		},
		{
			name: "geometry as property column",
			src:  `collections: roads: { table: "roads", geometry_column: "shape", columns: ["shape"] }`,
			want: "cannot be a property column",
		},
		{
			name: "duplicate column",
			src:  `collections: roads: { table: "roads", columns: ["name", "name"] }`,
			want: "duplicate column",
		},
		{
			name: "unregistered srid",
			src:  `collections: roads: { table: "roads", crs: [9999] }`,
			want: "SRID 9999 is not registered",
		},
		{
			name: "default above max",
			src: `
				limits: { default_limit: 50, max_limit: 10 }
				collections: roads: table: "roads"`,
			want: "exceeds max_limit",
		},
		{
			name: "unknown field",
			src:  `collections: roads: { table: "roads", colour: "red" }`,
			want: "colour",
		},
		{
			name: "bad collection id",
			src:  `collections: "road network": table: "roads"`,
			want: "invalid collection id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileString(t, tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "collections.cue")
	require.NoError(t, os.WriteFile(path, []byte(buildingsCUE), 0o644))

	cat, err := Load(path, crs.Default())
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	ids := []string{}
	for _, c := range cat.Collections() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"buildings", "parcels"}, ids)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"), crs.Default())
	assert.ErrorContains(t, err, "read catalog")
}

func TestLoad_SyntaxErrorHasPosition(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.cue")
	require.NoError(t, os.WriteFile(path, []byte("collections: {\n"), 0o644))

	_, err := Load(path, crs.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.cue")
}
