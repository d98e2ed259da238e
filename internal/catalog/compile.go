package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/featureql/internal/crs"
)

//go:embed schema.cue
var schemaCUE string

// Collection ids appear in URL paths.
var collectionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// CompileError reports an invalid catalogue definition.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads a CUE catalogue file and compiles it.
func Load(path string, reg *crs.Registry) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return Compile(v, reg)
}

// Compile validates a CUE value against the catalogue schema and extracts
// the collections. Every SRID must be known to reg.
//
// Expected shape:
//
//	limits: { default_limit: 10, max_limit: 1000 }
//	collections: buildings: {
//	    table: "buildings"
//	    storage_crs: 25832
//	    datetime_column: "built_at"
//	    columns: ["name", "height"]
//	    crs: [4326, 3857, 25832]
//	}
func Compile(v cue.Value, reg *crs.Registry) (*Catalog, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schema := v.Context().CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("catalog schema: %w", err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	limits, err := compileLimits(unified.LookupPath(cue.ParsePath("limits")))
	if err != nil {
		return nil, err
	}

	collectionsVal := unified.LookupPath(cue.ParsePath("collections"))
	if !collectionsVal.Exists() {
		return nil, &CompileError{Field: "collections", Message: "at least one collection is required", Pos: v.Pos()}
	}

	iter, err := collectionsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var collections []*Collection
	for iter.Next() {
		coll, err := CompileCollection(iter.Label(), iter.Value(), reg)
		if err != nil {
			return nil, err
		}
		collections = append(collections, coll)
	}
	if len(collections) == 0 {
		return nil, &CompileError{Field: "collections", Message: "at least one collection is required", Pos: collectionsVal.Pos()}
	}

	return New(limits, collections...), nil
}

func compileLimits(v cue.Value) (Limits, error) {
	def, err := v.LookupPath(cue.ParsePath("default_limit")).Int64()
	if err != nil {
		return Limits{}, formatCUEError(err)
	}
	maxLimit, err := v.LookupPath(cue.ParsePath("max_limit")).Int64()
	if err != nil {
		return Limits{}, formatCUEError(err)
	}
	if def > maxLimit {
		return Limits{}, &CompileError{
			Field:   "limits",
			Message: fmt.Sprintf("default_limit %d exceeds max_limit %d", def, maxLimit),
			Pos:     v.Pos(),
		}
	}
	return Limits{Default: int(def), Max: int(maxLimit)}, nil
}

// CompileCollection parses one collection definition. The value must already
// be unified with the catalogue schema so defaults are filled in.
func CompileCollection(id string, v cue.Value, reg *crs.Registry) (*Collection, error) {
	if !collectionIDPattern.MatchString(id) {
		return nil, &CompileError{Field: "collections", Message: fmt.Sprintf("invalid collection id %q", id), Pos: v.Pos()}
	}

	coll := &Collection{ID: id}
	var err error

	if coll.Title, err = optionalString(v, "title"); err != nil {
		return nil, err
	}
	if coll.Description, err = optionalString(v, "description"); err != nil {
		return nil, err
	}
	if coll.Schema, err = optionalString(v, "schema"); err != nil {
		return nil, err
	}
	if coll.Table, err = optionalString(v, "table"); err != nil {
		return nil, err
	}
	if coll.GeometryColumn, err = optionalString(v, "geometry_column"); err != nil {
		return nil, err
	}
	if coll.DatetimeColumn, err = optionalString(v, "datetime_column"); err != nil {
		return nil, err
	}
	if coll.Title == "" {
		coll.Title = id
	}

	storage, err := v.LookupPath(cue.ParsePath("storage_crs")).Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	coll.StorageSRID = int(storage)

	coll.Columns, err = compileColumns(coll, v.LookupPath(cue.ParsePath("columns")))
	if err != nil {
		return nil, err
	}

	coll.CRS, err = compileCRS(coll, v.LookupPath(cue.ParsePath("crs")), reg)
	if err != nil {
		return nil, err
	}

	return coll, nil
}

func compileColumns(coll *Collection, v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	seen := make(map[string]bool)
	var cols []string
	for iter.Next() {
		name, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		switch {
		case name == IDColumn, name == coll.GeometryColumn:
			return nil, &CompileError{
				Field:   "columns",
				Message: fmt.Sprintf("collection %q: column %q cannot be a property column", coll.ID, name),
				Pos:     iter.Value().Pos(),
			}
		case seen[name]:
			return nil, &CompileError{
				Field:   "columns",
				Message: fmt.Sprintf("collection %q: duplicate column %q", coll.ID, name),
				Pos:     iter.Value().Pos(),
			}
		}
		seen[name] = true
		cols = append(cols, name)
	}
	return cols, nil
}

// compileCRS returns the supported SRIDs. The storage SRID and the default
// output SRID are always supported.
func compileCRS(coll *Collection, v cue.Value, reg *crs.Registry) ([]int, error) {
	set := map[int]bool{
		coll.StorageSRID: true,
		crs.DefaultSRID:  true,
	}

	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		srid, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		set[int(srid)] = true
	}

	out := make([]int, 0, len(set))
	for srid := range set {
		if _, ok := reg.Lookup(srid); !ok {
			return nil, &CompileError{
				Field:   "crs",
				Message: fmt.Sprintf("collection %q: SRID %d is not registered", coll.ID, srid),
				Pos:     v.Pos(),
			}
		}
		out = append(out, srid)
	}
	sort.Ints(out)
	return out, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
