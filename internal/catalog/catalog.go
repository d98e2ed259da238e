package catalog

import (
	"fmt"
	"slices"
	"sort"
)

// IDColumn is the primary key every collection table must carry.
// Keyset pagination orders and filters on it.
const IDColumn = "id"

// Collection describes one feature collection and the physical table behind it.
//
// Every identifier in a Collection has passed the catalogue schema, so the
// SQL compiler may emit them as quoted identifiers.
type Collection struct {
	ID             string // URL-facing collection id
	Title          string
	Description    string
	Schema         string // database schema, default "public"
	Table          string
	GeometryColumn string
	StorageSRID    int
	DatetimeColumn string   // empty when the collection has no temporal axis
	Columns        []string // property columns usable in attribute filters
	CRS            []int    // SRIDs accepted for output and bbox, ascending
}

// HasColumn reports whether name is a filterable property column.
// The id and geometry columns are never filterable.
func (c *Collection) HasColumn(name string) bool {
	if name == IDColumn || name == c.GeometryColumn {
		return false
	}
	return slices.Contains(c.Columns, name)
}

// SupportsCRS reports whether srid may be used for output or bbox filtering.
func (c *Collection) SupportsCRS(srid int) bool {
	return slices.Contains(c.CRS, srid)
}

// HasDatetime reports whether datetime filtering is available.
func (c *Collection) HasDatetime() bool {
	return c.DatetimeColumn != ""
}

// Limits bounds the page size for item requests.
type Limits struct {
	Default int
	Max     int
}

// Clamp applies the default to an unset limit and caps it at Max.
// Callers reject non-positive explicit limits before calling Clamp.
func (l Limits) Clamp(requested int, set bool) int {
	if !set {
		return l.Default
	}
	if requested > l.Max {
		return l.Max
	}
	return requested
}

// Catalog is the allow-list of collections that may be queried.
// A Catalog is immutable after Compile and safe for concurrent use.
type Catalog struct {
	Limits      Limits
	collections map[string]*Collection
}

// ErrUnknownCollection is returned by Lookup for ids not in the catalogue.
type ErrUnknownCollection struct {
	ID string
}

func (e *ErrUnknownCollection) Error() string {
	return fmt.Sprintf("unknown collection %q", e.ID)
}

// New builds a catalogue from already validated collections.
// Intended for tests and embedding; configuration files go through Compile.
func New(limits Limits, collections ...*Collection) *Catalog {
	c := &Catalog{
		Limits:      limits,
		collections: make(map[string]*Collection, len(collections)),
	}
	for _, coll := range collections {
		c.collections[coll.ID] = coll
	}
	return c
}

// Lookup returns the collection with the given id.
func (c *Catalog) Lookup(id string) (*Collection, error) {
	coll, ok := c.collections[id]
	if !ok {
		return nil, &ErrUnknownCollection{ID: id}
	}
	return coll, nil
}

// Collections returns all collections sorted by id.
func (c *Catalog) Collections() []*Collection {
	out := make([]*Collection, 0, len(c.collections))
	for _, coll := range c.collections {
		out = append(out, coll)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of collections.
func (c *Catalog) Len() int {
	return len(c.collections)
}
