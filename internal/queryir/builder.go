package queryir

import (
	"strconv"
	"strings"

	"github.com/roach88/featureql/internal/catalog"
	"github.com/roach88/featureql/internal/crs"
)

// Params holds the raw, untrusted item-request parameters.
// Empty strings mean "not supplied".
type Params struct {
	Limit    string
	Cursor   string
	BBox     string
	BBoxCRS  string
	Datetime string
	Filter   string
	CRS      string
}

// Builder accumulates validated predicates for one request.
//
// Each setter validates its input and either attaches the predicate,
// replacing any previous predicate of the same kind, or returns an
// INVALID_PARAMETER / UNSUPPORTED_PARAMETER error and leaves the builder
// unchanged. A Builder is not safe for concurrent use; create one per request.
type Builder struct {
	coll     *catalog.Collection
	registry *crs.Registry
	limits   catalog.Limits
	spec     QuerySpec
}

// NewBuilder starts a query against coll with the default limit, no cursor
// and the default output CRS.
func NewBuilder(coll *catalog.Collection, registry *crs.Registry, limits catalog.Limits) *Builder {
	return &Builder{
		coll:     coll,
		registry: registry,
		limits:   limits,
		spec: QuerySpec{
			Collection:  coll,
			Limit:       limits.Default,
			Cursor:      NoCursor,
			OutputSRID:  crs.DefaultSRID,
			StorageSRID: coll.StorageSRID,
		},
	}
}

// ResolveCollection looks up id in cat, mapping a miss to NOT_FOUND.
func ResolveCollection(cat *catalog.Catalog, id string) (*catalog.Collection, error) {
	coll, err := cat.Lookup(id)
	if err != nil {
		return nil, NewNotFound(id)
	}
	return coll, nil
}

// FromParams builds a QuerySpec from raw request parameters.
//
// The output CRS is resolved first because it is the default CRS for bbox.
func FromParams(coll *catalog.Collection, registry *crs.Registry, limits catalog.Limits, p Params) (QuerySpec, error) {
	b := NewBuilder(coll, registry, limits)

	if p.CRS != "" {
		srid, err := b.resolveCRS("crs", p.CRS)
		if err != nil {
			return QuerySpec{}, err
		}
		b.OutputCRS(srid)
	}

	if p.BBox != "" {
		bounds, inline, err := ParseBBox(p.BBox)
		if err != nil {
			return QuerySpec{}, err
		}
		crsID := p.BBoxCRS
		if inline != "" {
			if crsID != "" && crsID != inline {
				return QuerySpec{}, NewInvalidParameter("bbox-crs", "conflicts with crs element of bbox")
			}
			crsID = inline
		}
		srid := 0
		if crsID != "" {
			if srid, err = b.resolveCRS("bbox-crs", crsID); err != nil {
				return QuerySpec{}, err
			}
		}
		if err := b.BBox(bounds, srid); err != nil {
			return QuerySpec{}, err
		}
	} else if p.BBoxCRS != "" {
		return QuerySpec{}, NewInvalidParameter("bbox-crs", "given without bbox")
	}

	if p.Datetime != "" {
		if err := b.Datetime(p.Datetime); err != nil {
			return QuerySpec{}, err
		}
	}

	if p.Filter != "" {
		column, value, err := ParseFilter(p.Filter)
		if err != nil {
			return QuerySpec{}, err
		}
		if err := b.Filter(column, value); err != nil {
			return QuerySpec{}, err
		}
	}

	if p.Limit != "" {
		n, err := strconv.Atoi(strings.TrimSpace(p.Limit))
		if err != nil {
			return QuerySpec{}, NewInvalidParameter("limit", "not an integer: %q", p.Limit)
		}
		if err := b.Limit(n); err != nil {
			return QuerySpec{}, err
		}
	}

	if p.Cursor != "" {
		c, err := strconv.ParseInt(strings.TrimSpace(p.Cursor), 10, 64)
		if err != nil {
			return QuerySpec{}, NewInvalidParameter("cursor", "not an integer: %q", p.Cursor)
		}
		if err := b.Cursor(c); err != nil {
			return QuerySpec{}, err
		}
	}

	return b.Build()
}

func (b *Builder) resolveCRS(param, id string) (int, error) {
	def, err := b.registry.Resolve(id)
	if err != nil {
		return 0, NewInvalidParameter(param, "%v", err)
	}
	if !b.coll.SupportsCRS(def.SRID) {
		return 0, NewInvalidParameter(param, "SRID %d is not supported by collection %q", def.SRID, b.coll.ID)
	}
	return def.SRID, nil
}

// Limit sets the page size. Values above the configured maximum are capped.
func (b *Builder) Limit(n int) error {
	if n <= 0 {
		return NewInvalidParameter("limit", "must be greater than 0, got %d", n)
	}
	b.spec.Limit = b.limits.Clamp(n, true)
	return nil
}

// Cursor sets the keyset lower bound: only ids greater than c are returned.
func (b *Builder) Cursor(c int64) error {
	if c < NoCursor {
		return NewInvalidParameter("cursor", "must be >= %d, got %d", NoCursor, c)
	}
	b.spec.Cursor = c
	return nil
}

// OutputCRS sets the SRID of returned geometries. The SRID must already be
// validated against the collection.
func (b *Builder) OutputCRS(srid int) {
	b.spec.OutputSRID = srid
}

// BBox attaches a bbox predicate. srid 0 means the bounds are in the output CRS.
func (b *Builder) BBox(bounds [4]float64, srid int) error {
	if srid == 0 {
		srid = b.spec.OutputSRID
	}
	def, ok := b.registry.Lookup(srid)
	if !ok || !b.coll.SupportsCRS(srid) {
		return NewInvalidParameter("bbox-crs", "SRID %d is not supported by collection %q", srid, b.coll.ID)
	}
	pred, err := NewBBox(bounds, def)
	if err != nil {
		return err
	}
	b.spec.BBox = pred
	return nil
}

// Datetime attaches a datetime predicate on the collection's timestamp column.
func (b *Builder) Datetime(raw string) error {
	if !b.coll.HasDatetime() {
		return NewUnsupportedParameter("datetime", "collection %q has no datetime column", b.coll.ID)
	}
	pred, err := ParseDatetime(b.coll.DatetimeColumn, raw)
	if err != nil {
		return err
	}
	b.spec.Datetime = pred
	return nil
}

// Filter attaches an attribute equality predicate.
func (b *Builder) Filter(column, value string) error {
	pred, err := NewAttributeEquals(b.coll, column, value)
	if err != nil {
		return err
	}
	b.spec.Attribute = pred
	return nil
}

// Build returns a validated copy of the accumulated spec. Later builder
// calls do not affect a spec already returned.
func (b *Builder) Build() (QuerySpec, error) {
	spec := b.spec
	if b.spec.BBox != nil {
		bbox := *b.spec.BBox
		spec.BBox = &bbox
	}
	if b.spec.Datetime != nil {
		dt := *b.spec.Datetime
		spec.Datetime = &dt
	}
	if b.spec.Attribute != nil {
		attr := *b.spec.Attribute
		spec.Attribute = &attr
	}
	if err := spec.Validate(); err != nil {
		return QuerySpec{}, err
	}
	return spec, nil
}
