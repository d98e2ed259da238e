// Package crs maps coordinate reference system identifiers to PostGIS SRIDs.
//
// Clients name a CRS by URI (OGC API Features style), by the EPSG shorthand
// "EPSG:<code>", or by a bare integer. The registry knows which SRIDs are
// geographic so that bbox bounds can be range checked.
package crs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultSRID is the SRID used when a request names no CRS (WGS 84).
const DefaultSRID = 4326

// CRS84URI is the OGC identifier for WGS 84 longitude/latitude.
const CRS84URI = "http://www.opengis.net/def/crs/OGC/1.3/CRS84"

const epsgURIPrefix = "http://www.opengis.net/def/crs/EPSG/0/"

// Definition describes a registered coordinate reference system.
type Definition struct {
	SRID       int
	Name       string
	Geographic bool // axes are longitude/latitude in degrees
}

// URI returns the OGC URI for the definition.
// SRID 4326 is reported as CRS84 because x is longitude.
func (d Definition) URI() string {
	return URIFor(d.SRID)
}

// URIFor returns the OGC URI for an SRID.
func URIFor(srid int) string {
	if srid == DefaultSRID {
		return CRS84URI
	}
	return epsgURIPrefix + strconv.Itoa(srid)
}

// Registry is an immutable set of known CRS definitions.
type Registry struct {
	defs map[int]Definition
}

// NewRegistry builds a registry from definitions. Later duplicates win.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[int]Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.SRID] = d
	}
	return r
}

// Default returns a registry with the CRS commonly served by feature APIs.
func Default() *Registry {
	return NewRegistry(
		Definition{SRID: 4326, Name: "WGS 84", Geographic: true},
		Definition{SRID: 4258, Name: "ETRS89", Geographic: true},
		Definition{SRID: 4269, Name: "NAD83", Geographic: true},
		Definition{SRID: 3857, Name: "WGS 84 / Pseudo-Mercator"},
		Definition{SRID: 3035, Name: "ETRS89-extended / LAEA Europe"},
		Definition{SRID: 25832, Name: "ETRS89 / UTM zone 32N"},
		Definition{SRID: 25833, Name: "ETRS89 / UTM zone 33N"},
		Definition{SRID: 27700, Name: "OSGB36 / British National Grid"},
		Definition{SRID: 2056, Name: "CH1903+ / LV95"},
	)
}

// Lookup returns the definition for srid.
func (r *Registry) Lookup(srid int) (Definition, bool) {
	d, ok := r.defs[srid]
	return d, ok
}

// IsGeographic reports whether srid is registered as geographic.
func (r *Registry) IsGeographic(srid int) bool {
	return r.defs[srid].Geographic
}

// SRIDs returns the registered SRIDs in ascending order.
func (r *Registry) SRIDs() []int {
	out := make([]int, 0, len(r.defs))
	for srid := range r.defs {
		out = append(out, srid)
	}
	sort.Ints(out)
	return out
}

// Resolve parses a CRS identifier and checks it against the registry.
func (r *Registry) Resolve(id string) (Definition, error) {
	srid, err := ParseSRID(id)
	if err != nil {
		return Definition{}, err
	}
	d, ok := r.defs[srid]
	if !ok {
		return Definition{}, fmt.Errorf("unknown crs %q", id)
	}
	return d, nil
}

// ParseSRID extracts the numeric SRID from a CRS identifier.
//
// Accepted forms:
//
//	http://www.opengis.net/def/crs/OGC/1.3/CRS84
//	http://www.opengis.net/def/crs/EPSG/0/3857
//	EPSG:3857
//	3857
func ParseSRID(id string) (int, error) {
	s := strings.TrimSpace(id)
	if s == "" {
		return 0, fmt.Errorf("empty crs")
	}

	switch {
	case s == CRS84URI || strings.EqualFold(s, "CRS84"):
		return DefaultSRID, nil
	case strings.HasPrefix(s, "https://"):
		s = "http://" + strings.TrimPrefix(s, "https://")
	}

	var code string
	switch {
	case strings.HasPrefix(s, epsgURIPrefix):
		code = strings.TrimPrefix(s, epsgURIPrefix)
	case len(s) > 5 && strings.EqualFold(s[:5], "EPSG:"):
		code = s[5:]
	default:
		code = s
	}

	srid, err := strconv.Atoi(code)
	if err != nil || srid <= 0 {
		return 0, fmt.Errorf("malformed crs %q", id)
	}
	return srid, nil
}
