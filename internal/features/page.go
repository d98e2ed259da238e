package features

import (
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/roach88/featureql/internal/catalog"
	"github.com/roach88/featureql/internal/queryir"
)

// Page is one page of a feature query.
type Page struct {
	RequestID   string
	Collection  *catalog.Collection
	Query       queryir.QuerySpec
	Fingerprint string

	Features       []*geojson.Feature
	NumberMatched  int64
	NumberReturned int

	// NextCursor is the id of the last feature of a full page, or
	// queryir.NoCursor when no further page exists.
	NextCursor int64

	TimeStamp time.Time
}

func newPage(requestID string, plan *Plan, feats []*geojson.Feature, matched int64, now time.Time) *Page {
	if feats == nil {
		feats = []*geojson.Feature{}
	}
	page := &Page{
		RequestID:      requestID,
		Collection:     plan.Spec.Collection,
		Query:          plan.Spec,
		Fingerprint:    plan.Fingerprint,
		Features:       feats,
		NumberMatched:  matched,
		NumberReturned: len(feats),
		NextCursor:     queryir.NoCursor,
		TimeStamp:      now,
	}

	if len(feats) > 0 && len(feats) == plan.Spec.Limit {
		if id, ok := featureID(feats[len(feats)-1]); ok {
			page.NextCursor = id
		}
	}
	return page
}

// HasNext reports whether a further page may exist.
func (p *Page) HasNext() bool {
	return p.NextCursor != queryir.NoCursor
}

// FeatureCollection renders the page as a GeoJSON FeatureCollection with
// the OGC API members numberMatched, numberReturned and timeStamp.
func (p *Page) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Features = p.Features
	fc.ExtraMembers = geojson.Properties{
		"numberMatched":  p.NumberMatched,
		"numberReturned": p.NumberReturned,
		"timeStamp":      p.TimeStamp.UTC().Format(time.RFC3339),
	}
	return fc
}

// featureID extracts the integer id of a decoded feature.
func featureID(f *geojson.Feature) (int64, bool) {
	switch id := f.ID.(type) {
	case int64:
		return id, true
	case int:
		return int64(id), true
	case int32:
		return int64(id), true
	case float64:
		return int64(id), id == float64(int64(id))
	default:
		return 0, false
	}
}
