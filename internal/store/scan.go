package store

import (
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/paulmach/orb/geojson"
)

// scanFeature decodes one listing row: id, type, geometry, properties.
//
// A NULL geometry yields a feature with a nil geometry, which encodes as
// "geometry": null. NULL properties yield an empty property map.
func scanFeature(row pgx.Row) (*geojson.Feature, error) {
	var (
		id         int64
		typ        string
		geometry   []byte
		properties []byte
	)
	if err := row.Scan(&id, &typ, &geometry, &properties); err != nil {
		return nil, fmt.Errorf("scan feature: %w", err)
	}
	if typ != "Feature" {
		return nil, fmt.Errorf("scan feature %d: unexpected type %q", id, typ)
	}

	f := geojson.NewFeature(nil)
	f.ID = id

	if len(geometry) > 0 && string(geometry) != "null" {
		g, err := geojson.UnmarshalGeometry(geometry)
		if err != nil {
			return nil, fmt.Errorf("decode geometry of feature %d: %w", id, err)
		}
		f.Geometry = g.Geometry()
	}

	if len(properties) > 0 && string(properties) != "null" {
		if err := json.Unmarshal(properties, &f.Properties); err != nil {
			return nil, fmt.Errorf("decode properties of feature %d: %w", id, err)
		}
	}
	if f.Properties == nil {
		f.Properties = geojson.Properties{}
	}

	return f, nil
}
