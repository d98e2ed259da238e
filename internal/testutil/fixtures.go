// Package testutil provides shared fixtures and fakes for featureql tests.
package testutil

import (
	"github.com/roach88/featureql/internal/catalog"
	"github.com/roach88/featureql/internal/crs"
)

// Buildings returns a collection stored in WGS 84 with a datetime column.
func Buildings() *catalog.Collection {
	return &catalog.Collection{
		ID:             "buildings",
		Title:          "Buildings",
		Schema:         "public",
		Table:          "buildings",
		GeometryColumn: "geom",
		StorageSRID:    4326,
		DatetimeColumn: "built_at",
		Columns:        []string{"name", "kind", "height"},
		CRS:            []int{3857, 4326, 25832},
	}
}

// Parcels returns a collection stored in UTM 32N without a datetime column.
func Parcels() *catalog.Collection {
	return &catalog.Collection{
		ID:             "parcels",
		Title:          "Parcels",
		Schema:         "cadastre",
		Table:          "parcels",
		GeometryColumn: "shape",
		StorageSRID:    25832,
		Columns:        []string{"owner"},
		CRS:            []int{4326, 25832},
	}
}

// Limits returns the page limits used by fixture catalogues.
func Limits() catalog.Limits {
	return catalog.Limits{Default: 10, Max: 100}
}

// Catalog returns a catalogue holding Buildings and Parcels.
func Catalog() *catalog.Catalog {
	return catalog.New(Limits(), Buildings(), Parcels())
}

// Registry returns the default CRS registry.
func Registry() *crs.Registry {
	return crs.Default()
}
