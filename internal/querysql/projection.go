package querysql

import (
	"fmt"

	"github.com/roach88/featureql/internal/queryir"
)

// GeometryProjection returns the SQL expression for the GeoJSON geometry
// member in the output CRS.
//
//	ST_AsGeoJSON(ST_Transform(t."geom", $n::integer), <precision>, <options>)::jsonb
//
// The transform is elided when the output SRID equals the storage SRID.
// Precision and options are compiler constants, not request values.
func (c *Compiler) GeometryProjection(q queryir.QuerySpec, args *Args) string {
	geom := column(q.Collection.GeometryColumn)
	if q.NeedsReprojection() {
		geom = fmt.Sprintf("ST_Transform(%s, %s::integer)", geom, args.Bind(q.OutputSRID))
	}
	return fmt.Sprintf("ST_AsGeoJSON(%s, %d, %d)::jsonb", geom, c.precision, c.options)
}
