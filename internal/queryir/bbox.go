package queryir

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/roach88/featureql/internal/crs"
)

// ParseBBox splits a "minX,minY,maxX,maxY[,crs]" parameter into bounds and
// an optional trailing CRS identifier.
func ParseBBox(raw string) ([4]float64, string, error) {
	var bounds [4]float64

	parts := strings.Split(raw, ",")
	if len(parts) != 4 && len(parts) != 5 {
		return bounds, "", NewInvalidParameter("bbox", "expected 4 comma-separated numbers, got %d values", len(parts))
	}

	for i := 0; i < 4; i++ {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return bounds, "", NewInvalidParameter("bbox", "value %d is not a number: %q", i+1, parts[i])
		}
		bounds[i] = f
	}

	var crsID string
	if len(parts) == 5 {
		crsID = strings.TrimSpace(parts[4])
		if crsID == "" {
			return bounds, "", NewInvalidParameter("bbox", "empty crs element")
		}
	}
	return bounds, crsID, nil
}

// NewBBox validates bounds expressed in def and returns the predicate.
//
// Bounds must be finite and ordered (min <= max on both axes). For a
// geographic CRS, x must lie in [-180, 180] and y in [-90, 90].
func NewBBox(bounds [4]float64, def crs.Definition) (*BBox, error) {
	for i, f := range bounds {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, NewInvalidParameter("bbox", "value %d is not finite", i+1)
		}
	}

	minX, minY, maxX, maxY := bounds[0], bounds[1], bounds[2], bounds[3]
	if minX > maxX {
		return nil, NewInvalidParameter("bbox", "minX %g exceeds maxX %g", minX, maxX)
	}
	if minY > maxY {
		return nil, NewInvalidParameter("bbox", "minY %g exceeds maxY %g", minY, maxY)
	}

	if def.Geographic {
		if minX < -180 || maxX > 180 {
			return nil, NewInvalidParameter("bbox", "longitude outside [-180, 180] for SRID %d", def.SRID)
		}
		if minY < -90 || maxY > 90 {
			return nil, NewInvalidParameter("bbox", "latitude outside [-90, 90] for SRID %d", def.SRID)
		}
	}

	return &BBox{
		Bound: orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}},
		SRID:  def.SRID,
	}, nil
}
