package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/featureql/internal/queryir"
)

// bindQueryFlags registers the item-request parameters as flags on cmd.
// Values are passed to queryir unparsed, exactly as an HTTP query string
// would supply them.
func bindQueryFlags(cmd *cobra.Command, p *queryir.Params) {
	f := cmd.Flags()
	f.StringVar(&p.Limit, "limit", "", "page size (capped at the catalogue max_limit)")
	f.StringVar(&p.Cursor, "cursor", "", "return features with id greater than this value")
	f.StringVar(&p.BBox, "bbox", "", "bounding box minX,minY,maxX,maxY[,crs]")
	f.StringVar(&p.BBoxCRS, "bbox-crs", "", "CRS of --bbox (URI or EPSG:n)")
	f.StringVar(&p.Datetime, "datetime", "", "RFC 3339 instant or interval (start/end, ../end, start/..)")
	f.StringVar(&p.Filter, "filter", "", "attribute equality column=value")
	f.StringVar(&p.CRS, "crs", "", "output CRS (URI or EPSG:n)")
}
