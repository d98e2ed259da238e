package queryir

import "fmt"

// Validate checks the structural invariants of a QuerySpec.
//
// Builder.Build always returns a valid spec; Validate exists for specs
// assembled by hand and is called again by the SQL compiler so that invalid
// SQL is never produced.
//
// Validate is a pure function with no side effects.
func (q QuerySpec) Validate() error {
	if q.Collection == nil || q.Collection.Table == "" {
		return NewInvalidParameter("collection", "query has no target table")
	}
	if q.Collection.GeometryColumn == "" {
		return NewInvalidParameter("collection", "collection %q has no geometry column", q.Collection.ID)
	}
	if q.Limit <= 0 {
		return NewInvalidParameter("limit", "must be greater than 0, got %d", q.Limit)
	}
	if q.Cursor < NoCursor {
		return NewInvalidParameter("cursor", "must be >= %d, got %d", NoCursor, q.Cursor)
	}
	if q.OutputSRID <= 0 {
		return NewInvalidParameter("crs", "output SRID must be positive, got %d", q.OutputSRID)
	}
	if q.StorageSRID <= 0 {
		return NewInvalidParameter("collection", "storage SRID must be positive, got %d", q.StorageSRID)
	}

	for _, p := range q.Filters() {
		if err := validatePredicate(q, p); err != nil {
			return err
		}
	}
	return nil
}

func validatePredicate(q QuerySpec, p Predicate) error {
	switch pred := p.(type) {
	case BBox:
		if pred.SRID <= 0 {
			return NewInvalidParameter("bbox-crs", "bbox SRID must be positive, got %d", pred.SRID)
		}
		if pred.Bound.Min[0] > pred.Bound.Max[0] || pred.Bound.Min[1] > pred.Bound.Max[1] {
			return NewInvalidParameter("bbox", "lower corner exceeds upper corner")
		}
	case Datetime:
		if pred.Column == "" {
			return NewUnsupportedParameter("datetime", "collection %q has no datetime column", q.Collection.ID)
		}
		if pred.Kind == DatetimeBetween && pred.End.Before(pred.Start) {
			return NewInvalidParameter("datetime", "interval end precedes start")
		}
	case AttributeEquals:
		if !q.Collection.HasColumn(pred.Column) {
			return NewInvalidParameter("filter", "unknown column %q", pred.Column)
		}
	default:
		return fmt.Errorf("unsupported predicate type: %T", p)
	}
	return nil
}
