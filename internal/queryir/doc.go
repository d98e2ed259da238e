// Package queryir provides the intermediate representation of a feature
// listing request and the builders that produce it from raw parameters.
//
// ARCHITECTURE:
//
//	[raw params] → [PredicateBuilders] → [QuerySpec] → [querysql] → SQL + args
//
// A QuerySpec holds the target collection, limit, keyset cursor, output
// SRID and at most one predicate of each kind:
//   - BBox: geometry intersects an envelope in any registered CRS
//   - Datetime: instant, open start, open end or closed interval
//   - AttributeEquals: one property column equals a bound value
//
// SEALED INTERFACES:
//
// Predicate is a sealed interface using the marker method pattern.
// Only types in this package can implement it, so SQL backends can switch
// exhaustively:
//
//	switch p := pred.(type) {
//	case BBox:
//	case Datetime:
//	case AttributeEquals:
//	case CursorAfter:
//	case And:
//	}
//
// PAGINATION:
//
// Pagination is keyset on the id column. Cursor is the highest id the client
// has seen; NoCursor (-1) selects the first page. There is no row offset.
//
// ERRORS:
//
// Every failure is an *Error carrying one of INVALID_PARAMETER,
// UNSUPPORTED_PARAMETER, NOT_FOUND or QUERY_EXECUTION_FAILED. All parameter
// validation happens before any SQL text exists.
package queryir
