package queryir

import (
	"time"

	"github.com/paulmach/orb"

	"github.com/roach88/featureql/internal/catalog"
)

// NoCursor is the cursor value for a first page. It matches every id.
const NoCursor int64 = -1

// Predicate represents a filter condition in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in backend compilers.
//
// Predicate types:
//   - BBox: geometry intersects an envelope
//   - Datetime: timestamp column compared to an instant or interval
//   - AttributeEquals: property column = bound value
//   - CursorAfter: id > last seen id (keyset pagination)
//   - And: all predicates must be true
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// BBox filters features whose geometry intersects an envelope.
//
// Semantics:
//
//	ST_Intersects(<geometry>, ST_Transform(ST_MakeEnvelope(minX, minY, maxX, maxY, SRID), <storage>))
//
// The transform is only applied when SRID differs from the storage SRID.
type BBox struct {
	Bound orb.Bound // Min is (minX, minY), Max is (maxX, maxY)
	SRID  int       // SRID the bounds are expressed in
}

func (BBox) predicateNode() {}

// DatetimeKind is the shape of a datetime interval.
type DatetimeKind int

const (
	// DatetimeInstant matches column = Start.
	DatetimeInstant DatetimeKind = iota
	// DatetimeBefore is "../end" and matches column < End.
	DatetimeBefore
	// DatetimeAfter is "start/.." and matches column > Start.
	DatetimeAfter
	// DatetimeBetween is "start/end" and matches Start <= column <= End.
	DatetimeBetween
)

func (k DatetimeKind) String() string {
	switch k {
	case DatetimeInstant:
		return "instant"
	case DatetimeBefore:
		return "before"
	case DatetimeAfter:
		return "after"
	case DatetimeBetween:
		return "between"
	default:
		return "unknown"
	}
}

// Datetime filters on the collection's timestamp column.
// Start is zero for DatetimeBefore; End is zero for DatetimeInstant and DatetimeAfter.
type Datetime struct {
	Column string
	Kind   DatetimeKind
	Start  time.Time
	End    time.Time
}

func (Datetime) predicateNode() {}

// AttributeEquals matches rows whose property column equals Value.
// Value is always bound as a parameter.
type AttributeEquals struct {
	Column string
	Value  string
}

func (AttributeEquals) predicateNode() {}

// CursorAfter matches rows with id strictly greater than After.
type CursorAfter struct {
	After int64
}

func (CursorAfter) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
//
// Semantics:
//
//	<predicate1> AND <predicate2> AND ... AND <predicateN>
//
// An empty And is vacuously true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// QuerySpec describes one feature listing request.
//
// A QuerySpec is produced by Builder.Build and is not modified afterwards.
// It belongs to a single request and never crosses request boundaries.
type QuerySpec struct {
	Collection  *catalog.Collection
	Limit       int
	Cursor      int64 // NoCursor for the first page
	OutputSRID  int
	StorageSRID int

	BBox      *BBox
	Datetime  *Datetime
	Attribute *AttributeEquals
}

// Filters returns the attached filter predicates in a stable order:
// bbox, datetime, attribute. The cursor predicate is not included.
func (q QuerySpec) Filters() []Predicate {
	var preds []Predicate
	if q.BBox != nil {
		preds = append(preds, *q.BBox)
	}
	if q.Datetime != nil {
		preds = append(preds, *q.Datetime)
	}
	if q.Attribute != nil {
		preds = append(preds, *q.Attribute)
	}
	return preds
}

// Where returns the full listing predicate: every filter plus the cursor.
func (q QuerySpec) Where() And {
	return And{Predicates: append(q.Filters(), CursorAfter{After: q.Cursor})}
}

// NeedsReprojection reports whether returned geometry must be transformed.
func (q QuerySpec) NeedsReprojection() bool {
	return q.OutputSRID != q.StorageSRID
}
