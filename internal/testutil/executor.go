package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FakeRow is one feature held by FakeExecutor.
type FakeRow struct {
	ID         int64
	Geometry   orb.Geometry
	Properties map[string]any
}

// Call records one statement received by FakeExecutor.
type Call struct {
	SQL  string
	Args []any
}

// FakeExecutor serves listing and count statements from memory.
//
// It does not interpret SQL. For listing statements it reads the keyset
// cursor and limit from the last two arguments, which is where the SQL
// compiler always places them; Match stands in for the filter predicates.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FakeExecutor struct {
	mu    sync.Mutex
	rows  []FakeRow
	calls []Call

	// Match selects the rows the filters would select. nil matches all rows.
	Match func(FakeRow) bool

	// Err, when set, is returned by every query.
	Err error
}

// NewFakeExecutor creates an executor holding rows in id order.
func NewFakeExecutor(rows ...FakeRow) *FakeExecutor {
	sorted := append([]FakeRow(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &FakeExecutor{rows: sorted}
}

// SequentialRows returns n point rows with ids 1..n.
func SequentialRows(n int) []FakeRow {
	rows := make([]FakeRow, n)
	for i := range rows {
		id := int64(i + 1)
		rows[i] = FakeRow{
			ID:         id,
			Geometry:   orb.Point{float64(i), float64(i)},
			Properties: map[string]any{"name": fmt.Sprintf("feature-%d", id)},
		}
	}
	return rows
}

// QueryFeatures returns the page selected by the cursor and limit arguments.
func (f *FakeExecutor) QueryFeatures(ctx context.Context, sql string, args ...any) ([]*geojson.Feature, error) {
	f.record(sql, args)
	if f.Err != nil {
		return nil, f.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, fmt.Errorf("fake: listing needs cursor and limit args, got %d", len(args))
	}

	cursor, ok := args[len(args)-2].(int64)
	if !ok {
		return nil, fmt.Errorf("fake: cursor arg is %T, want int64", args[len(args)-2])
	}
	limit, ok := args[len(args)-1].(int)
	if !ok {
		return nil, fmt.Errorf("fake: limit arg is %T, want int", args[len(args)-1])
	}

	var out []*geojson.Feature
	for _, row := range f.matching() {
		if row.ID <= cursor {
			continue
		}
		if len(out) == limit {
			break
		}
		feat := geojson.NewFeature(row.Geometry)
		feat.ID = row.ID
		for k, v := range row.Properties {
			feat.Properties[k] = v
		}
		out = append(out, feat)
	}
	return out, nil
}

// QueryCount returns the number of matching rows, ignoring pagination.
func (f *FakeExecutor) QueryCount(ctx context.Context, sql string, args ...any) (int64, error) {
	f.record(sql, args)
	if f.Err != nil {
		return 0, f.Err
	}
	if !strings.HasPrefix(sql, "SELECT COUNT(") {
		return 0, fmt.Errorf("fake: not a count statement: %s", sql)
	}
	return int64(len(f.matching())), nil
}

// Calls returns the statements received so far.
func (f *FakeExecutor) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *FakeExecutor) record(sql string, args []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{SQL: sql, Args: append([]any(nil), args...)})
}

func (f *FakeExecutor) matching() []FakeRow {
	if f.Match == nil {
		return f.rows
	}
	var out []FakeRow
	for _, row := range f.rows {
		if f.Match(row) {
			out = append(out, row)
		}
	}
	return out
}
