// Package harness runs declarative query scenarios against the compiler.
//
// A scenario names a catalogue, a collection and raw request parameters,
// and states what must come out: either a rejection with a given error
// code, or compiled statements satisfying a list of assertions. Scenarios
// with golden: true also compare the rendered statements against
// testdata/golden/{name}.golden.
//
// # Scenario Format
//
//	name: buildings_bbox
//	description: "bbox in storage CRS needs no transform"
//	catalog: ../catalog.cue
//	collection: buildings
//	params:
//	  bbox: "0,0,10,10"
//	  limit: "5"
//	golden: true
//	assertions:
//	  - type: sql_contains
//	    statement: items
//	    text: ST_MakeEnvelope
//	  - type: arg_count
//	    statement: count
//	    count: 5
//
// A rejected request:
//
//	expect_error:
//	  code: INVALID_PARAMETER
//	  param: bbox
//
// # Assertion Types
//
//   - sql_contains: statement text contains text
//   - sql_not_contains: statement text does not contain text
//   - arg_count: statement binds exactly count parameters
//   - arg_contains: statement binds a parameter equal to value
//   - pages: paging through rows sequential fake features takes exactly
//     count pages, each id is visited once, and the sum of page sizes
//     equals numberMatched
//
// # Deterministic Testing
//
// Scenarios execute with a fixed clock and request id, and pages are
// served by testutil.FakeExecutor, so no database is needed and golden
// output is reproducible.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
