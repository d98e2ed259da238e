// Package features serves paginated feature queries.
//
// A Service ties the pieces of one request together:
//
//  1. resolve the collection in the catalogue (NOT_FOUND on a miss)
//  2. build and validate a queryir.QuerySpec from raw parameters
//  3. compile the listing and count statements
//  4. run both through an Executor
//  5. assemble a Page with numberMatched, numberReturned and the next cursor
//
// Pagination is keyset-based. A page is full when it holds exactly limit
// features; only then does it carry a next cursor, the id of its last
// feature. Passing that cursor back returns the features with greater ids,
// so walking every page visits each matching feature exactly once.
package features
