// Package server exposes a features.Service over HTTP.
//
// Routes (an OGC API Features subset):
//
//	GET /collections                          catalogue listing
//	GET /collections/{collectionId}           one collection
//	GET /collections/{collectionId}/items     one page of features
//	GET /metrics                              Prometheus metrics
//
// Item requests accept limit, cursor, bbox, bbox-crs, datetime, filter and
// crs query parameters. Each is passed through unparsed; validation happens
// in queryir and failures come back as *queryir.Error values, which the
// server maps to a status code and a {"code", "description"} body:
//
//	INVALID_PARAMETER, UNSUPPORTED_PARAMETER   400
//	NOT_FOUND                                  404
//	QUERY_EXECUTION_FAILED                     500
package server
