// Package store executes compiled feature statements against PostGIS.
//
// The store is a thin layer over a pgx connection pool:
//   - QueryFeatures runs a listing statement and decodes each row
//     (id, type, geometry jsonb, properties jsonb) into a geojson.Feature
//   - QueryCount runs a count statement and returns the single bigint
//
// Statements arrive fully parameterized from internal/querysql; the store
// never builds SQL text itself.
//
// # Errors
//
// Every database failure, including context cancellation and timeouts, is
// wrapped as a QUERY_EXECUTION_FAILED queryir.Error. Callers inspect it with
// queryir.IsQueryExecutionFailed; the driver error stays reachable through
// errors.Unwrap.
//
// # Metrics
//
// When configured with WithMetrics, each statement records its duration and
// outcome in Prometheus collectors (see Metrics).
package store
