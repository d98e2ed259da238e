// Package catalog holds the allow-list of feature collections.
//
// A catalogue is written in CUE and validated against an embedded schema
// (schema.cue). Table, schema and column names must be lower-case SQL
// identifiers. The compiled Catalog is the only source of identifiers the
// SQL compiler will place into statement text; client input never is.
package catalog
