package querysql

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Args collects positional parameters in the order their placeholders
// appear in the statement text.
type Args struct {
	values []any
}

// Bind appends v and returns its Postgres placeholder ($1, $2, ...).
func (a *Args) Bind(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// Values returns the bound parameters.
func (a *Args) Values() []any {
	return a.values
}

// quoteIdent quotes a catalogue identifier. Identifiers never come from
// the request; quoting guards against reserved words.
func quoteIdent(parts ...string) string {
	return pgx.Identifier(parts).Sanitize()
}

// column returns a table-alias qualified, quoted column reference.
func column(name string) string {
	return tableAlias + "." + quoteIdent(name)
}

// quoteLiteral renders a catalogue identifier as a SQL string literal.
// It only ever sees names the catalogue schema has restricted to
// ^[a-z_][a-z0-9_]*$; it is not an escaping helper for request values,
// which are always bound.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
