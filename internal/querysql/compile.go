package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/featureql/internal/catalog"
	"github.com/roach88/featureql/internal/queryir"
)

const (
	// DefaultPrecision is the number of decimal digits in GeoJSON coordinates.
	DefaultPrecision = 9

	// DefaultGeoJSONOptions disables the bbox and crs members of ST_AsGeoJSON.
	DefaultGeoJSONOptions = 0

	tableAlias = "t"
)

// Statement is SQL text with positional placeholders and their values.
type Statement struct {
	SQL  string
	Args []any
}

// Compiler compiles a QuerySpec to parameterized PostGIS SQL.
//
// CRITICAL: All request values are parameterized (never interpolated).
// Only catalogue identifiers and compiler constants appear in SQL text.
//
// A Compiler holds only configuration and is safe for concurrent use.
type Compiler struct {
	precision int
	options   int
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithPrecision sets the coordinate precision of ST_AsGeoJSON.
func WithPrecision(digits int) Option {
	return func(c *Compiler) {
		c.precision = digits
	}
}

// WithGeoJSONOptions sets the ST_AsGeoJSON options bitmask.
func WithGeoJSONOptions(flags int) Option {
	return func(c *Compiler) {
		c.options = flags
	}
}

// NewCompiler creates a Compiler with default precision and options.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		precision: DefaultPrecision,
		options:   DefaultGeoJSONOptions,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompileItems compiles the paginated feature listing:
//
//	SELECT t."id", 'Feature' AS type, <projection> AS geometry, <properties> AS properties
//	FROM <table> AS t
//	WHERE <filters...> AND t."id" > $cursor
//	ORDER BY t."id" ASC LIMIT $limit
//
// The cursor and limit are always the last two parameters.
func (c *Compiler) CompileItems(q queryir.QuerySpec) (Statement, error) {
	if err := q.Validate(); err != nil {
		return Statement{}, err
	}

	args := &Args{}
	id := column(catalog.IDColumn)

	projection := c.GeometryProjection(q, args)
	properties := fmt.Sprintf("to_jsonb(%s) - %s - %s",
		tableAlias,
		quoteLiteral(catalog.IDColumn),
		quoteLiteral(q.Collection.GeometryColumn))

	where, err := c.compileWhere(q, q.Where(), args)
	if err != nil {
		return Statement{}, err
	}

	sql := fmt.Sprintf("SELECT %s, 'Feature' AS type, %s AS geometry, %s AS properties FROM %s%s ORDER BY %s ASC LIMIT %s",
		id,
		projection,
		properties,
		fromClause(q.Collection),
		where,
		id,
		args.Bind(q.Limit))

	return Statement{SQL: sql, Args: args.Values()}, nil
}

// CompileCount compiles the COUNT statement for the same filters.
// It has no cursor, ordering, limit or projection: the count covers the
// full matching set, not one page.
func (c *Compiler) CompileCount(q queryir.QuerySpec) (Statement, error) {
	if err := q.Validate(); err != nil {
		return Statement{}, err
	}

	args := &Args{}
	where, err := c.compileWhere(q, queryir.And{Predicates: q.Filters()}, args)
	if err != nil {
		return Statement{}, err
	}

	sql := fmt.Sprintf("SELECT COUNT(%s) FROM %s%s",
		column(catalog.IDColumn),
		fromClause(q.Collection),
		where)

	return Statement{SQL: sql, Args: args.Values()}, nil
}

func fromClause(coll *catalog.Collection) string {
	table := quoteIdent(coll.Table)
	if coll.Schema != "" {
		table = quoteIdent(coll.Schema, coll.Table)
	}
	return table + " AS " + tableAlias
}

// compileWhere renders the WHERE clause, or "" for an empty conjunction.
// The keyword is chosen once; predicates are joined with AND.
func (c *Compiler) compileWhere(q queryir.QuerySpec, where queryir.And, args *Args) (string, error) {
	parts, err := c.compileConjuncts(q, where, args)
	if err != nil {
		return "", err
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), nil
}

// compileConjuncts flattens nested And predicates into one list of fragments.
func (c *Compiler) compileConjuncts(q queryir.QuerySpec, and queryir.And, args *Args) ([]string, error) {
	var parts []string
	for _, pred := range and.Predicates {
		if nested, ok := pred.(queryir.And); ok {
			sub, err := c.compileConjuncts(q, nested, args)
			if err != nil {
				return nil, err
			}
			parts = append(parts, sub...)
			continue
		}
		sql, err := c.compilePredicate(q, pred, args)
		if err != nil {
			return nil, err
		}
		parts = append(parts, sql)
	}
	return parts, nil
}

// compilePredicate compiles a single non-And predicate.
// CRITICAL: Values NEVER interpolated - always use $n placeholders.
func (c *Compiler) compilePredicate(q queryir.QuerySpec, p queryir.Predicate, args *Args) (string, error) {
	switch pred := p.(type) {
	case queryir.BBox:
		return c.compileBBox(q, pred, args), nil
	case queryir.Datetime:
		return compileDatetime(pred, args)
	case queryir.AttributeEquals:
		return fmt.Sprintf("%s::text = %s", column(pred.Column), args.Bind(pred.Value)), nil
	case queryir.CursorAfter:
		return fmt.Sprintf("%s > %s", column(catalog.IDColumn), args.Bind(pred.After)), nil
	default:
		return "", fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileBBox builds the envelope in the bbox SRID and reprojects it to the
// storage SRID only when they differ.
func (c *Compiler) compileBBox(q queryir.QuerySpec, b queryir.BBox, args *Args) string {
	envelope := fmt.Sprintf("ST_MakeEnvelope(%s, %s, %s, %s, %s::integer)",
		args.Bind(b.Bound.Min[0]),
		args.Bind(b.Bound.Min[1]),
		args.Bind(b.Bound.Max[0]),
		args.Bind(b.Bound.Max[1]),
		args.Bind(b.SRID))
	if b.SRID != q.StorageSRID {
		envelope = fmt.Sprintf("ST_Transform(%s, %s::integer)", envelope, args.Bind(q.StorageSRID))
	}
	return fmt.Sprintf("ST_Intersects(%s, %s)", column(q.Collection.GeometryColumn), envelope)
}

func compileDatetime(dt queryir.Datetime, args *Args) (string, error) {
	col := column(dt.Column)
	switch dt.Kind {
	case queryir.DatetimeInstant:
		return fmt.Sprintf("%s = %s", col, args.Bind(dt.Start)), nil
	case queryir.DatetimeBefore:
		return fmt.Sprintf("%s < %s", col, args.Bind(dt.End)), nil
	case queryir.DatetimeAfter:
		return fmt.Sprintf("%s > %s", col, args.Bind(dt.Start)), nil
	case queryir.DatetimeBetween:
		return fmt.Sprintf("%s BETWEEN %s AND %s", col, args.Bind(dt.Start), args.Bind(dt.End)), nil
	default:
		return "", fmt.Errorf("unsupported datetime kind: %v", dt.Kind)
	}
}
