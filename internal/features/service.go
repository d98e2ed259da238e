package features

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/roach88/featureql/internal/catalog"
	"github.com/roach88/featureql/internal/crs"
	"github.com/roach88/featureql/internal/queryir"
	"github.com/roach88/featureql/internal/querysql"
)

// Executor runs compiled statements. Implemented by *store.Store and
// testutil.FakeExecutor.
type Executor interface {
	QueryFeatures(ctx context.Context, sql string, args ...any) ([]*geojson.Feature, error)
	QueryCount(ctx context.Context, sql string, args ...any) (int64, error)
}

// Clock reports the response timestamp.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Service answers collection and item requests against one catalogue.
//
// Thread-safety: Service holds no per-request state and is safe for
// concurrent use when its Executor is.
type Service struct {
	catalog  *catalog.Catalog
	registry *crs.Registry
	compiler *querysql.Compiler
	exec     Executor
	ids      RequestIDGenerator
	clock    Clock
}

// Option configures a Service.
type Option func(*Service)

// WithCompiler replaces the default SQL compiler.
func WithCompiler(c *querysql.Compiler) Option {
	return func(s *Service) {
		s.compiler = c
	}
}

// WithRequestIDGenerator sets the generator used when a request context
// carries no id.
func WithRequestIDGenerator(g RequestIDGenerator) Option {
	return func(s *Service) {
		s.ids = g
	}
}

// WithClock sets the clock used for response timestamps.
func WithClock(c Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// NewService creates a Service. exec may be nil for a service that only
// plans statements (see Plan).
func NewService(cat *catalog.Catalog, registry *crs.Registry, exec Executor, opts ...Option) *Service {
	s := &Service{
		catalog:  cat,
		registry: registry,
		compiler: querysql.NewCompiler(),
		exec:     exec,
		ids:      UUIDv7Generator{},
		clock:    systemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the served catalogue.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Registry returns the CRS registry.
func (s *Service) Registry() *crs.Registry {
	return s.registry
}

// Collections returns all collections in id order.
func (s *Service) Collections() []*catalog.Collection {
	return s.catalog.Collections()
}

// Collection returns one collection, or a NOT_FOUND error.
func (s *Service) Collection(id string) (*catalog.Collection, error) {
	return queryir.ResolveCollection(s.catalog, id)
}

// Plan is a validated query with its compiled statements.
type Plan struct {
	Spec        queryir.QuerySpec
	Items       querysql.Statement
	Count       querysql.Statement
	Fingerprint string
}

// Plan validates raw parameters against a collection and compiles both
// statements without executing them.
func (s *Service) Plan(collectionID string, p queryir.Params) (*Plan, error) {
	coll, err := s.Collection(collectionID)
	if err != nil {
		return nil, err
	}

	spec, err := queryir.FromParams(coll, s.registry, s.catalog.Limits, p)
	if err != nil {
		return nil, err
	}

	items, err := s.compiler.CompileItems(spec)
	if err != nil {
		return nil, err
	}
	count, err := s.compiler.CompileCount(spec)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Spec:        spec,
		Items:       items,
		Count:       count,
		Fingerprint: spec.Fingerprint(),
	}, nil
}

// Items runs one page of a feature query.
//
// Errors are *queryir.Error values: NOT_FOUND for an unknown collection,
// INVALID_PARAMETER or UNSUPPORTED_PARAMETER for rejected parameters, and
// QUERY_EXECUTION_FAILED for database failures.
func (s *Service) Items(ctx context.Context, collectionID string, p queryir.Params) (*Page, error) {
	if s.exec == nil {
		return nil, fmt.Errorf("features: service has no executor")
	}

	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = s.ids.Generate()
	}
	log := slog.With("request_id", requestID, "collection", collectionID)
	start := time.Now()

	plan, err := s.Plan(collectionID, p)
	if err != nil {
		log.Debug("query rejected", "error", err)
		return nil, err
	}
	log = log.With("fingerprint", plan.Fingerprint)

	log.Debug("executing query",
		"sql", plan.Items.SQL,
		"args", len(plan.Items.Args),
	)

	matched, err := s.exec.QueryCount(ctx, plan.Count.SQL, plan.Count.Args...)
	if err != nil {
		log.Error("count failed", "error", err)
		return nil, asExecutionError("count", err)
	}

	feats, err := s.exec.QueryFeatures(ctx, plan.Items.SQL, plan.Items.Args...)
	if err != nil {
		log.Error("listing failed", "error", err)
		return nil, asExecutionError("items", err)
	}

	page := newPage(requestID, plan, feats, matched, s.clock.Now())

	log.Info("items served",
		"matched", page.NumberMatched,
		"returned", page.NumberReturned,
		"next_cursor", page.NextCursor,
		"duration", time.Since(start),
	)

	return page, nil
}

// asExecutionError keeps executor errors inside the queryir taxonomy.
func asExecutionError(op string, err error) error {
	if queryir.CodeOf(err) != "" {
		return err
	}
	return queryir.NewQueryExecutionFailed(op, err)
}
