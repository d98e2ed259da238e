package harness

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/roach88/featureql/internal/catalog"
	"github.com/roach88/featureql/internal/crs"
	"github.com/roach88/featureql/internal/features"
	"github.com/roach88/featureql/internal/queryir"
	"github.com/roach88/featureql/internal/testutil"
)

// ScenarioTime is the fixed clock used for every scenario.
var ScenarioTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// ScenarioRequestID is the fixed request id used for every scenario.
const ScenarioRequestID = "scenario-request"

// maxPages bounds a pages walk so a broken cursor cannot loop forever.
const maxPages = 1000

// Result holds the outcome of running a scenario.
type Result struct {
	// Plan is the compiled query. nil when the request was rejected.
	Plan *features.Plan

	// Err is the rejection, if any.
	Err error

	// Pages holds the pages visited by a pages assertion.
	Pages []*features.Page

	// Pass is true when every check succeeded.
	Pass bool

	// Errors lists failed checks.
	Errors []string
}

func (r *Result) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Run executes a scenario and evaluates its checks.
//
// The returned error reports setup failures only (unreadable
// catalogue). Failed checks are reported in Result.Errors.
func Run(s *Scenario) (*Result, error) {
	cat, err := catalog.Load(s.Catalog, crs.Default())
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	exec := testutil.NewFakeExecutor(testutil.SequentialRows(s.Rows)...)
	svc := features.NewService(cat, crs.Default(), exec,
		features.WithClock(testutil.NewFixedClock(ScenarioTime)),
		features.WithRequestIDGenerator(testutil.NewFixedRequestIDGenerator(ScenarioRequestID)),
	)

	result := &Result{}
	result.Plan, result.Err = svc.Plan(s.Collection, s.Params.Query())

	if s.ExpectError != nil {
		checkExpectedError(result, s.ExpectError)
		result.Pass = len(result.Errors) == 0
		return result, nil
	}

	if result.Err != nil {
		result.fail("unexpected error: %v", result.Err)
		return result, nil
	}

	for i, a := range s.Assertions {
		if err := evaluateAssertion(svc, s, result, a); err != nil {
			result.fail("assertions[%d] (%s): %v", i, a.Type, err)
		}
	}

	result.Pass = len(result.Errors) == 0
	return result, nil
}

func checkExpectedError(r *Result, want *ExpectError) {
	if r.Err == nil {
		r.fail("expected %s error, query compiled", want.Code)
		return
	}

	var qerr *queryir.Error
	if !errors.As(r.Err, &qerr) {
		r.fail("expected %s error, got untyped error: %v", want.Code, r.Err)
		return
	}
	if string(qerr.Code) != want.Code {
		r.fail("expected code %s, got %s (%v)", want.Code, qerr.Code, qerr)
	}
	if want.Param != "" && qerr.Param != want.Param {
		r.fail("expected param %q, got %q", want.Param, qerr.Param)
	}
}

// walkPages follows NextCursor from the scenario's starting cursor until a
// page has no successor.
func walkPages(svc *features.Service, s *Scenario) ([]*features.Page, error) {
	ctx := features.WithRequestID(context.Background(), ScenarioRequestID)
	params := s.Params.Query()

	var pages []*features.Page
	for len(pages) < maxPages {
		page, err := svc.Items(ctx, s.Collection, params)
		if err != nil {
			return pages, err
		}
		pages = append(pages, page)
		if !page.HasNext() {
			return pages, nil
		}
		params.Cursor = strconv.FormatInt(page.NextCursor, 10)
	}
	return pages, fmt.Errorf("no last page after %d pages", maxPages)
}
