package harness

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/roach88/featureql/internal/features"
	"github.com/roach88/featureql/internal/querysql"
)

func evaluateAssertion(svc *features.Service, s *Scenario, r *Result, a Assertion) error {
	switch a.Type {
	case AssertSQLContains:
		stmt := statement(r.Plan, a.Statement)
		if !strings.Contains(stmt.SQL, a.Text) {
			return fmt.Errorf("%s SQL does not contain %q:\n%s", a.Statement, a.Text, stmt.SQL)
		}
	case AssertSQLNotContains:
		stmt := statement(r.Plan, a.Statement)
		if strings.Contains(stmt.SQL, a.Text) {
			return fmt.Errorf("%s SQL contains %q:\n%s", a.Statement, a.Text, stmt.SQL)
		}
	case AssertArgCount:
		stmt := statement(r.Plan, a.Statement)
		if len(stmt.Args) != a.Count {
			return fmt.Errorf("%s binds %d args, want %d", a.Statement, len(stmt.Args), a.Count)
		}
	case AssertArgContains:
		stmt := statement(r.Plan, a.Statement)
		for _, arg := range stmt.Args {
			if querysql.FormatArg(arg) == a.Value {
				return nil
			}
		}
		return fmt.Errorf("%s binds no arg %s (args: %s)", a.Statement, a.Value, formatArgList(stmt.Args))
	case AssertPages:
		return evaluatePages(svc, s, r, a.Count)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func statement(p *features.Plan, name string) querysql.Statement {
	if name == StatementCount {
		return p.Count
	}
	return p.Items
}

// evaluatePages checks that paging visits every matching feature exactly
// once, in ascending id order, in the expected number of pages.
func evaluatePages(svc *features.Service, s *Scenario, r *Result, want int) error {
	pages, err := walkPages(svc, s)
	r.Pages = pages
	if err != nil {
		return err
	}

	if len(pages) != want {
		return fmt.Errorf("walked %d pages, want %d", len(pages), want)
	}

	var (
		last     int64 = -1
		returned int64
	)
	for i, page := range pages {
		returned += int64(page.NumberReturned)
		if page.NumberMatched != pages[0].NumberMatched {
			return fmt.Errorf("page %d: numberMatched %d differs from first page %d",
				i+1, page.NumberMatched, pages[0].NumberMatched)
		}
		for _, f := range page.Features {
			id, err := idOf(f)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			if id <= last {
				return fmt.Errorf("page %d: id %d not after %d", i+1, id, last)
			}
			last = id
		}
	}

	if returned != pages[0].NumberMatched {
		return fmt.Errorf("returned %d features in total, numberMatched is %d", returned, pages[0].NumberMatched)
	}
	return nil
}

func idOf(f *geojson.Feature) (int64, error) {
	switch id := f.ID.(type) {
	case int64:
		return id, nil
	case int:
		return int64(id), nil
	case float64:
		return int64(id), nil
	default:
		return 0, fmt.Errorf("feature id %v has type %T", f.ID, f.ID)
	}
}

func formatArgList(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = querysql.FormatArg(a)
	}
	return strings.Join(parts, ", ")
}
