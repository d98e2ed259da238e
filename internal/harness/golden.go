package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/featureql/internal/features"
	"github.com/roach88/featureql/internal/querysql"
)

// RenderPlan renders both statements of a plan in a stable text form.
//
//	-- items
//	SELECT ...
//	-- $1 = 3857
//
//	-- count
//	SELECT COUNT(...) ...
//	-- no args
func RenderPlan(p *features.Plan) []byte {
	var b strings.Builder
	writeStatement(&b, StatementItems, p.Items)
	b.WriteString("\n")
	writeStatement(&b, StatementCount, p.Count)
	return []byte(b.String())
}

func writeStatement(b *strings.Builder, label string, stmt querysql.Statement) {
	fmt.Fprintf(b, "-- %s\n%s\n", label, stmt.SQL)
	if len(stmt.Args) == 0 {
		b.WriteString("-- no args\n")
		return
	}
	for i, a := range stmt.Args {
		fmt.Fprintf(b, "-- $%d = %s\n", i+1, querysql.FormatArg(a))
	}
}

// RunWithGolden runs a scenario and, when it is marked golden, compares the
// rendered plan against testdata/golden/{name}.golden.
func RunWithGolden(t *testing.T, s *Scenario) *Result {
	t.Helper()

	result, err := Run(s)
	require.NoError(t, err, "scenario setup failed")

	if s.Golden && result.Plan != nil {
		g := goldie.New(t,
			goldie.WithFixtureDir("testdata/golden"),
			goldie.WithNameSuffix(".golden"),
		)
		g.Assert(t, s.Name, RenderPlan(result.Plan))
	}
	return result
}
