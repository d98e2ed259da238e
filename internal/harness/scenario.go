package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/featureql/internal/queryir"
)

// Scenario defines one query scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is the path to the CUE catalogue.
	// Relative paths are resolved against the scenario file location.
	Catalog string `yaml:"catalog"`

	// Collection is the collection id to query.
	Collection string `yaml:"collection"`

	// Params are the raw request parameters.
	Params Params `yaml:"params,omitempty"`

	// Rows is the number of sequential fake features served to pages
	// assertions.
	Rows int `yaml:"rows,omitempty"`

	// Golden enables comparison against testdata/golden/{name}.golden.
	Golden bool `yaml:"golden,omitempty"`

	// ExpectError, when set, requires the request to be rejected.
	ExpectError *ExpectError `yaml:"expect_error,omitempty"`

	// Assertions validate the compiled statements.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Params mirrors queryir.Params with the HTTP parameter names.
type Params struct {
	Limit    string `yaml:"limit,omitempty"`
	Cursor   string `yaml:"cursor,omitempty"`
	BBox     string `yaml:"bbox,omitempty"`
	BBoxCRS  string `yaml:"bbox-crs,omitempty"`
	Datetime string `yaml:"datetime,omitempty"`
	Filter   string `yaml:"filter,omitempty"`
	CRS      string `yaml:"crs,omitempty"`
}

// Query converts p to request parameters.
func (p Params) Query() queryir.Params {
	return queryir.Params{
		Limit:    p.Limit,
		Cursor:   p.Cursor,
		BBox:     p.BBox,
		BBoxCRS:  p.BBoxCRS,
		Datetime: p.Datetime,
		Filter:   p.Filter,
		CRS:      p.CRS,
	}
}

// ExpectError specifies the expected rejection.
type ExpectError struct {
	// Code is the expected queryir.ErrorCode.
	Code string `yaml:"code"`

	// Param is the expected offending parameter. Empty means not checked.
	Param string `yaml:"param,omitempty"`
}

// Assertion validates a compiled statement or the pages it produces.
type Assertion struct {
	// Type specifies the assertion type:
	// - "sql_contains": statement text contains Text
	// - "sql_not_contains": statement text does not contain Text
	// - "arg_count": statement binds exactly Count parameters
	// - "arg_contains": statement binds a parameter whose display form is Value
	// - "pages": paging through Rows fake features takes Count pages
	Type string `yaml:"type"`

	// Statement is "items" or "count".
	Statement string `yaml:"statement,omitempty"`

	// Text is the SQL fragment (sql_contains, sql_not_contains).
	Text string `yaml:"text,omitempty"`

	// Value is the expected bound parameter (arg_contains) in the form
	// querysql.FormatArg renders it.
	Value string `yaml:"value,omitempty"`

	// Count is the expected number (arg_count, pages).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertSQLContains    = "sql_contains"
	AssertSQLNotContains = "sql_not_contains"
	AssertArgCount       = "arg_count"
	AssertArgContains    = "arg_contains"
	AssertPages          = "pages"
)

// Statement names.
const (
	StatementItems = "items"
	StatementCount = "count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the catalogue path relative to the scenario BEFORE validation
	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) {
		scenario.Catalog = filepath.Join(filepath.Dir(path), scenario.Catalog)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}
	if _, err := os.Stat(s.Catalog); os.IsNotExist(err) {
		return fmt.Errorf("catalog file not found: %s", s.Catalog)
	}

	if s.Collection == "" {
		return fmt.Errorf("collection is required")
	}

	if s.Rows < 0 {
		return fmt.Errorf("rows must be non-negative")
	}

	if s.ExpectError != nil {
		if s.ExpectError.Code == "" {
			return fmt.Errorf("expect_error: code is required")
		}
		if s.Golden || len(s.Assertions) > 0 {
			return fmt.Errorf("expect_error cannot be combined with golden or assertions")
		}
		return nil
	}

	if !s.Golden && len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required unless golden or expect_error is set")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertSQLContains, AssertSQLNotContains:
		if err := validateStatement(index, a); err != nil {
			return err
		}
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for %s", index, a.Type)
		}
	case AssertArgCount:
		if err := validateStatement(index, a); err != nil {
			return err
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for arg_count", index)
		}
	case AssertArgContains:
		if err := validateStatement(index, a); err != nil {
			return err
		}
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for arg_contains", index)
		}
	case AssertPages:
		if a.Count <= 0 {
			return fmt.Errorf("assertions[%d]: count must be positive for pages", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

func validateStatement(index int, a *Assertion) error {
	switch a.Statement {
	case StatementItems, StatementCount:
		return nil
	case "":
		return fmt.Errorf("assertions[%d]: statement is required for %s", index, a.Type)
	default:
		return fmt.Errorf("assertions[%d]: unknown statement %q", index, a.Statement)
	}
}
