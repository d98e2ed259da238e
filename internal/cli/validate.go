package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/featureql/internal/catalog"
)

// CollectionSummary describes one compiled collection.
type CollectionSummary struct {
	ID             string   `json:"id"`
	Table          string   `json:"table"`
	GeometryColumn string   `json:"geometry_column"`
	StorageCRS     int      `json:"storage_crs"`
	DatetimeColumn string   `json:"datetime_column,omitempty"`
	Columns        []string `json:"columns"`
	CRS            []int    `json:"crs"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool                `json:"valid"`
	DefaultLimit int                 `json:"default_limit"`
	MaxLimit     int                 `json:"max_limit"`
	Collections  []CollectionSummary `json:"collections"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the collection catalogue",
		Long: `Validate the CUE collection catalogue without connecting to a database.

Checks CUE syntax, the embedded catalogue schema (identifiers, SRIDs,
limits) and consistency rules: property columns must not shadow the id or
geometry column, and every CRS must be known.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	formatter.VerboseLog("Loading catalog %s", opts.Catalog)
	cat, _, err := LoadCatalog(opts.Catalog)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	result := &ValidationResult{
		Valid:        true,
		DefaultLimit: cat.Limits.Default,
		MaxLimit:     cat.Limits.Max,
	}
	for _, c := range cat.Collections() {
		formatter.VerboseLog("Validated collection: %s", c.ID)
		result.Collections = append(result.Collections, summarize(c))
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Catalog valid: %d collection(s), limit %d (max %d)\n\n",
		len(result.Collections), result.DefaultLimit, result.MaxLimit)
	for _, c := range result.Collections {
		datetime := "no datetime"
		if c.DatetimeColumn != "" {
			datetime = "datetime " + c.DatetimeColumn
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s (%s, SRID %d), %s, columns [%s], crs %v\n",
			c.ID, c.Table, c.GeometryColumn, c.StorageCRS, datetime, strings.Join(c.Columns, ", "), c.CRS)
	}
	return nil
}

func summarize(c *catalog.Collection) CollectionSummary {
	table := c.Table
	if c.Schema != "" {
		table = c.Schema + "." + c.Table
	}
	columns := c.Columns
	if columns == nil {
		columns = []string{}
	}
	return CollectionSummary{
		ID:             c.ID,
		Table:          table,
		GeometryColumn: c.GeometryColumn,
		StorageCRS:     c.StorageSRID,
		DatetimeColumn: c.DatetimeColumn,
		Columns:        columns,
		CRS:            c.CRS,
	}
}
