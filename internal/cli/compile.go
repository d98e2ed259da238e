package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/featureql/internal/features"
	"github.com/roach88/featureql/internal/queryir"
	"github.com/roach88/featureql/internal/querysql"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Params    queryir.Params
	Precision int
}

// StatementOutput is one compiled statement in JSON output.
type StatementOutput struct {
	SQL  string `json:"sql"`
	Args []any  `json:"args"`
}

// CompileResult is the JSON payload of the compile command.
type CompileResult struct {
	Collection  string          `json:"collection"`
	Fingerprint string          `json:"fingerprint"`
	Limit       int             `json:"limit"`
	Cursor      int64           `json:"cursor"`
	OutputCRS   int             `json:"output_crs"`
	Items       StatementOutput `json:"items"`
	Count       StatementOutput `json:"count"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <collection>",
		Short: "Compile an item request to SQL",
		Long: `Compile an item request against a catalogue collection and print the
listing and count statements with their bound parameters.

Nothing is executed; no database is needed.

Example:
  featureql compile buildings --catalog catalog.cue --bbox 9,50,10,51 --limit 20
  featureql compile parcels --filter owner=city --crs EPSG:4326 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	bindQueryFlags(cmd, &opts.Params)
	cmd.Flags().IntVar(&opts.Precision, "precision", querysql.DefaultPrecision, "decimal digits in GeoJSON coordinates")

	return cmd
}

func runCompile(opts *CompileOptions, collectionID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	formatter.VerboseLog("Loading catalog %s", opts.Catalog)
	cat, reg, err := LoadCatalog(opts.Catalog)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	svc := features.NewService(cat, reg, nil,
		features.WithCompiler(querysql.NewCompiler(querysql.WithPrecision(opts.Precision))))

	plan, err := svc.Plan(collectionID, opts.Params)
	if err != nil {
		return outputQueryError(formatter, err)
	}

	result := &CompileResult{
		Collection:  collectionID,
		Fingerprint: plan.Fingerprint,
		Limit:       plan.Spec.Limit,
		Cursor:      plan.Spec.Cursor,
		OutputCRS:   plan.Spec.OutputSRID,
		Items:       StatementOutput{SQL: plan.Items.SQL, Args: plan.Items.Args},
		Count:       StatementOutput{SQL: plan.Count.SQL, Args: plan.Count.Args},
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	writeCompileText(formatter, result)
	return nil
}

func writeCompileText(formatter *OutputFormatter, result *CompileResult) {
	w := formatter.Writer
	fmt.Fprintf(w, "-- collection: %s\n", result.Collection)
	fmt.Fprintf(w, "-- fingerprint: %s\n", result.Fingerprint)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "-- items")
	fmt.Fprintln(w, result.Items.SQL+";")
	fmt.Fprintf(w, "-- args: %s\n", formatArgs(result.Items.Args))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "-- count")
	fmt.Fprintln(w, result.Count.SQL+";")
	fmt.Fprintf(w, "-- args: %s\n", formatArgs(result.Count.Args))
}
