package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/featureql/internal/features"
	"github.com/roach88/featureql/internal/queryir"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	DatabaseOptions
	Params queryir.Params
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <collection>",
		Short: "Fetch one page of features",
		Long: `Run an item request against the database and print one page of features
as a GeoJSON FeatureCollection.

Parameters are validated before connecting; a rejected request exits 1
without touching the database.

Example:
  featureql query buildings --dsn $FEATUREQL_DSN --bbox 9,50,10,51 --limit 5
  featureql query buildings --cursor 5 --limit 5`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	bindQueryFlags(cmd, &opts.Params)
	bindDatabaseFlags(cmd, &opts.DatabaseOptions)

	return cmd
}

func runQuery(opts *QueryOptions, collectionID string, cmd *cobra.Command) error {
	requestID := features.UUIDv7Generator{}.Generate()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		RequestID: requestID,
	}

	cat, reg, err := LoadCatalog(opts.Catalog)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	// Reject bad parameters before opening a connection.
	if _, err := features.NewService(cat, reg, nil).Plan(collectionID, opts.Params); err != nil {
		return outputQueryError(formatter, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = features.WithRequestID(ctx, requestID)
	st, err := openStore(ctx, opts.DatabaseOptions)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	defer st.Close()

	page, err := features.NewService(cat, reg, st).Items(ctx, collectionID, opts.Params)
	if err != nil {
		return outputQueryError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(page.FeatureCollection())
	}

	data, err := json.MarshalIndent(page.FeatureCollection(), "", "  ")
	if err != nil {
		return WrapExitError(ExitFailure, "encode features", err)
	}
	fmt.Fprintln(formatter.Writer, string(data))
	if page.HasNext() {
		formatter.VerboseLog("Next page: --cursor %d", page.NextCursor)
	}
	return nil
}
