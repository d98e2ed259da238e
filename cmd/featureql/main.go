// Command featureql compiles and serves OGC API Features queries over PostGIS.
package main

import (
	"os"

	"github.com/roach88/featureql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
