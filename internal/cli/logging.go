package cli

import (
	"io"
	"log/slog"
)

// configureLogging installs a text slog handler on w. Verbose enables
// debug output, which includes compiled SQL.
func configureLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
