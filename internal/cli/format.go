package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/featureql/internal/querysql"
)

// formatArgs renders bound parameters as "$1=value, $2=value".
func formatArgs(args []any) string {
	if len(args) == 0 {
		return "(none)"
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("$%d=%s", i+1, querysql.FormatArg(a))
	}
	return strings.Join(parts, ", ")
}
