package querysql

import (
	"fmt"
	"strconv"
	"time"
)

// FormatArg renders one bound parameter for display. Strings are quoted so
// empty and space-padded values stay visible.
func FormatArg(a any) string {
	switch v := a.(type) {
	case string:
		return strconv.Quote(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
