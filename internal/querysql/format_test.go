package querysql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatArg(t *testing.T) {
	tests := []struct {
		arg  any
		want string
	}{
		{"school", `"school"`},
		{"", `""`},
		{0.0, "0"},
		{9.5, "9.5"},
		{int64(-1), "-1"},
		{25, "25"},
		{time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "2020-01-01T00:00:00Z"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatArg(tt.arg))
	}
}
