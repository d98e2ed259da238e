package queryir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatetime_Shapes(t *testing.T) {
	jan := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		raw   string
		kind  DatetimeKind
		start time.Time
		end   time.Time
	}{
		{"instant", "2020-01-01T00:00:00Z", DatetimeInstant, jan, time.Time{}},
		{"open end", "2020-01-01T00:00:00Z/..", DatetimeAfter, jan, time.Time{}},
		{"open start", "../2020-01-01T00:00:00Z", DatetimeBefore, time.Time{}, jan},
		{"closed", "2020-01-01T00:00:00Z/2020-06-01T00:00:00Z", DatetimeBetween, jan, jun},
		{"closed same instant", "2020-01-01T00:00:00Z/2020-01-01T00:00:00Z", DatetimeBetween, jan, jan},
		{"offset normalized to UTC", "2020-01-01T02:00:00+02:00", DatetimeInstant, jan, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := ParseDatetime("built_at", tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "built_at", dt.Column)
			assert.Equal(t, tt.kind, dt.Kind)
			assert.True(t, tt.start.Equal(dt.Start), "start %v", dt.Start)
			assert.True(t, tt.end.Equal(dt.End), "end %v", dt.End)
			if !dt.Start.IsZero() {
				assert.Equal(t, time.UTC, dt.Start.Location())
			}
		})
	}
}

func TestParseDatetime_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not a timestamp", "yesterday"},
		{"date only", "2020-01-01"},
		{"open sentinel alone", ".."},
		{"both open", "../.."},
		{"two separators", "2020-01-01T00:00:00Z/2020-02-01T00:00:00Z/2020-03-01T00:00:00Z"},
		{"empty start", "/2020-01-01T00:00:00Z"},
		{"empty end", "2020-01-01T00:00:00Z/"},
		{"bad end", "2020-01-01T00:00:00Z/later"},
		{"end before start", "2020-06-01T00:00:00Z/2020-01-01T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := ParseDatetime("built_at", tt.raw)
			assert.Nil(t, dt)
			assert.True(t, IsInvalidParameter(err), "got %v", err)
		})
	}
}
