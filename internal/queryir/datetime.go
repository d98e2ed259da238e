package queryir

import (
	"strings"
	"time"
)

// openBound marks the open side of an interval.
const openBound = ".."

// ParseDatetime parses an OGC API datetime parameter for column.
//
// Accepted shapes:
//
//	2020-01-01T00:00:00Z                         instant
//	../2020-01-01T00:00:00Z                      open start
//	2020-01-01T00:00:00Z/..                      open end
//	2020-01-01T00:00:00Z/2020-06-01T00:00:00Z    closed, inclusive
//
// Timestamps must be RFC 3339 and are normalized to UTC.
func ParseDatetime(column, raw string) (*Datetime, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, NewInvalidParameter("datetime", "empty value")
	}

	parts := strings.Split(s, "/")
	switch len(parts) {
	case 1:
		if s == openBound {
			return nil, NewInvalidParameter("datetime", "open bound without interval")
		}
		t, err := parseTimestamp(s)
		if err != nil {
			return nil, err
		}
		return &Datetime{Column: column, Kind: DatetimeInstant, Start: t}, nil

	case 2:
		start, end := parts[0], parts[1]
		switch {
		case start == openBound && end == openBound:
			return nil, NewInvalidParameter("datetime", "interval cannot be open at both ends")
		case start == openBound:
			t, err := parseTimestamp(end)
			if err != nil {
				return nil, err
			}
			return &Datetime{Column: column, Kind: DatetimeBefore, End: t}, nil
		case end == openBound:
			t, err := parseTimestamp(start)
			if err != nil {
				return nil, err
			}
			return &Datetime{Column: column, Kind: DatetimeAfter, Start: t}, nil
		}

		startT, err := parseTimestamp(start)
		if err != nil {
			return nil, err
		}
		endT, err := parseTimestamp(end)
		if err != nil {
			return nil, err
		}
		if endT.Before(startT) {
			return nil, NewInvalidParameter("datetime", "interval end %s precedes start %s",
				endT.Format(time.RFC3339), startT.Format(time.RFC3339))
		}
		return &Datetime{Column: column, Kind: DatetimeBetween, Start: startT, End: endT}, nil

	default:
		return nil, NewInvalidParameter("datetime", "expected at most one '/' separator")
	}
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, NewInvalidParameter("datetime", "%q is not an RFC 3339 timestamp", s)
	}
	return t.UTC(), nil
}
