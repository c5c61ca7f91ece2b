package interval_test

import (
	"testing"
	"time"
)

// date parses a date or date-time string in the formats used throughout
// these tests, ported from original_source/tests/core/test_intervals.py's
// to_datetime helper calls.
func date(t *testing.T, s string) time.Time {
	t.Helper()
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC()
		}
	}
	t.Fatalf("unparseable date %q", s)
	return time.Time{}
}
