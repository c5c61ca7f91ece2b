package interval

import (
	"fmt"
	"time"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
)

// ToInstant resolves a heterogeneous time-like value to a canonical UTC
// instant. It accepts a time.Time, a Unix-seconds integer, or a date/
// date-time string (RFC3339, "2006-01-02 15:04:05" or "2006-01-02"), matching spec's Instant
// union-of-types contract (§6.1). Timezone/DST handling beyond what
// time.Parse and time.Time.In do is delegated to the caller, per spec's
// non-goals.
func ToInstant(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case int64:
		return time.Unix(t, 0).UTC(), nil
	case int:
		return time.Unix(int64(t), 0).UTC(), nil
	case string:
		return parseInstantString(t)
	default:
		return time.Time{}, errors.New("unsupported instant type",
			j.KV("type", fmt.Sprintf("%T", v)))
	}
}

func parseInstantString(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unparseable instant string", j.KV("value", s))
}
