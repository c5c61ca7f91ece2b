package interval

import (
	"fmt"
	"time"
)

// PrimitiveInterval is the persistence-boundary representation of an
// Interval: a pair of epoch-second timestamps. Conversion to/from Interval
// is total and bijective modulo second resolution.
type PrimitiveInterval [2]int64

// Interval is a half-open [start, end) time window. Missing defaults to
// true and only ever transitions true -> false, via an IntervalSet's
// MarkPresent* calls.
//
// Equality and ordering are expressed as methods rather than operator
// overloads (Go has none across heterogeneous types): Equal/Less/Greater
// and friends accept an Interval, a PrimitiveInterval, or a bare time.Time
// (treated as a zero-width range), mirroring the source's __eq__/__lt__ dispatch on tuple
// vs. Interval operands.
type Interval struct {
	Start, End time.Time
	Missing    bool
}

// NewInterval builds an Interval in the default (missing) state.
func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start.UTC(), End: end.UTC(), Missing: true}
}

// FromPrimitive builds a new, missing Interval from a PrimitiveInterval.
func FromPrimitive(p PrimitiveInterval) Interval {
	return NewInterval(time.Unix(p[0], 0), time.Unix(p[1], 0))
}

// ToPrimitive converts to the epoch-second persistence representation.
func (i Interval) ToPrimitive() PrimitiveInterval {
	return PrimitiveInterval{i.Start.Unix(), i.End.Unix()}
}

// rangeOf extracts comparable bounds from an Interval, a PrimitiveInterval,
// or a single instant (treated as a zero-width range so Covers' end-
// inclusive instant check and its range check share one code path).
func rangeOf(x any) (start, end time.Time, ok bool) {
	switch v := x.(type) {
	case Interval:
		return v.Start, v.End, true
	case *Interval:
		return v.Start, v.End, true
	case PrimitiveInterval:
		return time.Unix(v[0], 0).UTC(), time.Unix(v[1], 0).UTC(), true
	case time.Time:
		return v, v, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Covers reports whether x falls within [i.Start, i.End]. A single instant
// probe is end-inclusive by design (covers(e) == true for e == i.End) even
// though the interval itself is semantically half-open; a range probe
// [a, b) must be fully contained for Covers to hold.
func (i Interval) Covers(x any) bool {
	start, end, ok := rangeOf(x)
	if !ok {
		return false
	}
	return !start.Before(i.Start) && !end.After(i.End)
}

// Equal reports whether x has identical Start and End bounds to i.
// An Interval compares equal to a PrimitiveInterval with matching bounds.
func (i Interval) Equal(x any) bool {
	start, end, ok := rangeOf(x)
	if !ok {
		return false
	}
	return i.Start.Equal(start) && i.End.Equal(end)
}

// Less reports whether i starts before x. End is ignored, which holds
// because within a given IntervalSet the sequences are non-overlapping
// and contiguous.
func (i Interval) Less(x any) bool {
	start, _, ok := rangeOf(x)
	return ok && i.Start.Before(start)
}

// Greater reports whether i starts after x.
func (i Interval) Greater(x any) bool {
	start, _, ok := rangeOf(x)
	return ok && i.Start.After(start)
}

// LessOrEqual reports whether i starts before or at the same time as x.
func (i Interval) LessOrEqual(x any) bool {
	start, _, ok := rangeOf(x)
	return ok && !i.Start.After(start)
}

// GreaterOrEqual reports whether i starts after or at the same time as x.
func (i Interval) GreaterOrEqual(x any) bool {
	start, _, ok := rangeOf(x)
	return ok && !i.Start.Before(start)
}

// Key returns the PrimitiveInterval form of i, suitable as a comparable map
// key so Intervals and primitive tuples with matching bounds collide,
// mirroring the source's __hash__ derived from to_primitive().
func (i Interval) Key() PrimitiveInterval {
	return i.ToPrimitive()
}

// String renders the debug representation required by spec §6.3:
// Interval[start=YYYY-MM-DD HH:MM:SS,end=YYYY-MM-DD HH:MM:SS] (UTC).
func (i Interval) String() string {
	const layout = "2006-01-02 15:04:05"
	return fmt.Sprintf("Interval[start=%s,end=%s]", i.Start.UTC().Format(layout), i.End.UTC().Format(layout))
}
