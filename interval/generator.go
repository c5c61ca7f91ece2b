package interval

import (
	"sync"
	"time"
)

// ScheduleGenerator lazily materializes the two parallel interval
// sequences an IntervalSet is built from: cron_intervals (following the
// cron expression's own fire rhythm) and data_intervals (following the
// derived data Unit's grid, aligned to the unit boundary rather than the
// cron's phase). Grounded on intervals.py's cron_intervals/data_intervals
// properties and _intervals_until.
type ScheduleGenerator struct {
	cronSchedule CronSchedule
	unit         Unit
	start, end   time.Time

	cronOnce  sync.Once
	cronCache []Interval

	dataOnce  sync.Once
	dataCache []Interval
}

// NewScheduleGenerator builds a generator over [start, end) for the given
// cron schedule and derived unit. Both are resolved once by the caller
// (IntervalSet) and shared here to avoid re-deriving the unit per sequence.
func NewScheduleGenerator(cronSchedule CronSchedule, unit Unit, start, end time.Time) *ScheduleGenerator {
	return &ScheduleGenerator{cronSchedule: cronSchedule, unit: unit, start: start, end: end}
}

// CronIntervals returns the ordered, non-overlapping, contiguous sequence
// of cron-rhythm intervals, computed once and cached.
func (g *ScheduleGenerator) CronIntervals() []Interval {
	g.cronOnce.Do(func() {
		g.cronCache = intervalsUntil(g.cronSchedule, g.start, g.end, g.unit.DurationSeconds())
	})
	return g.cronCache
}

// DataIntervals returns the ordered, non-overlapping, contiguous sequence
// of unit-grid-aligned data intervals, computed once and cached.
func (g *ScheduleGenerator) DataIntervals() []Interval {
	g.dataOnce.Do(func() {
		g.dataCache = intervalsUntil(g.unit.Schedule(), g.start, g.end, g.unit.DurationSeconds())
	})
	return g.dataCache
}

// intervalsUntil walks schedule forward from start, emitting an Interval
// for each consecutive pair of fire times whose gap matches
// expectedDurationSeconds exactly. A gap that doesn't match is a partial
// leading interval (e.g. start isn't on the unit grid) and is pruned
// rather than emitted, per spec §4.2/§8.1 invariant 3.
func intervalsUntil(schedule CronSchedule, start, end time.Time, expectedDurationSeconds float64) []Interval {
	var result []Interval
	it := NewCronIterator(schedule, start)
	current := start

	for {
		next := it.GetNext()
		if !next.Equal(current) {
			if next.Sub(current).Seconds() == expectedDurationSeconds {
				result = append(result, NewInterval(current, next))
			}
		}
		current = next
		if !next.Before(end) {
			break
		}
	}

	return result
}
