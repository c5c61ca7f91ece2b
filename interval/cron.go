package interval

import (
	"time"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/robfig/cron/v3"
)

// CronSchedule is the external cron collaborator's contract (spec §6.2):
// given an instant, produce the next fire time strictly after it. It is
// satisfied directly by robfig/cron/v3's cron.Schedule.
type CronSchedule interface {
	Next(time.Time) time.Time
}

// previousAware lets a CronSchedule compute its own previous fire time
// relative to now, avoiding the generic (and more expensive) doubling
// search in previousBySearch. Mirrors process/schedule.go's previousAware.
type previousAware interface {
	Previous(now time.Time) time.Time
}

// periodicSchedule lets a CronSchedule expose a fixed period, so a
// CronIterator can step backwards by simple subtraction instead of
// searching. gridSchedule (the data-unit schedule) always implements it.
type periodicSchedule interface {
	Period() time.Duration
}

const maxLookBack = 1000 * 24 * time.Hour

// cronWithPrevious adapts a robfig/cron/v3 Schedule (which only exposes
// Next) into a previousAware CronSchedule, using the same doubling-search
// technique as process/schedule.go's cronWithPrevious: repeatedly look
// further back until Next(t) lands before the reference tick, then walk
// forward one step at a time to land exactly on the preceding fire time.
type cronWithPrevious struct {
	cron.Schedule
}

func (c cronWithPrevious) Previous(now time.Time) time.Time {
	return previousBySearch(c.Schedule, now)
}

func previousBySearch(schedule CronSchedule, now time.Time) time.Time {
	lookBack := 10 * time.Minute
	next := schedule.Next(now)
	prev := next
	for prev.Equal(next) {
		if lookBack > maxLookBack {
			return now
		}
		t := next.Add(-lookBack)
		lookBack *= 2
		prev = schedule.Next(t)
	}
	t := prev
	for !t.Equal(next) {
		prev, t = t, schedule.Next(prev)
	}
	return prev
}

// previous returns the latest fire time of schedule at or before now,
// preferring the schedule's own previousAware implementation when present.
func previous(schedule CronSchedule, now time.Time) time.Time {
	if p, ok := schedule.(previousAware); ok {
		return p.Previous(now)
	}
	return previousBySearch(schedule, now)
}

// ParseCron parses a standard 5-field cron expression (or a "@every"/
// "@daily"-style macro) into a CronSchedule, the engine's sole point of
// contact with the cron collaborator (spec §6.2 item 2).
func ParseCron(expr string) (CronSchedule, error) {
	s, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, errors.Wrap(err, "parse cron", j.KV("cron", expr))
	}
	return cronWithPrevious{Schedule: s}, nil
}

// gridSchedule fires on a fixed period aligned to multiples of that period
// counted from Go's zero time (time.Time.Truncate); for any period that
// divides a day this is alignment to UTC midnight. The alignment ignores
// any cron expression's phase. This is the mechanism by which a data unit derived
// from a phase-shifted cron (e.g. "0 12 * * *") still produces data
// intervals aligned to midnight rather than noon: it is a direct adaptation
// of process/schedule.go's intervalSchedule.Next truncate-then-advance
// logic, with Offset fixed at zero (data units always align to the grid).
type gridSchedule struct {
	period time.Duration
}

func (g gridSchedule) Next(t time.Time) time.Time {
	next := t.Truncate(g.period)
	if !next.After(t) {
		next = next.Add(g.period)
	}
	return next
}

func (g gridSchedule) Period() time.Duration {
	return g.period
}

// CronIterator is a stateful, bidirectional walk over a CronSchedule's fire
// times seeded at an anchor instant, matching spec's cron collaborator
// iterator contract (§6.2 item 2): GetNext advances, GetPrev retreats.
type CronIterator struct {
	schedule CronSchedule
	current  time.Time
}

// NewCronIterator seeds an iterator at anchor; the first GetNext call
// returns the schedule's first fire time strictly after anchor.
func NewCronIterator(schedule CronSchedule, anchor time.Time) *CronIterator {
	return &CronIterator{schedule: schedule, current: anchor}
}

// GetNext advances the iterator and returns the next fire time.
func (c *CronIterator) GetNext() time.Time {
	next := c.schedule.Next(c.current)
	c.current = next
	return next
}

// GetPrev retreats the iterator and returns the preceding fire time.
func (c *CronIterator) GetPrev() time.Time {
	var prev time.Time
	if p, ok := c.schedule.(periodicSchedule); ok {
		prev = c.current.Add(-p.Period())
	} else {
		prev = previous(c.schedule, c.current.Add(-time.Nanosecond))
	}
	c.current = prev
	return prev
}
