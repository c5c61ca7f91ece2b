package interval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luno/intervals/interval"
)

func TestScheduleGeneratorCachesResult(t *testing.T) {
	schedule, err := interval.ParseCron("@daily")
	require.NoError(t, err)

	g := interval.NewScheduleGenerator(schedule, interval.UnitDay, date(t, "2023-01-01"), date(t, "2023-01-05"))

	first := g.CronIntervals()
	second := g.CronIntervals()
	require.Len(t, first, 4)
	assert.Equal(t, first, second)

	firstData := g.DataIntervals()
	secondData := g.DataIntervals()
	assert.Equal(t, firstData, secondData)
}

func TestScheduleGeneratorPrunesPartialLeadingInterval(t *testing.T) {
	schedule, err := interval.ParseCron("@daily")
	require.NoError(t, err)

	// starting mid-day means the first day/day boundary pair spans less
	// than a full day and must be pruned rather than emitted.
	g := interval.NewScheduleGenerator(schedule, interval.UnitDay, date(t, "2023-01-01 12:00:00"), date(t, "2023-01-04"))

	got := g.CronIntervals()
	require.Len(t, got, 2)
	assert.True(t, got[0].Equal(interval.NewInterval(date(t, "2023-01-02"), date(t, "2023-01-03"))))
	assert.True(t, got[1].Equal(interval.NewInterval(date(t, "2023-01-03"), date(t, "2023-01-04"))))
}

func TestScheduleGeneratorDegenerateRangeStillEmitsOneInterval(t *testing.T) {
	schedule, err := interval.ParseCron("@daily")
	require.NoError(t, err)

	// start == end: the walk still emits the single interval beginning at
	// start, since the loop only stops once a fire time reaches or passes
	// end, never before emitting the interval that crosses it.
	g := interval.NewScheduleGenerator(schedule, interval.UnitDay, date(t, "2023-01-01"), date(t, "2023-01-01"))
	got := g.CronIntervals()
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(interval.NewInterval(date(t, "2023-01-01"), date(t, "2023-01-02"))))
}
