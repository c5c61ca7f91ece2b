package interval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luno/intervals/interval"
)

func TestInterval(t *testing.T) {
	i1 := interval.NewInterval(date(t, "2023-01-01"), date(t, "2023-01-02"))
	i2 := interval.NewInterval(date(t, "2023-01-02"), date(t, "2023-01-03"))
	i3 := interval.NewInterval(date(t, "2023-01-01"), date(t, "2023-01-02"))

	assert.Equal(t, "Interval[start=2023-01-01 00:00:00,end=2023-01-02 00:00:00]", i1.String())

	assert.True(t, i1.Less(i2))
	assert.True(t, i2.Greater(i1))
	assert.True(t, i1.GreaterOrEqual(i1))
	assert.True(t, i1.LessOrEqual(i1))
	assert.True(t, i1.Equal(i1))
	assert.False(t, i1.GreaterOrEqual(i2))
	assert.False(t, i2.LessOrEqual(i1))
	assert.True(t, i1.Equal(i3))
	assert.False(t, i2.Equal(i3))

	assert.True(t, i1.Equal(interval.PrimitiveInterval{date(t, "2023-01-01").Unix(), date(t, "2023-01-02").Unix()}))
	assert.False(t, i1.Equal(interval.PrimitiveInterval{date(t, "2023-01-02").Unix(), date(t, "2023-01-03").Unix()}))
	assert.True(t, i1.Less(interval.PrimitiveInterval{date(t, "2023-01-02").Unix(), date(t, "2023-01-03").Unix()}))

	lst := []interval.Interval{i1, i2}
	assert.Contains(t, lst, i1)
	assert.Contains(t, lst, i2)
	assert.Contains(t, lst, i3) // i1 and i3 are equal

	i4 := interval.NewInterval(date(t, "2023-01-04"), date(t, "2023-01-05"))
	assert.NotContains(t, lst, i4)

	assert.Equal(t, i1.Key(), i3.Key())
	assert.NotEqual(t, i1.Key(), i2.Key())
}

func TestIntervalCovers(t *testing.T) {
	i1 := interval.NewInterval(date(t, "2023-01-01"), date(t, "2023-01-02"))
	i2 := interval.NewInterval(date(t, "2023-01-02"), date(t, "2023-01-03"))

	assert.True(t, i1.Covers(date(t, "2023-01-01")))
	assert.True(t, i1.Covers(date(t, "2023-01-02"))) // end-inclusive for instants
	assert.True(t, i1.Covers(date(t, "2023-01-01 05:00:00")))
	assert.False(t, i1.Covers(date(t, "2023-01-02 00:00:01")))

	assert.True(t, i1.Covers(i1))
	assert.False(t, i1.Covers(i2))
	assert.False(t, i2.Covers(i1))

	assert.True(t, i1.Covers(interval.NewInterval(date(t, "2023-01-01 00:00:00"), date(t, "2023-01-01 01:00:00"))))
	assert.True(t, i1.Covers(interval.NewInterval(date(t, "2023-01-01 01:00:00"), date(t, "2023-01-01 02:00:00"))))
	assert.True(t, i1.Covers(interval.NewInterval(date(t, "2023-01-01 23:59:00"), date(t, "2023-01-02 00:00:00"))))

	assert.False(t, i1.Covers(interval.NewInterval(date(t, "2023-01-01 12:00:00"), date(t, "2023-01-02 12:00:00"))))
}

func TestIntervalContains(t *testing.T) {
	i := interval.NewInterval(date(t, "2023-01-01"), date(t, "2023-01-02"))

	assert.True(t, i.Covers(date(t, "2023-01-01")))
	assert.True(t, i.Covers(date(t, "2023-01-02")))
	assert.True(t, i.Covers(interval.NewInterval(date(t, "2023-01-01"), date(t, "2023-01-02"))))

	assert.False(t, i.Covers(date(t, "2023-01-02 00:01:00")))
	assert.False(t, i.Covers(interval.NewInterval(date(t, "2022-12-31"), date(t, "2023-01-02"))))
	assert.False(t, i.Covers(interval.NewInterval(date(t, "2023-01-01"), date(t, "2023-01-03"))))
	assert.True(t, i.Covers(interval.NewInterval(date(t, "2023-01-01 12:00:00"), date(t, "2023-01-01 18:00:00"))))
}
