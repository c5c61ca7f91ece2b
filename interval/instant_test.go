package interval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luno/intervals/interval"
)

func TestToInstant(t *testing.T) {
	want := date(t, "2023-01-01")

	got, err := interval.ToInstant(want)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = interval.ToInstant(want.Unix())
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = interval.ToInstant(int(want.Unix()))
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = interval.ToInstant("2023-01-01")
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = interval.ToInstant("2023-01-01T00:00:00Z")
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}

func TestToInstantErrors(t *testing.T) {
	_, err := interval.ToInstant("not a date")
	require.Error(t, err)

	_, err = interval.ToInstant(3.14)
	require.Error(t, err)
}

func TestNewIntervalSetFromAny(t *testing.T) {
	s, err := interval.NewIntervalSetFromAny("@daily", "2023-01-01", date(t, "2023-01-05"))
	require.NoError(t, err)
	assert.True(t, s.Start.Equal(date(t, "2023-01-01")))
	assert.True(t, s.End.Equal(date(t, "2023-01-05")))

	_, err = interval.NewIntervalSetFromAny("@daily", "not a date", "2023-01-05")
	require.Error(t, err)
}
