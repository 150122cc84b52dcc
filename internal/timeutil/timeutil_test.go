package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock(t *testing.T) {
	cases := []struct {
		want string
		in   time.Duration
	}{
		{"00:00", 0},
		{"00:00", -time.Second},
		{"01:30", 90 * time.Second},
		{"14:55", 14*time.Minute + 55*time.Second},
		{"01:02:01", time.Hour + 2*time.Minute + 500*time.Millisecond},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Clock(tc.in), tc.in.String())
	}
}

func TestHoursMins(t *testing.T) {
	assert.Equal(t, "12m", HoursMins(12*time.Minute))
	assert.Equal(t, "1h 05m", HoursMins(65*time.Minute))
}

func TestFromStr(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	got, err := FromStr("2024-03-01", now)
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 1, got.Day())

	got, err = FromStr("2 days ago", now)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Day())

	_, err = FromStr("not a date at all", now)
	assert.Error(t, err)
}
