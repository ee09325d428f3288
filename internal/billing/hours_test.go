package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundHoursQuarterHour(t *testing.T) {
	cases := []struct {
		hours string
		want  string
	}{
		{"7.3", "7.5"},
		{"7.5", "7.5"}, // already on a boundary
		{"0.01", "0.25"},
		{"0.25", "0.25"},
		{"1", "1"},
		{"8.76", "9"},
	}
	for _, tc := range cases {
		got := RoundHours(dec(t, tc.hours), 15)
		assert.True(t, got.Equal(dec(t, tc.want)), "RoundHours(%s, 15) = %s, want %s", tc.hours, got, tc.want)
	}
}

func TestRoundHoursSixMinuteIncrement(t *testing.T) {
	got := RoundHours(dec(t, "1.05"), 6)
	assert.True(t, got.Equal(dec(t, "1.1")), "got %s", got)
}

func TestRoundHoursIdempotent(t *testing.T) {
	for _, raw := range []string{"0.2", "3.33", "7.3", "11.99"} {
		once := RoundHours(dec(t, raw), 15)
		twice := RoundHours(once, 15)
		assert.True(t, once.Equal(twice), "RoundHours not idempotent for %s: %s vs %s", raw, once, twice)
	}
}

func TestRoundHoursDisabledIncrement(t *testing.T) {
	in := dec(t, "7.3")
	assert.True(t, RoundHours(in, 0).Equal(in))
	assert.True(t, RoundHours(in, -15).Equal(in))
}

func TestRoundHoursZeroHours(t *testing.T) {
	assert.True(t, RoundHours(dec(t, "0"), 15).IsZero())
}
