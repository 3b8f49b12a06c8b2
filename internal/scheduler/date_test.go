package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDateOnly_StripsTimeAndZone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 23:30 local on the 15th must stay the 15th.
	ts := time.Date(2024, 6, 15, 23, 30, 0, 0, loc)
	got := DateOnly(ts)

	assert.Equal(t, "2024-06-15", FormatDate(got))
	assert.Equal(t, time.UTC, got.Location())
	assert.Zero(t, got.Hour())
}

func TestNextDueDate_SingleInterval(t *testing.T) {
	tests := []struct {
		name    string
		current string
		freq    int
		want    string
	}{
		{"simple week", "2024-06-01", 7, "2024-06-08"},
		{"month boundary", "2024-06-28", 7, "2024-07-05"},
		{"year boundary", "2024-12-30", 7, "2025-01-06"},
		{"jan 31 plus 30 in leap year", "2024-01-31", 30, "2024-03-01"},
		{"jan 31 plus 30 in common year", "2023-01-31", 30, "2023-03-02"},
		{"across feb 29", "2024-02-28", 2, "2024-03-01"},
		{"daily", "2024-06-01", 1, "2024-06-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDueDate(date(tt.current), tt.freq, date(tt.current), false)
			assert.Equal(t, tt.want, FormatDate(got))
		})
	}
}

func TestNextDueDate_NoCatchUpAdvancesOneIntervalOnly(t *testing.T) {
	// Plan is 90 days overdue with a 30 day frequency: one pass moves it a
	// single interval, still in the past.
	got := NextDueDate(date("2024-01-01"), 30, date("2024-04-01"), false)
	assert.Equal(t, "2024-01-31", FormatDate(got))
}

func TestNextDueDate_CatchUpLandsStrictlyAfterToday(t *testing.T) {
	got := NextDueDate(date("2024-01-01"), 30, date("2024-04-01"), true)
	assert.Equal(t, "2024-04-30", FormatDate(got))
	assert.True(t, got.After(date("2024-04-01")))
}

func TestNextDueDate_CatchUpWhenDueToday(t *testing.T) {
	// Due exactly today: a single interval already clears today.
	got := NextDueDate(date("2024-04-01"), 30, date("2024-04-01"), true)
	assert.Equal(t, "2024-05-01", FormatDate(got))
}

func TestParseFormatRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", FormatDate(d))

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)
}
