package calendar

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestCompetitionAnchorSunday(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-06-15", "2025-06-15"}, // already Sunday
		{"2025-06-14", "2025-06-15"}, // Saturday
		{"2025-06-09", "2025-06-15"}, // Monday
		{"2025-06-16", "2025-06-22"}, // Monday after
		{"2024-12-31", "2025-01-05"}, // across the year
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(CompetitionAnchorSunday(mustDate(t, tt.in))))
		})
	}
}

func TestCompetitionAnchorSunday_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := mustDate(t, "2020-01-01")
	for i := 0; i < 500; i++ {
		d := AddDays(base, rng.Intn(3000))
		got := CompetitionAnchorSunday(d)

		assert.Equal(t, time.Sunday, got.Weekday(), "anchor for %s", FormatDate(d))
		assert.False(t, got.Before(d), "anchor %s precedes %s", FormatDate(got), FormatDate(d))
		assert.Less(t, DaysBetween(d, got), 7)
		if d.Weekday() == time.Sunday {
			assert.Equal(t, d, got)
		}
	}
}

func TestWeekSpan(t *testing.T) {
	monday, sunday := WeekSpan(mustDate(t, "2025-06-15"))
	assert.Equal(t, "2025-06-09", FormatDate(monday))
	assert.Equal(t, "2025-06-15", FormatDate(sunday))
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, 6, DaysBetween(monday, sunday))
}

func TestCurrentAnchorMonday(t *testing.T) {
	assert.Equal(t, "2025-04-07", FormatDate(CurrentAnchorMonday(mustDate(t, "2025-04-07"))))
	assert.Equal(t, "2025-04-07", FormatDate(CurrentAnchorMonday(mustDate(t, "2025-04-13"))))
	assert.Equal(t, "2025-04-14", FormatDate(CurrentAnchorMonday(mustDate(t, "2025-04-15"))))

	rng := rand.New(rand.NewSource(7))
	base := mustDate(t, "2021-03-01")
	for i := 0; i < 200; i++ {
		d := AddDays(base, rng.Intn(2000))
		got := CurrentAnchorMonday(d)
		assert.Equal(t, time.Monday, got.Weekday())
		assert.False(t, got.After(d))
		assert.Less(t, DaysBetween(got, d), 7)
	}
}

func TestWholeWeeksBetween(t *testing.T) {
	assert.Equal(t, 10, WholeWeeksBetween(mustDate(t, "2025-04-07"), mustDate(t, "2025-06-15")))
	assert.Equal(t, 1, WholeWeeksBetween(mustDate(t, "2025-06-09"), mustDate(t, "2025-06-15")))
	assert.Equal(t, 0, WholeWeeksBetween(mustDate(t, "2025-06-10"), mustDate(t, "2025-06-15")))
	assert.Equal(t, 0, WholeWeeksBetween(mustDate(t, "2025-06-16"), mustDate(t, "2025-06-15")))
}

func TestDate_KeepsWallClockDay(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	late := time.Date(2025, 4, 7, 23, 30, 0, 0, berlin)
	assert.Equal(t, "2025-04-07", FormatDate(Date(late)))
	assert.Equal(t, "2025-04-07", FormatDate(Today(late.UTC(), berlin)))
	assert.Equal(t, "2025-04-07", FormatDate(Today(late, time.UTC)), "21:30 UTC is still the 7th")
}

func TestContains(t *testing.T) {
	start := mustDate(t, "2025-04-07")
	end := mustDate(t, "2025-04-13")
	assert.True(t, Contains(start, end, start))
	assert.True(t, Contains(start, end, end))
	assert.True(t, Contains(start, end, time.Date(2025, 4, 13, 18, 0, 0, 0, time.UTC)))
	assert.False(t, Contains(start, end, mustDate(t, "2025-04-14")))
	assert.False(t, Contains(start, end, mustDate(t, "2025-04-06")))
}
