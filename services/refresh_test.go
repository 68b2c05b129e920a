package services

import (
	"strings"
	"testing"
	"time"

	"life-quest-system/models"
)

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestSameCalendarDay(t *testing.T) {
	cases := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{"same day different hours", utc(2026, 3, 14, 6, 0), utc(2026, 3, 14, 23, 59), true},
		{"two minutes across midnight", utc(2026, 3, 14, 23, 59), utc(2026, 3, 15, 0, 1), false},
		{"same day-of-month different month", utc(2026, 3, 14, 12, 0), utc(2026, 4, 14, 12, 0), false},
		{"same date different year", utc(2025, 3, 14, 12, 0), utc(2026, 3, 14, 12, 0), false},
	}
	for _, tc := range cases {
		if got := sameCalendarDay(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: sameCalendarDay = %t, want %t", tc.name, got, tc.want)
		}
	}
}

func TestSameCalendarDayNormalizesZones(t *testing.T) {
	// 2026-03-14 23:00 UTC is already 03-15 in UTC+2, but windows are UTC.
	zone := time.FixedZone("UTC+2", 2*3600)
	a := time.Date(2026, 3, 15, 1, 0, 0, 0, zone) // 23:00 UTC on the 14th
	b := utc(2026, 3, 14, 8, 0)
	if !sameCalendarDay(a, b) {
		t.Error("zoned time not normalized to UTC before comparison")
	}
}

func TestSameISOWeek(t *testing.T) {
	cases := []struct {
		name string
		a, b time.Time
		want bool
	}{
		// 2023-01-01 was a Sunday (ISO week 52 of 2022); Monday the 2nd starts week 1 of 2023.
		{"sunday/monday boundary", utc(2023, 1, 1, 12, 0), utc(2023, 1, 2, 12, 0), false},
		{"monday through sunday", utc(2023, 1, 2, 0, 1), utc(2023, 1, 8, 23, 59), true},
		{"year boundary same ISO week", utc(2022, 12, 31, 12, 0), utc(2023, 1, 1, 12, 0), true},
		{"one week apart", utc(2023, 1, 3, 12, 0), utc(2023, 1, 10, 12, 0), false},
	}
	for _, tc := range cases {
		if got := sameISOWeek(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: sameISOWeek = %t, want %t", tc.name, got, tc.want)
		}
	}
}

func TestSameCalendarMonth(t *testing.T) {
	cases := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{"first and last day", utc(2026, 2, 1, 0, 0), utc(2026, 2, 28, 23, 59), true},
		{"month boundary", utc(2026, 2, 28, 23, 59), utc(2026, 3, 1, 0, 1), false},
		{"same month different year", utc(2025, 2, 10, 0, 0), utc(2026, 2, 10, 0, 0), false},
	}
	for _, tc := range cases {
		if got := sameCalendarMonth(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: sameCalendarMonth = %t, want %t", tc.name, got, tc.want)
		}
	}
}

func TestIsStale(t *testing.T) {
	now := utc(2026, 3, 15, 10, 0)

	if !isStale(0, now, sameCalendarDay) {
		t.Error("never-refreshed (stamp 0) must be stale")
	}
	if isStale(utc(2026, 3, 15, 0, 5).UnixMilli(), now, sameCalendarDay) {
		t.Error("same-day stamp reported stale")
	}
	if !isStale(utc(2026, 3, 14, 23, 59).UnixMilli(), now, sameCalendarDay) {
		t.Error("yesterday's stamp not reported stale")
	}
}

func TestIsStaleIdempotentWithinWindow(t *testing.T) {
	now := utc(2026, 3, 15, 10, 0)
	// After stamping at now, every later call within the same window is fresh.
	stamp := now.UnixMilli()
	for _, later := range []time.Time{now, now.Add(time.Minute), utc(2026, 3, 15, 23, 59)} {
		if isStale(stamp, later, sameCalendarDay) {
			t.Errorf("stamp at %v reported stale at %v within same day", now, later)
		}
	}
}

func TestMilestoneStaleRollingWindow(t *testing.T) {
	now := utc(2026, 3, 31, 12, 0)

	if !milestoneStale(0, now) {
		t.Error("never-refreshed milestone must be stale")
	}
	if milestoneStale(now.AddDate(0, 0, -29).UnixMilli(), now) {
		t.Error("29 days old reported stale — window is rolling 30 days")
	}
	if !milestoneStale(now.Add(-milestoneWindow).UnixMilli(), now) {
		t.Error("exactly 30 days old not reported stale")
	}
	if !milestoneStale(now.AddDate(0, 0, -45).UnixMilli(), now) {
		t.Error("45 days old not reported stale")
	}
}

func TestStaticGuidance(t *testing.T) {
	cases := []struct {
		name     string
		prof     models.UserProfile
		wantKind models.GuidanceType
	}{
		{"long streak praised", models.UserProfile{StreakDays: 7}, models.GuidancePraise},
		{"broken streak alerted", models.UserProfile{StreakDays: 0, LastDailyFullClearAt: utc(2026, 3, 1, 8, 0).UnixMilli()}, models.GuidanceAlert},
		{"fresh profile gets strategy", models.UserProfile{}, models.GuidanceStrategy},
	}
	for _, tc := range cases {
		content, kind := staticGuidance(&tc.prof)
		if content == "" {
			t.Errorf("%s: empty guidance content", tc.name)
		}
		if kind != tc.wantKind {
			t.Errorf("%s: kind = %s, want %s", tc.name, kind, tc.wantKind)
		}
	}
}

func TestWeakestCategory(t *testing.T) {
	scores := map[string]int{
		models.CategoryHealth:   8,
		models.CategoryFinances: 2,
		models.CategoryMind:     5,
	}
	if got := weakestCategory(scores); got != models.CategoryFinances {
		t.Errorf("weakestCategory = %q, want finances", got)
	}
	if got := weakestCategory(nil); got != "" {
		t.Errorf("weakestCategory(nil) = %q, want empty", got)
	}
	// Ties resolve in wheel order: health comes before mind.
	if got := weakestCategory(map[string]int{models.CategoryMind: 3, models.CategoryHealth: 3}); got != models.CategoryHealth {
		t.Errorf("tie broke to %q, want health", got)
	}
}

func TestStaticGuidanceOracleSight(t *testing.T) {
	prof := models.UserProfile{
		StreakDays:        10, // would otherwise be praised for the streak
		ParagonPerkLevels: map[string]int{"oracle_sight": 1},
		LifeWheelScores:   map[string]int{models.CategoryHealth: 8, models.CategoryFinances: 2},
	}
	content, kind := staticGuidance(&prof)
	if !strings.Contains(content, models.CategoryFinances) {
		t.Errorf("oracle guidance ignores weakest category: %q", content)
	}
	if kind != models.GuidanceStrategy {
		t.Errorf("kind = %s, want strategy", kind)
	}

	// Without wheel scores the oracle falls back to streak handling.
	prof.LifeWheelScores = nil
	if _, kind := staticGuidance(&prof); kind != models.GuidancePraise {
		t.Errorf("kind without scores = %s, want praise", kind)
	}
}
