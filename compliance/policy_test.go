package compliance

import (
	"testing"
	"time"

	"github.com/gtiq/models"
)

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name       string
		in         time.Time
		wantMonday time.Time
	}{
		{
			"wednesday",
			time.Date(2026, 3, 4, 12, 30, 0, 0, time.UTC),
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			"monday maps to itself",
			time.Date(2026, 3, 2, 0, 0, 1, 0, time.UTC),
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday closes the week",
			time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		monday, sunday := WeekRange(tt.in)
		if !monday.Equal(tt.wantMonday) {
			t.Errorf("%s: monday = %v, want %v", tt.name, monday, tt.wantMonday)
		}
		wantSunday := tt.wantMonday.AddDate(0, 0, 6).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		if !sunday.Equal(wantSunday) {
			t.Errorf("%s: sunday = %v, want %v", tt.name, sunday, wantSunday)
		}
	}
}

func TestMonthRange(t *testing.T) {
	first, next := MonthRange(time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC))
	if !first.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first = %v", first)
	}
	if !next.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("next = %v", next)
	}
}

func TestMergeWorkerRuleOverrides(t *testing.T) {
	start := "08:00"
	settings := &models.ComplianceSettings{
		MaxWeeklyHours:      40,
		MaxMonthlyHours:     160,
		CheckinWindowStart:  &start,
		AllowSunday:         false,
		AutoCloseAfterHours: 16,
	}

	twenty := 20.0
	sunday := true
	rule := &models.WorkerDayRule{
		MaxWeeklyHours: &twenty,
		AllowSunday:    &sunday,
	}

	eff := Merge(settings, rule)
	if eff.MaxWeeklyHours != 20 {
		t.Errorf("MaxWeeklyHours = %v, want 20 (rule override)", eff.MaxWeeklyHours)
	}
	if eff.MaxMonthlyHours != 160 {
		t.Errorf("MaxMonthlyHours = %v, want 160 (inherited)", eff.MaxMonthlyHours)
	}
	if !eff.AllowSunday {
		t.Error("AllowSunday not overridden by rule")
	}
	if eff.CheckinWindowStart != "08:00" {
		t.Errorf("CheckinWindowStart = %q, want 08:00", eff.CheckinWindowStart)
	}
	if eff.AutoCloseAfterHours != 16 {
		t.Errorf("AutoCloseAfterHours = %d, want 16", eff.AutoCloseAfterHours)
	}
}

func TestMergeDefaults(t *testing.T) {
	eff := Merge(nil, nil)
	if eff.MaxWeeklyHours != 40 || eff.MaxMonthlyHours != 160 || eff.AutoCloseAfterHours != 16 {
		t.Errorf("unexpected defaults: %+v", eff)
	}
}

func TestInCheckinWindow(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 4, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		start, end string
		t          time.Time
		want       bool
	}{
		{"no window allows all", "", "", at(3, 0), true},
		{"inside", "06:00", "22:00", at(9, 0), true},
		{"boundary start", "06:00", "22:00", at(6, 0), true},
		{"boundary end", "06:00", "22:00", at(22, 0), true},
		{"before", "06:00", "22:00", at(5, 59), false},
		{"after", "06:00", "22:00", at(22, 1), false},
		{"midnight crossing inside late", "22:00", "06:00", at(23, 30), true},
		{"midnight crossing inside early", "22:00", "06:00", at(4, 0), true},
		{"midnight crossing outside", "22:00", "06:00", at(12, 0), false},
	}

	for _, tt := range tests {
		eff := Effective{CheckinWindowStart: tt.start, CheckinWindowEnd: tt.end}
		if got := eff.InCheckinWindow(tt.t); got != tt.want {
			t.Errorf("%s: InCheckinWindow = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestHourLimits(t *testing.T) {
	eff := Effective{MaxWeeklyHours: 40, MaxMonthlyHours: 160}

	if eff.ExceedsWeekly(40 * 3600) {
		t.Error("exactly 40h should not exceed the weekly cap")
	}
	if !eff.ExceedsWeekly(40*3600 + 1) {
		t.Error("40h1s should exceed the weekly cap")
	}
	if !eff.ExceedsMonthly(161 * 3600) {
		t.Error("161h should exceed the monthly cap")
	}

	unlimited := Effective{}
	if unlimited.ExceedsWeekly(1000 * 3600) {
		t.Error("zero cap means unlimited")
	}
}

func TestSundayAllowed(t *testing.T) {
	sunday := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	if (Effective{AllowSunday: false}).SundayAllowed(sunday) {
		t.Error("sunday should be disallowed")
	}
	if !(Effective{AllowSunday: true}).SundayAllowed(sunday) {
		t.Error("sunday should be allowed")
	}
	if !(Effective{AllowSunday: false}).SundayAllowed(monday) {
		t.Error("weekdays are always allowed")
	}
}
