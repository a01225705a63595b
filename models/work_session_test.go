package models

import (
	"testing"
	"time"
)

func TestWorkDurationBetween(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		clockOut     time.Time
		pauseSeconds int64
		want         int64
	}{
		{"no pause", base.Add(8 * time.Hour), 0, 8 * 3600},
		{"half hour pause", base.Add(8 * time.Hour), 1800, 7*3600 + 1800},
		{"pause equals span", base.Add(30 * time.Minute), 1800, 0},
		{"pause exceeds span clamps to zero", base.Add(30 * time.Minute), 3600, 0},
		{"zero span", base, 0, 0},
	}

	for _, tt := range tests {
		got := WorkDurationBetween(base, tt.clockOut, tt.pauseSeconds)
		if got != tt.want {
			t.Errorf("%s: WorkDurationBetween = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role     string
		required string
		want     bool
	}{
		{RoleWorker, RoleWorker, true},
		{RoleWorker, RoleManager, false},
		{RoleManager, RoleWorker, true},
		{RoleAdmin, RoleManager, true},
		{RoleAdmin, RoleOwner, false},
		{RoleOwner, RoleOwner, true},
		{"bogus", RoleWorker, false},
	}

	for _, tt := range tests {
		if got := RoleAtLeast(tt.role, tt.required); got != tt.want {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.required, got, tt.want)
		}
	}
}
