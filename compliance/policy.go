// Package compliance holds the policy window math consulted by the
// reconciliation sweep. Nothing here is enforced inside the clock path.
package compliance

import (
	"time"

	"github.com/gtiq/models"
)

// Effective is the merged policy for one worker: the worker rule's non-nil
// fields override the company settings.
type Effective struct {
	MaxWeeklyHours      float64
	MaxMonthlyHours     float64
	CheckinWindowStart  string
	CheckinWindowEnd    string
	AllowSunday         bool
	AllowHolidays       bool
	AutoCloseAfterHours int
}

// Merge combines company settings with an optional per-worker rule
func Merge(settings *models.ComplianceSettings, rule *models.WorkerDayRule) Effective {
	eff := Effective{
		MaxWeeklyHours:      40,
		MaxMonthlyHours:     160,
		AutoCloseAfterHours: 16,
	}

	if settings != nil {
		eff.MaxWeeklyHours = settings.MaxWeeklyHours
		eff.MaxMonthlyHours = settings.MaxMonthlyHours
		eff.AllowSunday = settings.AllowSunday
		eff.AllowHolidays = settings.AllowHolidays
		eff.AutoCloseAfterHours = settings.AutoCloseAfterHours
		if settings.CheckinWindowStart != nil {
			eff.CheckinWindowStart = *settings.CheckinWindowStart
		}
		if settings.CheckinWindowEnd != nil {
			eff.CheckinWindowEnd = *settings.CheckinWindowEnd
		}
	}

	if rule != nil {
		if rule.MaxWeeklyHours != nil {
			eff.MaxWeeklyHours = *rule.MaxWeeklyHours
		}
		if rule.MaxMonthlyHours != nil {
			eff.MaxMonthlyHours = *rule.MaxMonthlyHours
		}
		if rule.CheckinWindowStart != nil {
			eff.CheckinWindowStart = *rule.CheckinWindowStart
		}
		if rule.CheckinWindowEnd != nil {
			eff.CheckinWindowEnd = *rule.CheckinWindowEnd
		}
		if rule.AllowSunday != nil {
			eff.AllowSunday = *rule.AllowSunday
		}
		if rule.AllowHolidays != nil {
			eff.AllowHolidays = *rule.AllowHolidays
		}
	}

	return eff
}

// WeekRange returns the Monday 00:00:00 and Sunday 23:59:59 bounding t
func WeekRange(t time.Time) (time.Time, time.Time) {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the week
	}

	monday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).
		AddDate(0, 0, -(weekday - 1))
	sunday := monday.AddDate(0, 0, 6).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return monday, sunday
}

// MonthRange returns the first instant of t's month and of the next month
func MonthRange(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first, first.AddDate(0, 1, 0)
}

// InCheckinWindow reports whether t's clock time falls inside the allowed
// check-in window. An unset window allows any time.
func (e Effective) InCheckinWindow(t time.Time) bool {
	if e.CheckinWindowStart == "" || e.CheckinWindowEnd == "" {
		return true
	}
	start, err := time.Parse("15:04", e.CheckinWindowStart)
	if err != nil {
		return true
	}
	end, err := time.Parse("15:04", e.CheckinWindowEnd)
	if err != nil {
		return true
	}

	minutes := t.Hour()*60 + t.Minute()
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()

	if startMin <= endMin {
		return minutes >= startMin && minutes <= endMin
	}
	// Window crossing midnight, e.g. 22:00-06:00
	return minutes >= startMin || minutes <= endMin
}

// SundayAllowed reports whether t may be worked under this policy
func (e Effective) SundayAllowed(t time.Time) bool {
	if t.Weekday() != time.Sunday {
		return true
	}
	return e.AllowSunday
}

// ExceedsWeekly reports whether workedSeconds breaks the weekly hour cap
func (e Effective) ExceedsWeekly(workedSeconds int64) bool {
	return e.MaxWeeklyHours > 0 && float64(workedSeconds) > e.MaxWeeklyHours*3600
}

// ExceedsMonthly reports whether workedSeconds breaks the monthly hour cap
func (e Effective) ExceedsMonthly(workedSeconds int64) bool {
	return e.MaxMonthlyHours > 0 && float64(workedSeconds) > e.MaxMonthlyHours*3600
}
