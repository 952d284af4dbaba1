// Package calendar knows the fixed annual holiday schedule driving demand:
// which days are holidays, which days sit inside a pre-holiday surge window,
// and the per-holiday effect windows handed to the external forecaster.
package calendar

import "time"

// annualDay is a fixed (month, day) pair recurring every year.
type annualDay struct {
	Month time.Month
	Day   int
}

// holidays is the closed set of annual dates treated as holidays by the
// demand model: the New Year block Jan 1-8, Valentine's Day, Defender of the
// Fatherland Day, Women's Day, Cosmonautics Day, Labour Day, Victory Day,
// Children's Day, Russia Day, Family Day, Flag Day, Knowledge Day, Teacher's
// Day, Unity Day, Mother's Day, Constitution Day and New Year's Eve.
var holidays = map[annualDay]struct{}{
	{time.January, 1}:   {},
	{time.January, 2}:   {},
	{time.January, 3}:   {},
	{time.January, 4}:   {},
	{time.January, 5}:   {},
	{time.January, 6}:   {},
	{time.January, 7}:   {},
	{time.January, 8}:   {},
	{time.February, 14}: {},
	{time.February, 23}: {},
	{time.March, 8}:     {},
	{time.April, 12}:    {},
	{time.May, 1}:       {},
	{time.May, 9}:       {},
	{time.June, 1}:      {},
	{time.June, 12}:     {},
	{time.July, 8}:      {},
	{time.August, 22}:   {},
	{time.September, 1}: {},
	{time.October, 5}:   {},
	{time.November, 4}:  {},
	{time.November, 27}: {},
	{time.December, 12}: {},
	{time.December, 31}: {},
}

// majorHolidays are the holidays whose approach triggers a pre-holiday
// demand surge: New Year, New Year's Eve, Defender's Day, Women's Day,
// Victory Day, Russia Day and Unity Day.
var majorHolidays = []annualDay{
	{time.January, 1},
	{time.December, 31},
	{time.February, 23},
	{time.March, 8},
	{time.May, 9},
	{time.June, 12},
	{time.November, 4},
}

// surgeWindowDays is how many days ahead of a major holiday the surge
// window opens. The holiday itself is inside the window.
const surgeWindowDays = 5

// DayInfo carries everything the demand model needs to know about one
// simulated day. Computed, never stored.
type DayInfo struct {
	Date              time.Time
	Month             time.Month
	Day               int
	Year              int
	Weekday           time.Weekday
	DayOfYear         int
	IsHoliday         bool
	IsPreHolidaySurge bool
}

// Calendar answers holiday and surge questions for arbitrary dates.
type Calendar struct{}

// New returns the fixed annual holiday calendar.
func New() *Calendar {
	return &Calendar{}
}

// IsHoliday reports whether the (month, day) pair falls on one of the fixed
// annual holidays, for any year.
func (c *Calendar) IsHoliday(month time.Month, day int) bool {
	_, ok := holidays[annualDay{month, day}]
	return ok
}

// DaysUntilMajorHoliday returns the distance in days from t to the nearest
// upcoming major holiday, rolling into the next year when every occurrence
// this year is already past. Zero means t is the holiday itself.
func (c *Calendar) DaysUntilMajorHoliday(t time.Time) int {
	t = midnight(t)
	nearest := -1
	for _, h := range majorHolidays {
		occ := time.Date(t.Year(), h.Month, h.Day, 0, 0, 0, 0, time.UTC)
		if occ.Before(t) {
			occ = time.Date(t.Year()+1, h.Month, h.Day, 0, 0, 0, 0, time.UTC)
		}
		d := int(occ.Sub(t).Hours() / 24)
		if nearest < 0 || d < nearest {
			nearest = d
		}
	}
	return nearest
}

// IsPreHolidaySurge reports whether t falls within the surge window of a
// major holiday. The flag is independent of IsHoliday; a date can carry both.
func (c *Calendar) IsPreHolidaySurge(t time.Time) bool {
	d := c.DaysUntilMajorHoliday(t)
	return d >= 0 && d <= surgeWindowDays
}

// InfoFor bundles the calendar flags and date parts for one day.
func (c *Calendar) InfoFor(t time.Time) DayInfo {
	t = midnight(t)
	return DayInfo{
		Date:              t,
		Month:             t.Month(),
		Day:               t.Day(),
		Year:              t.Year(),
		Weekday:           t.Weekday(),
		DayOfYear:         t.YearDay(),
		IsHoliday:         c.IsHoliday(t.Month(), t.Day()),
		IsPreHolidaySurge: c.IsPreHolidaySurge(t),
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
