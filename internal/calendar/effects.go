package calendar

import "time"

// Effect is one holiday occurrence with the asymmetric day window the
// external forecaster applies around it. LowerWindow is zero or negative,
// UpperWindow zero or positive.
type Effect struct {
	Name        string
	Date        time.Time
	LowerWindow int
	UpperWindow int
}

// effectWindow is a named recurring holiday with its fixed window.
type effectWindow struct {
	Name  string
	Month time.Month
	Day   int
	Lower int
	Upper int
}

// effectWindows lists the recurring holidays the forecaster models
// explicitly. Windows are asymmetric: the New Year effect runs through the
// January holiday block, Knowledge Day pulls demand forward into late August.
var effectWindows = []effectWindow{
	{"new_year", time.December, 31, 0, 8},
	{"valentine", time.February, 14, -2, 0},
	{"defender", time.February, 23, -3, 1},
	{"march_8", time.March, 8, -3, 1},
	{"cosmonaut", time.April, 12, -1, 1},
	{"may_holidays", time.May, 1, 0, 9},
	{"children", time.June, 1, -1, 1},
	{"russia", time.June, 12, -2, 1},
	{"family", time.July, 8, -1, 1},
	{"knowledge", time.September, 1, -7, 0},
	{"unity", time.November, 4, -2, 1},
	{"constitution", time.December, 12, -1, 1},
}

// EffectTable emits one Effect per recurring holiday per year in
// [fromYear, toYear], ordered by holiday then year.
func (c *Calendar) EffectTable(fromYear, toYear int) []Effect {
	if toYear < fromYear {
		return nil
	}
	effects := make([]Effect, 0, (toYear-fromYear+1)*len(effectWindows))
	for _, w := range effectWindows {
		for year := fromYear; year <= toYear; year++ {
			effects = append(effects, Effect{
				Name:        w.Name,
				Date:        time.Date(year, w.Month, w.Day, 0, 0, 0, 0, time.UTC),
				LowerWindow: w.Lower,
				UpperWindow: w.Upper,
			})
		}
	}
	return effects
}
