package tzlabel

import "time"

// IsUSDaylightSaving reports whether t falls inside the U.S. daylight
// saving window for its year: from the second Sunday of March at 02:00
// to the first Sunday of November at 02:00, both taken as naive local
// wall-clock instants.
func IsUSDaylightSaving(t time.Time) bool {
	year := t.Year()
	start := nthSunday(year, time.March, 2).Add(2 * time.Hour)
	end := nthSunday(year, time.November, 1).Add(2 * time.Hour)
	return !t.Before(start) && t.Before(end)
}

// nthSunday returns midnight of the nth Sunday of the given month, in
// the UTC wall-clock frame used for window comparison.
func nthSunday(year int, month time.Month, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (7 - int(first.Weekday())) % 7
	return first.AddDate(0, 0, offset+(n-1)*7)
}
