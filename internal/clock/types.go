package clock

import "time"

// Civil is a wall-clock reading in the league's time zone. It is computed once per
// request or tick and passed down so every decision sees the same instant.
type Civil struct {
	Time    time.Time
	Weekday time.Weekday
	Hour    int
	Minute  int
}

// WeekKey identifies an ISO calendar week.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// Week returns the ISO week of the civil date.
func (c Civil) Week() WeekKey {
	year, week := c.Time.ISOWeek()
	return WeekKey{Year: year, Week: week}
}

// HourOfWeek returns the number of hours since Sunday 00:00.
func (c Civil) HourOfWeek() int {
	return int(c.Weekday)*24 + c.Hour
}

// IsZero reports whether the key was never set.
func (k WeekKey) IsZero() bool {
	return k.Year == 0 && k.Week == 0
}
