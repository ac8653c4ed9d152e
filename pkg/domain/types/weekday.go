package types

import (
	"fmt"
	"time"
)

// Weekday is a lowercase English weekday name used as a business hours key.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// AllWeekdays returns Monday through Sunday.
func AllWeekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// WorkWeek returns Monday through Friday.
func WorkWeek() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}
}

// Weekend returns Saturday and Sunday.
func Weekend() []Weekday {
	return []Weekday{Saturday, Sunday}
}

func (d Weekday) IsValid() bool {
	_, ok := weekdayToTime[d]
	return ok
}

// Time converts d to time.Weekday.
func (d Weekday) Time() time.Weekday {
	return weekdayToTime[d]
}

func (d Weekday) String() string {
	return string(d)
}

var weekdayToTime = map[Weekday]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

// WeekdayOf converts a time.Weekday.
func WeekdayOf(d time.Weekday) Weekday {
	for k, v := range weekdayToTime {
		if v == d {
			return k
		}
	}
	return ""
}

// ParseWeekday parses a lowercase weekday name.
func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid weekday: %s", s)
	}
	return d, nil
}
