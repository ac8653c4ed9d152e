package model

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/aadee-inc/steward/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// HoursClosed marks a day without opening hours.
const HoursClosed = "closed"

// BusinessHoursMap maps a weekday to "HH:MM-HH:MM" or HoursClosed.
type BusinessHoursMap map[types.Weekday]string

var hoursRangePattern = regexp.MustCompile(`^(\d{2}):(\d{2})-(\d{2}):(\d{2})$`)

// HoursRange is an opening window in minutes after local midnight.
type HoursRange struct {
	Open  int
	Close int
}

// FormatHoursRange renders a window as "HH:MM-HH:MM".
func FormatHoursRange(openHour, openMin, closeHour, closeMin int) string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", openHour, openMin, closeHour, closeMin)
}

// String renders r as "HH:MM-HH:MM".
func (r HoursRange) String() string {
	return FormatHoursRange(r.Open/60, r.Open%60, r.Close/60, r.Close%60)
}

// ParseHoursValue parses one map value. closed is true for HoursClosed.
func ParseHoursValue(v string) (r HoursRange, closed bool, err error) {
	if v == HoursClosed {
		return HoursRange{}, true, nil
	}

	m := hoursRangePattern.FindStringSubmatch(v)
	if m == nil {
		return HoursRange{}, false, goerr.Wrap(ErrInvalidHours, "malformed hours range", goerr.V(HoursKey, v))
	}

	n := make([]int, 4)
	for i := range n {
		n[i], _ = strconv.Atoi(m[i+1])
	}
	if n[0] > 24 || n[2] > 24 || n[1] > 59 || n[3] > 59 {
		return HoursRange{}, false, goerr.Wrap(ErrInvalidHours, "hours range out of bounds", goerr.V(HoursKey, v))
	}

	r = HoursRange{Open: n[0]*60 + n[1], Close: n[2]*60 + n[3]}
	if r.Close > 24*60 || r.Open >= r.Close {
		return HoursRange{}, false, goerr.Wrap(ErrInvalidHours, "hours range must open before it closes", goerr.V(HoursKey, v))
	}
	return r, false, nil
}

// Validate checks every key and value.
func (m BusinessHoursMap) Validate() error {
	if len(m) == 0 {
		return goerr.Wrap(ErrInvalidHours, "business hours are empty")
	}
	for day, v := range m {
		if !day.IsValid() {
			return goerr.Wrap(ErrInvalidHours, "unknown weekday", goerr.V(WeekdayKey, day))
		}
		if _, _, err := ParseHoursValue(v); err != nil {
			return goerr.Wrap(err, "invalid hours for weekday", goerr.V(WeekdayKey, day))
		}
	}
	return nil
}

// Days returns the map keys in Monday..Sunday order.
func (m BusinessHoursMap) Days() []types.Weekday {
	days := make([]types.Weekday, 0, len(m))
	for _, d := range types.AllWeekdays() {
		if _, ok := m[d]; ok {
			days = append(days, d)
		}
	}
	return days
}

// StringMap returns m keyed by plain strings.
func (m BusinessHoursMap) StringMap() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k.String()] = v
	}
	return out
}
