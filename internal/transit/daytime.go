// SPDX-License-Identifier: MIT

package transit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DayTime is a clock time expressed as minutes since midnight. Schedules only
// care about the time of day; dates are resolved by the caller.
type DayTime int

var dayTimeRE = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)(?::[0-5]\d)?$`)

// ParseDayTime accepts "HH:MM" or "HH:MM:SS" (seconds ignored).
func ParseDayTime(s string) (DayTime, error) {
	m := dayTimeRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("transit: invalid time %q", s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return DayTime(h*60 + min), nil
}

// DayTimeOf truncates a wall-clock instant to its time of day.
func DayTimeOf(t time.Time) DayTime {
	return DayTime(t.Hour()*60 + t.Minute())
}

// Hour returns the hour component.
func (t DayTime) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t DayTime) Minute() int { return int(t) % 60 }

// String renders "HH:MM".
func (t DayTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Until returns the duration from t to end. An end before t means the trip
// crosses midnight and the duration wraps to the next day.
func (t DayTime) Until(end DayTime) time.Duration {
	diff := int(end) - int(t)
	if diff < 0 {
		diff += 24 * 60
	}
	return time.Duration(diff) * time.Minute
}
