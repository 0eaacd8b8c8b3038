// SPDX-License-Identifier: MIT

package transit

import (
	"strings"
	"time"
)

// ServiceDays is a weekday bitmask: Monday is bit 0, Sunday is bit 6.
// The value 127 means daily service.
type ServiceDays uint8

const (
	Monday ServiceDays = 1 << iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday

	// Daily covers all seven weekdays.
	Daily ServiceDays = 127
	// Weekdays covers Monday through Friday.
	Weekdays ServiceDays = Monday | Tuesday | Wednesday | Thursday | Friday
)

var dayBits = map[time.Weekday]ServiceDays{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// DayBit returns the mask bit for a single weekday.
func DayBit(day time.Weekday) ServiceDays {
	return dayBits[day]
}

// On reports whether the service runs on the given weekday.
func (d ServiceDays) On(day time.Weekday) bool {
	return d&dayBits[day] != 0
}

var dayNames = []struct {
	bit  ServiceDays
	name string
}{
	{Monday, "Пн"},
	{Tuesday, "Вт"},
	{Wednesday, "Ср"},
	{Thursday, "Чт"},
	{Friday, "Пт"},
	{Saturday, "Сб"},
	{Sunday, "Вс"},
}

// String renders the mask in Russian short day names, or "ежедневно" for
// daily service.
func (d ServiceDays) String() string {
	if d == Daily {
		return "ежедневно"
	}
	var parts []string
	for _, dn := range dayNames {
		if d&dn.bit != 0 {
			parts = append(parts, dn.name)
		}
	}
	if len(parts) == 0 {
		return "не ходит"
	}
	return strings.Join(parts, ", ")
}
