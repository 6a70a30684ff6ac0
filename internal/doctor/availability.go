package doctor

import (
	"errors"
	"fmt"
	"time"

	"github.com/clinicdesk/clinicdesk/internal/daterange"
)

var ErrDoctorUnavailable = errors.New("doctor is not available on the selected date")

const (
	defaultStartHour = 9
	defaultEndHour   = 17
)

// DefaultTimeSlots returns the system-wide slot list used when a doctor has
// no explicit weekday schedule: half-hour steps from 9:00 AM through 5:00 PM,
// 17 labels total.
func DefaultTimeSlots() []string {
	var slots []string
	for hour := defaultStartHour; hour <= defaultEndHour; hour++ {
		for minute := 0; minute < 60; minute += 30 {
			if hour == defaultEndHour && minute > 0 {
				continue
			}
			h12 := hour % 12
			if h12 == 0 {
				h12 = 12
			}
			period := "AM"
			if hour >= 12 {
				period = "PM"
			}
			slots = append(slots, fmt.Sprintf("%d:%02d %s", h12, minute, period))
		}
	}
	return slots
}

// UnavailableOn reports whether date falls on one of the doctor's
// unavailable days. Time-of-day is ignored.
func (d *Doctor) UnavailableOn(date time.Time) bool {
	for _, u := range d.UnavailableDates {
		if daterange.SameDay(u, date) {
			return true
		}
	}
	return false
}

// ResolveAvailability returns the slot labels open for booking with d on the
// given date. An unavailable date yields ErrDoctorUnavailable. A doctor with
// an explicit schedule but nothing for that weekday gets an empty slot list
// with no error. A doctor with no schedule at all falls back to the defaults.
func ResolveAvailability(d *Doctor, date time.Time) ([]string, error) {
	if d.UnavailableOn(date) {
		return nil, ErrDoctorUnavailable
	}

	if d.AvailableTimes == nil {
		return DefaultTimeSlots(), nil
	}

	slots := d.AvailableTimes[WeekdayOf(date)]
	if len(slots) == 0 {
		return []string{}, nil
	}

	out := make([]string, len(slots))
	copy(out, slots)
	return out, nil
}
