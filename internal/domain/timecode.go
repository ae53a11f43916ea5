package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay bounds the minute-of-day range used by Encode.
const MinutesPerDay = 24 * 60

// DefaultDuration is applied when an event has no usable end time.
const DefaultDuration = 15

// Decode parses a 12-hour "H:MM AM" display time into minutes since midnight.
// The boolean is false for anything malformed; callers treat that as incomparable.
func Decode(display string) (int, bool) {
	fields := strings.Fields(display)
	if len(fields) != 2 {
		return 0, false
	}
	clock, meridiem := fields[0], strings.ToUpper(fields[1])
	if meridiem != "AM" && meridiem != "PM" {
		return 0, false
	}

	hourPart, minutePart, ok := strings.Cut(clock, ":")
	if !ok || len(minutePart) != 2 || hourPart == "" || len(hourPart) > 2 || hourPart[0] == '0' {
		return 0, false
	}
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 1 || hour > 12 || !isDigits(hourPart) {
		return 0, false
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil || minute < 0 || minute > 59 || !isDigits(minutePart) {
		return 0, false
	}

	hour %= 12
	if meridiem == "PM" {
		hour += 12
	}
	return hour*60 + minute, true
}

// Encode formats minutes since midnight as "H:MM AM". Values outside a single
// day wrap modulo 24h, so 1440 encodes as midnight and -15 as 11:45 PM.
func Encode(minutes int) string {
	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	hour, minute := minutes/60, minutes%60

	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, meridiem)
}

// EventMinutes decodes an event's start and end. The end falls back to
// start+DefaultDuration when it is empty or malformed; ok is false only when
// the start itself does not decode.
func EventMinutes(startTime, endTime string) (start, end int, ok bool) {
	start, ok = Decode(startTime)
	if !ok {
		return 0, 0, false
	}
	end, endOK := Decode(endTime)
	if !endOK {
		end = start + DefaultDuration
	}
	return start, end, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
