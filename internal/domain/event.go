// Package domain defines the canonical roster model and the pure transforms that
// turn raw duty records into day-partitioned timelines.
package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrUnknownWeekday is returned by ParseWeekday for names outside Sunday..Saturday.
var ErrUnknownWeekday = errors.New("unknown weekday")

// EventType classifies a schedule entry. Values are stored lower-cased; anything
// outside the known set is kept verbatim and treated like a duty for priority.
type EventType string

const (
	EventTypeAgenda  EventType = "agenda"
	EventTypeDuty    EventType = "duty"
	EventTypeMeeting EventType = "meeting"
	EventTypeBreak   EventType = "break"
	EventTypeFree    EventType = "free"
)

// ParseEventType lower-cases and trims a raw type value.
func ParseEventType(raw string) EventType {
	return EventType(strings.ToLower(strings.TrimSpace(raw)))
}

func (t EventType) String() string {
	return string(t)
}

// IsAgenda reports whether the type marks a top-level agenda block.
func (t EventType) IsAgenda() bool {
	return t == EventTypeAgenda
}

// AgendaRole is the synthetic role under which agenda blocks are listed.
const AgendaRole = "Agenda"

// RawRecord is one row as delivered by the snapshot source.
type RawRecord struct {
	ID                string   `json:"id,omitempty" yaml:"id,omitempty"`
	Weekday           string   `json:"weekday" yaml:"weekday"`
	StartTime         string   `json:"startTime" yaml:"startTime"`
	EndTime           string   `json:"endTime" yaml:"endTime"`
	EventName         string   `json:"eventName" yaml:"eventName"`
	EventAbbreviation string   `json:"eventAbbreviation" yaml:"eventAbbreviation"`
	EventType         string   `json:"eventType" yaml:"eventType"`
	EventDescription  string   `json:"eventDescription" yaml:"eventDescription"`
	AssignedRoles     []string `json:"assignedRoles,omitempty" yaml:"assignedRoles,omitempty"`
	Role              string   `json:"role,omitempty" yaml:"role,omitempty"`
	Location          string   `json:"location,omitempty" yaml:"location,omitempty"`
}

// Event is the canonical schedule entry. StartMins and EndMins are only
// meaningful once the event has been placed in a day bucket by Partition.
type Event struct {
	ID            string    `json:"id"`
	Weekday       string    `json:"weekday"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	StartMins     int       `json:"startMins"`
	EndMins       int       `json:"endMins"`
	Name          string    `json:"eventName"`
	Abbreviation  string    `json:"eventAbbreviation"`
	Type          EventType `json:"eventType"`
	Description   string    `json:"eventDescription"`
	AssignedRoles []string  `json:"assignedRoles"`
	Location      string    `json:"location,omitempty"`
}

// Duration returns EndMins-StartMins; zero or negative for degenerate rows.
func (e Event) Duration() int {
	return e.EndMins - e.StartMins
}

// HasRole reports whether role is among the assigned roles.
func (e Event) HasRole(role string) bool {
	for _, r := range e.AssignedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Key identifies an event by content: name, weekday, times and sorted roles.
// Two rows with the same key are considered the same entry.
func (e Event) Key() string {
	roles := append([]string(nil), e.AssignedRoles...)
	sort.Strings(roles)
	return strings.Join([]string{
		e.Name,
		strings.ToLower(strings.TrimSpace(e.Weekday)),
		e.StartTime,
		e.EndTime,
		strings.Join(roles, ","),
	}, "\x1f")
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

// ParseWeekday accepts full English day names or their three-letter forms,
// case-insensitively.
func ParseWeekday(raw string) (time.Weekday, error) {
	day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return 0, ErrUnknownWeekday
	}
	return day, nil
}
