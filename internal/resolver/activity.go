package resolver

import (
	"encoding/json"

	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/domain"
)

// NoDuty is the label of a role with nothing scheduled during an anchor.
const NoDuty = "No Duty"

// Assignment describes the event chosen for one role within one anchor.
type Assignment struct {
	Activity      string           `json:"activity"`
	EventType     domain.EventType `json:"eventType"`
	StartTime     string           `json:"startTime"`
	EndTime       string           `json:"endTime"`
	StartMins     int              `json:"startMins"`
	EndMins       int              `json:"endMins"`
	IsOverlapping bool             `json:"isOverlapping"`
	StartsWithin  bool             `json:"startsWithin"`
	Priority      int              `json:"priority"`
}

func (a Assignment) duration() int {
	return a.EndMins - a.StartMins
}

// Activity is either a bare label (NoDuty, or a legacy string) or an assignment.
type Activity struct {
	Label      string
	Assignment *Assignment
}

// NoDutyActivity returns the unassigned activity.
func NoDutyActivity() Activity {
	return Activity{Label: NoDuty}
}

// IsNoDuty reports whether nothing was assigned.
func (a Activity) IsNoDuty() bool {
	return a.Assignment == nil && a.Label == NoDuty
}

func (a Activity) String() string {
	if a.Assignment != nil {
		return a.Assignment.Activity
	}
	return a.Label
}

// Annotation renders the time hint a view shows next to the activity:
// nothing for an overlapping event, "(starts 9:15 AM)" for an event starting
// inside the block, otherwise the event's own range.
func (a Activity) Annotation() string {
	if a.Assignment == nil || a.Assignment.IsOverlapping {
		return ""
	}
	if a.Assignment.StartsWithin {
		return "(starts " + a.Assignment.StartTime + ")"
	}
	return "(" + a.Assignment.StartTime + " - " + a.Assignment.EndTime + ")"
}

// MarshalJSON encodes a bare label as a JSON string and an assignment as an object.
func (a Activity) MarshalJSON() ([]byte, error) {
	if a.Assignment != nil {
		return json.Marshal(a.Assignment)
	}
	return json.Marshal(a.Label)
}

// Priority ranks event types; lower wins. Unknown types rank as duty.
func Priority(t domain.EventType) int {
	switch t {
	case domain.EventTypeBreak:
		return 2
	case domain.EventTypeFree:
		return 3
	default:
		return 1
	}
}

// shouldReplace decides whether candidate displaces current for a role.
func shouldReplace(current *Activity, candidate Assignment) bool {
	if current == nil || current.Assignment == nil {
		return true
	}
	cur := current.Assignment

	if candidate.Priority != cur.Priority {
		return candidate.Priority < cur.Priority
	}
	if candidate.IsOverlapping != cur.IsOverlapping {
		return candidate.IsOverlapping
	}
	if candidate.duration() != cur.duration() {
		return candidate.duration() > cur.duration()
	}
	return candidate.StartMins < cur.StartMins
}
