package domain

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var eventNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("roster.event"))

// Normalize maps raw records one-to-one onto canonical events. Missing fields
// become empty strings, AssignedRoles is never nil, and a legacy single Role is
// promoted when AssignedRoles is absent.
func Normalize(records []RawRecord) []Event {
	events := make([]Event, 0, len(records))
	for i, rec := range records {
		events = append(events, normalizeRecord(i, rec))
	}
	return events
}

func normalizeRecord(position int, rec RawRecord) Event {
	roles := rec.AssignedRoles
	if roles == nil && strings.TrimSpace(rec.Role) != "" {
		roles = []string{rec.Role}
	}

	ev := Event{
		Weekday:       strings.TrimSpace(rec.Weekday),
		StartTime:     strings.TrimSpace(rec.StartTime),
		EndTime:       strings.TrimSpace(rec.EndTime),
		Name:          strings.TrimSpace(rec.EventName),
		Abbreviation:  strings.TrimSpace(rec.EventAbbreviation),
		Type:          ParseEventType(rec.EventType),
		Description:   rec.EventDescription,
		AssignedRoles: uniqueRoles(roles),
		Location:      strings.TrimSpace(rec.Location),
	}

	ev.ID = strings.TrimSpace(rec.ID)
	if ev.ID == "" {
		// Position keeps identical rows distinct while staying stable across
		// reloads of the same snapshot.
		ev.ID = uuid.NewSHA1(eventNamespace, []byte(strconv.Itoa(position)+"\x1e"+ev.Key())).String()
	}
	return ev
}

func uniqueRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	seen := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}
