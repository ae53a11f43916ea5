// Package resolver decides which duty, meeting, break or free event is in
// effect for each role during an agenda block.
package resolver

import (
	"sort"

	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/domain"
)

// AnchorActivities pairs an agenda block with the activity of every role.
type AnchorActivities struct {
	Anchor     domain.Event        `json:"anchor"`
	Activities map[string]Activity `json:"activities"`
}

// Resolve returns the activity of each visible role during anchor. The
// synthetic Agenda role is never resolved. A paired AC/CN role is added when
// its companion has an assignment and it has one of its own in the block,
// even if it was not visible.
func Resolve(anchor domain.Event, dayEvents []domain.Event, visibleRoles []string) map[string]Activity {
	tracked := make(map[string]*Activity, len(visibleRoles))
	for _, role := range visibleRoles {
		if role == domain.AgendaRole {
			continue
		}
		tracked[role] = nil
	}

	scan(anchor, dayEvents, tracked)

	assigned := make([]string, 0, len(tracked))
	for role, act := range tracked {
		if act != nil {
			assigned = append(assigned, role)
		}
	}
	sort.Strings(assigned)

	for _, role := range assigned {
		pair, ok := domain.PairOf(role)
		if !ok || pair == domain.AgendaRole {
			continue
		}
		if current := tracked[pair]; current != nil {
			continue
		}
		single := map[string]*Activity{pair: nil}
		scan(anchor, dayEvents, single)
		if found := single[pair]; found != nil {
			tracked[pair] = found
		}
	}

	out := make(map[string]Activity, len(tracked))
	for role, act := range tracked {
		if act == nil {
			out[role] = NoDutyActivity()
			continue
		}
		out[role] = *act
	}
	return out
}

// ResolveDay resolves every agenda block of a day, in day order.
func ResolveDay(dayEvents []domain.Event, visibleRoles []string) []AnchorActivities {
	anchors := domain.Anchors(dayEvents)
	out := make([]AnchorActivities, 0, len(anchors))
	for _, anchor := range anchors {
		out = append(out, AnchorActivities{
			Anchor:     anchor,
			Activities: Resolve(anchor, dayEvents, visibleRoles),
		})
	}
	return out
}

// scan applies every qualifying event to the roles present in tracked.
func scan(anchor domain.Event, dayEvents []domain.Event, tracked map[string]*Activity) {
	for _, ev := range dayEvents {
		cand, ok := candidateFor(anchor, ev)
		if !ok {
			continue
		}
		for _, role := range ev.AssignedRoles {
			current, isTracked := tracked[role]
			if !isTracked {
				continue
			}
			if shouldReplace(current, cand) {
				c := cand
				tracked[role] = &Activity{Assignment: &c}
			}
		}
	}
}

// candidateFor builds the assignment ev would contribute to anchor. Agenda
// events and zero or negative duration events never qualify.
//
// Overlap is strict, so an event ending exactly at the anchor start does not
// count; startsWithin and activeAtStart use half-open bounds instead.
func candidateFor(anchor, ev domain.Event) (Assignment, bool) {
	if ev.Type.IsAgenda() || ev.Duration() <= 0 {
		return Assignment{}, false
	}

	overlaps := ev.StartMins < anchor.EndMins && ev.EndMins > anchor.StartMins
	startsWithin := ev.StartMins >= anchor.StartMins && ev.StartMins < anchor.EndMins
	activeAtStart := ev.StartMins <= anchor.StartMins && ev.EndMins > anchor.StartMins
	if !overlaps && !startsWithin && !activeAtStart {
		return Assignment{}, false
	}

	return Assignment{
		Activity:      label(ev),
		EventType:     ev.Type,
		StartTime:     ev.StartTime,
		EndTime:       endTime(ev),
		StartMins:     ev.StartMins,
		EndMins:       ev.EndMins,
		IsOverlapping: overlaps,
		StartsWithin:  startsWithin,
		Priority:      Priority(ev.Type),
	}, true
}

func label(ev domain.Event) string {
	if ev.Abbreviation == "" {
		return ev.Name
	}
	return ev.Abbreviation + " - " + ev.Name
}

// endTime falls back to the encoded default end when the row had none.
func endTime(ev domain.Event) string {
	if _, ok := domain.Decode(ev.EndTime); ok {
		return ev.EndTime
	}
	return domain.Encode(ev.EndMins)
}
