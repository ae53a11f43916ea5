// Package linker finds schedule entries that describe the same real-world
// activity as a given entry: an agenda block and its duties, or the
// coordinator and support shifts of one event.
package linker

import (
	"regexp"
	"strings"

	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/domain"
)

var helperTokens = regexp.MustCompile(`(?i)\b(coordinator|support|lead|assist)\b`)

// FindLinked returns the events in all related to event, in the order they
// appear in all. The result never contains event itself and holds at most one
// entry per event key.
func FindLinked(event domain.Event, all []domain.Event) []domain.Event {
	selfKey := event.Key()
	seen := map[string]struct{}{selfKey: {}}
	var out []domain.Event

	for _, cand := range all {
		if cand.ID != "" && cand.ID == event.ID {
			continue
		}
		key := cand.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		if !sameDay(event, cand) {
			continue
		}
		if linkedByKeyword(event, cand) || linkedBySubRole(event, cand) || linkedGeneric(event, cand) {
			seen[key] = struct{}{}
			out = append(out, cand)
		}
	}
	return out
}

// linkedByKeyword connects an agenda block with the non-agenda entries that
// name the same activity, in either direction.
func linkedByKeyword(a, b domain.Event) bool {
	if a.Type.IsAgenda() == b.Type.IsAgenda() {
		return false
	}
	agenda, other := a, b
	if !a.Type.IsAgenda() {
		agenda, other = b, a
	}
	for _, r := range rules {
		if !containsAny(agenda.Name, r.agenda) || !containsAny(other.Name, r.keywords) {
			continue
		}
		if r.proximity && !proximate(a, b) {
			continue
		}
		return true
	}
	return false
}

// linkedBySubRole connects entries of the same type that share an activity
// name when at least one of them names a sub-role.
func linkedBySubRole(a, b domain.Event) bool {
	if a.Type != b.Type {
		return false
	}
	if !containsAny(a.Name, qualifiers) && !containsAny(b.Name, qualifiers) {
		return false
	}
	for _, r := range rules {
		if !r.subRole || !containsFold(a.Name, r.activity) || !containsFold(b.Name, r.activity) {
			continue
		}
		if r.proximity && !proximate(a, b) {
			continue
		}
		return true
	}
	return false
}

// linkedGeneric pairs "X Coordinator" with "X Support" style names for
// activities the rule table does not cover. One side must carry the pair's
// lead token and the other its helper token, both as whole words.
func linkedGeneric(a, b domain.Event) bool {
	if a.Type != b.Type || hasSubRoleActivity(a.Name) {
		return false
	}
	ta, tb := helperWords(a.Name), helperWords(b.Name)
	for _, pair := range genericPairs {
		lead, helper := strings.ToLower(pair[0]), strings.ToLower(pair[1])
		if !(ta[lead] && tb[helper]) && !(ta[helper] && tb[lead]) {
			continue
		}
		base := baseName(a.Name)
		if base != "" && base == baseName(b.Name) {
			return true
		}
	}
	return false
}

func hasSubRoleActivity(name string) bool {
	for _, r := range rules {
		if r.subRole && containsFold(name, r.activity) {
			return true
		}
	}
	return false
}

// helperWords returns the helper tokens name carries as whole words, lower-cased.
func helperWords(name string) map[string]bool {
	words := map[string]bool{}
	for _, w := range helperTokens.FindAllString(name, -1) {
		words[strings.ToLower(w)] = true
	}
	return words
}

// baseName strips helper tokens and separators, so "Lunch - Coordinator"
// and "Lunch Support" both reduce to "lunch".
func baseName(name string) string {
	stripped := helperTokens.ReplaceAllString(name, " ")
	stripped = strings.Trim(strings.Join(strings.Fields(stripped), " "), " -/:")
	return strings.ToLower(strings.TrimSpace(stripped))
}

func sameDay(a, b domain.Event) bool {
	da, errA := domain.ParseWeekday(a.Weekday)
	db, errB := domain.ParseWeekday(b.Weekday)
	if errA == nil && errB == nil {
		return da == db
	}
	return strings.EqualFold(strings.TrimSpace(a.Weekday), strings.TrimSpace(b.Weekday))
}
