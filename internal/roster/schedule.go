package roster

import (
	"sort"
	"time"

	"github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/domain"
)

// Schedule is the partitioned, read-only view of one snapshot revision.
type Schedule struct {
	Revision        string
	ReceivedAt      time.Time
	Days            domain.Days
	Report          domain.PartitionReport
	Roles           []string
	RoleAssignments map[string][]string

	byID map[string]domain.Event
}

// BuildSchedule normalizes and partitions a snapshot.
func BuildSchedule(snap Snapshot) *Schedule {
	days, report := domain.NormalizeAndPartition(snap.Records)

	byID := make(map[string]domain.Event)
	roleSet := make(map[string]struct{})
	for _, ev := range days.Events() {
		byID[ev.ID] = ev
		for _, role := range ev.AssignedRoles {
			roleSet[role] = struct{}{}
		}
	}
	for role := range snap.RoleAssignments {
		roleSet[role] = struct{}{}
	}
	delete(roleSet, domain.AgendaRole)

	roles := make([]string, 0, len(roleSet))
	for role := range roleSet {
		roles = append(roles, role)
	}
	SortRoles(roles)

	assignments := snap.RoleAssignments
	if assignments == nil {
		assignments = map[string][]string{}
	}

	return &Schedule{
		Revision:        snap.Revision,
		ReceivedAt:      snap.ReceivedAt,
		Days:            days,
		Report:          report,
		Roles:           roles,
		RoleAssignments: assignments,
		byID:            byID,
	}
}

// Event looks up a partitioned event by ID.
func (s *Schedule) Event(id string) (domain.Event, bool) {
	ev, ok := s.byID[id]
	return ev, ok
}

// Day returns the events of one weekday in input order.
func (s *Schedule) Day(day time.Weekday) []domain.Event {
	return s.Days[day]
}

// SortRoles orders AC roles by number, then CN roles by letter, then any
// other role alphabetically.
func SortRoles(roles []string) {
	sort.SliceStable(roles, func(i, j int) bool {
		a, b := domain.ParseRole(roles[i]), domain.ParseRole(roles[j])
		if a.Kind != b.Kind {
			return roleRank(a.Kind) < roleRank(b.Kind)
		}
		switch a.Kind {
		case domain.RoleAC:
			return a.Index < b.Index
		case domain.RoleCN:
			return a.Letter < b.Letter
		default:
			return a.ID < b.ID
		}
	})
}

func roleRank(k domain.RoleKind) int {
	switch k {
	case domain.RoleAC:
		return 0
	case domain.RoleCN:
		return 1
	default:
		return 2
	}
}
