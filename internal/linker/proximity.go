package linker

import "github.com/TheOneWhoCameBefore/fsy-navigator-sub000/internal/domain"

const (
	afternoon      = 13 * 60
	classWindowEnd = 15*60 + 30
	nearbyMinutes  = 60
)

// proximate reports whether two events are close enough in time to be the
// same session. Events whose start does not decode are treated as proximate.
//
// The 13:00-15:30 window covers afternoon class blocks that are listed with
// staggered starts; it applies to any pair of events starting inside it.
func proximate(a, b domain.Event) bool {
	aStart, aEnd, ok := domain.EventMinutes(a.StartTime, a.EndTime)
	if !ok {
		return true
	}
	bStart, bEnd, ok := domain.EventMinutes(b.StartTime, b.EndTime)
	if !ok {
		return true
	}

	if min(aEnd, bEnd)-max(aStart, bStart) > 0 {
		return true
	}
	if inClassWindow(aStart) && inClassWindow(bStart) {
		return true
	}
	sameSide := (aStart < afternoon) == (bStart < afternoon)
	return sameSide && abs(aStart-bStart) <= nearbyMinutes
}

func inClassWindow(start int) bool {
	return start >= afternoon && start <= classWindowEnd
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
