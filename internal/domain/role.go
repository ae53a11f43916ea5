package domain

import (
	"regexp"
	"strconv"
)

// RoleKind distinguishes the structural role families.
type RoleKind int

const (
	RoleOther RoleKind = iota
	RoleAC
	RoleCN
)

// Role is the typed view of a role identifier. AC roles carry a 1-based Index,
// CN roles a single upper-case Letter; everything else is RoleOther.
type Role struct {
	Kind   RoleKind
	Index  int
	Letter byte
	ID     string
}

var (
	acPattern = regexp.MustCompile(`^AC ([1-9]\d*)$`)
	cnPattern = regexp.MustCompile(`^CN ([A-Z])$`)
)

// ParseRole classifies a role identifier.
func ParseRole(id string) Role {
	if m := acPattern.FindStringSubmatch(id); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return Role{Kind: RoleAC, Index: n, ID: id}
		}
	}
	if m := cnPattern.FindStringSubmatch(id); m != nil {
		return Role{Kind: RoleCN, Letter: m[1][0], ID: id}
	}
	return Role{Kind: RoleOther, ID: id}
}

func (r Role) String() string {
	return r.ID
}

// Pair returns the companion role: "AC n" <-> "CN L" with L the nth letter.
// AC indexes beyond Z and Other roles have no pair.
func (r Role) Pair() (Role, bool) {
	switch r.Kind {
	case RoleAC:
		if r.Index > 26 {
			return Role{}, false
		}
		letter := byte('A' + r.Index - 1)
		return Role{Kind: RoleCN, Letter: letter, ID: "CN " + string(letter)}, true
	case RoleCN:
		n := int(r.Letter-'A') + 1
		return Role{Kind: RoleAC, Index: n, ID: "AC " + strconv.Itoa(n)}, true
	default:
		return Role{}, false
	}
}

// PairOf is the string form of Role.Pair.
func PairOf(id string) (string, bool) {
	pair, ok := ParseRole(id).Pair()
	if !ok {
		return "", false
	}
	return pair.ID, true
}
