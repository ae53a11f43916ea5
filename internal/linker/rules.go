package linker

import "strings"

// linkRule describes one real-world activity. Agenda patterns select the rule
// from an agenda name; keywords select it from a duty, meeting or break name.
type linkRule struct {
	activity  string
	agenda    []string
	keywords  []string
	subRole   bool
	proximity bool
}

var rules = []linkRule{
	{
		activity: "Check-in",
		agenda:   []string{"Check-in", "Check In"},
		keywords: []string{"Check-in", "Check In", "Registration"},
		subRole:  true,
	},
	{
		activity: "Dance",
		agenda:   []string{"Dance"},
		keywords: []string{"Dance"},
		subRole:  true,
	},
	{
		activity: "Breakfast",
		agenda:   []string{"Breakfast"},
		keywords: []string{"Breakfast"},
	},
	{
		activity:  "Class",
		agenda:    []string{"Class"},
		keywords:  []string{"Class"},
		subRole:   true,
		proximity: true,
	},
	{
		activity: "Flex Time",
		agenda:   []string{"Flex Time"},
		keywords: []string{"Flex"},
	},
	{
		activity: "Variety Show",
		agenda:   []string{"Variety Show"},
		keywords: []string{"Variety Show", "Talent"},
	},
	{
		activity: "Young Men Devotional",
		agenda:   []string{"Young Men Devotional", "Young Men's Devotional"},
		keywords: []string{
			"Young Men Devotional",
			"Young Men's Devotional",
			"YM Devotional",
			"Young Men Devo",
			"YM Devo",
			"Boys Devotional",
		},
	},
	{
		activity: "Young Women Devotional",
		agenda:   []string{"Young Women Devotional", "Young Women's Devotional"},
		keywords: []string{
			"Young Women Devotional",
			"Young Women's Devotional",
			"YW Devotional",
			"Young Women Devo",
			"YW Devo",
			"Girls Devotional",
		},
	},
	{
		activity: "Games Night",
		agenda:   []string{"Games Night", "Game Night"},
		keywords: []string{"Games Night", "Game Night"},
		subRole:  true,
	},
	{
		activity: "Pizza Night",
		agenda:   []string{"Pizza Night"},
		keywords: []string{"Pizza"},
		subRole:  true,
	},
}

// qualifiers mark a name as one sub-role of a larger activity.
var qualifiers = []string{"Coordinator", "Setup", "DJ", "Accommodations", "Support"}

// genericPairs are the lead/helper token pairs used when no named activity applies.
var genericPairs = [][2]string{
	{"Coordinator", "Support"},
	{"Lead", "Support"},
	{"Coordinator", "Assist"},
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if containsFold(s, sub) {
			return true
		}
	}
	return false
}
