package ui

import "strings"

// Celebration is a presentation variant shown when a child finishes a
// task or clears the whole day. Variants are a pure lookup from the
// child's name; nothing here touches the ledger.
type Celebration struct {
	Label  string
	Emojis []string
}

var defaultCelebration = Celebration{
	Label:  "Amazing job! 🌟",
	Emojis: []string{"🎉", "🎊", "⭐", "✨", "🏆"},
}

// childCelebrations maps a lowercase name fragment to a themed variant.
var childCelebrations = map[string]Celebration{
	"karim": {
		Label:  "Great job, hero! 🦇",
		Emojis: []string{"🦇", "⚡", "🌙", "💥", "🔥", "🏆"},
	},
	"reem": {
		Label:  "Ohana means family! 💙",
		Emojis: []string{"💙", "🌺", "🦋", "🌈", "✨", "🦄"},
	},
}

// CelebrationFor picks the variant for a child name. Matching mirrors the
// original app: exact, prefix, then substring on the lowercased name.
func CelebrationFor(name string) Celebration {
	n := strings.ToLower(strings.TrimSpace(name))
	if c, ok := childCelebrations[n]; ok {
		return c
	}
	for key, c := range childCelebrations {
		if strings.HasPrefix(n, key) || strings.Contains(n, key) {
			return c
		}
	}
	return defaultCelebration
}

// Burst renders the celebration's emoji line.
func (c Celebration) Burst() string {
	return strings.Join(c.Emojis, " ")
}
