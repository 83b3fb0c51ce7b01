package models

// The fixed vibe set. A record's vibe is always one of these; the
// classifier falls back to VibeRandom when nothing else applies.
const (
	VibeCoding         = "Vibe Coding"
	VibeModelUpgrades  = "Model Upgrades"
	VibeRobots         = "Robots"
	VibeHype           = "Hype"
	VibeSustainability = "Sustainability"
	VibeSecurity       = "Security"
	VibeAIFail         = "AI Fail"
	VibeHumanInLoop    = "Human in the Loop"
	VibeRandom         = "Random"
)

// Vibes lists every allowed vibe in display order.
var Vibes = []string{
	VibeCoding,
	VibeModelUpgrades,
	VibeRobots,
	VibeHype,
	VibeSustainability,
	VibeSecurity,
	VibeAIFail,
	VibeHumanInLoop,
	VibeRandom,
}

// IsValidVibe reports whether s is one of the fixed vibe values.
func IsValidVibe(s string) bool {
	for _, v := range Vibes {
		if v == s {
			return true
		}
	}
	return false
}
