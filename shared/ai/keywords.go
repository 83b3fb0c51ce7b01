package ai

import (
	"regexp"

	"vibetube/internal/models"
)

// musicExclusions short-circuits classification: any of these terms in
// the combined text forces the Random vibe before anything else runs.
var musicExclusions = []string{
	"official video",
	"lyrics",
	"music video",
	"ft.",
	"feat.",
	"concert",
	"live performance",
	"album",
	"song",
	"remix",
	"fall out boy",
	"vevo",
	"records",
	"mv",
	"soundtrack",
}

var codingKeywords = []string{
	"cursor", "bolt", "replit", "vscode", "coding", "engineer", "software",
	"devin", "stackblitz", "copilot", "programming", "ide", "git", "mcp",
	"context protocol", "server", "typescript", "python", "shadcn", "nextjs",
	"react", "api", "sdk", "database", "evals", "observability", "infra",
	"deployment", "testing", "debug",
}

var modelKeywords = []string{
	"gpt-4", "claude", "gemini", "llama", "deepseek", "mistral", "grok",
	"openai", "anthropic", "google", "meta", "benchmark", "sota",
	"multimodal", "reasoning", "flash", "pro", "ultra", "3.5", "o1", "v4",
	"llm",
}

var robotKeywords = []string{
	"humanoid", "tesla bot", "optimus", "figure", "boston dynamics", "robot",
	"robotics", "servo", "actuator", "1x", "neo", "atlas", "unitree",
	"cyberdog", "spot", "digit", "agility",
}

var hypeKeywords = []string{
	"agi", "singularity", "doom", "revolution", "trillion", "game over",
	"end of", "insane", "mind blowing", "scary", "dangerous", "warning",
	"urgent", "huge news", "breakthrough", "changed everything",
}

var sustainabilityKeywords = []string{
	"climate", "energy", "carbon", "power", "green", "nuclear", "fusion",
	"environment", "solar", "sustainable", "grid", "battery", "emissions",
}

var securityKeywords = []string{
	"security", "hack", "exploit", "vulnerability", "injection", "jailbreak",
	"red team", "privacy", "safety", "cyber", "auth", "penetration", "attack",
}

var failKeywords = []string{
	"hallucination", "wrong answer", "fail", "error", "confused", "nonsense",
	"glitch", "stupid ai", "broken", "mess up", "failure", "lying",
}

// vibeKeywords is the heuristic evaluation order. The first entry wins
// score ties, so the order is load-bearing. Human in the Loop has no
// keyword list; it is only reachable through the model path or a manual
// override.
var vibeKeywords = []struct {
	vibe     string
	keywords []string
}{
	{models.VibeCoding, codingKeywords},
	{models.VibeModelUpgrades, modelKeywords},
	{models.VibeRobots, robotKeywords},
	{models.VibeHype, hypeKeywords},
	{models.VibeSustainability, sustainabilityKeywords},
	{models.VibeSecurity, securityKeywords},
	{models.VibeAIFail, failKeywords},
}

// keywordPatterns holds one word-boundary-anchored pattern per keyword,
// compiled once at startup.
var keywordPatterns = make(map[string]*regexp.Regexp)

func init() {
	for _, entry := range vibeKeywords {
		for _, word := range entry.keywords {
			if _, ok := keywordPatterns[word]; !ok {
				keywordPatterns[word] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
			}
		}
	}
}

// keywordScore counts how many distinct keywords from the list occur in
// the text. A keyword contributes at most one point no matter how often
// it repeats.
func keywordScore(text string, keywords []string) int {
	score := 0
	for _, word := range keywords {
		if keywordPatterns[word].MatchString(text) {
			score++
		}
	}
	return score
}
