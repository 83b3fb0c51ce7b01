package ai

import (
	"context"
	"strings"
	"testing"

	"vibetube/internal/models"
)

// heuristicOnly builds a classifier without a model client, so every
// decision goes through the pre-filter and the keyword fallback.
func heuristicOnly() *Classifier {
	return &Classifier{model: "gemini-2.5-flash"}
}

func TestClassifyExclusionPrecedence(t *testing.T) {
	c := heuristicOnly()

	// The title carries both a blocked term and several strong coding
	// keywords; the block list must win regardless.
	result := c.Classify(context.Background(),
		"Official Video: coding with cursor and copilot in vscode",
		"programming deep dive", []string{"typescript", "react"}, "")

	if result.Vibe != models.VibeRandom {
		t.Errorf("vibe = %q, want %q", result.Vibe, models.VibeRandom)
	}
	if !strings.Contains(result.Reason, "official video") {
		t.Errorf("reason %q should cite the blocked term", result.Reason)
	}
}

func TestClassifyTotality(t *testing.T) {
	c := heuristicOnly()

	tests := []struct {
		name        string
		title       string
		description string
		tags        []string
		transcript  string
	}{
		{"AllEmpty", "", "", nil, ""},
		{"EmptyTags", "some title", "some description", []string{}, ""},
		{"OnlyTranscript", "", "", nil, "a transcript"},
		{"WhitespaceTitle", "   ", "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Classify(context.Background(), tt.title, tt.description, tt.tags, tt.transcript)
			if result == nil {
				t.Fatal("Classify returned nil")
			}
			if !models.IsValidVibe(result.Vibe) {
				t.Errorf("vibe %q is not in the fixed set", result.Vibe)
			}
			if result.Reason == "" {
				t.Error("reason is empty")
			}
		})
	}
}

func TestClassifyHeuristicScoring(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "CodingKeywords",
			text:     "coding in vscode with copilot, debugging the api",
			expected: models.VibeCoding,
		},
		{
			name:     "RobotKeywords",
			text:     "boston dynamics atlas humanoid robot demo",
			expected: models.VibeRobots,
		},
		{
			name:     "SustainabilityKeywords",
			text:     "nuclear fusion energy for the climate, solar and grid storage",
			expected: models.VibeSustainability,
		},
		{
			name:     "NoKeywords",
			text:     "a quiet afternoon video about gardening",
			expected: models.VibeRandom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifyHeuristic(tt.text)
			if result.Vibe != tt.expected {
				t.Errorf("classifyHeuristic(%q) = %q, want %q", tt.text, result.Vibe, tt.expected)
			}
		})
	}
}

func TestClassifyHeuristicTieBreak(t *testing.T) {
	// "copilot" scores 1 for Vibe Coding and "claude" scores 1 for
	// Model Upgrades; the tie must go to the category evaluated first,
	// deterministically.
	text := "copilot and claude"

	first := classifyHeuristic(text)
	if first.Vibe != models.VibeCoding {
		t.Fatalf("tie broke to %q, want %q", first.Vibe, models.VibeCoding)
	}

	for i := 0; i < 10; i++ {
		if got := classifyHeuristic(text); got.Vibe != first.Vibe {
			t.Fatalf("run %d classified %q, previous runs got %q", i, got.Vibe, first.Vibe)
		}
	}
}

func TestClassifyHeuristicReason(t *testing.T) {
	t.Run("NoMatches", func(t *testing.T) {
		result := classifyHeuristic("completely unrelated text")
		if result.Reason != "No specific keywords matched." {
			t.Errorf("reason = %q", result.Reason)
		}
	})

	t.Run("WithMatches", func(t *testing.T) {
		result := classifyHeuristic("jailbreak exploit vulnerability")
		if result.Vibe != models.VibeSecurity {
			t.Fatalf("vibe = %q, want %q", result.Vibe, models.VibeSecurity)
		}
		if result.Reason != "Matched keywords for Security (Score: 3)" {
			t.Errorf("reason = %q", result.Reason)
		}
	})
}

func TestKeywordScore(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		expected int
	}{
		{
			name:     "RepeatedKeywordCountsOnce",
			text:     "robot robot robot robot",
			keywords: robotKeywords,
			expected: 1,
		},
		{
			name:     "WordBoundaryEnforced",
			text:     "gitlab is not git",
			keywords: []string{"git"},
			expected: 1, // matches the standalone "git", not "gitlab"
		},
		{
			name:     "NoPartialTokenMatch",
			text:     "programmatically",
			keywords: []string{"programming"},
			expected: 0,
		},
		{
			name:     "CaseInsensitive",
			text:     "CURSOR and Copilot",
			keywords: []string{"cursor", "copilot"},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keywordScore(tt.text, tt.keywords); got != tt.expected {
				t.Errorf("keywordScore(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}

func TestParseClassificationResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected *models.Classification
		wantErr  bool
	}{
		{
			name:     "PlainJSON",
			response: `{"category": "Vibe Coding", "reason": "IDE walkthrough"}`,
			expected: &models.Classification{Vibe: "Vibe Coding", Reason: "IDE walkthrough"},
		},
		{
			name: "FencedJSON",
			response: "```json\n" + `{"category": "Robots", "reason": "Humanoid demo"}` + "\n```",
			expected: &models.Classification{Vibe: "Robots", Reason: "Humanoid demo"},
		},
		{
			name:     "SurroundingProse",
			response: `Sure! Here is the classification: {"category": "Security", "reason": "Prompt injection"} Hope that helps.`,
			expected: &models.Classification{Vibe: "Security", Reason: "Prompt injection"},
		},
		{
			name:     "MissingReasonGetsDefault",
			response: `{"category": "Hype"}`,
			expected: &models.Classification{Vibe: "Hype", Reason: "AI Classification"},
		},
		{
			name:     "DisallowedCategory",
			response: `{"category": "Cooking", "reason": "nope"}`,
			wantErr:  true,
		},
		{
			name:     "NoJSON",
			response: "I cannot classify this video.",
			wantErr:  true,
		},
		{
			name:     "MalformedJSON",
			response: `{"category": "Robots", "reason": }`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseClassificationResponse(tt.response)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Vibe != tt.expected.Vibe || got.Reason != tt.expected.Reason {
				t.Errorf("got %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestBuildClassificationPrompt(t *testing.T) {
	longTranscript := strings.Repeat("word ", 5000) // ~25k chars
	prompt := buildClassificationPrompt("My Title", strings.Repeat("d", 500), []string{"a", "b"}, longTranscript)

	if !strings.Contains(prompt, "My Title") {
		t.Error("prompt missing title")
	}
	if strings.Contains(prompt, strings.Repeat("d", 301)) {
		t.Error("description not truncated to 300 characters")
	}
	if len(prompt) > transcriptExcerptLength+3000 {
		t.Errorf("prompt length %d suggests the transcript was not truncated", len(prompt))
	}
	if !strings.Contains(prompt, "Tags: a, b") {
		t.Error("prompt missing tags")
	}

	empty := buildClassificationPrompt("T", "", nil, "")
	if !strings.Contains(empty, "No transcript available.") {
		t.Error("prompt should note a missing transcript")
	}
}
