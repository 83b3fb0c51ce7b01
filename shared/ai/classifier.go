package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"vibetube/internal/models"

	"google.golang.org/genai"
)

const transcriptExcerptLength = 15000

// Classifier assigns exactly one vibe to a video. It tries, in order:
// the exclusion pre-filter, the Gemini model (when a key is
// configured), and the keyword heuristic. It never fails: the worst
// case is Random with a generic reason.
type Classifier struct {
	client *genai.Client
	model  string
}

// NewClassifier builds a classifier. An empty API key is allowed and
// yields heuristic-only classification.
func NewClassifier(ctx context.Context, apiKey, model string) (*Classifier, error) {
	if apiKey == "" {
		log.Println("No Gemini API key configured, classification runs heuristic-only")
		return &Classifier{model: model}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Classifier{client: client, model: model}, nil
}

// Classify evaluates one video. Transcript may be empty.
func (c *Classifier) Classify(ctx context.Context, title, description string, tags []string, transcript string) *models.Classification {
	text := strings.ToLower(title + " " + description + " " + strings.Join(tags, " "))

	for _, block := range musicExclusions {
		if strings.Contains(text, block) {
			return &models.Classification{
				Vibe:   models.VibeRandom,
				Reason: fmt.Sprintf("Blocked term: %q detected.", block),
			}
		}
	}

	if c.client != nil {
		if result := c.classifyWithModel(ctx, title, description, tags, transcript); result != nil {
			return result
		}
	}

	log.Printf("[Classifier] Using heuristic for: %q", truncateString(title, 30))
	return classifyHeuristic(text)
}

func (c *Classifier) classifyWithModel(ctx context.Context, title, description string, tags []string, transcript string) *models.Classification {
	prompt := buildClassificationPrompt(title, description, tags, transcript)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		log.Printf("Gemini classification failed, falling back to heuristic: %v", err)
		return nil
	}

	responseText := result.Text()
	if responseText == "" {
		log.Printf("Empty classification response for %q, falling back to heuristic", truncateString(title, 30))
		return nil
	}

	classification, err := parseClassificationResponse(responseText)
	if err != nil {
		log.Printf("Failed to parse classification response: %v", err)
		return nil
	}

	return classification
}

func buildClassificationPrompt(title, description string, tags []string, transcript string) string {
	transcriptSnippet := "No transcript available."
	if transcript != "" {
		transcriptSnippet = truncateString(transcript, transcriptExcerptLength)
	}

	return fmt.Sprintf(`You are a strict video curator for an AI Engineering Newsletter.
Analyze the following video metadata AND transcript to classify it into EXACTLY ONE category.
Provide a short reason for your decision.

Categories:
1. "Vibe Coding": Software engineering, coding tools, IDEs (Cursor, Replit), MCP, Evals, CI/CD, Observability, Infra.
2. "Model Upgrades": New LLM releases, benchmarks, GPT-4, Claude, Gemini, model architecture decisions.
3. "Robots": Physical humanoid robots, hardware robotics, Tesla Optimus.
4. "Hype": AGI predictions, doomerism, singularity talk, "changed everything" type sentiment.
5. "Sustainability": Energy, Nuclear Fusion, Climate Tech, Power Grids, Green AI.
6. "Security": AI Safety, Jailbreaks, Prompt Injection, Hacking, Cyber Security.
7. "AI Fail": AI Hallucinations, logic errors, funny failures. STRICTLY EXCLUDE Physical/Robot failures.
8. "Human in the Loop": Tech/AI related, but vague or doesn't fit clearly into above categories. (Use this for uncertainty).
9. "Random": STRICTLY for Non-AI content. Music, Politics, Funny videos, Animals, General Tech news not specifically about AI engineering.

Critical Rules:
- If I don't know, or it's vague: Choose "Random".
- "Dog saves child" -> Random. (NOT Model Upgrades).
- "Interview with Sam Altman" -> Random (unless he announces a specific Model).
- "Evals and Observability" -> Vibe Coding.
- "MCP Demos" -> Vibe Coding.
- "Fall Out Boy" -> Random.
- "Robot falling down" -> Robots (NOT AI Fail).
- "ChatGPT can't do math" -> AI Fail.
- If unsure between Tech categories -> Human in the Loop.

Output JSON format only:
{
  "category": "Category Name",
  "reason": "Max 10 words explanation."
}

Video Title: %s
Video Description: %s...
Tags: %s
Transcript Start: %s...`,
		title,
		truncateString(description, 300),
		strings.Join(tags, ", "),
		transcriptSnippet,
	)
}

// parseClassificationResponse extracts and validates the JSON object
// from a model response. Fences and prose around the object are
// tolerated; a disallowed category is an error so the caller falls back
// to the heuristic.
func parseClassificationResponse(response string) (*models.Classification, error) {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("no JSON found in response: %s", response)
	}

	jsonStr := response[startIdx : endIdx+1]

	var parsed models.Classification
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON %q: %w", jsonStr, err)
	}

	if !models.IsValidVibe(parsed.Vibe) {
		return nil, fmt.Errorf("model returned disallowed category %q", parsed.Vibe)
	}

	if parsed.Reason == "" {
		parsed.Reason = "AI Classification"
	}

	return &parsed, nil
}

// classifyHeuristic scores the lower-cased text against each keyword
// list and picks the strictly highest score. Ties keep the first-seen
// category; a zero maximum means Random.
func classifyHeuristic(text string) *models.Classification {
	bestVibe := models.VibeRandom
	maxScore := 0

	for _, entry := range vibeKeywords {
		if score := keywordScore(text, entry.keywords); score > maxScore {
			maxScore = score
			bestVibe = entry.vibe
		}
	}

	if maxScore < 1 {
		return &models.Classification{
			Vibe:   models.VibeRandom,
			Reason: "No specific keywords matched.",
		}
	}

	return &models.Classification{
		Vibe:   bestVibe,
		Reason: fmt.Sprintf("Matched keywords for %s (Score: %d)", bestVibe, maxScore),
	}
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
