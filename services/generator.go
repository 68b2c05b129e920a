package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"life-quest-system/models"

	"google.golang.org/genai"
)

// Guidance is the generator's daily-oracle output.
type Guidance struct {
	Content string              `json:"content"`
	Kind    models.GuidanceType `json:"kind"`
}

// ContentGenerator produces the AI flavor content: personalized missions,
// the daily guidance, mentor chat replies and journal analysis. Every method
// returns an error on failure — callers substitute static catalog content
// and must never leave profile state inconsistent because generation failed.
type ContentGenerator interface {
	GenerateMissions(ctx context.Context, kind models.MissionType, level int, rank models.Rank) ([]models.Mission, error)
	GenerateGuidance(ctx context.Context, prof *models.UserProfile) (*Guidance, error)
	GenerateChatReply(ctx context.Context, prof *models.UserProfile, history []string, message string) (string, error)
	GenerateAnalysis(ctx context.Context, entry *models.JournalEntry) (string, error)
}

// GeminiGenerator implements ContentGenerator on the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("generator API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create generator client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) generateText(ctx context.Context, prompt string, jsonOut bool) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	var cfg *genai.GenerateContentConfig
	if jsonOut {
		cfg = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("empty generation result")
	}
	return text, nil
}

func missionCount(kind models.MissionType) int {
	switch kind {
	case models.MissionDaily:
		return 5
	case models.MissionWeekly:
		return 4
	default:
		return 3
	}
}

func (g *GeminiGenerator) GenerateMissions(ctx context.Context, kind models.MissionType, level int, rank models.Rank) ([]models.Mission, error) {
	prompt := fmt.Sprintf(
		`Generate %d %s self-improvement missions for a level %d player ranked %q.
Return a JSON array of objects with fields "title" (string), "xp" (positive integer) and
"category" (one of: %s).`,
		missionCount(kind), kind, level, rank, strings.Join(models.LifeWheelCategories, ", "))

	text, err := g.generateText(ctx, prompt, true)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		Title    string `json:"title"`
		XP       int64  `json:"xp"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("malformed mission payload: %w", err)
	}

	missions := make([]models.Mission, 0, len(raw))
	for _, m := range raw {
		if m.Title == "" || m.XP <= 0 {
			continue
		}
		if _, ok := categorySet[m.Category]; !ok {
			m.Category = models.CategoryMind
		}
		missions = append(missions, models.Mission{
			Title:    m.Title,
			XP:       m.XP,
			Category: m.Category,
			FromAI:   true,
		})
	}
	if len(missions) == 0 {
		return nil, fmt.Errorf("generator returned no usable missions")
	}
	return missions, nil
}

func (g *GeminiGenerator) GenerateGuidance(ctx context.Context, prof *models.UserProfile) (*Guidance, error) {
	prompt := fmt.Sprintf(
		`You are the oracle of a self-improvement game. The player is a level %d %s
(archetype %q, streak %d days). Write one short paragraph of guidance for today and
classify it. Return JSON: {"content": string, "kind": "alert"|"praise"|"strategy"}.`,
		prof.Level, prof.Rank, prof.Archetype, prof.StreakDays)

	// oracle_sight grants the oracle the full wheel, not just the streak.
	if prof.ParagonPerkLevels["oracle_sight"] > 0 {
		prompt += fmt.Sprintf(
			"\nThe player has Oracle Sight: their life-wheel scores are %v and their completed mission counts per category are %v. Target their weakest area.",
			prof.LifeWheelScores, prof.CategoryMissionCounts)
	}

	text, err := g.generateText(ctx, prompt, true)
	if err != nil {
		return nil, err
	}
	var out Guidance
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("malformed guidance payload: %w", err)
	}
	if out.Content == "" {
		return nil, fmt.Errorf("generator returned empty guidance")
	}
	switch out.Kind {
	case models.GuidanceAlert, models.GuidancePraise, models.GuidanceStrategy:
	default:
		out.Kind = models.GuidanceStrategy
	}
	return &out, nil
}

func (g *GeminiGenerator) GenerateChatReply(ctx context.Context, prof *models.UserProfile, history []string, message string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the AI mentor of a level %d %s player (archetype %q). Reply to the last message in a few sentences.\n",
		prof.Level, prof.Rank, prof.Archetype)
	for _, h := range history {
		b.WriteString(h)
		b.WriteString("\n")
	}
	b.WriteString("player: ")
	b.WriteString(message)
	return g.generateText(ctx, b.String(), false)
}

func (g *GeminiGenerator) GenerateAnalysis(ctx context.Context, entry *models.JournalEntry) (string, error) {
	prompt := fmt.Sprintf(
		"Analyze this journal entry from a self-improvement app. Point out one pattern and one concrete next step, in two short paragraphs.\n\n%s",
		entry.Body)
	return g.generateText(ctx, prompt, false)
}

var categorySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(models.LifeWheelCategories))
	for _, c := range models.LifeWheelCategories {
		m[c] = struct{}{}
	}
	return m
}()

// FallbackChatReply is the static mentor reply used when generation fails.
const FallbackChatReply = "Your mentor is meditating right now. Look at today's missions — the next step is already on the board."
