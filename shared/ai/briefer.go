package ai

import (
	"context"
	"fmt"
	"strings"

	"training-weather/internal/models"
	"training-weather/shared/config"

	"google.golang.org/genai"
)

const maxBriefingChars = 600

// generator is the slice of the Gemini client the briefer needs
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Briefer writes a short plain-language note for athletes from a finished report.
// It never changes the recommendation, it only explains it.
type Briefer struct {
	models generator
	model  string
}

func NewBriefer(ctx context.Context, cfg *config.AIConfig) (*Briefer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Briefer{
		models: client.Models,
		model:  cfg.Model,
	}, nil
}

func (b *Briefer) Brief(ctx context.Context, report *models.TrainingReport) (string, error) {
	if report == nil {
		return "", fmt.Errorf("report cannot be nil")
	}

	contents := []*genai.Content{
		genai.NewContentFromText(buildBriefingPrompt(report), genai.RoleUser),
	}

	result, err := b.models.GenerateContent(ctx, b.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate briefing for %s: %w", report.Location.Name, err)
	}

	text := cleanBriefing(result.Text())
	if text == "" {
		return "", fmt.Errorf("empty briefing response for %s", report.Location.Name)
	}
	return text, nil
}

func buildBriefingPrompt(report *models.TrainingReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `You are an assistant for an outdoor sports club. Write a short briefing (2-3 sentences, plain text, no markdown) for athletes about today's training.

The decision has already been made by fixed rules and MUST NOT be changed or questioned. Explain it using the data below.

LOCATION: %s, %s
FINAL DECISION: %s (%s)
`, report.Location.Name, report.Location.Country, report.Status(), report.Status().Label())

	if c := report.Current; c != nil {
		o := c.Observation
		fmt.Fprintf(&sb, "\nCURRENT CONDITIONS: %s, %.1f°C, precipitation %.1f mm, wind %.0f km/h, thunder %t -> %s\n",
			o.Condition.Text, o.TempC, o.PrecipitationMm, o.WindKph, o.HasThunder, c.Recommendation)
	}

	if w := report.Window; w != nil {
		fmt.Fprintf(&sb, "\nTRAINING WINDOW %02d:00-%02d:00 -> %s\n", w.StartHour, w.EndHour, w.Status)
		for _, h := range w.Hours {
			o := h.Observation
			chance, _ := o.ChanceOfRain()
			fmt.Fprintf(&sb, "- %s: %s, %.1f°C, precipitation %.1f mm, chance of rain %d%%, thunder %t -> %s\n",
				o.Time.Format("15:04"), o.Condition.Text, o.TempC, o.PrecipitationMm, chance, o.HasThunder, h.Recommendation)
		}
	}

	return sb.String()
}

// cleanBriefing strips markdown emphasis and caps the length
func cleanBriefing(text string) string {
	text = strings.TrimSpace(text)
	text = strings.NewReplacer("**", "", "__", "", "`", "").Replace(text)
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) > maxBriefingChars {
		text = strings.TrimSpace(string(runes[:maxBriefingChars])) + "..."
	}
	return text
}
