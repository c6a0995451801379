package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"training-weather/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	text     string
	err      error
	gotModel string
	gotText  string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotText = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.text, genai.RoleModel),
		}},
	}, nil
}

func sampleReport() *models.TrainingReport {
	at := time.Date(2025, time.June, 3, 17, 0, 0, 0, time.UTC)
	return &models.TrainingReport{
		Location: models.Location{Name: "Kamnik", Country: "Slovenia"},
		Current: &models.CurrentAssessment{
			Observation:    models.Observation{TempC: 21, PrecipitationMm: 0.4, Condition: models.Condition{Text: "Light rain"}},
			Recommendation: models.Conditional,
		},
		Window: &models.ForecastWindow{
			StartHour: 17,
			EndHour:   18,
			Status:    models.Cancel,
			Hours: []models.HourAssessment{
				{Observation: models.Observation{Time: at, PrecipitationMm: 2.1, ChanceOfRainPct: models.Percent(88), Condition: models.Condition{Text: "Heavy rain"}}, Recommendation: models.Cancel},
			},
		},
	}
}

func TestBuildBriefingPrompt(t *testing.T) {
	prompt := buildBriefingPrompt(sampleReport())

	assert.Contains(t, prompt, "LOCATION: Kamnik, Slovenia")
	assert.Contains(t, prompt, "FINAL DECISION: CANCEL (ODPOVEDANO)")
	assert.Contains(t, prompt, "CURRENT CONDITIONS: Light rain")
	assert.Contains(t, prompt, "TRAINING WINDOW 17:00-18:00 -> CANCEL")
	assert.Contains(t, prompt, "- 17:00: Heavy rain")
	assert.Contains(t, prompt, "chance of rain 88%")
}

func TestBrief(t *testing.T) {
	gen := &fakeGenerator{text: "  **Training is cancelled** because heavy rain is expected.  "}
	b := &Briefer{models: gen, model: "gemini-test"}

	text, err := b.Brief(context.Background(), sampleReport())
	require.NoError(t, err)

	assert.Equal(t, "Training is cancelled because heavy rain is expected.", text)
	assert.Equal(t, "gemini-test", gen.gotModel)
	assert.Contains(t, gen.gotText, "FINAL DECISION")
}

func TestBriefErrors(t *testing.T) {
	b := &Briefer{models: &fakeGenerator{err: errors.New("quota")}, model: "m"}
	_, err := b.Brief(context.Background(), sampleReport())
	assert.ErrorContains(t, err, "failed to generate briefing for Kamnik")

	b = &Briefer{models: &fakeGenerator{text: "   "}, model: "m"}
	_, err = b.Brief(context.Background(), sampleReport())
	assert.ErrorContains(t, err, "empty briefing")

	_, err = b.Brief(context.Background(), nil)
	assert.Error(t, err)
}

func TestCleanBriefingTruncates(t *testing.T) {
	long := strings.Repeat("rain ", 200)
	out := cleanBriefing(long)

	assert.True(t, strings.HasSuffix(out, "..."))
	assert.LessOrEqual(t, len([]rune(out)), maxBriefingChars+3)
}
