package estimator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-1.5-flash"

// Gemini generates estimates with the Gemini API in JSON mode.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is not configured")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = estimateSchema()
	m.SetTemperature(0.2)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: no candidates")
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini: empty content")
	}
	return sb.String(), nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func estimateSchema() *genai.Schema {
	num := func() *genai.Schema { return &genai.Schema{Type: genai.TypeNumber} }
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"mealName": str(),
			"items": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":           str(),
						"quantityText":   str(),
						"estimatedGrams": num(),
						"calories":       num(),
						"protein_g":      num(),
						"carbs_g":        num(),
						"fat_g":          num(),
						"fiber_g":        num(),
						"confidence":     num(),
						"notes":          str(),
					},
					Required: []string{"name", "quantityText", "calories"},
				},
			},
			"totals": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"calories":  num(),
					"protein_g": num(),
					"carbs_g":   num(),
					"fat_g":     num(),
					"fiber_g":   num(),
				},
			},
			"disclaimer": str(),
			"followUpQuestions": {
				Type:  genai.TypeArray,
				Items: str(),
			},
		},
		Required: []string{"mealName", "items", "totals", "disclaimer"},
	}
}
