// Package estimator asks a generative model for the nutritional breakdown of
// a free-text meal description.
package estimator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/aura/internal/common"
	"github.com/dmitrijs2005/aura/internal/logging"
	"github.com/dmitrijs2005/aura/internal/models"
	"github.com/sethvargo/go-retry"
)

// Generator returns the raw JSON answer of a model for prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Estimator interface {
	Estimate(ctx context.Context, description string) (models.Estimate, error)
}

type Options struct {
	// Timeout bounds each attempt.
	Timeout time.Duration
	Retries uint64
	Backoff time.Duration
}

func DefaultOptions() Options {
	return Options{Timeout: 30 * time.Second, Retries: 2, Backoff: 500 * time.Millisecond}
}

var ErrEmptyDescription = errors.New("meal description is empty")

type Service struct {
	gen  Generator
	opts Options
	log  logging.Logger
}

func New(gen Generator, opts Options, log logging.Logger) *Service {
	d := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = d.Timeout
	}
	if opts.Backoff <= 0 {
		opts.Backoff = d.Backoff
	}
	return &Service{gen: gen, opts: opts, log: log.With("component", "estimator")}
}

const promptTemplate = `
Aja como um nutricionista brasileiro especializado em estimativa nutricional rápida.
Analise a descrição desta refeição: %q.

Regras:
1. Estime calorias, proteínas, carboidratos, gorduras e fibras.
2. Use porções e gramaturas típicas brasileiras (ex: arroz, feijão, pão francês).
3. Retorne APENAS um JSON válido.
4. Se a descrição for vaga, use as 'followUpQuestions' para sugerir esclarecimentos em uma nova análise.
5. Nunca invente dados se for impossível estimar, mas tente dar uma média segura.
6. Identifique cada item separadamente no array 'items'.
`

func buildPrompt(description string) string {
	return fmt.Sprintf(promptTemplate, description)
}

// Estimate returns the model's breakdown of description. Every failure after
// the retry budget is spent is reported as common.ErrEstimationFailure.
func (s *Service) Estimate(ctx context.Context, description string) (models.Estimate, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return models.Estimate{}, ErrEmptyDescription
	}
	prompt := buildPrompt(description)

	var est models.Estimate
	attempt := 0
	backoff := retry.WithMaxRetries(s.opts.Retries, retry.NewExponential(s.opts.Backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		e, err := s.once(ctx, prompt)
		if err != nil {
			s.log.Warn(ctx, "estimation attempt failed", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		est = e
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "estimation failed", "attempts", attempt, "error", err)
		return models.Estimate{}, fmt.Errorf("%w: %v", common.ErrEstimationFailure, err)
	}

	s.log.Info(ctx, "meal estimated", "items", len(est.Items), "calories", est.Totals.Calories)
	return est, nil
}

func (s *Service) once(ctx context.Context, prompt string) (models.Estimate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return models.Estimate{}, err
	}
	return parse(raw)
}

// parse decodes and checks a model answer.
func parse(raw string) (models.Estimate, error) {
	raw = stripFences(raw)

	var est models.Estimate
	if err := json.Unmarshal([]byte(raw), &est); err != nil {
		return models.Estimate{}, fmt.Errorf("decode estimate: %w", err)
	}
	if len(est.Items) == 0 {
		return models.Estimate{}, errors.New("estimate has no items")
	}
	for i, it := range est.Items {
		if strings.TrimSpace(it.Name) == "" {
			return models.Estimate{}, fmt.Errorf("item %d has no name", i)
		}
		if it.Calories < 0 || it.ProteinG < 0 || it.CarbsG < 0 || it.FatG < 0 || it.FiberG < 0 {
			return models.Estimate{}, fmt.Errorf("item %d has negative values", i)
		}
		if it.Confidence < 0 || it.Confidence > 1 {
			est.Items[i].Confidence = clamp01(it.Confidence)
		}
	}
	if est.FollowUpQuestions == nil {
		est.FollowUpQuestions = []string{}
	}
	return est, nil
}

// stripFences removes a markdown code fence around a JSON answer.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
