package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/phrazzld/rxstudy-api/internal/config"
	"github.com/phrazzld/rxstudy-api/internal/domain"
	"github.com/phrazzld/rxstudy-api/internal/generation"
)

// Retry policy for transient API failures.
const (
	maxRetries       = 3
	baseDelaySeconds = 2
)

// promptTemplateText asks the model for a strict JSON drug list. The
// response schema mirrors the drug catalog columns.
const promptTemplateText = `You are a pharmacology reference author writing study material for
nursing and medical students. Draft {{.Count}} drug entries covering the
topic: {{.Topic}}.

Respond with JSON only, no prose, matching exactly this schema:
{"drugs":[{"name":"","class":"","system":"","moa":"","uses":[""],"side_effects":[""],"mnemonic":"","contraindications":[""],"dosage":""}]}

Rules:
- "system" must be a lowercase body system key such as "cardiovascular",
  "respiratory", "nervous", "endocrine", "gastrointestinal", or "renal".
- "moa" is a one-sentence mechanism of action.
- "uses" and "side_effects" each list three to five short entries.
- "mnemonic" is a short memorable study aid, or an empty string.
- Use generic drug names only.`

// promptData supplies the template inputs.
type promptData struct {
	Topic string
	Count int
}

// drugSchema is the JSON shape of one generated drug entry.
type drugSchema struct {
	Name              string   `json:"name"`
	Class             string   `json:"class"`
	System            string   `json:"system"`
	Mechanism         string   `json:"moa"`
	Uses              []string `json:"uses"`
	SideEffects       []string `json:"side_effects"`
	Mnemonic          string   `json:"mnemonic"`
	Contraindications []string `json:"contraindications"`
	Dosage            string   `json:"dosage"`
}

// responseSchema is the JSON shape of the full model response.
type responseSchema struct {
	Drugs []drugSchema `json:"drugs"`
}

// DrugGenerator implements the generation.DrugGenerator interface using
// Google's Gemini API.
type DrugGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// Verify interface compliance at compile time
var _ generation.DrugGenerator = (*DrugGenerator)(nil)

// NewDrugGenerator creates a new DrugGenerator with the provided dependencies.
func NewDrugGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*DrugGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("drug_draft").Parse(promptTemplateText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &DrugGenerator{
		logger:         logger.With(slog.String("component", "gemini_drug_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateDrugs implements generation.DrugGenerator.
func (g *DrugGenerator) GenerateDrugs(
	ctx context.Context,
	topic string,
	count int,
) ([]*domain.Drug, error) {
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if count < 1 {
		count = 1
	}

	prompt, err := g.createPrompt(ctx, topic, count)
	if err != nil {
		return nil, err
	}

	response, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseResponse(ctx, response)
}

// createPrompt renders the prompt template for the given topic.
func (g *DrugGenerator) createPrompt(ctx context.Context, topic string, count int) (string, error) {
	g.logger.DebugContext(ctx, "generating prompt from template",
		"topic", topic,
		"count", count)

	var promptBuffer bytes.Buffer
	if err := g.promptTemplate.Execute(&promptBuffer, promptData{Topic: topic, Count: count}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return promptBuffer.String(), nil
}

// callGeminiWithRetry calls the Gemini API with exponential backoff for
// transient errors. Permanent errors (blocked content, malformed output)
// are returned immediately.
func (g *DrugGenerator) callGeminiWithRetry(ctx context.Context, prompt string) (*responseSchema, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.InfoContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		response, transient, err := g.callGemini(ctx, prompt)
		if err == nil {
			g.logger.InfoContext(ctx, "Gemini API call successful", "attempt", attemptNum)
			return response, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !transient {
			return nil, err
		}

		if attempt >= maxRetries {
			g.logger.WarnContext(ctx, "maximum retry attempts reached", "max_retries", maxRetries)
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				generation.ErrTransientFailure, maxRetries)
		}

		// Exponential backoff with jitter:
		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		g.logger.InfoContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay", delay.String())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			g.logger.WarnContext(ctx, "API call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callGemini performs a single API call. The second return value reports
// whether a failure is worth retrying.
func (g *DrugGenerator) callGemini(ctx context.Context, prompt string) (*responseSchema, bool, error) {
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, false, fmt.Errorf("%w: generation stopped by safety filters", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return nil, false, fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}

	var parsed responseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, false, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	return &parsed, false, nil
}

// parseResponse converts the model output into validated domain drugs.
// Any invalid entry fails the whole batch.
func (g *DrugGenerator) parseResponse(ctx context.Context, response *responseSchema) ([]*domain.Drug, error) {
	if response == nil {
		return nil, fmt.Errorf("%w: response is nil", generation.ErrInvalidResponse)
	}

	if len(response.Drugs) == 0 {
		return nil, fmt.Errorf("%w: no drugs in response", generation.ErrInvalidResponse)
	}

	g.logger.InfoContext(ctx, "parsing Gemini API response",
		"drug_count", len(response.Drugs))

	drugs := make([]*domain.Drug, 0, len(response.Drugs))
	for i, entry := range response.Drugs {
		drug := &domain.Drug{
			Name:              entry.Name,
			Class:             entry.Class,
			System:            domain.BodySystem(entry.System),
			Mechanism:         entry.Mechanism,
			Uses:              entry.Uses,
			SideEffects:       entry.SideEffects,
			Mnemonic:          entry.Mnemonic,
			Contraindications: entry.Contraindications,
			Dosage:            entry.Dosage,
		}

		if err := drug.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d invalid: %v", generation.ErrInvalidResponse, i, err)
		}

		drugs = append(drugs, drug)
	}

	g.logger.InfoContext(ctx, "successfully parsed API response",
		"drafted_drugs", len(drugs))

	return drugs, nil
}
