package roadmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/benvon/roadmap-api/internal/logger"
	"github.com/benvon/roadmap-api/internal/models"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 60 * time.Second

	// MinGeneratedItems and MaxGeneratedItems bound how many items the model
	// is instructed to emit
	MinGeneratedItems = 8
	MaxGeneratedItems = 12
)

// errNoChoices is returned when the API response has no choices
var errNoChoices = errors.New("no choices in response")

// OpenAIGenerator implements Generator using OpenAI chat completions
type OpenAIGenerator struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIGenerator creates an AI-backed roadmap generator
func NewOpenAIGenerator(apiKey, baseURL, model string, logger *zap.Logger, debugMode bool) *OpenAIGenerator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIGenerator{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}
}

// Source identifies the AI strategy
func (g *OpenAIGenerator) Source() models.GeneratedBy {
	return models.GeneratedByAI
}

// Generate builds a prompt from the project context and allocation targets,
// calls the chat completion API, and parses the JSON reply into a Draft.
// Every failure mode (network, timeout, empty reply, unparseable JSON) is
// returned as a GenerationError so the caller can substitute the fallback.
func (g *OpenAIGenerator) Generate(ctx context.Context, pc ProjectContext, alloc models.AllocationStrategy, params models.GenerationParameters) (*Draft, error) {
	prompt := buildRoadmapPrompt(pc, alloc, params)

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a product management assistant that produces prioritized product roadmaps. Respond with valid JSON only."),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	if g.logger != nil && g.debugMode {
		g.logger.Debug("llm_api_request",
			zap.String("operation", "generate_roadmap"),
			zap.String("model", g.model),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt", logger.SanitizeDebugContent(prompt)),
		)
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		if g.logger != nil && g.debugMode {
			g.logger.Debug("llm_api_error",
				zap.String("operation", "generate_roadmap"),
				zap.String("model", g.model),
				zap.Error(err),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		return nil, &GenerationError{Stage: "request", Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &GenerationError{Stage: "response", Err: errNoChoices}
	}

	content := resp.Choices[0].Message.Content
	if g.logger != nil && g.debugMode {
		g.logger.Debug("llm_api_response",
			zap.String("operation", "generate_roadmap"),
			zap.String("model", g.model),
			zap.Int("response_length", len(content)),
			zap.String("response", logger.SanitizeDebugContent(content)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	draft, err := parseDraftResponse(content)
	if err != nil {
		return nil, &GenerationError{Stage: "parse", Err: err}
	}
	draft.Prompt = prompt
	draft.Model = g.model
	return draft, nil
}

// parseDraftResponse parses the model reply into a Draft, tolerating
// Markdown code-fence wrapping and leading/trailing prose around the JSON
func parseDraftResponse(content string) (*Draft, error) {
	raw := stripCodeFences(content)

	var draft Draft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		// Fall back to the outermost JSON object if the model added prose
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start == -1 || end <= start {
			return nil, fmt.Errorf("failed to parse roadmap response: %w", err)
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &draft); err != nil {
			return nil, fmt.Errorf("failed to parse roadmap response: %w", err)
		}
	}

	if len(draft.Items) == 0 {
		return nil, errors.New("roadmap response contains no items")
	}
	return &draft, nil
}

// stripCodeFences removes a Markdown code fence wrapper (``` or ```json)
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx != -1 {
		// Drop the language tag line ("json", "JSON", or empty)
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// buildRoadmapPrompt embeds the aggregated context, the allocation targets
// and the generation parameters into the instruction prompt
func buildRoadmapPrompt(pc ProjectContext, alloc models.AllocationStrategy, params models.GenerationParameters) string {
	var b strings.Builder

	b.WriteString("Create a prioritized product roadmap for the following project.\n\n")
	b.WriteString(pc.ProjectSummary)
	b.WriteString("\n\n")
	b.WriteString(pc.FeedbackSummary)

	if len(pc.TopKeywords) > 0 {
		b.WriteString("\nRecurring feedback keywords:")
		for _, entry := range pc.TopKeywords {
			b.WriteString(fmt.Sprintf("\n- %s (%d mentions)", entry.Label, entry.Count))
		}
	}

	b.WriteString(fmt.Sprintf(`

Target effort allocation:
- strategic: %g%%
- customer-driven: %g%%
- maintenance: %g%%

Time horizon: %s`, alloc.Strategic, alloc.CustomerDriven, alloc.Maintenance, params.TimeHorizon))

	if len(params.FocusAreas) > 0 {
		b.WriteString("\nFocus areas: " + strings.Join(params.FocusAreas, ", "))
	}
	if len(params.Constraints) > 0 {
		b.WriteString("\nConstraints: " + strings.Join(params.Constraints, ", "))
	}

	b.WriteString(fmt.Sprintf(`

Respond with a JSON object in this format:
{
  "name": "roadmap name",
  "description": "one paragraph summary",
  "rationale": "why the items were chosen and ordered this way",
  "items": [
    {
      "title": "item title",
      "description": "what will be done",
      "category": "strategic" | "customer-driven" | "maintenance" | "innovation",
      "priority": "critical" | "high" | "medium" | "low",
      "timeframe": {
        "quarter": "Q1 2026",
        "estimated_duration": {"value": 4, "unit": "weeks"}
      },
      "resource_allocation": {"percentage": 10},
      "dependencies": ["free text references"],
      "business_justification": {
        "strategic_alignment": 0-10,
        "customer_impact": 0-10,
        "revenue_impact": 0-10,
        "risk_level": "low" | "medium" | "high"
      },
      "success_metrics": ["measurable outcomes"],
      "status": "proposed"
    }
  ]
}

Guidelines:
- Emit between %d and %d items.
- The mix of item categories should reflect the target effort allocation.
- Ground customer-driven items in the feedback themes above.
- Return only valid JSON.`, MinGeneratedItems, MaxGeneratedItems))

	return b.String()
}
