package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/qualgate/qualgate/internal/model"
)

// OpenAIGenerator produces candidate analyses via OpenAI's Chat
// Completions API
type OpenAIGenerator struct {
	client *openai.Client
	config model.LLMConfig
}

// NewOpenAIGenerator creates a generator from configuration
func NewOpenAIGenerator(cfg model.LLMConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Name returns the backend identity for breaker/limiter keying
func (g *OpenAIGenerator) Name() string {
	return "openai"
}

// Generate runs one chat completion and parses the JSON candidate
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (*model.CandidateAnalysis, error) {
	modelName := g.config.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	// Strategy parameter adjustments override the configured defaults.
	temperature := req.Params.Temperature
	if temperature == 0 {
		temperature = 0.4
	}
	maxTokens := req.Params.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 1000
	}
	timeout := req.Params.Timeout
	if timeout == 0 {
		timeout = time.Duration(g.config.Timeout) * time.Second
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req)},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseCandidate(resp.Choices[0].Message.Content)
}

// rawCandidate tolerates fractional confidence values from the model
type rawCandidate struct {
	StatementType   string   `json:"statement_type"`
	Beliefs         []string `json:"beliefs"`
	TradeOffs       []string `json:"trade_offs"`
	ConfidenceLevel float64  `json:"confidence_level"`
	Reasoning       string   `json:"reasoning"`
}

// parseCandidate decodes the model's JSON output into a candidate analysis.
// Structural checking is the validator's job; this only decodes.
func parseCandidate(content string) (*model.CandidateAnalysis, error) {
	content = strings.TrimSpace(content)
	// Some models wrap JSON in a code fence despite instructions.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw rawCandidate
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("decode candidate: %w", err)
	}

	return &model.CandidateAnalysis{
		StatementType:   model.StatementType(raw.StatementType),
		Beliefs:         raw.Beliefs,
		TradeOffs:       raw.TradeOffs,
		ConfidenceLevel: int(math.Round(raw.ConfidenceLevel)),
		Reasoning:       raw.Reasoning,
	}, nil
}
