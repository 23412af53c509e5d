package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/qualgate/qualgate/internal/model"
)

// Request is one generation attempt's input: the message to analyze plus
// any retry-strategy adjustments chosen by the selector
type Request struct {
	// Message is the chat message to analyze
	Message string

	// Context is optional prior conversation context
	Context []string

	// Strategy is the retry strategy in effect, empty on the first attempt
	Strategy model.RetryStrategy

	// Params carries the strategy's prompt hints and parameter adjustments
	Params model.StrategyParams
}

// Generator is the generation collaborator: it turns a request into a raw
// candidate analysis. The pipeline is agnostic to which backend produced it.
type Generator interface {
	// Name identifies the backend, used as the circuit breaker domain
	Name() string

	// Generate produces one candidate analysis or an error
	Generate(ctx context.Context, req Request) (*model.CandidateAnalysis, error)
}

// Func adapts a plain function into a Generator, keeping the retry loop
// testable without a live backend
type Func func(ctx context.Context, req Request) (*model.CandidateAnalysis, error)

// FuncGenerator wraps fn as a named Generator
func FuncGenerator(name string, fn Func) Generator {
	return &funcGenerator{name: name, fn: fn}
}

type funcGenerator struct {
	name string
	fn   Func
}

func (g *funcGenerator) Name() string { return g.name }

func (g *funcGenerator) Generate(ctx context.Context, req Request) (*model.CandidateAnalysis, error) {
	return g.fn(ctx, req)
}

// NewGenerator creates a generator from configuration. An empty provider
// returns nil (generation disabled; the pipeline then only scores
// pre-produced candidates).
func NewGenerator(cfg model.LLMConfig) (Generator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIGenerator(cfg)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown generation provider: %s (supported: openai)", cfg.Provider)
	}
}
