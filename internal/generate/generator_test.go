package generate

import (
	"context"
	"strings"
	"testing"

	"github.com/qualgate/qualgate/internal/model"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("plain first attempt", func(t *testing.T) {
		prompt := BuildPrompt(Request{Message: "I just want this shipped fast"})
		if !strings.Contains(prompt, "I just want this shipped fast") {
			t.Error("expected the message in the prompt")
		}
		if strings.Contains(prompt, "previous attempt") {
			t.Error("expected no retry preamble on the first attempt")
		}
	})

	t.Run("retry hints appended", func(t *testing.T) {
		prompt := BuildPrompt(Request{
			Message:  "I just want this shipped fast",
			Strategy: model.StrategyClarificationBoost,
			Params: model.StrategyParams{
				PromptHints: []string{"avoid hedge phrases"},
			},
		})
		if !strings.Contains(prompt, "previous attempt fell short") {
			t.Error("expected the retry preamble")
		}
		if !strings.Contains(prompt, "avoid hedge phrases") {
			t.Error("expected the strategy hint in the prompt")
		}
	})

	t.Run("conversation context included", func(t *testing.T) {
		prompt := BuildPrompt(Request{
			Message: "And what about the deadline?",
			Context: []string{"We discussed the release plan yesterday."},
		})
		if !strings.Contains(prompt, "release plan yesterday") {
			t.Error("expected context lines in the prompt")
		}
	})
}

func TestParseCandidate(t *testing.T) {
	t.Run("plain JSON", func(t *testing.T) {
		candidate, err := parseCandidate(`{
			"statement_type": "opinion",
			"beliefs": ["speed matters"],
			"trade_offs": [],
			"confidence_level": 82.6,
			"reasoning": "The speaker wants speed."
		}`)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if candidate.StatementType != model.StatementOpinion {
			t.Errorf("expected opinion, got %s", candidate.StatementType)
		}
		if candidate.ConfidenceLevel != 83 {
			t.Errorf("expected fractional confidence rounded to 83, got %d", candidate.ConfidenceLevel)
		}
	})

	t.Run("code-fenced JSON", func(t *testing.T) {
		candidate, err := parseCandidate("```json\n{\"statement_type\": \"fact\", \"confidence_level\": 50, \"reasoning\": \"x\"}\n```")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if candidate.StatementType != model.StatementFact {
			t.Errorf("expected fact, got %s", candidate.StatementType)
		}
	})

	t.Run("malformed output", func(t *testing.T) {
		if _, err := parseCandidate("I cannot produce JSON today"); err == nil {
			t.Fatal("expected an error for non-JSON output")
		}
	})
}

func TestFuncGenerator(t *testing.T) {
	called := false
	g := FuncGenerator("stub", func(ctx context.Context, req Request) (*model.CandidateAnalysis, error) {
		called = true
		return &model.CandidateAnalysis{StatementType: model.StatementOther}, nil
	})

	if g.Name() != "stub" {
		t.Errorf("expected name stub, got %s", g.Name())
	}
	candidate, err := g.Generate(context.Background(), Request{Message: "hello"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !called || candidate.StatementType != model.StatementOther {
		t.Error("expected the wrapped function to run")
	}
}

func TestNewGenerator(t *testing.T) {
	t.Run("disabled provider", func(t *testing.T) {
		g, err := NewGenerator(model.LLMConfig{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if g != nil {
			t.Error("expected nil generator when no provider is configured")
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		if _, err := NewGenerator(model.LLMConfig{Provider: "telepathy"}); err == nil {
			t.Fatal("expected an error for an unknown provider")
		}
	})

	t.Run("openai without key", func(t *testing.T) {
		if _, err := NewGenerator(model.LLMConfig{Provider: "openai"}); err == nil {
			t.Fatal("expected an error without an API key")
		}
	})
}
