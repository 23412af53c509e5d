package retry

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/qualgate/qualgate/internal/model"
)

// minSuccessProbability is the floor below which a retry is not worth the cost
const minSuccessProbability = 0.2

// declineCutoff is how many points the quality may drop between the last
// two attempts before retrying is considered futile
const declineCutoff = 10

// retryableFlagTypes are the failure modes a regeneration can plausibly fix
var retryableFlagTypes = map[model.FlagType]bool{
	model.FlagCoherence:          true,
	model.FlagConsistency:        true,
	model.FlagCompleteness:       true,
	model.FlagConfidenceMismatch: true,
}

// strategyForFlag maps a dominant failure pattern to the strategy that
// targets it
var strategyForFlag = map[model.FlagType]model.RetryStrategy{
	model.FlagSpecificity:        model.StrategyClarificationBoost,
	model.FlagConfidenceMismatch: model.StrategyConfidenceCalibration,
	model.FlagCoherence:          model.StrategyStructureEnhancement,
	model.FlagConsistency:        model.StrategyStructureEnhancement,
	model.FlagCompleteness:       model.StrategyExtendedReasoning,
}

// strategyProgression is the fallback order when no failure pattern
// dominates; simplified_approach is the terminal fallback after repeated
// failures
var strategyProgression = []model.RetryStrategy{
	model.StrategyClarificationBoost,
	model.StrategyStructureEnhancement,
	model.StrategySimplifiedApproach,
}

// strategyParams is the fixed strategy catalog; not editable at runtime
var strategyParams = map[model.RetryStrategy]model.StrategyParams{
	model.StrategyClarificationBoost: {
		PromptHints: []string{
			"name concrete details from the message instead of generic wording",
			"avoid hedge phrases",
		},
		Temperature: 0.5, MaxTokens: 1200, Timeout: 30 * time.Second,
	},
	model.StrategyConfidenceCalibration: {
		PromptHints: []string{
			"state confidence proportional to how complete the analysis is",
			"an analysis missing beliefs or trade-offs cannot warrant high confidence",
		},
		Temperature: 0.3, MaxTokens: 1000, Timeout: 30 * time.Second,
	},
	model.StrategyStructureEnhancement: {
		PromptHints: []string{
			"make beliefs, trade-offs, and reasoning reference the same topic",
			"each belief must be distinct from the others",
		},
		Temperature: 0.4, MaxTokens: 1200, Timeout: 30 * time.Second,
	},
	model.StrategyExtendedReasoning: {
		PromptHints: []string{
			"identify beliefs and trade-offs the first pass missed",
			"explain how each conclusion follows from the message",
		},
		Temperature: 0.6, MaxTokens: 1600, Timeout: 45 * time.Second,
	},
	model.StrategySimplifiedApproach: {
		PromptHints: []string{
			"produce the single most defensible belief and trade-off only",
			"keep the reasoning short and literal",
		},
		Temperature: 0.2, MaxTokens: 800, Timeout: 20 * time.Second,
	},
}

// StrategyParams returns the catalog parameters for a strategy
func StrategyParams(s model.RetryStrategy) model.StrategyParams {
	return strategyParams[s]
}

// Selector decides whether and how to retry a failed-quality generation.
// Pure decision logic: it never invokes generation itself.
type Selector struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	jitter     func() float64 // injectable for tests
}

// NewSelector creates a selector with the given retry budget and backoff
// bounds. Non-positive arguments fall back to defaults.
func NewSelector(maxRetries int, baseDelay, maxDelay time.Duration) *Selector {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}
	return &Selector{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   maxDelay,
		jitter:     rand.Float64,
	}
}

// Decide evaluates stop conditions and picks a strategy for the next
// attempt given the current quality result and prior attempt history
func (s *Selector) Decide(quality model.QualityResult, history []model.RetryAttempt) model.RetryDecision {
	attempts := len(history)

	if attempts >= s.maxRetries {
		return model.RetryDecision{Reason: fmt.Sprintf("retry budget exhausted (%d attempts)", attempts)}
	}

	if attempts >= 2 {
		prev, last := history[attempts-2].QualityScore, history[attempts-1].QualityScore
		if prev-last > declineCutoff {
			return model.RetryDecision{Reason: fmt.Sprintf("quality declining (%d -> %d)", prev, last)}
		}
	}

	retryable := retryableFlags(quality.Flags)
	if len(retryable) == 0 && quality.OverallScore > model.RetryThreshold {
		return model.RetryDecision{Reason: "no retryable issues and score above retry threshold"}
	}

	dominant, hasDominant := dominantFlagType(quality.Flags)
	strategy := s.selectStrategy(dominant, hasDominant, attempts)
	probability := s.estimateSuccess(quality, history, strategy, dominant, hasDominant)

	if probability < minSuccessProbability {
		return model.RetryDecision{
			SuccessProbability: probability,
			Reason:             fmt.Sprintf("estimated success probability %.2f too low", probability),
		}
	}

	nextAttempt := attempts + 1
	return model.RetryDecision{
		ShouldRetry:        true,
		Strategy:           strategy,
		Params:             strategyParams[strategy],
		Delay:              Backoff(nextAttempt, s.baseDelay, s.maxDelay, s.jitter),
		SuccessProbability: probability,
		Reason:             fmt.Sprintf("attempt %d with %s", nextAttempt, strategy),
	}
}

// selectStrategy picks by dominant failure pattern, falling back to the
// fixed progression by attempt number
func (s *Selector) selectStrategy(dominant model.FlagType, hasDominant bool, attempts int) model.RetryStrategy {
	if hasDominant {
		if strategy, ok := strategyForFlag[dominant]; ok {
			return strategy
		}
	}
	idx := attempts
	if idx >= len(strategyProgression) {
		idx = len(strategyProgression) - 1
	}
	return strategyProgression[idx]
}

// estimateSuccess scores the chance the next attempt clears the threshold
func (s *Selector) estimateSuccess(quality model.QualityResult, history []model.RetryAttempt,
	strategy model.RetryStrategy, dominant model.FlagType, hasDominant bool) float64 {

	p := 0.7
	switch {
	case quality.OverallScore < 30:
		p *= 0.5
	case quality.OverallScore < 50:
		p *= 0.7
	case quality.OverallScore > 55:
		p *= 1.2
	}

	p -= 0.15 * float64(len(history))

	if hasDominant && strategyForFlag[dominant] == strategy {
		p *= 1.1
	}
	for _, attempt := range history {
		if attempt.Strategy == strategy {
			p *= 0.6
			break
		}
	}

	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	// Round to two decimals so boundary comparisons against the
	// probability floor are stable.
	return math.Round(p*100) / 100
}

// retryableFlags filters the flags a regeneration could plausibly fix
func retryableFlags(flags []model.QualityFlag) []model.QualityFlag {
	var out []model.QualityFlag
	for _, f := range flags {
		if retryableFlagTypes[f.Type] {
			out = append(out, f)
		}
	}
	return out
}

// dominantFlagType returns the severity-weighted dominant flag type.
// A type dominates when its weight strictly exceeds every other type's.
func dominantFlagType(flags []model.QualityFlag) (model.FlagType, bool) {
	weights := make(map[model.FlagType]int)
	for _, f := range flags {
		w := 1
		switch f.Severity {
		case model.SeverityMedium:
			w = 2
		case model.SeverityHigh:
			w = 3
		}
		weights[f.Type] += w
	}

	var best model.FlagType
	bestWeight := 0
	tied := false
	for t, w := range weights {
		switch {
		case w > bestWeight:
			best, bestWeight, tied = t, w, false
		case w == bestWeight:
			tied = true
		}
	}
	if bestWeight < 2 || tied {
		return "", false
	}
	return best, true
}
