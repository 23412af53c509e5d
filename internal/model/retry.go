package model

import "time"

// RetryStrategy names a regeneration policy from the fixed catalog
type RetryStrategy string

const (
	StrategyClarificationBoost    RetryStrategy = "clarification_boost"
	StrategyConfidenceCalibration RetryStrategy = "confidence_calibration"
	StrategyStructureEnhancement  RetryStrategy = "structure_enhancement"
	StrategyExtendedReasoning     RetryStrategy = "extended_reasoning"
	StrategySimplifiedApproach    RetryStrategy = "simplified_approach"
)

// StrategyParams bundles the prompt hints and generation parameter
// adjustments a retry strategy applies
type StrategyParams struct {
	PromptHints []string      `json:"prompt_hints,omitempty"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Timeout     time.Duration `json:"timeout"`
}

// RetryAttempt records one generation attempt in a logical request.
// Attempt history is append-only.
type RetryAttempt struct {
	AttemptNumber int           `json:"attempt_number"`
	QualityScore  int           `json:"quality_score"`
	Strategy      RetryStrategy `json:"strategy,omitempty"`
	Success       bool          `json:"success"`
	Timestamp     time.Time     `json:"timestamp"`
	ElapsedMs     int64         `json:"elapsed_ms"`
}

// RetryDecision is the selector's recommendation for the next attempt
type RetryDecision struct {
	ShouldRetry        bool           `json:"should_retry"`
	Strategy           RetryStrategy  `json:"strategy,omitempty"`
	Params             StrategyParams `json:"params,omitempty"`
	Delay              time.Duration  `json:"delay"`
	SuccessProbability float64        `json:"success_probability"`
	Reason             string         `json:"reason"`
}
