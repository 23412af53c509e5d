package model

import "time"

// EvaluationReport is the complete record of gating one candidate analysis
type EvaluationReport struct {
	Message     string    `json:"message"`
	EvaluatedAt time.Time `json:"evaluated_at"`

	Candidate CandidateAnalysis  `json:"candidate"`
	Sanitized *CandidateAnalysis `json:"sanitized,omitempty"` // nil when validation failed

	StructuralErrors []string `json:"structural_errors,omitempty"`

	Quality              *QualityResult `json:"quality,omitempty"` // nil when validation failed
	CalibratedConfidence int            `json:"calibrated_confidence"`

	// Thresholds are the effective UI thresholds for the caller's scope;
	// UITreatment maps the calibrated confidence against them.
	Thresholds  ThresholdSet `json:"thresholds"`
	UITreatment UITreatment  `json:"ui_treatment,omitempty"`

	Decision GateDecision `json:"decision"`

	Attempts []RetryAttempt `json:"attempts,omitempty"` // populated by the retry loop
}
