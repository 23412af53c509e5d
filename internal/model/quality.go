package model

// Dimension names one weighted axis of the quality rubric
type Dimension string

const (
	DimensionAccuracy     Dimension = "content_accuracy"
	DimensionCompleteness Dimension = "content_completeness"
	DimensionCoherence    Dimension = "content_coherence"
	DimensionSpecificity  Dimension = "content_specificity"
	DimensionCalibration  Dimension = "confidence_calibration"
)

// Dimensions lists the rubric axes in scoring order
var Dimensions = []Dimension{
	DimensionAccuracy,
	DimensionCompleteness,
	DimensionCoherence,
	DimensionSpecificity,
	DimensionCalibration,
}

// DimensionWeights are the fixed rubric weights, summing to 1.0
var DimensionWeights = map[Dimension]float64{
	DimensionAccuracy:     0.25,
	DimensionCompleteness: 0.20,
	DimensionCoherence:    0.20,
	DimensionSpecificity:  0.15,
	DimensionCalibration:  0.20,
}

// FlagType classifies a quality flag
type FlagType string

const (
	FlagCoherence          FlagType = "coherence"
	FlagConsistency        FlagType = "consistency"
	FlagCompleteness       FlagType = "completeness"
	FlagSpecificity        FlagType = "specificity"
	FlagConfidenceMismatch FlagType = "confidence_mismatch"
)

// FlagSeverity indicates the importance of a flag
type FlagSeverity string

const (
	SeverityLow    FlagSeverity = "low"
	SeverityMedium FlagSeverity = "medium"
	SeverityHigh   FlagSeverity = "high"
)

// QualityFlag is a descriptive marker attached to a scoring result.
// Flags are never mutated after scoring.
type QualityFlag struct {
	Type        FlagType     `json:"type"`
	Severity    FlagSeverity `json:"severity"`
	Description string       `json:"description"`
	Suggestion  string       `json:"suggestion,omitempty"`
}

// Decision thresholds for the quality rubric (fixed system constants)
const (
	DisplayMinimum     = 60 // below this the candidate is never shown
	HumanReviewCutoff  = 70 // below this a human review is requested
	RetryThreshold     = 40 // below this a regeneration attempt is warranted
	WarningThreshold   = 75 // below this the candidate is shown with a warning
	ExcellentThreshold = 90
)

// Grade is the letter grade derived from the overall score
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// GradeForScore maps an overall score to a letter grade
func GradeForScore(score int) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 80:
		return GradeB
	case score >= 70:
		return GradeC
	case score >= 60:
		return GradeD
	default:
		return GradeF
	}
}

// QualityResult is the rubric's full assessment of one candidate.
// Computed fresh per candidate and never persisted mutably.
type QualityResult struct {
	OverallScore    int               `json:"overall_score"` // 0-100 weighted sum
	Grade           Grade             `json:"grade"`
	DimensionScores map[Dimension]int `json:"dimension_scores"`
	Flags           []QualityFlag     `json:"flags"`
	Recommendations []string          `json:"recommendations,omitempty"`

	// ConfidenceAdjustment is a non-positive delta derived from the score gap
	// below the human review cutoff
	ConfidenceAdjustment int `json:"confidence_adjustment"`

	ShouldDisplay       bool `json:"should_display"`
	RequiresHumanReview bool `json:"requires_human_review"`
	ShouldRetry         bool `json:"should_retry"`
}

// CountFlags returns the number of flags at the given severity
func (r QualityResult) CountFlags(severity FlagSeverity) int {
	n := 0
	for _, f := range r.Flags {
		if f.Severity == severity {
			n++
		}
	}
	return n
}

// CountFlagTypes returns the number of flags whose type is in the given set
func (r QualityResult) CountFlagTypes(types ...FlagType) int {
	n := 0
	for _, f := range r.Flags {
		for _, t := range types {
			if f.Type == t {
				n++
				break
			}
		}
	}
	return n
}
