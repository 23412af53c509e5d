package rubric

import (
	"math"

	"github.com/qualgate/qualgate/internal/model"
)

// Evaluator computes the weighted quality rubric for candidate analyses.
// Each dimension averages three independent criterion scorers; the overall
// score is the weighted sum of dimension scores.
type Evaluator struct {
	criteria map[model.Dimension][]Criterion
}

// NewEvaluator creates an evaluator with the default criterion set
func NewEvaluator() *Evaluator {
	return &Evaluator{
		criteria: map[model.Dimension][]Criterion{
			model.DimensionAccuracy: {
				statementTypeAccuracy,
				reasoningGrounding,
				beliefRelevance,
			},
			model.DimensionCompleteness: {
				beliefCompleteness,
				tradeOffCompleteness,
				reasoningDepth,
			},
			model.DimensionCoherence: {
				beliefTradeOffAlignment,
				reasoningAlignment,
				internalConsistency,
			},
			model.DimensionSpecificity: {
				markerRatio,
				vagueLanguage,
				beliefValidity,
			},
			model.DimensionCalibration: {
				confidenceVsCompleteness,
				confidenceVsHedging,
				confidenceExtremes,
			},
		},
	}
}

// ReplaceCriteria swaps the scorers for one dimension. This is the hook
// for substituting better heuristics or learned scorers without touching
// decision logic.
func (e *Evaluator) ReplaceCriteria(dim model.Dimension, criteria []Criterion) {
	e.criteria[dim] = criteria
}

// Evaluate computes the full QualityResult for a sanitized candidate.
// Pure function of its inputs, safe for concurrent use.
func (e *Evaluator) Evaluate(candidate model.CandidateAnalysis, message string, context []string) model.QualityResult {
	in := CriterionInput{Candidate: candidate, Message: message, Context: context}

	result := model.QualityResult{
		DimensionScores: make(map[model.Dimension]int, len(model.Dimensions)),
	}

	weighted := 0.0
	for _, dim := range model.Dimensions {
		score := e.scoreDimension(dim, in, &result)
		result.DimensionScores[dim] = score
		weighted += float64(score) * model.DimensionWeights[dim]
	}

	result.OverallScore = clampScore(int(math.Round(weighted)))
	result.Grade = model.GradeForScore(result.OverallScore)

	result.ShouldDisplay = result.OverallScore >= model.DisplayMinimum
	result.RequiresHumanReview = result.OverallScore < model.HumanReviewCutoff
	result.ShouldRetry = result.OverallScore < model.RetryThreshold

	if result.OverallScore < model.HumanReviewCutoff {
		gap := float64(model.HumanReviewCutoff - result.OverallScore)
		result.ConfidenceAdjustment = -int(math.Round(gap * 0.5))
	}

	result.Recommendations = dedupe(result.Recommendations)
	return result
}

// scoreDimension averages the dimension's criteria, collecting flags and
// recommendations into the shared result
func (e *Evaluator) scoreDimension(dim model.Dimension, in CriterionInput, result *model.QualityResult) int {
	criteria := e.criteria[dim]
	if len(criteria) == 0 {
		return 0
	}

	sum := 0
	for _, criterion := range criteria {
		cr := criterion(in)
		sum += clampScore(cr.Score)
		result.Flags = append(result.Flags, cr.Flags...)
		result.Recommendations = append(result.Recommendations, cr.Recommendations...)
	}
	return clampScore(int(math.Round(float64(sum) / float64(len(criteria)))))
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func dedupe(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
