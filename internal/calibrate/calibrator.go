package calibrate

import (
	"github.com/qualgate/qualgate/internal/model"
)

// Calibrator applies deterministic post-hoc confidence corrections on top
// of the rubric's confidence adjustment. Rules run in a fixed order and the
// result is clamped to [0,100]. Pure function, no side effects.
type Calibrator struct {
	variant model.PolicyVariant
}

// NewCalibrator creates a calibrator for the given policy variant
func NewCalibrator(variant model.PolicyVariant) *Calibrator {
	if variant == "" {
		variant = model.PolicyStandard
	}
	return &Calibrator{variant: variant}
}

// Calibrate returns the corrected confidence for a scored candidate
func (c *Calibrator) Calibrate(candidate model.CandidateAnalysis, quality model.QualityResult) int {
	conf := candidate.ConfidenceLevel

	// 1. Score-gap adjustment from the rubric (non-positive).
	conf += quality.ConfidenceAdjustment

	// 2. Questions have a historical overconfidence pattern.
	if candidate.StatementType == model.StatementQuestion {
		conf -= 15
	}

	// 3. "Other" statements are inherently uncertain.
	if candidate.StatementType == model.StatementOther && conf > 60 {
		conf = 60
	}

	// 4. Nothing extracted means nothing to be confident about.
	if len(candidate.Beliefs) == 0 && len(candidate.TradeOffs) == 0 && conf > 75 {
		conf = 75
	}

	// 5. Calibrated policy variant penalizes any missing list.
	if c.variant == model.PolicyCalibrated &&
		(len(candidate.Beliefs) == 0 || len(candidate.TradeOffs) == 0) {
		conf -= 10
	}

	if conf < 0 {
		conf = 0
	}
	if conf > 100 {
		conf = 100
	}
	return conf
}
