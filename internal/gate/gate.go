package gate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qualgate/qualgate/internal/model"
	"github.com/qualgate/qualgate/internal/review"
	"github.com/qualgate/qualgate/internal/validate"
)

// maxHighFlags is the most high-severity flags a displayable candidate may carry
const maxHighFlags = 5

// approvalScoreCutoff is the score below which enterprise-tier output
// requires explicit approval
const approvalScoreCutoff = 80

// Gate turns a scored candidate into a terminal display decision.
// Exactly one of normal/warning/hidden/review_pending per candidate attempt.
// No error escapes Decide: callers always receive a complete decision.
type Gate struct {
	reviews review.Queue // nil when review submission is unavailable
	logger  *slog.Logger
}

// NewGate creates a display gate. reviews may be nil when no human review
// backend is configured.
func NewGate(reviews review.Queue, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{reviews: reviews, logger: logger}
}

// Input carries everything the gate needs for one decision
type Input struct {
	Validation validate.Result
	Quality    model.QualityResult
	Calibrated int // calibrated confidence
	Candidate  model.CandidateAnalysis
	Message    string
	Context    model.GateContext
}

// Decide evaluates blocking rules, review triggers, and approval rules, in
// that order, and returns the terminal decision for this attempt
func (g *Gate) Decide(ctx context.Context, in Input) model.GateDecision {
	decision := model.GateDecision{}

	text := in.Message + " " + in.Candidate.Reasoning
	unsafe, unsafeTerm := matchesUnsafeContent(text)

	// Blocking rules: any one hides the candidate outright.
	if !in.Validation.IsValid {
		decision.BlockingReasons = append(decision.BlockingReasons,
			fmt.Sprintf("structural validation failed: %d violation(s)", len(in.Validation.Errors)))
	}
	if in.Validation.IsValid && in.Quality.OverallScore < model.DisplayMinimum {
		decision.BlockingReasons = append(decision.BlockingReasons,
			fmt.Sprintf("overall score %d below display minimum %d", in.Quality.OverallScore, model.DisplayMinimum))
	}
	if in.Quality.CountFlags(model.SeverityHigh) > maxHighFlags {
		decision.BlockingReasons = append(decision.BlockingReasons,
			fmt.Sprintf("%d high-severity flags exceed the limit of %d", in.Quality.CountFlags(model.SeverityHigh), maxHighFlags))
	}
	if unsafe {
		decision.UnsafeContent = true
		decision.BlockingReasons = append(decision.BlockingReasons,
			fmt.Sprintf("unsafe content match: %q", unsafeTerm))
	}

	// Review triggers are an independent signal: they do not block display
	// by themselves. Without a valid structure there is no quality result
	// to trigger on.
	if in.Validation.IsValid {
		decision.ReviewTriggers = g.reviewTriggers(in, unsafe)
	}

	if len(decision.ReviewTriggers) > 0 && in.Context.ReviewAccess {
		g.submitReview(ctx, in, &decision)
	}

	if len(decision.BlockingReasons) > 0 {
		decision.DisplayMode = model.DisplayHidden
		decision.ShouldDisplay = false
		return decision
	}

	if g.requiresApproval(in, decision) {
		decision.DisplayMode = model.DisplayReviewPending
		decision.ShouldDisplay = false
		return decision
	}

	decision.ShouldDisplay = true
	if in.Quality.OverallScore < model.WarningThreshold {
		decision.DisplayMode = model.DisplayWarning
		decision.Warnings = append(decision.Warnings,
			fmt.Sprintf("quality score %d is below the warning threshold; interpret with care", in.Quality.OverallScore))
	} else {
		decision.DisplayMode = model.DisplayNormal
	}
	return decision
}

// reviewTriggers collects the reasons a human should look at this candidate
func (g *Gate) reviewTriggers(in Input, unsafe bool) []string {
	var triggers []string
	q := in.Quality

	if q.OverallScore < model.HumanReviewCutoff {
		triggers = append(triggers, fmt.Sprintf("overall score %d below review cutoff %d", q.OverallScore, model.HumanReviewCutoff))
	}
	if q.CountFlags(model.SeverityMedium) >= 3 {
		triggers = append(triggers, fmt.Sprintf("%d medium-severity flags", q.CountFlags(model.SeverityMedium)))
	}
	if q.CountFlagTypes(model.FlagCoherence, model.FlagConfidenceMismatch) >= 2 {
		triggers = append(triggers, "repeated coherence or confidence-mismatch flags")
	}
	for _, dim := range []model.Dimension{model.DimensionAccuracy, model.DimensionCoherence} {
		if score, ok := q.DimensionScores[dim]; ok && score < 60 {
			triggers = append(triggers, fmt.Sprintf("critical dimension %s scored %d", dim, score))
		}
	}
	if sensitive, topic := matchesSensitiveTopic(in.Message); sensitive {
		triggers = append(triggers, fmt.Sprintf("sensitive topic: %s", topic))
	} else if in.Context.Tier == model.TierEnterprise && !in.Context.TestMode {
		triggers = append(triggers, "enterprise tier output")
	}
	if unsafe {
		triggers = append(triggers, "unsafe content match")
	}
	return triggers
}

// submitReview enqueues a review entry best-effort. Failure is downgraded
// to a warning on the decision and never blocks it.
func (g *Gate) submitReview(ctx context.Context, in Input, decision *model.GateDecision) {
	if g.reviews == nil {
		decision.Warnings = append(decision.Warnings, "human review needed but no review backend is configured")
		return
	}

	id, err := g.reviews.Enqueue(ctx, review.Entry{
		Message:   in.Message,
		Candidate: in.Candidate,
		Quality:   in.Quality,
		Triggers:  decision.ReviewTriggers,
		Context:   in.Context,
	})
	if err != nil {
		g.logger.Warn("review enqueue failed", "error", err, "user_id", in.Context.UserID)
		decision.Warnings = append(decision.Warnings, "review submission failed; decision proceeds without a review id")
		return
	}
	decision.HumanReviewID = id
}

// requiresApproval applies the enterprise approval rule
func (g *Gate) requiresApproval(in Input, decision model.GateDecision) bool {
	if in.Context.Tier != model.TierEnterprise || !in.Context.ReviewAccess {
		return false
	}
	return in.Quality.OverallScore < approvalScoreCutoff || len(decision.ReviewTriggers) > 0
}
