package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/qualgate/qualgate/internal/generate"
	"github.com/qualgate/qualgate/internal/model"
	"github.com/qualgate/qualgate/internal/retry"
	"github.com/qualgate/qualgate/internal/review"
	"github.com/qualgate/qualgate/internal/threshold"
)

const testMessage = "I just want this shipped fast"

// displayableCandidate scores above the display minimum but below the
// review cutoff against testMessage
func displayableCandidate() model.CandidateAnalysis {
	return model.CandidateAnalysis{
		StatementType:   model.StatementOpinion,
		Beliefs:         []string{"I value speed"},
		TradeOffs:       nil,
		ConfidenceLevel: 85,
		Reasoning:       "User prefers rapid iteration over thoroughness based on tone.",
	}
}

func freeContext() model.GateContext {
	return model.GateContext{Tier: model.TierFree, ReviewAccess: true}
}

func newTestPipeline(cfg *model.Config, queue review.Queue, gen generate.Generator) *Pipeline {
	p := NewPipeline(cfg, queue, gen, nil)
	p.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return p
}

func TestPipeline_EvaluateDisplayableCandidate(t *testing.T) {
	queue := review.NewMemoryQueue()
	p := newTestPipeline(nil, queue, nil)

	report := p.Evaluate(context.Background(), displayableCandidate(), testMessage, freeContext())

	if len(report.StructuralErrors) != 0 {
		t.Fatalf("expected structurally valid candidate, got %v", report.StructuralErrors)
	}
	if report.Quality == nil {
		t.Fatal("expected a quality result")
	}
	if !report.Decision.ShouldDisplay {
		t.Fatalf("expected candidate to display, blocked by %v", report.Decision.BlockingReasons)
	}
	if report.Decision.DisplayMode != model.DisplayWarning {
		t.Errorf("expected warning mode for a mid-band score, got %s", report.Decision.DisplayMode)
	}
	if report.CalibratedConfidence >= report.Candidate.ConfidenceLevel {
		t.Errorf("expected calibration to lower confidence: raw %d, calibrated %d",
			report.Candidate.ConfidenceLevel, report.CalibratedConfidence)
	}
	if report.Thresholds != model.DefaultThresholds() {
		t.Errorf("expected default thresholds, got %+v", report.Thresholds)
	}
	if report.UITreatment != model.TreatmentNormal {
		t.Errorf("expected normal treatment for calibrated %d, got %s",
			report.CalibratedConfidence, report.UITreatment)
	}
	// The below-cutoff score triggers a human review.
	if report.Decision.HumanReviewID == "" {
		t.Error("expected an enqueued review")
	}
	if queue.Len() != 1 {
		t.Errorf("expected 1 queued review, got %d", queue.Len())
	}
}

func TestPipeline_EvaluateUsesScopedThresholds(t *testing.T) {
	store := threshold.NewStaticStore()
	store.Put(model.ScopeUser, "u-1", []model.ConfidenceThreshold{
		{Scope: model.ScopeUser, ScopeID: "u-1", Type: model.ThresholdWarning, Value: 90},
	})
	p := newTestPipeline(nil, review.NewMemoryQueue(), nil)
	p.UseThresholdStore(store, nil, 0)

	gctx := freeContext()
	gctx.UserID = "u-1"
	report := p.Evaluate(context.Background(), displayableCandidate(), testMessage, gctx)

	if report.Thresholds.Warning != 90 {
		t.Fatalf("expected the user warning override, got %d", report.Thresholds.Warning)
	}
	if report.UITreatment != model.TreatmentWarning {
		t.Errorf("expected warning treatment below the raised threshold, got %s", report.UITreatment)
	}
}

func TestPipeline_EvaluateInvalidCandidate(t *testing.T) {
	p := newTestPipeline(nil, review.NewMemoryQueue(), nil)

	report := p.Evaluate(context.Background(), model.CandidateAnalysis{
		StatementType: "rant",
		Reasoning:     "short",
	}, testMessage, freeContext())

	if len(report.StructuralErrors) == 0 {
		t.Fatal("expected structural errors")
	}
	if report.Quality != nil {
		t.Error("expected no quality result for an invalid candidate")
	}
	if report.Decision.DisplayMode != model.DisplayHidden {
		t.Errorf("expected hidden mode, got %s", report.Decision.DisplayMode)
	}
}

func TestPipeline_EvaluateWithRetry_NoGenerator(t *testing.T) {
	p := newTestPipeline(nil, review.NewMemoryQueue(), nil)

	_, err := p.EvaluateWithRetry(context.Background(), testMessage, freeContext())
	if !errors.Is(err, ErrNoGenerator) {
		t.Fatalf("expected ErrNoGenerator, got %v", err)
	}
}

func TestPipeline_EvaluateWithRetry_FirstAttemptSucceeds(t *testing.T) {
	calls := 0
	gen := generate.FuncGenerator("stub", func(ctx context.Context, req generate.Request) (*model.CandidateAnalysis, error) {
		calls++
		candidate := displayableCandidate()
		return &candidate, nil
	})
	p := newTestPipeline(nil, review.NewMemoryQueue(), gen)

	report, err := p.EvaluateWithRetry(context.Background(), testMessage, freeContext())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 generation call, got %d", calls)
	}
	if len(report.Attempts) != 1 {
		t.Fatalf("expected 1 recorded attempt, got %d", len(report.Attempts))
	}
	if !report.Attempts[0].Success {
		t.Error("expected the attempt marked successful")
	}
	if p.Breaker().State() != retry.BreakerClosed {
		t.Errorf("expected breaker closed, got %s", p.Breaker().State())
	}
}

func TestPipeline_EvaluateWithRetry_RecoversFromMalformedAttempt(t *testing.T) {
	calls := 0
	gen := generate.FuncGenerator("stub", func(ctx context.Context, req generate.Request) (*model.CandidateAnalysis, error) {
		calls++
		if calls == 1 {
			// Structurally invalid: reasoning far too short.
			return &model.CandidateAnalysis{StatementType: model.StatementOpinion, Reasoning: "nope"}, nil
		}
		candidate := displayableCandidate()
		return &candidate, nil
	})
	p := newTestPipeline(nil, review.NewMemoryQueue(), gen)

	report, err := p.EvaluateWithRetry(context.Background(), testMessage, freeContext())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 generation calls, got %d", calls)
	}
	if len(report.Attempts) != 2 {
		t.Fatalf("expected 2 recorded attempts, got %d", len(report.Attempts))
	}
	if report.Attempts[0].Success {
		t.Error("expected the first attempt marked failed")
	}
	if !report.Attempts[1].Success {
		t.Error("expected the second attempt marked successful")
	}
	if report.Attempts[1].Strategy == "" {
		t.Error("expected a retry strategy on the second attempt")
	}
	if !report.Decision.ShouldDisplay {
		t.Errorf("expected the final report displayable, blocked by %v", report.Decision.BlockingReasons)
	}
}

func TestPipeline_EvaluateWithRetry_StopsWhenProbabilityCollapses(t *testing.T) {
	calls := 0
	gen := generate.FuncGenerator("stub", func(ctx context.Context, req generate.Request) (*model.CandidateAnalysis, error) {
		calls++
		return nil, errors.New("backend down")
	})
	p := newTestPipeline(nil, review.NewMemoryQueue(), gen)

	report, err := p.EvaluateWithRetry(context.Background(), testMessage, freeContext())
	if err != nil {
		t.Fatalf("expected a clean stop, got %v", err)
	}
	if report != nil {
		t.Errorf("expected no report when every attempt failed, got %+v", report)
	}
	if calls < 2 {
		t.Errorf("expected at least one retry before giving up, got %d calls", calls)
	}
	if p.Breaker().ConsecutiveFailures() != calls {
		t.Errorf("expected %d recorded failures, got %d", calls, p.Breaker().ConsecutiveFailures())
	}
}

func TestPipeline_EvaluateWithRetry_CircuitOpens(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Breaker.FailureThreshold = 1
	gen := generate.FuncGenerator("stub", func(ctx context.Context, req generate.Request) (*model.CandidateAnalysis, error) {
		return nil, errors.New("backend down")
	})
	p := newTestPipeline(cfg, review.NewMemoryQueue(), gen)

	_, err := p.EvaluateWithRetry(context.Background(), testMessage, freeContext())
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if p.Breaker().State() != retry.BreakerOpen {
		t.Errorf("expected breaker open, got %s", p.Breaker().State())
	}

	// While open, further calls are refused without touching the backend.
	_, err = p.EvaluateWithRetry(context.Background(), testMessage, freeContext())
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen on the follow-up call, got %v", err)
	}
}

func TestPipeline_EvaluateWithRetry_UnsafeContentNotRetried(t *testing.T) {
	calls := 0
	gen := generate.FuncGenerator("stub", func(ctx context.Context, req generate.Request) (*model.CandidateAnalysis, error) {
		calls++
		return &model.CandidateAnalysis{
			StatementType:   model.StatementOpinion,
			Beliefs:         []string{"the speaker is angry about the delay"},
			TradeOffs:       []string{"escalating costs goodwill with the team"},
			ConfidenceLevel: 60,
			Reasoning:       "The speaker expresses hostility toward the planned rollout.",
		}, nil
	})
	p := newTestPipeline(nil, review.NewMemoryQueue(), gen)

	report, err := p.EvaluateWithRetry(context.Background(), "They plan to attack the rollout tonight", freeContext())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected unsafe content never retried, got %d calls", calls)
	}
	if !report.Decision.UnsafeContent {
		t.Error("expected the unsafe content mark")
	}
	if report.Decision.DisplayMode != model.DisplayHidden {
		t.Errorf("expected hidden mode, got %s", report.Decision.DisplayMode)
	}
}

func TestPipeline_SleepHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sleepCtx(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := sleepCtx(context.Background(), 0); err != nil {
		t.Errorf("expected zero delay to return immediately, got %v", err)
	}
}
