package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/qualgate/qualgate/internal/cache"
	"github.com/qualgate/qualgate/internal/calibrate"
	"github.com/qualgate/qualgate/internal/gate"
	"github.com/qualgate/qualgate/internal/generate"
	"github.com/qualgate/qualgate/internal/model"
	"github.com/qualgate/qualgate/internal/retry"
	"github.com/qualgate/qualgate/internal/review"
	"github.com/qualgate/qualgate/internal/rubric"
	"github.com/qualgate/qualgate/internal/threshold"
	"github.com/qualgate/qualgate/internal/validate"
	"github.com/qualgate/qualgate/internal/worker"
)

// ErrCircuitOpen is returned when the generation backend's circuit breaker
// refuses further attempts. Callers must not attempt generation again
// until the breaker's recovery window has passed.
var ErrCircuitOpen = errors.New("circuit breaker open: generation backend unavailable")

// ErrNoGenerator is returned by the retry loop when no generation backend
// is configured
var ErrNoGenerator = errors.New("no generation backend configured")

// Pipeline orchestrates the quality gate: structural validation, rubric
// scoring, confidence calibration, and the display decision, plus the
// retry loop around an injected generation backend.
type Pipeline struct {
	validator  *validate.Validator
	evaluator  *rubric.Evaluator
	calibrator *calibrate.Calibrator
	gate       *gate.Gate
	selector   *retry.Selector
	thresholds *threshold.Resolver

	// Generation side: one breaker and rate limit per backend identity,
	// owned by this pipeline rather than shared process-wide.
	generator generate.Generator // nil when generation is disabled
	breaker   *retry.Breaker
	limiter   *worker.Limiter

	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error // injectable for tests
}

// NewPipeline wires the pipeline from configuration. reviews may be nil
// when no human review backend is available; generator may be nil when the
// pipeline only scores pre-produced candidates.
func NewPipeline(cfg *model.Config, reviews review.Queue, generator generate.Generator, logger *slog.Logger) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	var thresholdCache cache.Cache
	if cfg.Cache.Enabled {
		thresholdCache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.CleanupInterval)
	}

	return &Pipeline{
		validator:  validate.NewValidator(),
		evaluator:  rubric.NewEvaluator(),
		calibrator: calibrate.NewCalibrator(cfg.Policy.Variant),
		gate:       gate.NewGate(reviews, logger),
		selector:   retry.NewSelector(cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, cfg.Retry.MaxDelay),
		thresholds: threshold.NewResolver(threshold.NewStaticStore(), thresholdCache, cfg.Cache.TTL),
		generator:  generator,
		breaker:    retry.NewBreaker(cfg.Breaker.FailureThreshold, cfg.Breaker.RecoveryWindow),
		limiter:    worker.NewLimiter(cfg.Retry.RatePerSecond, cfg.Retry.RateBurst),
		logger:     logger,
		sleep:      sleepCtx,
	}
}

// UseThresholdStore replaces the default in-memory threshold store, for
// deployments that keep per-team and per-user overrides in Redis
func (p *Pipeline) UseThresholdStore(store threshold.Store, c cache.Cache, ttl time.Duration) {
	p.thresholds = threshold.NewResolver(store, c, ttl)
}

// Breaker exposes the pipeline's circuit breaker so callers can observe
// backend health
func (p *Pipeline) Breaker() *retry.Breaker {
	return p.breaker
}

// Evaluate runs one candidate through the full gate and returns a complete
// report. Never returns an error: failure modes are encoded in the report.
func (p *Pipeline) Evaluate(ctx context.Context, candidate model.CandidateAnalysis, message string, gctx model.GateContext) *model.EvaluationReport {
	report := &model.EvaluationReport{
		Message:     message,
		EvaluatedAt: time.Now().UTC(),
		Candidate:   candidate,
	}

	validation := p.validator.Validate(candidate, message)
	if !validation.IsValid {
		report.StructuralErrors = validation.Errors
		report.Decision = p.gate.Decide(ctx, gate.Input{
			Validation: validation,
			Candidate:  candidate,
			Message:    message,
			Context:    gctx,
		})
		return report
	}
	report.Sanitized = validation.Sanitized

	quality := p.evaluator.Evaluate(*validation.Sanitized, message, nil)
	report.Quality = &quality

	report.CalibratedConfidence = p.calibrator.Calibrate(*validation.Sanitized, quality)

	set, err := p.thresholds.Resolve(ctx, gctx.UserID, gctx.TeamID)
	if err != nil {
		// Threshold overrides are a rendering concern: fall back to the
		// defaults rather than failing the whole evaluation.
		p.logger.Warn("threshold resolution failed", "user", gctx.UserID, "team", gctx.TeamID, "error", err)
		set = model.DefaultThresholds()
	}
	report.Thresholds = set
	report.UITreatment = threshold.Treatment(report.CalibratedConfidence, set)

	report.Decision = p.gate.Decide(ctx, gate.Input{
		Validation: validation,
		Quality:    quality,
		Calibrated: report.CalibratedConfidence,
		Candidate:  *validation.Sanitized,
		Message:    message,
		Context:    gctx,
	})
	return report
}

// EvaluateWithRetry generates a candidate, gates it, and retries with
// selector-chosen strategies until the candidate displays, the budget runs
// out, or the breaker opens. Retries are strictly sequential; the backoff
// delay is the sole suspension point and honors ctx cancellation.
func (p *Pipeline) EvaluateWithRetry(ctx context.Context, message string, gctx model.GateContext) (*model.EvaluationReport, error) {
	if p.generator == nil {
		return nil, ErrNoGenerator
	}

	backend := p.generator.Name()
	var history []model.RetryAttempt
	var report *model.EvaluationReport
	req := generate.Request{Message: message}

	for {
		if !p.breaker.CanRetry() {
			return report, ErrCircuitOpen
		}
		if err := p.limiter.Wait(ctx, backend); err != nil {
			return report, fmt.Errorf("rate limit wait: %w", err)
		}

		started := time.Now()
		candidate, err := p.generator.Generate(ctx, req)
		elapsed := time.Since(started).Milliseconds()
		attemptNum := len(history) + 1

		var quality model.QualityResult
		if err != nil {
			// Timeouts and backend errors surface to the selector as a
			// failure to classify: zero-score quality, no flags.
			p.breaker.RecordFailure()
			p.logger.Warn("generation failed", "backend", backend, "attempt", attemptNum, "error", err)
			history = append(history, model.RetryAttempt{
				AttemptNumber: attemptNum,
				Strategy:      req.Strategy,
				Timestamp:     started.UTC(),
				ElapsedMs:     elapsed,
			})
		} else {
			report = p.Evaluate(ctx, *candidate, message, gctx)
			report.Attempts = history

			if report.Quality != nil {
				quality = *report.Quality
			}
			success := report.Sanitized != nil && quality.ShouldDisplay

			if report.Sanitized != nil {
				p.breaker.RecordSuccess()
			} else {
				// The backend produced a malformed candidate.
				p.breaker.RecordFailure()
			}

			history = append(history, model.RetryAttempt{
				AttemptNumber: attemptNum,
				QualityScore:  quality.OverallScore,
				Strategy:      req.Strategy,
				Success:       success,
				Timestamp:     started.UTC(),
				ElapsedMs:     elapsed,
			})
			report.Attempts = history

			if success {
				return report, nil
			}
			if report.Decision.UnsafeContent {
				// Unsafe content requires escalation, never an automatic retry.
				return report, nil
			}
		}

		decision := p.selector.Decide(quality, history)
		if !decision.ShouldRetry {
			p.logger.Info("retry stopped", "backend", backend, "attempts", len(history), "reason", decision.Reason)
			if report != nil {
				report.Attempts = history
			}
			return report, nil
		}

		p.logger.Info("retrying generation",
			"backend", backend,
			"attempt", len(history)+1,
			"strategy", decision.Strategy,
			"delay", decision.Delay,
			"probability", decision.SuccessProbability)

		if err := p.sleep(ctx, decision.Delay); err != nil {
			return report, err
		}
		req = generate.Request{
			Message:  message,
			Strategy: decision.Strategy,
			Params:   decision.Params,
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
