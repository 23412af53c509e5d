package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/qualgate/qualgate/internal/model"
	"github.com/qualgate/qualgate/internal/pipeline"
)

var (
	evalMessage    string
	evalOutJSON    string
	evalTier       string
	evalTestMode   bool
	evalNoReview   bool
	evalVariant    string
	evalGenerate   bool
	evalProvider   string
	evalModel      string
	evalMaxRetries int
	evalTimeout    time.Duration
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate [candidate.json]",
	Short: "Gate a single candidate analysis",
	Long: `Evaluate runs one candidate analysis through the full quality gate:
structural validation, the five-dimension rubric, confidence calibration,
and the display decision.

With --generate the candidate is produced by the configured generation
backend instead of read from a file, and low-quality results are retried
with selector-chosen strategies under circuit-breaker protection.

Example:
  qualgate evaluate candidate.json --message "I just want this shipped fast"
  qualgate evaluate --generate --message "Should we rewrite the scheduler?"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evalMessage, "message", "m", "", "original chat message (required)")
	evaluateCmd.Flags().StringVar(&evalOutJSON, "json", "", "output JSON report path (optional)")
	evaluateCmd.Flags().StringVar(&evalTier, "tier", "free", "caller tier (free, pro, enterprise)")
	evaluateCmd.Flags().BoolVar(&evalTestMode, "test-mode", false, "mark the evaluation as a test run")
	evaluateCmd.Flags().BoolVar(&evalNoReview, "no-review", false, "disable human review submission")
	evaluateCmd.Flags().StringVar(&evalVariant, "variant", "standard", "calibration policy variant (standard, calibrated)")
	evaluateCmd.Flags().BoolVar(&evalGenerate, "generate", false, "generate the candidate via the configured backend")
	evaluateCmd.Flags().StringVar(&evalProvider, "provider", "openai", "generation provider (with --generate)")
	evaluateCmd.Flags().StringVar(&evalModel, "model", "", "generation model name (with --generate)")
	evaluateCmd.Flags().IntVar(&evalMaxRetries, "max-retries", 3, "retry budget for --generate")
	evaluateCmd.Flags().DurationVar(&evalTimeout, "timeout", 2*time.Minute, "overall evaluation timeout")

	_ = evaluateCmd.MarkFlagRequired("message")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.Policy.Variant = model.PolicyVariant(evalVariant)
	cfg.Retry.MaxRetries = evalMaxRetries
	if evalGenerate {
		cfg.LLM.Provider = evalProvider
		cfg.LLM.Model = evalModel
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	logger := newLogger()
	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	gctx := model.GateContext{
		Tier:         model.UserTier(evalTier),
		TestMode:     evalTestMode,
		ReviewAccess: !evalNoReview,
		Variant:      cfg.Policy.Variant,
	}

	var report *model.EvaluationReport
	if evalGenerate {
		report, err = p.EvaluateWithRetry(ctx, evalMessage, gctx)
		if err != nil && !errors.Is(err, pipeline.ErrCircuitOpen) {
			return fmt.Errorf("evaluate: %w", err)
		}
		if errors.Is(err, pipeline.ErrCircuitOpen) {
			fmt.Fprintln(os.Stderr, "Warning: generation backend circuit breaker is open")
		}
		if report == nil {
			return fmt.Errorf("no candidate could be generated")
		}
	} else {
		if len(args) == 0 {
			return fmt.Errorf("candidate file required unless --generate is set")
		}
		candidate, err := readCandidate(args[0])
		if err != nil {
			return err
		}
		report = p.Evaluate(ctx, candidate, evalMessage, gctx)
	}

	renderer := pipeline.NewRenderer()
	if evalOutJSON != "" {
		if err := renderer.RenderJSON(report, evalOutJSON); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", evalOutJSON)
		}
	}
	renderer.RenderSummary(report)
	return nil
}

func readCandidate(path string) (model.CandidateAnalysis, error) {
	var candidate model.CandidateAnalysis
	data, err := os.ReadFile(path)
	if err != nil {
		return candidate, fmt.Errorf("read candidate: %w", err)
	}
	if err := json.Unmarshal(data, &candidate); err != nil {
		return candidate, fmt.Errorf("decode candidate: %w", err)
	}
	return candidate, nil
}
