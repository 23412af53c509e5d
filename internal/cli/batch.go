package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/qualgate/qualgate/internal/model"
	"github.com/qualgate/qualgate/internal/worker"
)

var (
	batchWorkers int
	batchOutJSON string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [items.jsonl]",
	Short: "Gate many candidates from a JSON-lines file",
	Long: `Batch evaluates candidate analyses concurrently. Each input line is a
JSON object with a "message", a "candidate", and an optional "context":

  {"message": "...", "candidate": {"statementType": "opinion", ...}}

Empty lines and lines starting with # are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 8, "concurrent evaluations")
	batchCmd.Flags().StringVar(&batchOutJSON, "json", "", "output JSON reports path (optional)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "overall batch timeout")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.Concurrency.BatchWorkers = batchWorkers

	logger := newLogger()
	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.BatchWorkers)
	started := time.Now()
	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	var displayed, blocked, review int
	for _, r := range results {
		switch {
		case r.Report.Decision.DisplayMode == model.DisplayReviewPending:
			review++
		case r.Report.Decision.ShouldDisplay:
			displayed++
		default:
			blocked++
		}
	}

	fmt.Printf("Evaluated %d candidate(s) in %s\n", len(results), time.Since(started).Round(time.Millisecond))
	fmt.Printf("  displayed: %d\n", displayed)
	fmt.Printf("  blocked:   %d\n", blocked)
	fmt.Printf("  pending:   %d\n", review)

	if batchOutJSON != "" {
		reports := make([]*model.EvaluationReport, len(results))
		for i, r := range results {
			reports[i] = r.Report
		}
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal reports: %w", err)
		}
		if err := os.WriteFile(batchOutJSON, append(data, '\n'), 0644); err != nil {
			return fmt.Errorf("write reports: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", batchOutJSON)
		}
	}
	return nil
}
