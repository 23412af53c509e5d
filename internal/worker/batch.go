package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/qualgate/qualgate/internal/model"
)

// Evaluator defines the interface for gating one candidate
type Evaluator interface {
	Evaluate(ctx context.Context, candidate model.CandidateAnalysis, message string, gctx model.GateContext) *model.EvaluationReport
}

// BatchItem is one line of a batch input file: a message plus the
// candidate analysis produced for it
type BatchItem struct {
	Message   string                  `json:"message"`
	Candidate model.CandidateAnalysis `json:"candidate"`
	Context   model.GateContext       `json:"context,omitempty"`
}

// EvaluateJob gates one batch item
type EvaluateJob struct {
	Item      BatchItem
	Evaluator Evaluator
}

// Execute runs the evaluation
func (j *EvaluateJob) Execute(ctx context.Context) Result {
	report := j.Evaluator.Evaluate(ctx, j.Item.Candidate, j.Item.Message, j.Item.Context)
	return &EvaluateResult{Message: j.Item.Message, Report: report}
}

// EvaluateResult is the result of one batch evaluation
type EvaluateResult struct {
	Message string
	Report  *model.EvaluationReport
	Err     error
}

// GetError returns the error from the evaluation, if any
func (r *EvaluateResult) GetError() error {
	return r.Err
}

// BatchProcessor gates many candidates concurrently. Scoring is pure, so
// items need no coordination beyond the worker pool.
type BatchProcessor struct {
	evaluator   Evaluator
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(evaluator Evaluator, concurrency int) *BatchProcessor {
	return &BatchProcessor{evaluator: evaluator, concurrency: concurrency}
}

// ProcessItems evaluates all items concurrently
func (b *BatchProcessor) ProcessItems(ctx context.Context, items []BatchItem) []*EvaluateResult {
	if len(items) == 0 {
		return []*EvaluateResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()
	for _, item := range items {
		pool.Submit(&EvaluateJob{Item: item, Evaluator: b.evaluator})
	}

	results := pool.Wait()
	out := make([]*EvaluateResult, len(results))
	for i, r := range results {
		out[i] = r.(*EvaluateResult)
	}
	return out
}

// ProcessFile reads batch items from a file and evaluates them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*EvaluateResult, error) {
	items, err := ReadItemsFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch items: %w", err)
	}
	return b.ProcessItems(ctx, items), nil
}

// ReadItemsFromFile reads batch items from a JSON-lines file, one object
// per line. Empty lines and # comments are skipped.
func ReadItemsFromFile(path string) ([]BatchItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var items []BatchItem
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var item BatchItem
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return items, nil
}
