package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/qualgate/qualgate/internal/model"
)

// Renderer writes evaluation reports to disk and prints summaries
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.EvaluationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints a human-readable summary to stdout
func (r *Renderer) RenderSummary(report *model.EvaluationReport) {
	if len(report.StructuralErrors) > 0 {
		fmt.Printf("Structurally invalid candidate (%d violation(s)):\n", len(report.StructuralErrors))
		for _, e := range report.StructuralErrors {
			fmt.Printf("  - %s\n", e)
		}
		fmt.Printf("Decision: %s\n", report.Decision.DisplayMode)
		return
	}

	q := report.Quality
	fmt.Printf("Overall score: %d/100 (grade %s)\n", q.OverallScore, q.Grade)
	for _, dim := range model.Dimensions {
		fmt.Printf("  %-24s %d\n", dim, q.DimensionScores[dim])
	}
	fmt.Printf("Calibrated confidence: %d (raw %d)\n", report.CalibratedConfidence, report.Candidate.ConfidenceLevel)
	fmt.Printf("Decision: %s\n", report.Decision.DisplayMode)
	if report.UITreatment != "" {
		fmt.Printf("UI treatment: %s\n", report.UITreatment)
	}

	if len(q.Flags) > 0 {
		fmt.Printf("Flags (%d):\n", len(q.Flags))
		for _, f := range q.Flags {
			fmt.Printf("  [%s/%s] %s\n", f.Type, f.Severity, f.Description)
		}
	}
	for _, w := range report.Decision.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	for _, t := range report.Decision.ReviewTriggers {
		fmt.Printf("Review trigger: %s\n", t)
	}
	if report.Decision.HumanReviewID != "" {
		fmt.Printf("Review id: %s\n", report.Decision.HumanReviewID)
	}
	if len(report.Attempts) > 0 {
		fmt.Printf("Attempts: %d\n", len(report.Attempts))
	}
}
