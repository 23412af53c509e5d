package validate

import (
	"fmt"
	"strings"

	"github.com/qualgate/qualgate/internal/model"
)

// Structural limits for candidate analyses
const (
	MaxListItems    = 3
	MaxEntryLength  = 300
	MinReasoningLen = 20
	MaxReasoningLen = 500
)

// Result is the outcome of structural validation.
// On failure Sanitized is nil and Errors holds one string per violation.
type Result struct {
	IsValid   bool                     `json:"is_valid"`
	Errors    []string                 `json:"errors,omitempty"`
	Sanitized *model.CandidateAnalysis `json:"sanitized,omitempty"`
}

// Validator performs structural shape and range checks on candidate analyses
type Validator struct{}

// NewValidator creates a new structural validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the candidate's shape against the original message.
// Any violation is a hard block: no sanitized output, no partial credit.
// On success it returns a sanitized copy with lists truncated, strings
// trimmed, and confidence clamped. Pure function, no side effects.
func (v *Validator) Validate(candidate model.CandidateAnalysis, message string) Result {
	var errs []string

	if !candidate.StatementType.IsValid() {
		errs = append(errs, fmt.Sprintf("statement_type %q is not one of question, opinion, fact, request, other", candidate.StatementType))
	}

	if err := checkList("beliefs", candidate.Beliefs); err != "" {
		errs = append(errs, err)
	}
	if err := checkList("trade_offs", candidate.TradeOffs); err != "" {
		errs = append(errs, err)
	}

	if candidate.ConfidenceLevel < 0 || candidate.ConfidenceLevel > 100 {
		errs = append(errs, fmt.Sprintf("confidence_level %d is outside [0,100]", candidate.ConfidenceLevel))
	}

	reasoning := strings.TrimSpace(candidate.Reasoning)
	if len(reasoning) < MinReasoningLen {
		errs = append(errs, fmt.Sprintf("reasoning is %d chars, minimum is %d", len(reasoning), MinReasoningLen))
	} else if len(reasoning) > MaxReasoningLen {
		errs = append(errs, fmt.Sprintf("reasoning is %d chars, maximum is %d", len(reasoning), MaxReasoningLen))
	}

	if strings.TrimSpace(message) == "" {
		errs = append(errs, "original message is empty")
	}

	if len(errs) > 0 {
		return Result{IsValid: false, Errors: errs}
	}

	sanitized := sanitize(candidate)
	return Result{IsValid: true, Sanitized: &sanitized}
}

// checkList verifies a belief/trade-off list is within size and entry limits.
// Returns an empty string when the list is acceptable.
func checkList(name string, items []string) string {
	meaningful := 0
	for i, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		meaningful++
		if len(trimmed) > MaxEntryLength {
			return fmt.Sprintf("%s[%d] is %d chars, maximum is %d", name, i, len(trimmed), MaxEntryLength)
		}
	}
	if meaningful > MaxListItems {
		return fmt.Sprintf("%s has %d meaningful items, maximum is %d", name, meaningful, MaxListItems)
	}
	return ""
}

// sanitize returns a cleaned copy: trimmed strings, lists truncated to the
// item limit, confidence clamped to [0,100]
func sanitize(candidate model.CandidateAnalysis) model.CandidateAnalysis {
	out := model.CandidateAnalysis{
		StatementType:   candidate.StatementType,
		ConfidenceLevel: clamp(candidate.ConfidenceLevel, 0, 100),
		Reasoning:       strings.TrimSpace(candidate.Reasoning),
	}
	out.Beliefs = sanitizeList(candidate.Beliefs)
	out.TradeOffs = sanitizeList(candidate.TradeOffs)
	return out
}

func sanitizeList(items []string) []string {
	var out []string
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
		if len(out) == MaxListItems {
			break
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
