package model

// DisplayMode is the terminal display state for one candidate attempt.
// Exactly one mode applies per decision; there are no transitions.
type DisplayMode string

const (
	DisplayNormal        DisplayMode = "normal"
	DisplayWarning       DisplayMode = "warning"
	DisplayHidden        DisplayMode = "hidden"
	DisplayReviewPending DisplayMode = "review_pending"
)

// GateDecision is the display gate's verdict for one candidate attempt
type GateDecision struct {
	ShouldDisplay   bool        `json:"should_display"`
	DisplayMode     DisplayMode `json:"display_mode"`
	BlockingReasons []string    `json:"blocking_reasons,omitempty"`
	Warnings        []string    `json:"warnings,omitempty"`
	ReviewTriggers  []string    `json:"review_triggers,omitempty"`
	HumanReviewID   string      `json:"human_review_id,omitempty"`

	// UnsafeContent marks a block from the content safety check; such
	// candidates are never retried automatically
	UnsafeContent bool `json:"unsafe_content,omitempty"`
}

// Blocked reports whether the candidate was hidden outright
func (d GateDecision) Blocked() bool {
	return d.DisplayMode == DisplayHidden
}
