package model

// ThresholdScope identifies which layer a confidence threshold applies to.
// Resolution precedence: user overrides team overrides global overrides defaults.
type ThresholdScope string

const (
	ScopeGlobal ThresholdScope = "global"
	ScopeTeam   ThresholdScope = "team"
	ScopeUser   ThresholdScope = "user"
)

// ThresholdType names which UI cutoff a threshold configures
type ThresholdType string

const (
	ThresholdDisplay ThresholdType = "display"
	ThresholdHide    ThresholdType = "hide"
	ThresholdWarning ThresholdType = "warning"
)

// UITreatment is how presentation logic should render a confidence value
type UITreatment string

const (
	TreatmentNormal  UITreatment = "normal"
	TreatmentWarning UITreatment = "warning"
	TreatmentGreyOut UITreatment = "grey_out"
	TreatmentHide    UITreatment = "hide"
)

// ConfidenceThreshold is one scoped threshold override
type ConfidenceThreshold struct {
	Scope       ThresholdScope `json:"scope"`
	ScopeID     string         `json:"scope_id,omitempty"` // team or user identifier
	Type        ThresholdType  `json:"type"`
	Value       int            `json:"value"`
	UITreatment UITreatment    `json:"ui_treatment,omitempty"`
}

// ThresholdSet is the effective set of UI thresholds after scope resolution
type ThresholdSet struct {
	Display int `json:"display"`
	Hide    int `json:"hide"`
	Warning int `json:"warning"`
}

// DefaultThresholds returns the hard-coded system defaults
func DefaultThresholds() ThresholdSet {
	return ThresholdSet{
		Display: 40,
		Hide:    20,
		Warning: 60,
	}
}
