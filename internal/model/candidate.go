package model

// StatementType categorizes the message the analysis was generated for
type StatementType string

const (
	StatementQuestion StatementType = "question"
	StatementOpinion  StatementType = "opinion"
	StatementFact     StatementType = "fact"
	StatementRequest  StatementType = "request"
	StatementOther    StatementType = "other"
)

// ValidStatementTypes lists the accepted statement types
var ValidStatementTypes = []StatementType{
	StatementQuestion,
	StatementOpinion,
	StatementFact,
	StatementRequest,
	StatementOther,
}

// IsValid reports whether the statement type is one of the allowed values
func (t StatementType) IsValid() bool {
	for _, v := range ValidStatementTypes {
		if t == v {
			return true
		}
	}
	return false
}

// CandidateAnalysis is one AI-generated structured judgment of a chat message.
// It is produced once per generation attempt and treated as immutable once scored.
type CandidateAnalysis struct {
	StatementType   StatementType `json:"statement_type"`
	Beliefs         []string      `json:"beliefs"`
	TradeOffs       []string      `json:"trade_offs"`
	ConfidenceLevel int           `json:"confidence_level"` // 0-100
	Reasoning       string        `json:"reasoning"`        // 20-500 chars
}

// PolicyVariant selects a calibration policy flavor
type PolicyVariant string

const (
	PolicyStandard   PolicyVariant = "standard"
	PolicyCalibrated PolicyVariant = "calibrated"
)

// UserTier classifies the caller's account tier
type UserTier string

const (
	TierFree       UserTier = "free"
	TierPro        UserTier = "pro"
	TierEnterprise UserTier = "enterprise"
)

// GateContext carries caller context into the display gate
type GateContext struct {
	UserID       string        `json:"user_id,omitempty"`
	TeamID       string        `json:"team_id,omitempty"`
	Tier         UserTier      `json:"tier,omitempty"`
	TestMode     bool          `json:"test_mode"`
	ReviewAccess bool          `json:"review_access"`
	Variant      PolicyVariant `json:"variant,omitempty"`
}
