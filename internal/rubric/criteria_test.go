package rubric

import (
	"testing"

	"github.com/qualgate/qualgate/internal/model"
)

func hasFlag(flags []model.QualityFlag, t model.FlagType, sev model.FlagSeverity) bool {
	for _, f := range flags {
		if f.Type == t && f.Severity == sev {
			return true
		}
	}
	return false
}

func TestStatementTypeAccuracy(t *testing.T) {
	tests := []struct {
		name      string
		declared  model.StatementType
		message   string
		wantScore int
		wantFlag  bool
		severity  model.FlagSeverity
	}{
		{
			name:      "question matching interrogative message",
			declared:  model.StatementQuestion,
			message:   "What should we do about the backlog?",
			wantScore: 100,
		},
		{
			name:      "question declared on plain statement",
			declared:  model.StatementQuestion,
			message:   "The sky is blue today.",
			wantScore: 70,
			wantFlag:  true,
			severity:  model.SeverityHigh,
		},
		{
			name:      "fact declared on a question",
			declared:  model.StatementFact,
			message:   "Is this the right approach?",
			wantScore: 75,
			wantFlag:  true,
			severity:  model.SeverityMedium,
		},
		{
			name:      "opinion with opinion markers",
			declared:  model.StatementOpinion,
			message:   "I think the redesign is the wrong move.",
			wantScore: 100,
		},
		{
			name:      "opinion without opinion markers",
			declared:  model.StatementOpinion,
			message:   "The redesign shipped last week.",
			wantScore: 80,
			wantFlag:  true,
			severity:  model.SeverityMedium,
		},
		{
			name:      "request with request phrasing",
			declared:  model.StatementRequest,
			message:   "Please take a look at the failing build.",
			wantScore: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := statementTypeAccuracy(CriterionInput{
				Candidate: model.CandidateAnalysis{StatementType: tt.declared},
				Message:   tt.message,
			})
			if res.Score != tt.wantScore {
				t.Errorf("expected score %d, got %d", tt.wantScore, res.Score)
			}
			if tt.wantFlag && !hasFlag(res.Flags, model.FlagConsistency, tt.severity) {
				t.Errorf("expected %s consistency flag, got %v", tt.severity, res.Flags)
			}
			if !tt.wantFlag && len(res.Flags) != 0 {
				t.Errorf("expected no flags, got %v", res.Flags)
			}
		})
	}
}

func TestReasoningGrounding(t *testing.T) {
	message := "I just want this shipped fast"

	t.Run("no overlap with message", func(t *testing.T) {
		res := reasoningGrounding(CriterionInput{
			Candidate: model.CandidateAnalysis{Reasoning: "User prefers rapid iteration over thoroughness based on tone."},
			Message:   message,
		})
		if res.Score != 50 {
			t.Errorf("expected score 50, got %d", res.Score)
		}
		if !hasFlag(res.Flags, model.FlagCoherence, model.SeverityHigh) {
			t.Errorf("expected high coherence flag, got %v", res.Flags)
		}
	})

	t.Run("strong overlap with message", func(t *testing.T) {
		res := reasoningGrounding(CriterionInput{
			Candidate: model.CandidateAnalysis{Reasoning: "The speaker wants the work shipped fast and just that."},
			Message:   message,
		})
		if res.Score != 100 {
			t.Errorf("expected score 100, got %d", res.Score)
		}
	})
}

func TestBeliefCompleteness(t *testing.T) {
	tests := []struct {
		name      string
		beliefs   []string
		wantScore int
	}{
		{"no beliefs", nil, 45},
		{"one substantive belief", []string{"speed matters most here"}, 80},
		{"two substantive beliefs", []string{"speed matters most here", "polish can wait a cycle"}, 90},
		{"three substantive beliefs", []string{"speed matters most here", "polish can wait a cycle", "reviews are a bottleneck"}, 100},
		{"trivially short entries do not count", []string{"speed", "fast"}, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := beliefCompleteness(CriterionInput{Candidate: model.CandidateAnalysis{Beliefs: tt.beliefs}})
			if res.Score != tt.wantScore {
				t.Errorf("expected score %d, got %d", tt.wantScore, res.Score)
			}
		})
	}
}

func TestTradeOffCompleteness(t *testing.T) {
	res := tradeOffCompleteness(CriterionInput{Candidate: model.CandidateAnalysis{}})
	if res.Score != 35 {
		t.Errorf("expected score 35 for missing trade-offs, got %d", res.Score)
	}
	if !hasFlag(res.Flags, model.FlagCompleteness, model.SeverityMedium) {
		t.Errorf("expected medium completeness flag, got %v", res.Flags)
	}
	if len(res.Recommendations) == 0 {
		t.Error("expected a recommendation for missing trade-offs")
	}

	res = tradeOffCompleteness(CriterionInput{Candidate: model.CandidateAnalysis{
		TradeOffs: []string{"less time for testing"},
	}})
	if res.Score != 85 {
		t.Errorf("expected score 85 for one trade-off, got %d", res.Score)
	}
}

func TestInternalConsistency_Contradiction(t *testing.T) {
	res := internalConsistency(CriterionInput{Candidate: model.CandidateAnalysis{
		Beliefs: []string{
			"the user values speed highly",
			"the user does not values speed highly",
		},
	}})
	if res.Score != 55 {
		t.Errorf("expected score 55 for contradictory entries, got %d", res.Score)
	}
	if !hasFlag(res.Flags, model.FlagConsistency, model.SeverityHigh) {
		t.Errorf("expected high consistency flag, got %v", res.Flags)
	}
}

func TestInternalConsistency_DistinctEntries(t *testing.T) {
	res := internalConsistency(CriterionInput{Candidate: model.CandidateAnalysis{
		Beliefs:   []string{"the user values speed highly"},
		TradeOffs: []string{"testing depth will shrink noticeably"},
	}})
	if res.Score != 100 {
		t.Errorf("expected score 100 for distinct entries, got %d", res.Score)
	}
}

func TestBeliefValidity_NearDuplicates(t *testing.T) {
	distinct := beliefValidity(CriterionInput{Candidate: model.CandidateAnalysis{
		Beliefs: []string{"shipping speed is the top priority", "code review depth is negotiable"},
	}})
	duplicated := beliefValidity(CriterionInput{Candidate: model.CandidateAnalysis{
		Beliefs: []string{"ship this fast now please", "ship this fast now"},
	}})

	if distinct.Score-duplicated.Score < 10 {
		t.Errorf("expected near-duplicates to cost at least 10 points: distinct %d, duplicated %d",
			distinct.Score, duplicated.Score)
	}
	if !hasFlag(duplicated.Flags, model.FlagConsistency, model.SeverityMedium) {
		t.Errorf("expected medium consistency flag for near-duplicates, got %v", duplicated.Flags)
	}
}

func TestBeliefValidity_ShortEntries(t *testing.T) {
	res := beliefValidity(CriterionInput{Candidate: model.CandidateAnalysis{
		Beliefs: []string{"speed", "fast now"},
	}})
	if !hasFlag(res.Flags, model.FlagSpecificity, model.SeverityLow) {
		t.Errorf("expected low specificity flags for short entries, got %v", res.Flags)
	}
}

func TestMarkerRatio(t *testing.T) {
	t.Run("vague language dominates", func(t *testing.T) {
		res := markerRatio(CriterionInput{Candidate: model.CandidateAnalysis{
			Reasoning: "Basically stuff happens generally with various things.",
		}})
		if res.Score != 60 {
			t.Errorf("expected score 60, got %d", res.Score)
		}
		if !hasFlag(res.Flags, model.FlagSpecificity, model.SeverityHigh) {
			t.Errorf("expected high specificity flag, got %v", res.Flags)
		}
	})

	t.Run("precise language only", func(t *testing.T) {
		res := markerRatio(CriterionInput{Candidate: model.CandidateAnalysis{
			Reasoning: "The speaker explicitly names a measured two-week deadline.",
		}})
		if res.Score != 100 {
			t.Errorf("expected score 100, got %d", res.Score)
		}
	})

	t.Run("no markers either way", func(t *testing.T) {
		res := markerRatio(CriterionInput{Candidate: model.CandidateAnalysis{
			Reasoning: "The speaker names a deadline for the release.",
		}})
		if res.Score != 70 {
			t.Errorf("expected score 70, got %d", res.Score)
		}
	})
}

func TestVagueLanguage(t *testing.T) {
	res := vagueLanguage(CriterionInput{Candidate: model.CandidateAnalysis{
		Reasoning: "Maybe this works, perhaps not, possibly either way.",
	}})
	if res.Score != 64 {
		t.Errorf("expected score 64 for three hedges, got %d", res.Score)
	}
	if !hasFlag(res.Flags, model.FlagSpecificity, model.SeverityMedium) {
		t.Errorf("expected medium specificity flag, got %v", res.Flags)
	}

	clean := vagueLanguage(CriterionInput{Candidate: model.CandidateAnalysis{
		Reasoning: "The speaker names a deadline for the release.",
	}})
	if clean.Score != 100 {
		t.Errorf("expected score 100 without hedges, got %d", clean.Score)
	}
}

func TestConfidenceVsCompleteness(t *testing.T) {
	t.Run("high confidence over thin analysis", func(t *testing.T) {
		res := confidenceVsCompleteness(CriterionInput{Candidate: model.CandidateAnalysis{
			ConfidenceLevel: 90,
			Reasoning:       "Short reasoning only.",
		}})
		if res.Score != 70 {
			t.Errorf("expected score 70, got %d", res.Score)
		}
		if !hasFlag(res.Flags, model.FlagConfidenceMismatch, model.SeverityHigh) {
			t.Errorf("expected high confidence_mismatch flag, got %v", res.Flags)
		}
	})

	t.Run("moderate confidence over complete analysis", func(t *testing.T) {
		res := confidenceVsCompleteness(CriterionInput{Candidate: model.CandidateAnalysis{
			ConfidenceLevel: 55,
			Beliefs:         []string{"speed matters most here"},
			TradeOffs:       []string{"testing depth will shrink"},
			Reasoning:       "The message repeatedly emphasizes delivery speed over process completeness.",
		}})
		if res.Score != 100 {
			t.Errorf("expected score 100, got %d", res.Score)
		}
	})
}

func TestConfidenceVsHedging(t *testing.T) {
	res := confidenceVsHedging(CriterionInput{Candidate: model.CandidateAnalysis{
		ConfidenceLevel: 80,
		Reasoning:       "Maybe the speaker wants speed, perhaps something else entirely.",
	}})
	if res.Score != 75 {
		t.Errorf("expected score 75, got %d", res.Score)
	}
	if !hasFlag(res.Flags, model.FlagConfidenceMismatch, model.SeverityMedium) {
		t.Errorf("expected medium confidence_mismatch flag, got %v", res.Flags)
	}
}

func TestConfidenceExtremes(t *testing.T) {
	t.Run("near-absolute confidence", func(t *testing.T) {
		res := confidenceExtremes(CriterionInput{Candidate: model.CandidateAnalysis{ConfidenceLevel: 99}})
		if res.Score != 80 {
			t.Errorf("expected score 80, got %d", res.Score)
		}
	})

	t.Run("high confidence with an empty list", func(t *testing.T) {
		res := confidenceExtremes(CriterionInput{Candidate: model.CandidateAnalysis{
			ConfidenceLevel: 90,
			Beliefs:         []string{"speed matters most here"},
		}})
		if res.Score != 75 {
			t.Errorf("expected score 75, got %d", res.Score)
		}
	})

	t.Run("very low confidence over complete analysis", func(t *testing.T) {
		res := confidenceExtremes(CriterionInput{Candidate: model.CandidateAnalysis{
			ConfidenceLevel: 3,
			Beliefs:         []string{"speed matters most here"},
			TradeOffs:       []string{"testing depth will shrink"},
			Reasoning:       "The message repeatedly emphasizes delivery speed over process completeness.",
		}})
		if res.Score != 85 {
			t.Errorf("expected score 85, got %d", res.Score)
		}
	})
}

func TestLooksLikeQuestion(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"What time is it", true},
		{"Is this right?", true},
		{"This works, right?", true},
		{"The sky is blue today.", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := looksLikeQuestion(tt.message); got != tt.want {
			t.Errorf("looksLikeQuestion(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}

func TestOverlapRatio(t *testing.T) {
	a := contentWords("shipping speed matters most")
	b := contentWords("speed matters")
	if got := overlapRatio(a, b); got != 1.0 {
		t.Errorf("expected full overlap against the smaller set, got %.2f", got)
	}
	if got := overlapRatio(a, map[string]bool{}); got != 0 {
		t.Errorf("expected 0 for an empty set, got %.2f", got)
	}
}

func TestJaccard(t *testing.T) {
	if got := jaccard("ship this fast now please", "ship this fast now"); got <= 0.7 {
		t.Errorf("expected near-duplicate jaccard above 0.7, got %.2f", got)
	}
	if got := jaccard("completely different words", "nothing shared here"); got != 0 {
		t.Errorf("expected 0 for disjoint strings, got %.2f", got)
	}
}
