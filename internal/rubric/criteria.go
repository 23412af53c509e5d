package rubric

import (
	"fmt"
	"strings"

	"github.com/qualgate/qualgate/internal/model"
)

// CriterionInput is what every criterion scorer sees: the sanitized
// candidate, the original message, and optional conversation context
type CriterionInput struct {
	Candidate model.CandidateAnalysis
	Message   string
	Context   []string
}

// CriterionResult is one criterion's score with any flags it raised
type CriterionResult struct {
	Score           int
	Flags           []model.QualityFlag
	Recommendations []string
}

// Criterion is a pure heuristic scorer over the candidate text.
// Scorers are pluggable: the evaluator only cares about this signature.
type Criterion func(in CriterionInput) CriterionResult

func flag(t model.FlagType, sev model.FlagSeverity, desc, suggestion string) model.QualityFlag {
	return model.QualityFlag{Type: t, Severity: sev, Description: desc, Suggestion: suggestion}
}

// --- content_accuracy ---

// statementTypeAccuracy cross-checks the declared statement type against
// surface linguistic markers in the message
func statementTypeAccuracy(in CriterionInput) CriterionResult {
	res := CriterionResult{Score: 100}
	msg := in.Message
	isQuestion := looksLikeQuestion(msg)

	switch in.Candidate.StatementType {
	case model.StatementQuestion:
		if !isQuestion {
			res.Score -= 30
			res.Flags = append(res.Flags, flag(model.FlagConsistency, model.SeverityHigh,
				"declared as question but the message has no question mark or interrogative phrasing", ""))
		}
	case model.StatementOpinion:
		if !containsMarker(msg, opinionMarkers) {
			res.Score -= 20
			res.Flags = append(res.Flags, flag(model.FlagConsistency, model.SeverityMedium,
				"declared as opinion but the message carries no opinion markers", ""))
		}
	case model.StatementRequest:
		if !containsMarker(msg, requestMarkers) {
			res.Score -= 20
			res.Flags = append(res.Flags, flag(model.FlagConsistency, model.SeverityMedium,
				"declared as request but the message has no imperative or request phrasing", ""))
		}
	}

	if isQuestion && in.Candidate.StatementType != model.StatementQuestion {
		res.Score -= 25
		res.Flags = append(res.Flags, flag(model.FlagConsistency, model.SeverityMedium,
			fmt.Sprintf("message reads as a question but was classified as %s", in.Candidate.StatementType), ""))
	}

	if res.Score < 0 {
		res.Score = 0
	}
	return res
}

// reasoningGrounding measures lexical overlap between the reasoning and
// the original message
func reasoningGrounding(in CriterionInput) CriterionResult {
	msgWords := contentWords(in.Message)
	reasonWords := contentWords(in.Candidate.Reasoning)
	if len(msgWords) == 0 || len(reasonWords) == 0 {
		return CriterionResult{Score: 70}
	}

	ratio := overlapRatio(msgWords, reasonWords)
	switch {
	case ratio == 0:
		return CriterionResult{
			Score: 50,
			Flags: []model.QualityFlag{flag(model.FlagCoherence, model.SeverityHigh,
				"reasoning shares no content words with the message", "ground the reasoning in the message's own wording")},
		}
	case ratio < 0.1:
		return CriterionResult{
			Score: 65,
			Flags: []model.QualityFlag{flag(model.FlagCoherence, model.SeverityMedium,
				fmt.Sprintf("reasoning-to-message word overlap is very low (%.2f)", ratio), "")},
		}
	case ratio < 0.25:
		return CriterionResult{
			Score: 85,
			Flags: []model.QualityFlag{flag(model.FlagCoherence, model.SeverityLow,
				fmt.Sprintf("reasoning-to-message word overlap is low (%.2f)", ratio), "")},
		}
	}
	return CriterionResult{Score: 100}
}

// beliefRelevance checks that stated beliefs relate to the message or the
// reasoning rather than floating free
func beliefRelevance(in CriterionInput) CriterionResult {
	if len(in.Candidate.Beliefs) == 0 {
		return CriterionResult{Score: 70}
	}

	beliefWords := contentWords(strings.Join(in.Candidate.Beliefs, " "))
	target := contentWords(in.Message + " " + in.Candidate.Reasoning)
	ratio := overlapRatio(beliefWords, target)
	switch {
	case ratio == 0:
		return CriterionResult{
			Score: 55,
			Flags: []model.QualityFlag{flag(model.FlagCoherence, model.SeverityMedium,
				"beliefs share no content words with the message or reasoning", "")},
		}
	case ratio < 0.15:
		return CriterionResult{
			Score: 75,
			Flags: []model.QualityFlag{flag(model.FlagCoherence, model.SeverityLow,
				fmt.Sprintf("beliefs are weakly tied to the message (overlap %.2f)", ratio), "")},
		}
	}
	return CriterionResult{Score: 100}
}

// --- content_completeness ---

// beliefCompleteness scores how many substantive beliefs were extracted
func beliefCompleteness(in CriterionInput) CriterionResult {
	switch len(substantive(in.Candidate.Beliefs)) {
	case 0:
		return CriterionResult{
			Score: 45,
			Flags: []model.QualityFlag{flag(model.FlagCompleteness, model.SeverityMedium,
				"no substantive beliefs identified", "extract at least one belief from the message")},
		}
	case 1:
		return CriterionResult{
			Score: 80,
			Flags: []model.QualityFlag{flag(model.FlagCompleteness, model.SeverityLow,
				"only one substantive belief identified", "")},
			Recommendations: []string{"look for additional implicit beliefs in the message"},
		}
	case 2:
		return CriterionResult{Score: 90}
	}
	return CriterionResult{Score: 100}
}

// tradeOffCompleteness scores how many substantive trade-offs were extracted
func tradeOffCompleteness(in CriterionInput) CriterionResult {
	switch len(substantive(in.Candidate.TradeOffs)) {
	case 0:
		return CriterionResult{
			Score: 35,
			Flags: []model.QualityFlag{flag(model.FlagCompleteness, model.SeverityMedium,
				"no substantive trade-offs identified", "identify at least one trade-off implied by the message")},
			Recommendations: []string{"consider what the speaker is giving up or deprioritizing"},
		}
	case 1:
		return CriterionResult{Score: 85}
	}
	return CriterionResult{Score: 100}
}

// reasoningDepth scores the reasoning's length and whether it actually
// references the beliefs and trade-offs it is supposed to justify
func reasoningDepth(in CriterionInput) CriterionResult {
	res := CriterionResult{}
	length := len(in.Candidate.Reasoning)
	switch {
	case length < 50:
		res.Score = 60
		res.Flags = append(res.Flags, flag(model.FlagCompleteness, model.SeverityLow,
			"reasoning is very short", "explain how the beliefs and trade-offs were derived"))
	case length < 100:
		res.Score = 80
	default:
		res.Score = 100
	}

	listItems := append(substantive(in.Candidate.Beliefs), substantive(in.Candidate.TradeOffs)...)
	if len(listItems) > 0 {
		listWords := contentWords(strings.Join(listItems, " "))
		reasonWords := contentWords(in.Candidate.Reasoning)
		if overlapRatio(listWords, reasonWords) == 0 {
			res.Score -= 20
		}
	}
	if res.Score < 0 {
		res.Score = 0
	}
	return res
}

// --- content_coherence ---

// beliefTradeOffAlignment measures word overlap between the two lists;
// a good analysis grounds its trade-offs in the same topic as its beliefs
func beliefTradeOffAlignment(in CriterionInput) CriterionResult {
	beliefs := substantive(in.Candidate.Beliefs)
	tradeOffs := substantive(in.Candidate.TradeOffs)
	if len(beliefs) == 0 || len(tradeOffs) == 0 {
		return CriterionResult{
			Score: 50,
			Flags: []model.QualityFlag{flag(model.FlagCoherence, model.SeverityMedium,
				"belief/trade-off alignment cannot be assessed: one side is empty", "")},
		}
	}

	ratio := overlapRatio(
		contentWords(strings.Join(beliefs, " ")),
		contentWords(strings.Join(tradeOffs, " ")),
	)
	switch {
	case ratio < 0.1:
		return CriterionResult{
			Score: 75,
			Flags: []model.QualityFlag{flag(model.FlagCoherence, model.SeverityHigh,
				fmt.Sprintf("beliefs and trade-offs barely overlap (%.2f)", ratio), "relate trade-offs to the stated beliefs")},
		}
	case ratio < 0.2:
		return CriterionResult{
			Score: 85,
			Flags: []model.QualityFlag{flag(model.FlagCoherence, model.SeverityMedium,
				fmt.Sprintf("beliefs and trade-offs weakly overlap (%.2f)", ratio), "")},
		}
	}
	return CriterionResult{Score: 100}
}

// reasoningAlignment measures overlap between the reasoning and the
// beliefs/trade-offs it justifies
func reasoningAlignment(in CriterionInput) CriterionResult {
	listItems := append(substantive(in.Candidate.Beliefs), substantive(in.Candidate.TradeOffs)...)
	if len(listItems) == 0 {
		return CriterionResult{Score: 70}
	}

	ratio := overlapRatio(
		contentWords(strings.Join(listItems, " ")),
		contentWords(in.Candidate.Reasoning),
	)
	switch {
	case ratio == 0:
		return CriterionResult{
			Score: 60,
			Flags: []model.QualityFlag{flag(model.FlagCoherence, model.SeverityMedium,
				"reasoning does not reference any belief or trade-off", "")},
		}
	case ratio < 0.2:
		return CriterionResult{
			Score: 80,
			Flags: []model.QualityFlag{flag(model.FlagCoherence, model.SeverityLow,
				fmt.Sprintf("reasoning weakly references the beliefs/trade-offs (%.2f)", ratio), "")},
		}
	}
	return CriterionResult{Score: 100}
}

var negationWords = []string{"not", "never", "no"}

// internalConsistency looks for belief/trade-off pairs that restate each
// other with opposite polarity
func internalConsistency(in CriterionInput) CriterionResult {
	items := append(substantive(in.Candidate.Beliefs), substantive(in.Candidate.TradeOffs)...)
	if len(items) <= 1 {
		return CriterionResult{Score: 85}
	}

	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if overlapRatio(contentWords(items[i]), contentWords(items[j])) > 0.5 &&
				hasNegation(items[i]) != hasNegation(items[j]) {
				return CriterionResult{
					Score: 55,
					Flags: []model.QualityFlag{flag(model.FlagConsistency, model.SeverityHigh,
						"two entries appear to contradict each other", "")},
				}
			}
		}
	}
	return CriterionResult{Score: 100}
}

func hasNegation(text string) bool {
	tokens := wordSet(text)
	for _, n := range negationWords {
		if tokens[n] {
			return true
		}
	}
	return false
}

// --- content_specificity ---

// markerRatio compares strong/precise marker words against vague ones
// across all free text
func markerRatio(in CriterionInput) CriterionResult {
	text := joinFreeText(in.Candidate.Beliefs, in.Candidate.TradeOffs, in.Candidate.Reasoning)
	strong := countMarkers(text, strongMarkers)
	vague := countMarkers(text, vagueMarkers)

	if vague == 0 {
		if strong > 0 {
			return CriterionResult{Score: 100}
		}
		return CriterionResult{
			Score: 70,
			Flags: []model.QualityFlag{flag(model.FlagSpecificity, model.SeverityLow,
				"no precise language markers found", "")},
		}
	}

	ratio := float64(strong) / float64(vague)
	switch {
	case ratio < 0.2:
		return CriterionResult{
			Score: 60,
			Flags: []model.QualityFlag{flag(model.FlagSpecificity, model.SeverityHigh,
				fmt.Sprintf("vague language dominates (strong:vague ratio %.2f)", ratio), "replace generic wording with concrete details")},
		}
	case ratio < 0.5:
		return CriterionResult{
			Score: 75,
			Flags: []model.QualityFlag{flag(model.FlagSpecificity, model.SeverityMedium,
				fmt.Sprintf("more vague than precise language (ratio %.2f)", ratio), "")},
		}
	case ratio < 1.0:
		return CriterionResult{
			Score: 85,
			Flags: []model.QualityFlag{flag(model.FlagSpecificity, model.SeverityLow,
				fmt.Sprintf("vague language slightly outweighs precise language (ratio %.2f)", ratio), "")},
		}
	}
	return CriterionResult{Score: 100}
}

// vagueLanguage counts hedge phrases across all free text
func vagueLanguage(in CriterionInput) CriterionResult {
	text := joinFreeText(in.Candidate.Beliefs, in.Candidate.TradeOffs, in.Candidate.Reasoning)
	hits := countMarkers(text, hedgePhrases)
	if hits == 0 {
		return CriterionResult{Score: 100}
	}

	score := 100 - 12*hits
	if score < 50 {
		score = 50
	}
	sev := model.SeverityLow
	if hits >= 3 {
		sev = model.SeverityMedium
	}
	return CriterionResult{
		Score: score,
		Flags: []model.QualityFlag{flag(model.FlagSpecificity, sev,
			fmt.Sprintf("%d hedge phrase(s) found", hits), "commit to definite statements where the evidence allows")},
	}
}

// beliefValidity checks entry quality in both lists: empty lists, trivially
// short entries, and near-duplicate entries (Jaccard word overlap > 0.7)
func beliefValidity(in CriterionInput) CriterionResult {
	res := CriterionResult{}
	bScore := listValidity(in.Candidate.Beliefs, "beliefs", &res)
	tScore := listValidity(in.Candidate.TradeOffs, "trade_offs", &res)
	res.Score = (bScore + tScore) / 2
	return res
}

func listValidity(items []string, name string, res *CriterionResult) int {
	if len(items) == 0 {
		return 60
	}

	score := 100
	for _, item := range items {
		if len(strings.TrimSpace(item)) < 10 {
			score -= 15
			res.Flags = append(res.Flags, flag(model.FlagSpecificity, model.SeverityLow,
				fmt.Sprintf("%s entry %q is too short to be meaningful", name, item), ""))
		}
	}

	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if jaccard(items[i], items[j]) > 0.7 {
				score -= 30
				res.Flags = append(res.Flags, flag(model.FlagConsistency, model.SeverityMedium,
					fmt.Sprintf("%s entries %d and %d are near-duplicates", name, i+1, j+1),
					"merge duplicate entries and look for a distinct second point"))
				break
			}
		}
	}

	if score < 0 {
		score = 0
	}
	return score
}

// --- confidence_calibration ---

// completenessProxy estimates how complete the analysis is: substantive
// beliefs, substantive trade-offs, and non-trivial reasoning
func completenessProxy(c model.CandidateAnalysis) float64 {
	proxy := 0.0
	if len(substantive(c.Beliefs)) > 0 {
		proxy += 0.35
	}
	if len(substantive(c.TradeOffs)) > 0 {
		proxy += 0.35
	}
	if len(c.Reasoning) >= 50 {
		proxy += 0.3
	}
	return proxy
}

// confidenceVsCompleteness flags high stated confidence over a thin analysis
func confidenceVsCompleteness(in CriterionInput) CriterionResult {
	conf := in.Candidate.ConfidenceLevel
	proxy := completenessProxy(in.Candidate)

	switch {
	case conf > 80 && proxy < 0.7:
		return CriterionResult{
			Score: 70,
			Flags: []model.QualityFlag{flag(model.FlagConfidenceMismatch, model.SeverityHigh,
				fmt.Sprintf("confidence %d with analysis completeness %.2f", conf, proxy),
				"lower the stated confidence or complete the analysis")},
		}
	case conf > 60 && proxy < 0.5:
		return CriterionResult{
			Score: 80,
			Flags: []model.QualityFlag{flag(model.FlagConfidenceMismatch, model.SeverityMedium,
				fmt.Sprintf("confidence %d with analysis completeness %.2f", conf, proxy), "")},
		}
	case conf > 40 && proxy < 0.3:
		return CriterionResult{
			Score: 90,
			Flags: []model.QualityFlag{flag(model.FlagConfidenceMismatch, model.SeverityLow,
				fmt.Sprintf("confidence %d with analysis completeness %.2f", conf, proxy), "")},
		}
	}
	return CriterionResult{Score: 100}
}

// confidenceVsHedging flags confident scores paired with hedged language
func confidenceVsHedging(in CriterionInput) CriterionResult {
	conf := in.Candidate.ConfidenceLevel
	text := joinFreeText(in.Candidate.Beliefs, in.Candidate.TradeOffs, in.Candidate.Reasoning)
	hedges := countMarkers(text, hedgePhrases)

	switch {
	case conf >= 70 && hedges >= 2:
		return CriterionResult{
			Score: 75,
			Flags: []model.QualityFlag{flag(model.FlagConfidenceMismatch, model.SeverityMedium,
				fmt.Sprintf("confidence %d despite %d hedge phrases", conf, hedges), "")},
		}
	case conf >= 85 && hedges >= 1:
		return CriterionResult{
			Score: 85,
			Flags: []model.QualityFlag{flag(model.FlagConfidenceMismatch, model.SeverityLow,
				fmt.Sprintf("confidence %d despite hedged language", conf), "")},
		}
	}
	return CriterionResult{Score: 100}
}

// confidenceExtremes flags implausibly absolute confidence values
func confidenceExtremes(in CriterionInput) CriterionResult {
	conf := in.Candidate.ConfidenceLevel

	if conf >= 98 {
		return CriterionResult{
			Score: 80,
			Flags: []model.QualityFlag{flag(model.FlagConfidenceMismatch, model.SeverityMedium,
				"near-absolute confidence is rarely warranted for message analysis", "")},
		}
	}
	if conf >= 85 && (len(substantive(in.Candidate.Beliefs)) == 0 || len(substantive(in.Candidate.TradeOffs)) == 0) {
		return CriterionResult{
			Score: 75,
			Flags: []model.QualityFlag{flag(model.FlagConfidenceMismatch, model.SeverityMedium,
				fmt.Sprintf("confidence %d while part of the analysis is empty", conf), "")},
		}
	}
	if conf <= 5 && completenessProxy(in.Candidate) >= 0.7 {
		return CriterionResult{
			Score: 85,
			Flags: []model.QualityFlag{flag(model.FlagConfidenceMismatch, model.SeverityLow,
				"very low confidence despite a complete analysis", "")},
		}
	}
	return CriterionResult{Score: 100}
}
