package rubric

import "strings"

// Marker and hedge word lists used by the criterion scorers. These are
// deliberately small, auditable lists; the Criterion indirection lets a
// better heuristic or a learned scorer replace any of them.

var interrogativeStarters = []string{
	"what", "why", "how", "when", "where", "who", "which",
	"is", "are", "do", "does", "can", "could", "should", "would", "will",
}

var opinionMarkers = []string{
	"think", "believe", "feel", "opinion", "prefer", "should",
	"better", "worse", "love", "hate", "wish",
}

var requestMarkers = []string{
	"please", "want", "need", "help", "make", "give",
	"can you", "could you", "would you", "let's",
}

var hedgePhrases = []string{
	"might be", "could be", "possibly", "perhaps", "maybe",
	"it seems", "sort of", "kind of", "i guess", "not sure",
	"hard to say", "probably", "somewhat",
}

var strongMarkers = []string{
	"specifically", "exactly", "precisely", "concrete", "measured",
	"explicit", "detailed", "particular", "quantified", "clearly",
}

var vagueMarkers = []string{
	"thing", "stuff", "various", "generally", "basically",
	"essentially", "arguably", "often", "usually", "many",
}

// tokenize lowercases text and splits it into word tokens
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '\''
	})
}

// contentWords returns tokens longer than 3 characters, as a set.
// Short function words carry no alignment signal.
func contentWords(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range tokenize(text) {
		if len(w) > 3 {
			set[w] = true
		}
	}
	return set
}

// wordSet returns all tokens as a set
func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range tokenize(text) {
		set[w] = true
	}
	return set
}

// overlapRatio is |a ∩ b| divided by the size of the smaller set.
// Returns 0 when either set is empty.
func overlapRatio(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	return float64(inter) / float64(smaller)
}

// jaccard is |a ∩ b| / |a ∪ b| over word sets of the two strings
func jaccard(a, b string) float64 {
	sa, sb := wordSet(a), wordSet(b)
	if len(sa) == 0 && len(sb) == 0 {
		return 0
	}
	inter := 0
	for w := range sa {
		if sb[w] {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// looksLikeQuestion reports whether the message reads as a question:
// question mark anywhere, or an interrogative starter word
func looksLikeQuestion(message string) bool {
	if strings.Contains(message, "?") {
		return true
	}
	tokens := tokenize(message)
	if len(tokens) == 0 {
		return false
	}
	for _, s := range interrogativeStarters {
		if tokens[0] == s {
			return true
		}
	}
	return false
}

// containsMarker reports whether any marker appears in the text.
// Multi-word markers match as substrings, single words as whole tokens.
func containsMarker(text string, markers []string) bool {
	lower := strings.ToLower(text)
	tokens := wordSet(text)
	for _, m := range markers {
		if strings.Contains(m, " ") {
			if strings.Contains(lower, m) {
				return true
			}
		} else if tokens[m] {
			return true
		}
	}
	return false
}

// countMarkers counts marker occurrences across the text (each distinct
// marker counted once per appearance in the token set or substring match)
func countMarkers(text string, markers []string) int {
	lower := strings.ToLower(text)
	tokens := wordSet(text)
	count := 0
	for _, m := range markers {
		if strings.Contains(m, " ") {
			count += strings.Count(lower, m)
		} else if tokens[m] {
			count++
		}
	}
	return count
}

// joinFreeText concatenates all free-text fields of a candidate
func joinFreeText(beliefs, tradeOffs []string, reasoning string) string {
	parts := make([]string, 0, len(beliefs)+len(tradeOffs)+1)
	parts = append(parts, beliefs...)
	parts = append(parts, tradeOffs...)
	parts = append(parts, reasoning)
	return strings.Join(parts, " ")
}

// substantive returns the entries of a list that are long enough to carry
// meaning (at least 10 characters after trimming)
func substantive(items []string) []string {
	var out []string
	for _, item := range items {
		if len(strings.TrimSpace(item)) >= 10 {
			out = append(out, item)
		}
	}
	return out
}
