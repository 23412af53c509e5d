package gate

import "strings"

// Keyword heuristics for content safety. Approximate by design: the lists
// are small and auditable, and the negation window avoids tripping on
// phrases like "against violence".

var unsafeTerms = []string{
	"violence", "weapon", "attack", "kill", "abuse",
	"self-harm", "suicide", "exploit", "threat",
}

var sensitiveTopics = []string{
	"medical", "diagnosis", "health", "legal", "lawsuit",
	"financial", "investment", "political", "religion", "salary",
}

// negationWindow is how many tokens before a term a negating word may
// appear to disarm the match
const negationWindow = 3

var negators = map[string]bool{"not": true, "against": true, "anti": true, "no": true}

// matchesUnsafeContent reports whether any unsafe term appears without a
// nearby negation
func matchesUnsafeContent(text string) (bool, string) {
	tokens := safetyTokens(text)
	for i, tok := range tokens {
		for _, term := range unsafeTerms {
			if tok != term {
				continue
			}
			if negatedNearby(tokens, i) {
				continue
			}
			return true, term
		}
	}
	return false, ""
}

// matchesSensitiveTopic reports whether the text touches a sensitive topic
func matchesSensitiveTopic(text string) (bool, string) {
	tokens := safetyTokens(text)
	for _, tok := range tokens {
		for _, topic := range sensitiveTopics {
			if tok == topic {
				return true, topic
			}
		}
	}
	return false, ""
}

func negatedNearby(tokens []string, idx int) bool {
	start := idx - negationWindow
	if start < 0 {
		start = 0
	}
	for i := start; i < idx; i++ {
		if negators[tokens[i]] {
			return true
		}
	}
	return false
}

func safetyTokens(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-'
	})
}
