package generate

import (
	"fmt"
	"strings"
)

const systemPrompt = `You analyze one chat message and return a JSON object with exactly these fields:
{"statement_type": "question|opinion|fact|request|other",
 "beliefs": ["up to 3 beliefs the speaker holds"],
 "trade_offs": ["up to 3 trade-offs the speaker is accepting"],
 "confidence_level": 0-100,
 "reasoning": "20-500 characters explaining the analysis"}
Return only the JSON object, no prose around it.`

// BuildPrompt constructs the user prompt for one generation attempt,
// appending any strategy hints from the retry selector
func BuildPrompt(req Request) string {
	var b strings.Builder

	if len(req.Context) > 0 {
		b.WriteString("Conversation context:\n")
		for _, line := range req.Context {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Message to analyze:\n%s\n", req.Message)

	if len(req.Params.PromptHints) > 0 {
		b.WriteString("\nA previous attempt fell short. This time:\n")
		for _, hint := range req.Params.PromptHints {
			fmt.Fprintf(&b, "- %s\n", hint)
		}
	}
	return b.String()
}
