// Package prompt renders the chat messages sent to the upstream model.
// The strict-JSON schema is spelled out verbatim in the system prompt; the
// upstream model is an unconstrained text generator, so the curation layer
// must still treat the reply as untrusted.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/capstudio/captionforge/domain"
	"github.com/capstudio/captionforge/llm"
)

// Character targets per requested length.
var lengthTargets = map[string]int{
	"short":  90,
	"medium": 150,
	"long":   210,
}

const schemaLine = `{"captions": ["string"], "hashtags": ["string"], "combined": "string"}`

const variantSchemaLine = `{"variants": [{"captions": ["string"], "hashtags": ["string"], "combined": "string"}]}`

const judgeSchemaLine = `{"winner_index": 0, "polished": {"captions": ["string"], "hashtags": ["string"], "combined": "string"}}`

// Fixed few-shot exemplar pair steering style. Constant data, not generated.
const exemplarBrief = `Product: cold brew concentrate
Audience: busy remote workers
Benefits: ready in 10 seconds; smooth, never bitter
Pains: no time to queue at a cafe
Tone: bold
Length: short
Platform: tiktok

Write 2 captions and 6 hashtags.`

const exemplarAnswer = `{"captions": ["POV: your coffee is done before your laptop wakes up", "Cafe line? Never met her. 10 seconds, zero bitterness"], "hashtags": ["coldbrew", "wfhlife", "coffeetok", "morningroutine", "remotework", "coffeehack"], "combined": "POV: your coffee is done before your laptop wakes up\n#coldbrew #wfhlife #coffeetok #morningroutine #remotework #coffeehack"}`

// Messages returns the ordered chat sequence for a single-shot generation:
// system rules first, the fixed exemplar pair, then the live brief.
func Messages(brief domain.Brief) []llm.ChatMessage {
	return []llm.ChatMessage{
		{Role: llm.RoleSystem, Content: systemPrompt(brief, schemaLine)},
		{Role: llm.RoleUser, Content: exemplarBrief},
		{Role: llm.RoleAssistant, Content: exemplarAnswer},
		{Role: llm.RoleUser, Content: userPrompt(brief)},
	}
}

// VariantMessages asks for n candidate outputs in one completion, for the
// n-best + judge flow.
func VariantMessages(brief domain.Brief, n int) []llm.ChatMessage {
	sys := systemPrompt(brief, variantSchemaLine)
	sys += fmt.Sprintf("\nProduce exactly %d independent variants in the \"variants\" array, each with its own captions and hashtags.", n)
	return []llm.ChatMessage{
		{Role: llm.RoleSystem, Content: sys},
		{Role: llm.RoleUser, Content: userPrompt(brief)},
	}
}

// JudgeMessages builds the second, sequential judge call: score the
// candidates, pick a winner, and polish it.
func JudgeMessages(brief domain.Brief, candidates []json.RawMessage) []llm.ChatMessage {
	var sb strings.Builder
	sb.WriteString("You are a strict social-media editor judging caption candidates.\n")
	sb.WriteString(fmt.Sprintf("The brief targets %s on %s with a %s tone.\n", brief.Audience, brief.Platform, brief.Tone))
	sb.WriteString("Score each candidate for hook strength, voice, and platform fit.\n")
	sb.WriteString("Reply with a single JSON object and nothing else, matching exactly:\n")
	sb.WriteString(judgeSchemaLine + "\n")
	sb.WriteString("\"winner_index\" is the zero-based index of the best candidate; \"polished\" is that candidate with light copy edits only.\n")

	var user strings.Builder
	user.WriteString("Candidates:\n")
	for i, c := range candidates {
		user.WriteString(fmt.Sprintf("%d: %s\n", i, string(c)))
	}

	return []llm.ChatMessage{
		{Role: llm.RoleSystem, Content: sb.String()},
		{Role: llm.RoleUser, Content: user.String()},
	}
}

func systemPrompt(brief domain.Brief, schema string) string {
	target := lengthTargets[strings.ToLower(brief.Length)]
	if target == 0 {
		target = lengthTargets[domain.DefaultLength]
	}

	var sb strings.Builder
	sb.WriteString("You are a social media copywriter who writes scroll-stopping captions that sound like a real person talking to a friend.\n")
	sb.WriteString("Voice rules:\n")
	sb.WriteString("- Conversational and personal. Write \"you\", never \"customers\" or \"users\".\n")
	sb.WriteString("- No corporate phrasing: never \"elevate\", \"unlock\", \"game-changer\", \"seamless\", or \"solutions\".\n")
	sb.WriteString("- At most 2 emoji per caption, zero is fine.\n")
	sb.WriteString(fmt.Sprintf("- Each caption is roughly %d characters.\n", target))
	sb.WriteString(fmt.Sprintf("- Hashtags are lowercase, no spaces, no leading #, specific to the niche, written for %s.\n", brief.Platform))
	sb.WriteString("Output format:\n")
	sb.WriteString("Reply with a single JSON object and nothing else, matching exactly this shape:\n")
	sb.WriteString(schema + "\n")
	sb.WriteString("No markdown fences, no commentary before or after the JSON.\n")
	return sb.String()
}

func userPrompt(brief domain.Brief) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Product: %s\n", brief.Product))
	sb.WriteString(fmt.Sprintf("Audience: %s\n", brief.Audience))
	sb.WriteString(fmt.Sprintf("Benefits: %s\n", strings.Join(brief.Benefits, "; ")))
	sb.WriteString(fmt.Sprintf("Pains: %s\n", strings.Join(brief.Pains, "; ")))
	sb.WriteString(fmt.Sprintf("Tone: %s\n", brief.Tone))
	sb.WriteString(fmt.Sprintf("Length: %s\n", brief.Length))
	sb.WriteString(fmt.Sprintf("Platform: %s\n", brief.Platform))
	sb.WriteString(fmt.Sprintf("\nWrite %d captions and %d hashtags.", int(brief.Count), int(brief.HashCount)))
	return sb.String()
}
