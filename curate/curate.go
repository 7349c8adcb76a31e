// Package curate cleans, deduplicates, and bounds model output before it
// reaches the caller. The upstream reply is untrusted text; everything here
// must tolerate garbage and degrade to empty output instead of erroring.
package curate

import (
	"context"
	"regexp"
	"strings"

	"github.com/capstudio/captionforge/domain"
)

// DefaultCaptionBudget is the maximum caption length in characters.
const DefaultCaptionBudget = 220

// TagPolicy decides whether a cleaned hashtag may appear in a response.
type TagPolicy interface {
	Allow(ctx context.Context, tag string) bool
}

// Config carries the curation knobs, injected at startup so tests can swap
// alternate policies.
type Config struct {
	// CaptionBudget caps caption length; zero means DefaultCaptionBudget.
	CaptionBudget int
	// AnchorTag, when set, is guaranteed to appear exactly once, first.
	AnchorTag string
}

// Curator applies the curation policy to parsed model output.
type Curator struct {
	cfg    Config
	policy TagPolicy
}

// New creates a new curator. policy may be nil, in which case every tag is
// allowed.
func New(cfg Config, policy TagPolicy) *Curator {
	if cfg.CaptionBudget <= 0 {
		cfg.CaptionBudget = DefaultCaptionBudget
	}
	return &Curator{cfg: cfg, policy: policy}
}

// ModelOutput mirrors the JSON contract the prompt demands of the model.
// Missing fields decode to their zero values.
type ModelOutput struct {
	Captions    []string   `json:"captions"`
	Hashtags    []string   `json:"hashtags"`
	HashtagSets [][]string `json:"hashtags_sets"`
	Combined    string     `json:"combined"`
}

// Parse decodes raw completion text, tolerating wrapping prose and code
// fences. Unparseable text yields an empty ModelOutput, never an error.
func Parse(raw string) ModelOutput {
	var out ModelOutput
	if err := DecodeObject(raw, &out); err != nil {
		return ModelOutput{}
	}
	return out
}

// Curate bounds and cleans parsed output for the given normalized brief.
func (c *Curator) Curate(ctx context.Context, out ModelOutput, brief domain.Brief) domain.CuratedOutput {
	count := int(brief.Count)
	target := int(brief.HashCount)

	var captions []string
	for _, raw := range out.Captions {
		if len(captions) == count {
			break
		}
		cleaned := CleanCaption(raw, c.cfg.CaptionBudget)
		if cleaned == "" {
			continue
		}
		captions = append(captions, cleaned)
	}

	seen := make(map[string]bool)
	var tags []string
	add := func(raw string) {
		tag := CleanTag(raw)
		if tag == "" || seen[tag] {
			return
		}
		if c.policy != nil && !c.policy.Allow(ctx, tag) {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	if c.cfg.AnchorTag != "" {
		add(c.cfg.AnchorTag)
	}
	for _, raw := range out.Hashtags {
		if len(tags) == target {
			break
		}
		add(raw)
	}
	// Pad from brief-derived terms until the requested count is met.
	for _, term := range brief.Terms() {
		if len(tags) >= target {
			break
		}
		add(term)
	}

	var sets [][]string
	for _, rawSet := range out.HashtagSets {
		setSeen := make(map[string]bool)
		var set []string
		for _, raw := range rawSet {
			if len(set) == target {
				break
			}
			tag := CleanTag(raw)
			if tag == "" || setSeen[tag] {
				continue
			}
			if c.policy != nil && !c.policy.Allow(ctx, tag) {
				continue
			}
			setSeen[tag] = true
			set = append(set, tag)
		}
		if len(set) > 0 {
			sets = append(sets, set)
		}
	}

	combined := strings.TrimSpace(out.Combined)
	if combined == "" && len(captions) > 0 {
		combined = captions[0] + "\n" + HashtagLine(tags)
	}

	return domain.CuratedOutput{
		Combined:    combined,
		Captions:    captions,
		Hashtags:    tags,
		HashtagSets: sets,
	}
}

// HashtagLine renders cleaned tags as a paste-ready "#a #b" line.
func HashtagLine(tags []string) string {
	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, "#"+t)
	}
	return strings.Join(parts, " ")
}

var (
	quoteReplacer    = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")
	spaceBeforePunct = regexp.MustCompile(`\s+([.,!?;:])`)
)

// CleanCaption normalizes caption whitespace and punctuation: collapses
// whitespace runs, straightens curly quotes, removes space before
// punctuation, strips trailing periods, and truncates to budget preferring
// a sentence-boundary cut over a hard character cut.
func CleanCaption(s string, budget int) string {
	s = quoteReplacer.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	s = strings.TrimRight(s, ". ")
	return truncateCaption(s, budget)
}

func truncateCaption(s string, budget int) string {
	if budget <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	cut := string(runes[:budget])
	if idx := strings.LastIndexAny(cut, ".!?"); idx >= len(cut)/2 {
		return strings.TrimRight(cut[:idx+1], ". ")
	}
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		return cut[:idx]
	}
	return cut
}

// CleanTag lowercases a hashtag candidate, strips any leading # and every
// character outside [a-z0-9_]. The same cleaner slugifies brief terms used
// for padding.
func CleanTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "#")
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
