// Package fallback produces caption output locally when the upstream model
// is unavailable. It never touches the network and always succeeds.
package fallback

import (
	"fmt"
	"hash/fnv"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/capstudio/captionforge/curate"
	"github.com/capstudio/captionforge/domain"
)

// Hook templates take the lead pain point as their single argument.
var hookTemplates = []string{
	"Real talk: %s should not be your whole week",
	"Nobody warns you how much time %s eats",
	"If %s is ruining your day again, read this",
	"We got tired of %s, so we fixed it",
	"POV: %s stops being your problem today",
}

var ctaTemplates = []string{
	"Your future self says thanks.",
	"Try it once and you'll get it.",
	"Save this for when you need it.",
	"Go see what the fuss is about.",
	"You'll wonder why you waited.",
}

var genericTags = []string{"fyp", "foryou", "smallbusiness", "didyouknow", "obsessed"}

// tagCategory maps brief keywords to a themed hashtag pool. The table is the
// single source of category coverage; extend it here, not inline.
type tagCategory struct {
	name     string
	keywords []string
	tags     []string
}

var tagCategories = []tagCategory{
	{
		name:     "skincare",
		keywords: []string{"skin", "serum", "beauty", "glow", "moistur"},
		tags:     []string{"skincare", "selfcare", "glowup", "beautytok", "skincareroutine"},
	},
	{
		name:     "fitness",
		keywords: []string{"gym", "workout", "fitness", "protein", "muscle"},
		tags:     []string{"fitnessmotivation", "gymlife", "workouttips", "healthyhabits"},
	},
	{
		name:     "food",
		keywords: []string{"coffee", "snack", "recipe", "kitchen", "meal"},
		tags:     []string{"foodtok", "easyrecipes", "homecooking", "foodie"},
	},
	{
		name:     "home",
		keywords: []string{"garden", "chicken", "coop", "backyard", "yard", "diy"},
		tags:     []string{"homestead", "backyardlife", "diyprojects", "gardentok"},
	},
	{
		name:     "tech",
		keywords: []string{"app", "software", "ai", "tool", "saas"},
		tags:     []string{"techtok", "productivity", "worksmarter", "automation"},
	},
}

// Generator manufactures deterministic caption output from fixed template
// pools. The random source is seeded from the brief plus the current
// calendar date, so repeated requests within a day get stable output.
type Generator struct {
	// Now is injectable for tests; nil means time.Now.
	Now func() time.Time
}

// New creates a new fallback generator.
func New() *Generator {
	return &Generator{Now: time.Now}
}

// Generate builds a complete curated output for the given normalized brief.
func (g *Generator) Generate(brief domain.Brief) *domain.CuratedOutput {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	r := rand.New(rand.NewSource(seed(brief, now())))

	subject := firstNonEmpty(brief.Pains.First(), brief.Benefits.First(), "the hard way")
	benefit := firstNonEmpty(brief.Benefits.First(), "it just works")
	product := firstNonEmpty(brief.Product, "this")

	count := int(brief.Count)
	used := make(map[string]bool)
	var captions []string
	for len(captions) < count {
		hi := r.Intn(len(hookTemplates))
		ci := r.Intn(len(ctaTemplates))
		key := fmt.Sprintf("%d/%d", hi, ci)
		if used[key] && len(used) < len(hookTemplates)*len(ctaTemplates) {
			continue
		}
		used[key] = true
		caption := fmt.Sprintf(hookTemplates[hi], subject)
		caption += fmt.Sprintf(". %s is %s. ", capitalize(product), benefit)
		caption += ctaTemplates[ci]
		captions = append(captions, curate.CleanCaption(caption, curate.DefaultCaptionBudget))
	}

	tags := g.hashtags(r, brief)
	combined := captions[0] + "\n" + curate.HashtagLine(tags)

	return &domain.CuratedOutput{
		Combined: combined,
		Captions: captions,
		Hashtags: tags,
		From:     domain.SourceFallback,
	}
}

// hashtags samples from the matched category pools, slugified brief terms,
// and a generic pool, deduplicated and capped at the requested count.
func (g *Generator) hashtags(r *rand.Rand, brief domain.Brief) []string {
	var pool []string
	for _, cat := range matchCategories(brief) {
		pool = append(pool, cat.tags...)
	}
	for _, term := range brief.Terms() {
		pool = append(pool, term)
	}
	pool = append(pool, genericTags...)

	r.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	target := int(brief.HashCount)
	seen := make(map[string]bool)
	var tags []string
	for _, raw := range pool {
		if len(tags) == target {
			break
		}
		tag := curate.CleanTag(raw)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// matchCategories returns the themed pools whose keywords appear anywhere in
// the brief text.
func matchCategories(brief domain.Brief) []tagCategory {
	text := strings.ToLower(brief.Product + " " + brief.Audience + " " + strings.Join(brief.Terms(), " "))
	var matched []tagCategory
	for _, cat := range tagCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(text, kw) {
				matched = append(matched, cat)
				break
			}
		}
	}
	return matched
}

func seed(brief domain.Brief, now time.Time) int64 {
	h := fnv.New64a()
	io.WriteString(h, brief.Product)
	io.WriteString(h, brief.Audience)
	io.WriteString(h, strings.Join(brief.Benefits, ";"))
	io.WriteString(h, strings.Join(brief.Pains, ";"))
	io.WriteString(h, brief.Tone)
	io.WriteString(h, brief.Length)
	io.WriteString(h, brief.Platform)
	fmt.Fprintf(h, "%d/%d", int(brief.Count), int(brief.HashCount))
	io.WriteString(h, now.Format("2006-01-02"))
	return int64(h.Sum64())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
