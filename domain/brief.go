// Package domain defines the core domain models for the caption service.
package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Defaults applied to absent brief fields.
const (
	DefaultTone     = "bold"
	DefaultLength   = "medium"
	DefaultPlatform = "tiktok"
)

// Bounds for requested output sizes.
const (
	MinCaptionCount     = 2
	MaxCaptionCount     = 8
	DefaultCaptionCount = 4

	MinHashtagCount     = 6
	MaxHashtagCount     = 12
	DefaultHashtagCount = 10
)

// Brief is the structured marketing input describing a product, audience,
// and selling points. Fields decode leniently: briefs arrive from untrusted
// clients and must never fail to parse.
type Brief struct {
	Product   string     `json:"product"`
	Audience  string     `json:"audience"`
	Benefits  StringList `json:"benefits"`
	Pains     StringList `json:"pains"`
	Tone      string     `json:"tone"`
	Length    string     `json:"length"`
	Platform  string     `json:"platform"`
	Count     FlexInt    `json:"count"`
	HashCount FlexInt    `json:"hashCount"`
}

// Normalize clamps the requested counts into their allowed ranges and fills
// absent fields with defaults. Malformed input degrades, it never errors.
func (b *Brief) Normalize() {
	b.Product = strings.TrimSpace(b.Product)
	b.Audience = strings.TrimSpace(b.Audience)

	if strings.TrimSpace(b.Tone) == "" {
		b.Tone = DefaultTone
	}
	if strings.TrimSpace(b.Length) == "" {
		b.Length = DefaultLength
	}
	if strings.TrimSpace(b.Platform) == "" {
		b.Platform = DefaultPlatform
	}

	b.Count = FlexInt(clamp(int(b.Count), DefaultCaptionCount, MinCaptionCount, MaxCaptionCount))
	b.HashCount = FlexInt(clamp(int(b.HashCount), DefaultHashtagCount, MinHashtagCount, MaxHashtagCount))
}

// Terms returns the brief's descriptive words, used to derive hashtag
// candidates when the model comes up short.
func (b *Brief) Terms() []string {
	var terms []string
	terms = append(terms, strings.Fields(b.Product)...)
	terms = append(terms, strings.Fields(b.Audience)...)
	for _, s := range b.Benefits {
		terms = append(terms, strings.Fields(s)...)
	}
	for _, s := range b.Pains {
		terms = append(terms, strings.Fields(s)...)
	}
	return terms
}

func clamp(v, def, lo, hi int) int {
	if v == 0 {
		v = def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// StringList accepts either a JSON array of strings or a single delimited
// string ("affordable; sturdy"). Anything else decodes to an empty list.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = cleanList(arr)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = cleanList(splitList(s))
		return nil
	}
	*l = nil
	return nil
}

// First returns the first entry, or "".
func (l StringList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ','
	})
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// FlexInt accepts a JSON number or a numeric string. Anything else decodes
// to zero, which Normalize treats as absent.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = FlexInt(int(f))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*n = FlexInt(v)
			return nil
		}
	}
	*n = 0
	return nil
}
