package domain

import (
	"encoding/json"
	"time"
)

// GenerationSource identifies which path produced a response.
type GenerationSource string

const (
	SourceOpenAI   GenerationSource = "openai"
	SourceFallback GenerationSource = "fallback"
)

// CuratedOutput is the finalized response body. It is always present in the
// HTTP response, degrading to fallback content when the upstream call fails.
type CuratedOutput struct {
	Combined    string           `json:"combined"`
	Captions    []string         `json:"captions"`
	Hashtags    []string         `json:"hashtags"`
	HashtagSets [][]string       `json:"hashtags_sets,omitempty"`
	From        GenerationSource `json:"from"`
	WinnerIndex *int             `json:"winner_index,omitempty"`
}

// Generation is a persisted audit record of a single request. The pipeline
// itself stays stateless; records exist only so operators can review output.
type Generation struct {
	GenerationID string           `json:"generation_id"`
	CreatedAt    time.Time        `json:"created_at"`
	Platform     string           `json:"platform"`
	Product      string           `json:"product"`
	Source       GenerationSource `json:"source"`
	LatencyMs    int64            `json:"latency_ms"`
	Brief        json.RawMessage  `json:"brief,omitempty"`
	Output       json.RawMessage  `json:"output,omitempty"`
}
