// Package service runs the caption generation pipeline: normalize the
// brief, build the prompt, call the upstream model, curate the reply, and
// degrade to the local fallback generator on any failure. Every request
// terminates in a well-formed response; nothing is retried.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/capstudio/captionforge/config"
	"github.com/capstudio/captionforge/curate"
	"github.com/capstudio/captionforge/domain"
	"github.com/capstudio/captionforge/fallback"
	"github.com/capstudio/captionforge/llm"
	"github.com/capstudio/captionforge/prompt"
	"github.com/capstudio/captionforge/store"
)

// Sampling parameters sent with every generation call.
var (
	temperature      = 0.9
	topP             = 0.95
	presencePenalty  = 0.3
	frequencyPenalty = 0.4
)

// judgeCandidates is how many variants the n-best flow requests.
const judgeCandidates = 3

// ChatCompleter is the slice of the LLM client the pipeline needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error)
}

// Service wires the pipeline stages together.
type Service struct {
	llm      ChatCompleter
	curator  *curate.Curator
	fallback *fallback.Generator
	store    store.Store
	config   *config.Config
}

// New creates a new service. st may be nil to disable history recording.
func New(llmClient ChatCompleter, curator *curate.Curator, fb *fallback.Generator, st store.Store, cfg *config.Config) *Service {
	return &Service{
		llm:      llmClient,
		curator:  curator,
		fallback: fb,
		store:    st,
		config:   cfg,
	}
}

// Generate runs the single-shot pipeline for one brief. It always returns a
// usable output; upstream failures degrade to the fallback generator.
func (s *Service) Generate(ctx context.Context, brief domain.Brief) *domain.CuratedOutput {
	brief.Normalize()
	start := time.Now()

	out := s.generateOnce(ctx, brief)

	s.record(ctx, brief, out, time.Since(start))
	return out
}

func (s *Service) generateOnce(ctx context.Context, brief domain.Brief) *domain.CuratedOutput {
	callCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()

	resp, err := s.llm.CreateChatCompletion(callCtx, &llm.ChatCompletionRequest{
		Model:            s.config.Model,
		Messages:         prompt.Messages(brief),
		Temperature:      &temperature,
		TopP:             &topP,
		PresencePenalty:  &presencePenalty,
		FrequencyPenalty: &frequencyPenalty,
		ResponseFormat:   map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		log.Printf("WARN: upstream generation failed, using fallback: %v", err)
		return s.fallback.Generate(brief)
	}

	parsed := curate.Parse(resp.FirstContent())
	curated := s.curator.Curate(ctx, parsed, brief)
	if len(curated.Captions) == 0 {
		log.Printf("WARN: upstream reply yielded no usable captions, using fallback")
		return s.fallback.Generate(brief)
	}

	curated.From = domain.SourceOpenAI
	return &curated
}

// GenerateJudged runs the n-best flow: one generation call producing several
// candidate outputs, then a second sequential judge call that scores and
// polishes the winner. Judge failure degrades to the first candidate;
// generation failure degrades to the fallback generator.
func (s *Service) GenerateJudged(ctx context.Context, brief domain.Brief) *domain.CuratedOutput {
	brief.Normalize()
	start := time.Now()

	out := s.generateJudged(ctx, brief)

	s.record(ctx, brief, out, time.Since(start))
	return out
}

func (s *Service) generateJudged(ctx context.Context, brief domain.Brief) *domain.CuratedOutput {
	variants := s.generateVariants(ctx, brief)
	if len(variants) == 0 {
		return s.fallback.Generate(brief)
	}

	winnerIdx, winner := s.judge(ctx, brief, variants)

	// Carry every candidate's tag set so the caller can pick alternatives.
	winner.HashtagSets = nil
	for _, v := range variants {
		if len(v.Hashtags) > 0 {
			winner.HashtagSets = append(winner.HashtagSets, v.Hashtags)
		}
	}

	curated := s.curator.Curate(ctx, winner, brief)
	if len(curated.Captions) == 0 {
		return s.fallback.Generate(brief)
	}

	curated.From = domain.SourceOpenAI
	curated.WinnerIndex = &winnerIdx
	return &curated
}

func (s *Service) generateVariants(ctx context.Context, brief domain.Brief) []curate.ModelOutput {
	callCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()

	resp, err := s.llm.CreateChatCompletion(callCtx, &llm.ChatCompletionRequest{
		Model:            s.config.Model,
		Messages:         prompt.VariantMessages(brief, judgeCandidates),
		Temperature:      &temperature,
		TopP:             &topP,
		PresencePenalty:  &presencePenalty,
		FrequencyPenalty: &frequencyPenalty,
		ResponseFormat:   map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		log.Printf("WARN: upstream candidate generation failed: %v", err)
		return nil
	}

	var parsed struct {
		Variants []curate.ModelOutput `json:"variants"`
	}
	if err := curate.DecodeObject(resp.FirstContent(), &parsed); err != nil {
		log.Printf("WARN: failed to parse candidate variants: %v", err)
		return nil
	}

	var variants []curate.ModelOutput
	for _, v := range parsed.Variants {
		if len(v.Captions) > 0 {
			variants = append(variants, v)
		}
	}
	return variants
}

func (s *Service) judge(ctx context.Context, brief domain.Brief, variants []curate.ModelOutput) (int, curate.ModelOutput) {
	candidates := make([]json.RawMessage, 0, len(variants))
	for _, v := range variants {
		b, err := json.Marshal(v)
		if err != nil {
			return 0, variants[0]
		}
		candidates = append(candidates, b)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.LLMTimeout)
	defer cancel()

	resp, err := s.llm.CreateChatCompletion(callCtx, &llm.ChatCompletionRequest{
		Model:          s.config.JudgeModel,
		Messages:       prompt.JudgeMessages(brief, candidates),
		Temperature:    &temperature,
		ResponseFormat: map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		log.Printf("WARN: judge call failed, keeping first candidate: %v", err)
		return 0, variants[0]
	}

	var verdict struct {
		WinnerIndex int                `json:"winner_index"`
		Polished    curate.ModelOutput `json:"polished"`
	}
	if err := curate.DecodeObject(resp.FirstContent(), &verdict); err != nil {
		log.Printf("WARN: failed to parse judge verdict, keeping first candidate: %v", err)
		return 0, variants[0]
	}

	if verdict.WinnerIndex < 0 || verdict.WinnerIndex >= len(variants) {
		verdict.WinnerIndex = 0
	}
	if len(verdict.Polished.Captions) > 0 {
		return verdict.WinnerIndex, verdict.Polished
	}
	return verdict.WinnerIndex, variants[verdict.WinnerIndex]
}

// record persists the generation best-effort; a store failure never fails
// the request.
func (s *Service) record(ctx context.Context, brief domain.Brief, out *domain.CuratedOutput, latency time.Duration) {
	if s.store == nil {
		return
	}

	briefJSON, err := json.Marshal(brief)
	if err != nil {
		log.Printf("WARN: failed to marshal brief for history: %v", err)
		return
	}
	outputJSON, err := json.Marshal(out)
	if err != nil {
		log.Printf("WARN: failed to marshal output for history: %v", err)
		return
	}

	gen := &domain.Generation{
		GenerationID: "gen_" + uuid.New().String()[:8],
		CreatedAt:    time.Now().UTC(),
		Platform:     brief.Platform,
		Product:      brief.Product,
		Source:       out.From,
		LatencyMs:    latency.Milliseconds(),
		Brief:        briefJSON,
		Output:       outputJSON,
	}
	if err := s.store.CreateGeneration(ctx, gen); err != nil {
		log.Printf("WARN: failed to record generation: %v", err)
	}
}
