// Package selector picks the preview image for a content record.
//
// Candidates are gathered from the record, the scraped page and its meta
// tags, scored for relevance against the record's title and keywords, and
// ranked deterministically. The top candidate is accepted when it reaches
// the threshold; otherwise a fixed fallback ladder ending in a category
// placeholder decides. Results are cached per record.
package selector

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julienpequegnot/imagepick/internal/content"
	"github.com/julienpequegnot/imagepick/internal/token"
)

// Scorer rates a single candidate against the record's tokens and keywords.
type Scorer interface {
	Score(c content.ImageCandidate, contextTokens token.Set, keywords []string) float64
}

// Options control a single selection.
type Options struct {
	// Threshold is the minimum score accepted without falling back.
	Threshold    float64
	UseCache     bool
	DebugLogging bool
}

func DefaultOptions() Options {
	return Options{
		Threshold:    0.1,
		UseCache:     true,
		DebugLogging: false,
	}
}

type Selector struct {
	scorer       Scorer
	cache        *Cache
	placeholders Placeholders
	sink         DebugSink
	opts         Options
}

// Option configures a Selector.
type Option func(*Selector)

func WithPlaceholders(p Placeholders) Option {
	return func(s *Selector) { s.placeholders = p }
}

func WithDebugSink(sink DebugSink) Option {
	return func(s *Selector) {
		if sink != nil {
			s.sink = sink
		}
	}
}

func WithOptions(opts Options) Option {
	return func(s *Selector) { s.opts = opts }
}

// New creates a selector. A nil cache gets a private in-memory one.
func New(scorer Scorer, cache *Cache, options ...Option) *Selector {
	if cache == nil {
		cache = NewCache(nil)
	}
	s := &Selector{
		scorer:       scorer,
		cache:        cache,
		placeholders: DefaultPlaceholders(),
		sink:         nopSink{},
		opts:         DefaultOptions(),
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Options returns the selector's default options.
func (s *Selector) Options() Options {
	return s.opts
}

// Select chooses a preview image using the selector's default options.
func (s *Selector) Select(rec *content.Record, meta *content.PageMeta) content.SelectionResult {
	return s.SelectWithOptions(rec, meta, s.opts)
}

// SelectJSON decodes a raw record and selects its preview image. Input that
// is not a JSON object yields an invalid-input result.
func (s *Selector) SelectJSON(data []byte, meta *content.PageMeta, opts Options) content.SelectionResult {
	rec, err := content.Decode(data)
	if err != nil {
		return s.invalid(err.Error())
	}
	return s.SelectWithOptions(rec, meta, opts)
}

func (s *Selector) SelectWithOptions(rec *content.Record, meta *content.PageMeta, opts Options) content.SelectionResult {
	if rec == nil {
		return s.invalid("content record is missing")
	}

	sink := s.sink
	if !opts.DebugLogging {
		sink = nopSink{}
	}
	traceID := ""
	if opts.DebugLogging {
		traceID = uuid.NewString()
	}

	key := content.CacheKey(*rec)
	if opts.UseCache {
		if cached, ok := s.cache.Get(key); ok {
			sink.Debug("selection cache hit", "trace_id", traceID, "key", key, "image_url", cached.ImageURL, "reason", cached.Reason)
			return cached
		}
	}

	contextTokens := ContextTokens(rec)
	collected := collectCandidates(rec, meta)
	ranked := s.scoreAndRank(collected, contextTokens, rec.Keywords)

	sink.Debug("selection candidates",
		"trace_id", traceID,
		"key", key,
		"tokens", contextTokens.Sorted(),
		"candidates", len(collected),
		"top", topN(ranked, 3),
	)

	var result content.SelectionResult
	if len(ranked) > 0 && ranked[0].Score >= opts.Threshold {
		top := ranked[0]
		result = content.SelectionResult{
			ImageURL:   top.URL,
			Reason:     content.ReasonScoredMatch,
			Score:      top.Score,
			Provenance: top.Provenance,
		}
	} else {
		result = runFallbackLadder(&selectionState{
			record:       rec,
			meta:         meta,
			collected:    collected,
			ranked:       ranked,
			placeholders: s.placeholders,
		})
	}

	sink.Debug("selection decided",
		"trace_id", traceID,
		"key", key,
		"image_url", result.ImageURL,
		"reason", result.Reason,
		"provenance", result.Provenance,
		"score", result.Score,
		"threshold", opts.Threshold,
	)

	if opts.UseCache {
		if err := s.cache.Put(key, result); err != nil {
			sink.Debug("selection cache write failed", "trace_id", traceID, "key", key, "error", err)
		}
	}

	return result
}

// Rank returns every candidate for the record, scored and in ranking order.
func (s *Selector) Rank(rec *content.Record, meta *content.PageMeta) []ScoredCandidate {
	if rec == nil {
		return nil
	}
	return s.scoreAndRank(collectCandidates(rec, meta), ContextTokens(rec), rec.Keywords)
}

func (s *Selector) ClearCache() error {
	return s.cache.Clear()
}

func (s *Selector) CacheStats() Stats {
	return s.cache.Stats()
}

func (s *Selector) scoreAndRank(candidates []content.ImageCandidate, contextTokens token.Set, keywords []string) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, ScoredCandidate{
			ImageCandidate: c,
			Score:          s.scorer.Score(c, contextTokens, keywords),
		})
	}
	return rank(scored)
}

func (s *Selector) invalid(msg string) content.SelectionResult {
	return content.SelectionResult{
		ImageURL: s.placeholders.For(""),
		Reason:   content.ReasonInvalidInput,
		Score:    0,
		Message:  msg,
	}
}

// ContextTokens is the union of the title tokens and every keyword's tokens.
func ContextTokens(rec *content.Record) token.Set {
	return token.Tokenize(rec.Title).Union(token.TokenizeAll(rec.Keywords))
}

func topN(ranked []ScoredCandidate, n int) []string {
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]string, 0, n)
	for _, c := range ranked[:n] {
		out = append(out, fmt.Sprintf("%.4f %s (%s)", c.Score, c.URL, c.Provenance))
	}
	return out
}
