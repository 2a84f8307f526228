package selector

import (
	"github.com/julienpequegnot/imagepick/internal/content"
)

// selectionState is what a fallback step can look at.
type selectionState struct {
	record       *content.Record
	meta         *content.PageMeta
	collected    []content.ImageCandidate
	ranked       []ScoredCandidate
	placeholders Placeholders
}

// fallbackStep resolves to an image URL or reports that it does not apply.
type fallbackStep struct {
	reason  content.Reason
	message string
	resolve func(st *selectionState) (string, content.Provenance, bool)
}

// fallbackLadder is tried in order when no candidate reaches the threshold.
// The placeholder step always resolves.
var fallbackLadder = []fallbackStep{
	{
		reason:  content.ReasonFallbackPrimary,
		message: "best primary candidate below threshold",
		resolve: func(st *selectionState) (string, content.Provenance, bool) {
			for _, c := range st.ranked {
				if c.Provenance == content.PrimarySource {
					return c.URL, c.Provenance, true
				}
			}
			return "", "", false
		},
	},
	{
		reason:  content.ReasonFallbackOgImage,
		message: "open graph image",
		resolve: func(st *selectionState) (string, content.Provenance, bool) {
			u := openGraphImage(st.record, st.meta)
			return u, content.MetaTagOpenGraph, u != ""
		},
	},
	{
		reason:  content.ReasonFallbackTwitter,
		message: "twitter card image",
		resolve: func(st *selectionState) (string, content.Provenance, bool) {
			u := twitterImage(st.record, st.meta)
			return u, content.MetaTagTwitter, u != ""
		},
	},
	{
		reason:  content.ReasonFallbackFirstImage,
		message: "first collected image",
		resolve: func(st *selectionState) (string, content.Provenance, bool) {
			for _, c := range st.collected {
				if c.Provenance == content.PageMetadata {
					return c.URL, c.Provenance, true
				}
			}
			if len(st.collected) > 0 {
				return st.collected[0].URL, st.collected[0].Provenance, true
			}
			return "", "", false
		},
	},
	{
		reason:  content.ReasonFallbackPlaceholder,
		message: "no usable image, category placeholder",
		resolve: func(st *selectionState) (string, content.Provenance, bool) {
			return st.placeholders.For(st.record.Category), "", true
		},
	},
}

func runFallbackLadder(st *selectionState) content.SelectionResult {
	for _, step := range fallbackLadder {
		if u, p, ok := step.resolve(st); ok {
			return content.SelectionResult{
				ImageURL:   u,
				Reason:     step.reason,
				Score:      0,
				Provenance: p,
				Message:    step.message,
			}
		}
	}
	// unreachable: the placeholder step always resolves
	return content.SelectionResult{
		ImageURL: st.placeholders.For(st.record.Category),
		Reason:   content.ReasonFallbackPlaceholder,
	}
}

// FallbackOrder lists the reasons of the fallback ladder in evaluation order.
func FallbackOrder() []content.Reason {
	out := make([]content.Reason, len(fallbackLadder))
	for i, step := range fallbackLadder {
		out[i] = step.reason
	}
	return out
}
