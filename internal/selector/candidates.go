package selector

import (
	"sort"
	"strings"

	"github.com/julienpequegnot/imagepick/internal/content"
)

// TieEpsilon is the width of a tie band: candidates scoring within it of the
// band's top score rank by URL.
const TieEpsilon = 0.001

// ScoredCandidate is a candidate with its relevance score.
type ScoredCandidate struct {
	content.ImageCandidate
	Score float64
}

var provenanceOrder = map[content.Provenance]int{
	content.PrimarySource:    0,
	content.PageMetadata:     1,
	content.MetaTagOpenGraph: 2,
	content.MetaTagTwitter:   3,
	content.LegacyThumbnail:  4,
}

// openGraphImage prefers the scraped page tag over the record's fallback.
func openGraphImage(rec *content.Record, meta *content.PageMeta) string {
	if meta != nil {
		if u := strings.TrimSpace(meta.OGImage); u != "" {
			return u
		}
	}
	return strings.TrimSpace(rec.FallbackImages.Primary)
}

func twitterImage(rec *content.Record, meta *content.PageMeta) string {
	if meta != nil {
		if u := strings.TrimSpace(meta.TwitterImage); u != "" {
			return u
		}
	}
	return strings.TrimSpace(rec.FallbackImages.Secondary)
}

// collectCandidates gathers candidates in precedence order: the record's own
// images, page images, the Open Graph image, the Twitter image when it
// differs from the Open Graph one, then the legacy thumbnail. Duplicate URLs
// are kept; entries without a URL are dropped.
func collectCandidates(rec *content.Record, meta *content.PageMeta) []content.ImageCandidate {
	var out []content.ImageCandidate
	add := func(c content.ImageCandidate, p content.Provenance) {
		c.URL = strings.TrimSpace(c.URL)
		if c.URL == "" {
			return
		}
		c.Provenance = p
		out = append(out, c)
	}

	for _, c := range rec.ImageCandidates {
		add(c, content.PrimarySource)
	}
	if meta != nil {
		for _, c := range meta.Images {
			add(c, content.PageMetadata)
		}
	}

	og := openGraphImage(rec, meta)
	add(content.ImageCandidate{URL: og}, content.MetaTagOpenGraph)
	if tw := twitterImage(rec, meta); tw != og {
		add(content.ImageCandidate{URL: tw}, content.MetaTagTwitter)
	}
	add(content.ImageCandidate{URL: rec.LegacyThumbnail}, content.LegacyThumbnail)

	return out
}

// rank orders candidates by descending score, grouping them into tie bands.
// A band starts at the highest remaining score and takes every candidate
// scoring less than TieEpsilon below it; inside a band candidates are ordered
// by ascending URL. Candidates are first put in a canonical order so the
// result does not depend on input order.
func rank(scored []ScoredCandidate) []ScoredCandidate {
	ranked := make([]ScoredCandidate, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.URL != b.URL {
			return a.URL < b.URL
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return provenanceOrder[a.Provenance] < provenanceOrder[b.Provenance]
	})

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	for start := 0; start < len(ranked); {
		anchor := ranked[start].Score
		end := start + 1
		for end < len(ranked) && anchor-ranked[end].Score < TieEpsilon {
			end++
		}
		band := ranked[start:end]
		sort.SliceStable(band, func(i, j int) bool {
			return band[i].URL < band[j].URL
		})
		start = end
	}

	return ranked
}
