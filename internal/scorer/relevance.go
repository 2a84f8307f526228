package scorer

import (
	"net/url"
	"strings"

	"github.com/julienpequegnot/imagepick/internal/content"
	"github.com/julienpequegnot/imagepick/internal/token"
)

// Weights tunes how much each signal contributes to a candidate's score.
type Weights struct {
	URL         float64
	Description float64
	Keywords    float64
	// Resolution is awarded in full once an image exceeds MinPixels.
	Resolution float64
	MinPixels  int
}

func DefaultWeights() Weights {
	return Weights{
		URL:         0.6,
		Description: 0.3,
		Keywords:    0.4,
		Resolution:  0.05,
		MinPixels:   100_000,
	}
}

// Breakdown is a score split into its weighted contributions.
type Breakdown struct {
	URL         float64
	Description float64
	Keywords    float64
	Resolution  float64
	Total       float64
}

type RelevanceScorer struct {
	weights Weights
}

func NewRelevanceScorer(weights Weights) *RelevanceScorer {
	return &RelevanceScorer{weights: weights}
}

func (s *RelevanceScorer) Weights() Weights {
	return s.weights
}

// Score rates how well the candidate illustrates content described by
// contextTokens (title and keywords) and the raw keyword list.
func (s *RelevanceScorer) Score(c content.ImageCandidate, contextTokens token.Set, keywords []string) float64 {
	return s.Explain(c, contextTokens, keywords).Total
}

func (s *RelevanceScorer) Explain(c content.ImageCandidate, contextTokens token.Set, keywords []string) Breakdown {
	urlTokens := URLTokens(c.URL)
	descTokens := DescriptionTokens(c)

	var b Breakdown
	b.URL = token.Jaccard(urlTokens, contextTokens) * s.weights.URL
	b.Description = token.Jaccard(descTokens, contextTokens) * s.weights.Description
	b.Keywords = KeywordMatchRatio(keywords, urlTokens, descTokens) * s.weights.Keywords
	b.Resolution = s.resolutionBonus(c)
	b.Total = b.URL + b.Description + b.Keywords + b.Resolution
	return b
}

func (s *RelevanceScorer) resolutionBonus(c content.ImageCandidate) float64 {
	if c.Pixels() > float64(s.weights.MinPixels) {
		return s.weights.Resolution
	}
	return 0
}

// URLTokens tokenizes the path segments of an image URL, splitting each
// segment further on hyphens and underscores. Unparsable URLs are split
// naively on slashes.
func URLTokens(rawURL string) token.Set {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return token.NewSet()
	}

	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
		if unescaped, err := url.PathUnescape(path); err == nil {
			path = unescaped
		}
	} else if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	var fragments []string
	for _, segment := range strings.Split(path, "/") {
		fragments = append(fragments, strings.FieldsFunc(segment, func(r rune) bool {
			return r == '-' || r == '_'
		})...)
	}
	return token.TokenizeAll(fragments)
}

// DescriptionTokens tokenizes the candidate's alt text and caption together.
func DescriptionTokens(c content.ImageCandidate) token.Set {
	return token.TokenizeAll([]string{c.AltText, c.Caption})
}

// KeywordMatchRatio is the fraction of keywords with at least one token in
// any of the given sets. No keywords means 0.
func KeywordMatchRatio(keywords []string, sets ...token.Set) float64 {
	if len(keywords) == 0 {
		return 0
	}

	matched := 0
	for _, kw := range keywords {
		kwTokens := token.Tokenize(kw)
		for _, set := range sets {
			if kwTokens.Intersects(set) {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(keywords))
}
