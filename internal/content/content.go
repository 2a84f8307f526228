// Package content holds the records the selector consumes and the results it
// produces.
package content

import (
	"strings"
)

// Provenance names the collection an image candidate was drawn from.
type Provenance string

const (
	PrimarySource    Provenance = "primary_source"
	PageMetadata     Provenance = "page_metadata"
	MetaTagOpenGraph Provenance = "meta_og"
	MetaTagTwitter   Provenance = "meta_twitter"
	LegacyThumbnail  Provenance = "legacy_thumbnail"
)

// Reason tags how a SelectionResult was reached.
type Reason string

const (
	ReasonScoredMatch         Reason = "scored_match"
	ReasonFallbackPrimary     Reason = "fallback_primary_candidate"
	ReasonFallbackOgImage     Reason = "fallback_og_image"
	ReasonFallbackTwitter     Reason = "fallback_twitter_image"
	ReasonFallbackFirstImage  Reason = "fallback_first_image"
	ReasonFallbackPlaceholder Reason = "fallback_placeholder"
	ReasonInvalidInput        Reason = "invalid_input"
)

// IsFallback reports whether the reason comes from the fallback ladder.
func (r Reason) IsFallback() bool {
	return strings.HasPrefix(string(r), "fallback_")
}

// ImageCandidate is one image under consideration.
type ImageCandidate struct {
	URL              string     `json:"url"`
	AltText          string     `json:"altText,omitempty"`
	Caption          string     `json:"caption,omitempty"`
	ExplicitKeywords Keywords   `json:"explicitKeywords,omitempty"`
	Width            int        `json:"width,omitempty"`
	Height           int        `json:"height,omitempty"`
	Provenance       Provenance `json:"provenance,omitempty"`
}

// Pixels returns width*height, or 0 when either dimension is unknown. It is
// computed in float64 so very large dimensions cannot overflow.
func (c ImageCandidate) Pixels() float64 {
	if c.Width <= 0 || c.Height <= 0 {
		return 0
	}
	return float64(c.Width) * float64(c.Height)
}

// FallbackImages carries the two ranked fallback URLs supplied by external
// metadata: the Open Graph image first, the Twitter card image second.
type FallbackImages struct {
	Primary   string `json:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty"`
}

// Record is a piece of content that needs a preview image.
type Record struct {
	SourceURL       string           `json:"sourceUrl,omitempty"`
	Title           string           `json:"title,omitempty"`
	Keywords        Keywords         `json:"keywords,omitempty"`
	ImageCandidates []ImageCandidate `json:"imageCandidates,omitempty"`
	FallbackImages  FallbackImages   `json:"fallbackImages"`
	LegacyThumbnail string           `json:"legacyThumbnail,omitempty"`
	Category        string           `json:"category,omitempty"`
}

// PageMeta is metadata scraped from the content's page.
type PageMeta struct {
	Images       []ImageCandidate `json:"images,omitempty"`
	OGImage      string           `json:"ogImage,omitempty"`
	TwitterImage string           `json:"twitterImage,omitempty"`
}

// SelectionResult is the chosen preview image for a record.
type SelectionResult struct {
	ImageURL   string     `json:"imageUrl"`
	Reason     Reason     `json:"reason"`
	Score      float64    `json:"score"`
	Provenance Provenance `json:"provenance,omitempty"`
	Message    string     `json:"message,omitempty"`
}
