// Package pagemeta scrapes image metadata from a content record's page.
package pagemeta

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/julienpequegnot/imagepick/internal/content"
)

const maxPageBytes = 5 * 1024 * 1024

var (
	ogSelectors = []string{
		`meta[property="og:image"]`,
		`meta[property="og:image:secure_url"]`,
		`meta[property="og:image:url"]`,
	}
	twitterSelectors = []string{
		`meta[name="twitter:image"]`,
		`meta[property="twitter:image"]`,
		`meta[name="twitter:image:src"]`,
		`meta[property="twitter:image:src"]`,
	}
)

// Fetcher downloads pages and extracts their PageMeta.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher wires an HTTP client; a nil client gets a 30 second timeout.
func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client, userAgent: userAgent}
}

func (f *Fetcher) FetchMeta(ctx context.Context, pageURL string) (*content.PageMeta, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned %s", resp.Status)
	}

	return Extract(io.LimitReader(resp.Body, maxPageBytes), base)
}

// Extract parses an HTML document. Relative URLs are resolved against base,
// which may be nil.
func Extract(r io.Reader, base *url.URL) (*content.PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	meta := &content.PageMeta{
		OGImage:      firstMetaContent(doc, ogSelectors, base),
		TwitterImage: firstMetaContent(doc, twitterSelectors, base),
	}

	seen := make(map[string]bool)
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := imageSource(img)
		if src == "" {
			return
		}
		u := resolve(base, src)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true

		meta.Images = append(meta.Images, content.ImageCandidate{
			URL:        u,
			AltText:    strings.TrimSpace(img.AttrOr("alt", "")),
			Caption:    strings.TrimSpace(img.Closest("figure").Find("figcaption").First().Text()),
			Width:      dimension(img.AttrOr("width", "")),
			Height:     dimension(img.AttrOr("height", "")),
			Provenance: content.PageMetadata,
		})
	})

	return meta, nil
}

func firstMetaContent(doc *goquery.Document, selectors []string, base *url.URL) string {
	for _, sel := range selectors {
		v := strings.TrimSpace(doc.Find(sel).First().AttrOr("content", ""))
		if v == "" {
			continue
		}
		if u := resolve(base, v); u != "" {
			return u
		}
	}
	return ""
}

func imageSource(img *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src"} {
		v := strings.TrimSpace(img.AttrOr(attr, ""))
		if v != "" && !strings.HasPrefix(strings.ToLower(v), "data:") {
			return v
		}
	}
	return ""
}

func resolve(base *url.URL, raw string) string {
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if base == nil || ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func dimension(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(strings.ToLower(s)), "px")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
