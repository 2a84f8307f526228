package feed

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/julienpequegnot/imagepick/internal/content"
)

// FetchedRecord is a feed item converted to a content record.
type FetchedRecord struct {
	Record      content.Record
	PublishedAt time.Time
}

type Fetcher struct {
	parser  *gofeed.Parser
	client  *http.Client
	timeout time.Duration
}

func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	client := &http.Client{Timeout: timeout}
	parser := gofeed.NewParser()
	parser.Client = client
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &Fetcher{
		parser:  parser,
		client:  client,
		timeout: timeout,
	}
}

// FetchFeed parses feedURL and returns one record per item with a link.
// category is copied onto every record.
func (f *Fetcher) FetchFeed(ctx context.Context, feedURL, category string) ([]FetchedRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return Records(feed, category), nil
}

// Records converts parsed feed items. Items without a link are skipped.
func Records(feed *gofeed.Feed, category string) []FetchedRecord {
	var out []FetchedRecord
	for _, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}

		thumbnail := mediaThumbnail(item)
		rec := content.Record{
			SourceURL:       link,
			Title:           strings.TrimSpace(item.Title),
			Keywords:        content.NormalizeKeywords(item.Categories),
			ImageCandidates: itemCandidates(item, thumbnail),
			LegacyThumbnail: thumbnail,
			Category:        category,
		}

		fr := FetchedRecord{Record: rec}
		if item.PublishedParsed != nil {
			fr.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			fr.PublishedAt = *item.UpdatedParsed
		} else {
			fr.PublishedAt = time.Now()
		}

		out = append(out, fr)
	}
	return out
}

// itemCandidates gathers media:content, image enclosures and the item image,
// in that order, without duplicates. The thumbnail is left to the legacy
// thumbnail field.
func itemCandidates(item *gofeed.Item, thumbnail string) []content.ImageCandidate {
	var candidates []content.ImageCandidate
	seen := map[string]bool{thumbnail: true, "": true}
	add := func(c content.ImageCandidate) {
		c.URL = strings.TrimSpace(c.URL)
		if c.URL == "" || seen[c.URL] {
			return
		}
		seen[c.URL] = true
		c.Provenance = content.PrimarySource
		candidates = append(candidates, c)
	}

	for _, m := range mediaContents(item) {
		if !isImageMedia(m) {
			continue
		}
		add(content.ImageCandidate{
			URL:              m.Attrs["url"],
			AltText:          childValue(m, "title"),
			Caption:          childValue(m, "description"),
			ExplicitKeywords: splitKeywords(childValue(m, "keywords")),
			Width:            atoi(m.Attrs["width"]),
			Height:           atoi(m.Attrs["height"]),
		})
	}

	for _, enc := range item.Enclosures {
		if enc == nil || !strings.HasPrefix(enc.Type, "image/") {
			continue
		}
		add(content.ImageCandidate{URL: enc.URL})
	}

	if item.Image != nil {
		add(content.ImageCandidate{URL: item.Image.URL, AltText: item.Image.Title})
	}

	return candidates
}

func mediaContents(item *gofeed.Item) []ext.Extension {
	media, ok := item.Extensions["media"]
	if !ok {
		return nil
	}
	contents := append([]ext.Extension{}, media["content"]...)
	for _, group := range media["group"] {
		contents = append(contents, group.Children["content"]...)
	}
	return contents
}

func mediaThumbnail(item *gofeed.Item) string {
	media, ok := item.Extensions["media"]
	if !ok {
		return ""
	}
	for _, thumb := range media["thumbnail"] {
		if u := strings.TrimSpace(thumb.Attrs["url"]); u != "" {
			return u
		}
	}
	return ""
}

func isImageMedia(m ext.Extension) bool {
	if medium := m.Attrs["medium"]; medium != "" {
		return medium == "image"
	}
	if t := m.Attrs["type"]; t != "" {
		return strings.HasPrefix(t, "image/")
	}
	return true
}

func childValue(m ext.Extension, name string) string {
	for _, c := range m.Children[name] {
		if v := strings.TrimSpace(c.Value); v != "" {
			return v
		}
	}
	return ""
}

func splitKeywords(s string) content.Keywords {
	if s == "" {
		return nil
	}
	return content.NormalizeKeywords(strings.Split(s, ","))
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
