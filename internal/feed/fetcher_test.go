package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienpequegnot/imagepick/internal/content"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
  <title>Example News</title>
  <link>https://news.example.com</link>
  <item>
    <title>Mars rover lands safely</title>
    <link>https://news.example.com/mars-rover</link>
    <pubDate>Sun, 01 Mar 2026 12:00:00 GMT</pubDate>
    <category>Space</category>
    <category>Mars</category>
    <media:content url="https://cdn.example.com/mars-rover.jpg" medium="image" width="1200" height="800">
      <media:title>Rover on the red planet</media:title>
      <media:description>The rover after landing</media:description>
      <media:keywords>rover, landing</media:keywords>
    </media:content>
    <media:content url="https://cdn.example.com/clip.mp4" medium="video"/>
    <media:thumbnail url="https://cdn.example.com/mars-thumb.jpg"/>
    <enclosure url="https://cdn.example.com/mars-wide.png" type="image/png" length="1024"/>
  </item>
  <item>
    <title>No link here</title>
  </item>
  <item>
    <title>Plain story</title>
    <link>https://news.example.com/plain</link>
    <enclosure url="https://cdn.example.com/podcast.mp3" type="audio/mpeg" length="2048"/>
  </item>
</channel>
</rss>`

func TestFetchFeed(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, testRSS)
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, "imagepick-test")
	records, err := f.FetchFeed(context.Background(), server.URL, "news")
	if err != nil {
		t.Fatalf("failed to fetch feed: %v", err)
	}

	if gotUA != "imagepick-test" {
		t.Errorf("expected user agent to be sent, got %q", gotUA)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	rec := records[0].Record
	if rec.SourceURL != "https://news.example.com/mars-rover" || rec.Category != "news" {
		t.Errorf("unexpected record %+v", rec)
	}
	if len(rec.Keywords) != 2 || rec.Keywords[0] != "Space" {
		t.Errorf("expected categories as keywords, got %v", rec.Keywords)
	}
	if rec.LegacyThumbnail != "https://cdn.example.com/mars-thumb.jpg" {
		t.Errorf("expected media thumbnail, got %q", rec.LegacyThumbnail)
	}
	if records[0].PublishedAt.Year() != 2026 {
		t.Errorf("unexpected published time %v", records[0].PublishedAt)
	}

	if len(rec.ImageCandidates) != 2 {
		t.Fatalf("expected 2 image candidates, got %+v", rec.ImageCandidates)
	}
	first := rec.ImageCandidates[0]
	if first.URL != "https://cdn.example.com/mars-rover.jpg" || first.Width != 1200 || first.Height != 800 {
		t.Errorf("unexpected media candidate %+v", first)
	}
	if first.AltText != "Rover on the red planet" || first.Caption != "The rover after landing" {
		t.Errorf("expected media title and description, got %+v", first)
	}
	if len(first.ExplicitKeywords) != 2 || first.ExplicitKeywords[1] != "landing" {
		t.Errorf("unexpected media keywords %v", first.ExplicitKeywords)
	}
	if first.Provenance != content.PrimarySource {
		t.Errorf("expected primary source provenance, got %s", first.Provenance)
	}
	if rec.ImageCandidates[1].URL != "https://cdn.example.com/mars-wide.png" {
		t.Errorf("expected image enclosure, got %+v", rec.ImageCandidates[1])
	}

	plain := records[1].Record
	if len(plain.ImageCandidates) != 0 || plain.LegacyThumbnail != "" {
		t.Errorf("expected no images for plain story, got %+v", plain)
	}
}

func TestFetchFeedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	f := NewFetcher(5*time.Second, "")
	if _, err := f.FetchFeed(context.Background(), server.URL, ""); err == nil {
		t.Error("expected error for failing feed")
	}
}
