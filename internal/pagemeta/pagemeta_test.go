package pagemeta

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/julienpequegnot/imagepick/internal/content"
)

const testPage = `<html>
<head>
  <meta property="og:image" content="/images/og-mars.jpg">
  <meta name="twitter:image" content="https://cdn.example.com/twitter-mars.jpg">
</head>
<body>
  <figure>
    <img src="/images/mars-rover.jpg" alt="Mars rover" width="1200" height="800px">
    <figcaption> The rover after landing </figcaption>
  </figure>
  <img src="data:image/gif;base64,R0lGODlhAQABAAAAACw=" alt="spacer">
  <img data-src="https://cdn.example.com/lazy.jpg">
  <img src="/images/mars-rover.jpg" alt="duplicate">
  <img alt="no source">
</body>
</html>`

func TestExtract(t *testing.T) {
	base, _ := url.Parse("https://news.example.com/2026/mars")

	meta, err := Extract(strings.NewReader(testPage), base)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if meta.OGImage != "https://news.example.com/images/og-mars.jpg" {
		t.Errorf("unexpected og image %q", meta.OGImage)
	}
	if meta.TwitterImage != "https://cdn.example.com/twitter-mars.jpg" {
		t.Errorf("unexpected twitter image %q", meta.TwitterImage)
	}

	if len(meta.Images) != 2 {
		t.Fatalf("expected 2 images, got %+v", meta.Images)
	}

	first := meta.Images[0]
	if first.URL != "https://news.example.com/images/mars-rover.jpg" {
		t.Errorf("unexpected url %q", first.URL)
	}
	if first.AltText != "Mars rover" || first.Caption != "The rover after landing" {
		t.Errorf("unexpected alt/caption %+v", first)
	}
	if first.Width != 1200 || first.Height != 800 {
		t.Errorf("unexpected dimensions %dx%d", first.Width, first.Height)
	}
	if first.Provenance != content.PageMetadata {
		t.Errorf("expected page metadata provenance, got %s", first.Provenance)
	}
	if meta.Images[1].URL != "https://cdn.example.com/lazy.jpg" {
		t.Errorf("expected lazy image, got %q", meta.Images[1].URL)
	}
}

func TestExtractTwitterSrcFallback(t *testing.T) {
	page := `<html><head><meta name="twitter:image:src" content="https://cdn.example.com/t.jpg"></head></html>`
	meta, err := Extract(strings.NewReader(page), nil)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if meta.TwitterImage != "https://cdn.example.com/t.jpg" {
		t.Errorf("unexpected twitter image %q", meta.TwitterImage)
	}
	if meta.OGImage != "" || len(meta.Images) != 0 {
		t.Errorf("expected nothing else, got %+v", meta)
	}
}

func TestFetchMeta(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, testPage)
	}))
	defer server.Close()

	f := NewFetcher(nil, "imagepick-test")
	meta, err := f.FetchMeta(context.Background(), server.URL+"/story")
	if err != nil {
		t.Fatalf("fetch meta: %v", err)
	}
	if gotUA != "imagepick-test" {
		t.Errorf("expected user agent, got %q", gotUA)
	}
	if meta.OGImage != server.URL+"/images/og-mars.jpg" {
		t.Errorf("unexpected og image %q", meta.OGImage)
	}
}

func TestFetchMetaHTTPError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	f := NewFetcher(nil, "")
	if _, err := f.FetchMeta(context.Background(), server.URL); err == nil {
		t.Error("expected error for 404 page")
	}
}
