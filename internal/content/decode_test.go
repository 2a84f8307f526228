package content

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeKeywordsStringOrList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single string", `{"keywords": "mars rover"}`, []string{"mars rover"}},
		{"list", `{"keywords": ["mars", " rover ", ""]}`, []string{"mars", "rover"}},
		{"null", `{"keywords": null}`, nil},
		{"mixed scalars", `{"keywords": ["ai", 2024, true]}`, []string{"ai", "2024", "true"}},
		{"missing", `{"title": "x"}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Decode([]byte(tt.in))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if strings.Join(rec.Keywords, "|") != strings.Join(tt.want, "|") {
				t.Errorf("expected keywords %v, got %v", tt.want, rec.Keywords)
			}
		})
	}
}

func TestDecodeSkipsMalformedCandidates(t *testing.T) {
	in := `{
		"sourceUrl": "https://x/article",
		"imageCandidates": [null, {"url": null}, "junk", {"alt": "no url"}, {"url": "https://x/valid.jpg", "width": "640", "height": 480}]
	}`

	rec, err := Decode([]byte(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(rec.ImageCandidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(rec.ImageCandidates))
	}
	c := rec.ImageCandidates[0]
	if c.URL != "https://x/valid.jpg" {
		t.Errorf("unexpected url %q", c.URL)
	}
	if c.Width != 640 || c.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", c.Width, c.Height)
	}
}

func TestDecodeToleratesMistypedFields(t *testing.T) {
	in := `{
		"sourceUrl": "https://x/article",
		"title": 42,
		"keywords": {"mars": true},
		"fallbackImages": "https://x/og.jpg",
		"legacyThumbnail": ["https://x/thumb.jpg"],
		"category": 7,
		"imageCandidates": [
			{"url": "https://x/keep.jpg", "altText": 5, "caption": ["c"], "explicitKeywords": {"k": 1}, "width": true}
		]
	}`

	rec, err := Decode([]byte(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if rec.SourceURL != "https://x/article" {
		t.Errorf("expected source url kept, got %q", rec.SourceURL)
	}
	if rec.Title != "" || rec.Category != "" || rec.LegacyThumbnail != "" {
		t.Errorf("expected mistyped strings to be empty, got %+v", rec)
	}
	if rec.Keywords != nil {
		t.Errorf("expected object keywords to be dropped, got %v", rec.Keywords)
	}
	if rec.FallbackImages != (FallbackImages{}) {
		t.Errorf("expected empty fallback images, got %+v", rec.FallbackImages)
	}

	if len(rec.ImageCandidates) != 1 {
		t.Fatalf("expected candidate with a string url to survive, got %d", len(rec.ImageCandidates))
	}
	c := rec.ImageCandidates[0]
	if c.URL != "https://x/keep.jpg" || c.AltText != "" || c.Caption != "" || c.ExplicitKeywords != nil || c.Width != 0 {
		t.Errorf("unexpected candidate %+v", c)
	}
}

func TestDecodeNonArrayCandidates(t *testing.T) {
	for _, raw := range []string{
		`{"imageCandidates": {"url": "https://x/a.jpg"}}`,
		`{"imageCandidates": "https://x/a.jpg"}`,
		`{"imageCandidates": 3}`,
	} {
		rec, err := Decode([]byte(raw))
		if err != nil {
			t.Errorf("Decode(%s): unexpected error %v", raw, err)
			continue
		}
		if len(rec.ImageCandidates) != 0 {
			t.Errorf("Decode(%s): expected no candidates, got %d", raw, len(rec.ImageCandidates))
		}
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	in := `{"sourceUrl": "https://x/a", "title": "Hello", "somethingElse": {"deep": [1,2,3]}}`

	rec, err := Decode([]byte(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Title != "Hello" {
		t.Errorf("expected title Hello, got %q", rec.Title)
	}
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	for _, in := range []string{"", "null", "42", `"text"`, "[1,2]"} {
		if _, err := Decode([]byte(in)); !errors.Is(err, ErrNotRecord) {
			t.Errorf("Decode(%q): expected ErrNotRecord, got %v", in, err)
		}
	}
}

func TestDecodeAll(t *testing.T) {
	records, err := DecodeAll([]byte(`[{"sourceUrl": "https://x/1"}, {"sourceUrl": "https://x/2"}]`))
	if err != nil {
		t.Fatalf("decode all: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	single, err := DecodeAll([]byte(`{"sourceUrl": "https://x/1"}`))
	if err != nil {
		t.Fatalf("decode single: %v", err)
	}
	if len(single) != 1 {
		t.Errorf("expected 1 record, got %d", len(single))
	}

	if _, err := DecodeAll([]byte(`[{"sourceUrl": "https://x/1"}, 7]`)); err == nil {
		t.Error("expected error for non-object element")
	}
}

func TestCacheKey(t *testing.T) {
	withURL := Record{SourceURL: " https://x/a ", Title: "A"}
	if got := CacheKey(withURL); got != "https://x/a" {
		t.Errorf("expected source url key, got %q", got)
	}

	a := Record{Title: "Article", Keywords: Keywords{"one", "two"}}
	b := Record{Title: "Article", Keywords: Keywords{"one", "two"}}
	c := Record{Title: "Article", Keywords: Keywords{"two", "one"}}

	if CacheKey(a) != CacheKey(b) {
		t.Error("expected identical records to share a fingerprint")
	}
	if CacheKey(a) == CacheKey(c) {
		t.Error("expected different records to have different fingerprints")
	}
	if !strings.HasPrefix(CacheKey(a), "sha256:") {
		t.Errorf("unexpected fingerprint %q", CacheKey(a))
	}
}

func TestReasonIsFallback(t *testing.T) {
	if ReasonScoredMatch.IsFallback() || ReasonInvalidInput.IsFallback() {
		t.Error("expected non-fallback reasons")
	}
	if !ReasonFallbackPlaceholder.IsFallback() || !ReasonFallbackOgImage.IsFallback() {
		t.Error("expected fallback reasons")
	}
}
