package content

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotRecord is returned when the input is not a JSON object.
var ErrNotRecord = errors.New("content record must be a JSON object")

// Keywords is a list of keyword strings. In JSON it accepts either a single
// string or an array of strings.
type Keywords []string

func (k *Keywords) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*k = nil
		return nil
	}

	if data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*k = NormalizeKeywords([]string{single})
		return nil
	}

	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("keywords: %w", err)
	}

	raw := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			raw = append(raw, v)
		case float64:
			raw = append(raw, strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			raw = append(raw, strconv.FormatBool(v))
		}
	}
	*k = NormalizeKeywords(raw)
	return nil
}

// NormalizeKeywords trims every entry and drops the blank ones.
func NormalizeKeywords(raw []string) Keywords {
	out := make(Keywords, 0, len(raw))
	for _, kw := range raw {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			out = append(out, kw)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// UnmarshalJSON keeps whatever fields have a usable type. A field of the
// wrong type is left empty instead of failing the candidate.
func (c *ImageCandidate) UnmarshalJSON(data []byte) error {
	var fields map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*c = ImageCandidate{
		URL:              strings.TrimSpace(stringField(fields["url"])),
		AltText:          stringField(fields["altText"]),
		Caption:          stringField(fields["caption"]),
		ExplicitKeywords: keywordsField(fields["explicitKeywords"]),
		Width:            dimension(anyField(fields["width"])),
		Height:           dimension(anyField(fields["height"])),
		Provenance:       Provenance(stringField(fields["provenance"])),
	}
	return nil
}

func dimension(v any) int {
	switch d := v.(type) {
	case float64:
		if d > 0 && d <= maxDimension {
			return int(d)
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(d), "px"))
		if err == nil && n > 0 && n <= maxDimension {
			return n
		}
	}
	return 0
}

// maxDimension bounds a decoded width or height; larger values are treated
// as unknown.
const maxDimension = 1 << 30

// UnmarshalJSON decodes each field on its own so a mistyped optional field
// reads as absent rather than rejecting the record.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = Record{
		SourceURL:       stringField(fields["sourceUrl"]),
		Title:           stringField(fields["title"]),
		Keywords:        keywordsField(fields["keywords"]),
		ImageCandidates: decodeCandidates(fields["imageCandidates"]),
		FallbackImages:  fallbackField(fields["fallbackImages"]),
		LegacyThumbnail: stringField(fields["legacyThumbnail"]),
		Category:        stringField(fields["category"]),
	}
	return nil
}

func anyField(raw jsoniter.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// stringField returns the raw value when it is a JSON string, else "".
func stringField(raw jsoniter.RawMessage) string {
	s, _ := anyField(raw).(string)
	return s
}

func keywordsField(raw jsoniter.RawMessage) Keywords {
	if len(raw) == 0 {
		return nil
	}
	var k Keywords
	if err := json.Unmarshal(raw, &k); err != nil {
		return nil
	}
	return k
}

func fallbackField(raw jsoniter.RawMessage) FallbackImages {
	var fields map[string]jsoniter.RawMessage
	if !isObject(raw) || json.Unmarshal(raw, &fields) != nil {
		return FallbackImages{}
	}
	return FallbackImages{
		Primary:   stringField(fields["primary"]),
		Secondary: stringField(fields["secondary"]),
	}
}

func isObject(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// decodeCandidates keeps the entries that decode to a candidate with a URL.
// Anything other than a JSON array yields no candidates.
func decodeCandidates(raw jsoniter.RawMessage) []ImageCandidate {
	var items []jsoniter.RawMessage
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' || json.Unmarshal(trimmed, &items) != nil {
		return nil
	}

	var out []ImageCandidate
	for _, msg := range items {
		if !isObject(msg) {
			continue
		}
		var c ImageCandidate
		if err := json.Unmarshal(msg, &c); err != nil {
			continue
		}
		if c.URL == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Decode parses a single record. Anything other than a JSON object yields
// ErrNotRecord.
func Decode(data []byte) (*Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotRecord
	}

	var rec Record
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}

// DecodeAll parses either a JSON array of records or a single record object.
func DecodeAll(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raw []jsoniter.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		records := make([]Record, 0, len(raw))
		for i, msg := range raw {
			rec, err := Decode(msg)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			records = append(records, *rec)
		}
		return records, nil
	}

	rec, err := Decode(trimmed)
	if err != nil {
		return nil, err
	}
	return []Record{*rec}, nil
}

// Fingerprint is a stable hash of the record's canonical JSON encoding.
func Fingerprint(r Record) string {
	data, err := json.Marshal(r)
	if err != nil {
		data = []byte(fmt.Sprintf("%#v", r))
	}
	sum := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(sum[:])
}

// CacheKey identifies the record in the selection cache: its source URL when
// present, otherwise its fingerprint.
func CacheKey(r Record) string {
	if u := strings.TrimSpace(r.SourceURL); u != "" {
		return u
	}
	return Fingerprint(r)
}
