package selector

import "strings"

const defaultPlaceholder = "https://placehold.co/1200x630/334155/f8fafc?text=Preview"

// Placeholders maps a content category to a stand-in image URL.
type Placeholders struct {
	Default    string
	Categories map[string]string
}

func DefaultPlaceholders() Placeholders {
	return Placeholders{
		Default: defaultPlaceholder,
		Categories: map[string]string{
			"news":     "https://placehold.co/1200x630/1e3a8a/f8fafc?text=News",
			"videos":   "https://placehold.co/1200x630/7f1d1d/f8fafc?text=Video",
			"products": "https://placehold.co/1200x630/14532d/f8fafc?text=Product",
			"tweets":   "https://placehold.co/1200x630/0c4a6e/f8fafc?text=Tweet",
			"memes":    "https://placehold.co/1200x630/713f12/f8fafc?text=Meme",
			"tools":    "https://placehold.co/1200x630/4c1d95/f8fafc?text=Tool",
		},
	}
}

// For returns the placeholder for category, falling back to the default entry
// for unknown or empty categories.
func (p Placeholders) For(category string) string {
	key := strings.ToLower(strings.TrimSpace(category))
	if url, ok := p.Categories[key]; ok && url != "" {
		return url
	}
	if p.Default != "" {
		return p.Default
	}
	return defaultPlaceholder
}
