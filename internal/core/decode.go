package core

import (
	"math"
	"strings"
)

// DecodeDocument coerces an untyped extraction result into a Document.
// Missing scalars become nil, missing arrays become empty, unknown wine
// types become "other". Nothing untyped survives past this point.
func DecodeDocument(raw map[string]any) *Document {
	doc := &Document{
		RestaurantName: strings.TrimSpace(asString(raw["restaurant_name"])),
		Language:       strings.ToLower(strings.TrimSpace(asString(raw["language"]))),
		Currency:       asStringPtr(raw["currency"]),
		Sections:       DecodeSections(raw["sections"]),
		Wines:          DecodeWines(raw["wines"]),
		Pairings:       []Pairing{},
	}

	if tr, ok := raw["translations"].(map[string]any); ok && len(tr) > 0 {
		doc.Translations = make(map[string]Translation, len(tr))
		for lang, v := range tr {
			body, ok := v.(map[string]any)
			if !ok {
				continue
			}
			code := strings.ToLower(strings.TrimSpace(lang))
			if code == "" {
				continue
			}
			doc.Translations[code] = Translation{
				Sections: DecodeSections(body["sections"]),
				Wines:    DecodeWines(body["wines"]),
			}
		}
	}

	return doc
}

func DecodeSections(v any) []Section {
	list, _ := v.([]any)
	out := make([]Section, 0, len(list))
	for _, s := range list {
		m, ok := s.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, DecodeSection(m))
	}
	return out
}

func DecodeSection(m map[string]any) Section {
	list, _ := m["items"].([]any)
	items := make([]Item, 0, len(list))
	for _, it := range list {
		im, ok := it.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, Item{
			Name:          strings.TrimSpace(asString(im["name"])),
			MarketingName: asStringPtr(im["marketing_name"]),
			Description:   asStringPtr(im["description"]),
			Price:         asFloatPtr(im["price"]),
			Tags:          NormalizeTags(asStrings(im["tags"])),
		})
	}
	return Section{
		Title: strings.TrimSpace(asString(m["title"])),
		Items: items,
	}
}

func DecodeWines(v any) []Wine {
	list, _ := v.([]any)
	out := make([]Wine, 0, len(list))
	for _, w := range list {
		m, ok := w.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Wine{
			Name:   strings.TrimSpace(asString(m["name"])),
			Type:   NormalizeWineType(asString(m["type"])),
			Region: asStringPtr(m["region"]),
			Grape:  asStringPtr(m["grape"]),
			Price:  asFloatPtr(m["price"]),
		})
	}
	return out
}

// NormalizeTags lowercases and trims tags, dropping blanks and duplicates
// while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringPtr(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	return &s
}

// asFloatPtr accepts JSON numbers only. Strings are treated as missing.
func asFloatPtr(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func asStrings(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, x := range list {
		if s, ok := x.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
