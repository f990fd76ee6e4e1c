package core

import (
	"sort"
	"strings"
)

// MenuView is the language-selected projection served to diners and fed
// to the assistant. Pairings always use canonical dish and wine names.
type MenuView struct {
	RestaurantName     string    `json:"restaurant_name"`
	Lang               string    `json:"lang"`
	AvailableLanguages []string  `json:"available_languages"`
	Currency           *string   `json:"currency"`
	Sections           []Section `json:"sections"`
	Wines              []Wine    `json:"wines"`
	Pairings           []Pairing `json:"pairings"`
}

// SelectLanguage builds the view for lang. An unknown or empty lang serves
// the canonical language.
func SelectLanguage(doc *Document, lang string) MenuView {
	lang = strings.ToLower(strings.TrimSpace(lang))

	view := MenuView{
		RestaurantName:     doc.RestaurantName,
		Lang:               doc.Language,
		AvailableLanguages: AvailableLanguages(doc),
		Currency:           doc.Currency,
		Sections:           doc.Sections,
		Wines:              doc.Wines,
		Pairings:           ExposedPairings(doc.Pairings),
	}

	if t, ok := doc.Translations[lang]; ok && lang != doc.Language {
		view.Lang = lang
		view.Sections = t.Sections
		view.Wines = t.Wines
	}

	return view
}

// AvailableLanguages is the sorted, de-duplicated union of the canonical
// language and every translation key.
func AvailableLanguages(doc *Document) []string {
	set := make(map[string]bool, len(doc.Translations)+1)
	if doc.Language != "" {
		set[doc.Language] = true
	}
	for lang := range doc.Translations {
		set[lang] = true
	}

	out := make([]string, 0, len(set))
	for lang := range set {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
