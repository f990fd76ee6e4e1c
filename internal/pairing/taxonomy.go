// Package pairing recommends one wine per dish from the menu's own wine
// list. Scoring is deterministic; only the optional reason text comes from
// an external model.
package pairing

import (
	"sort"
	"strings"

	"serveur/internal/core"
)

// StyleWeight is the suitability (0..100) of a wine style for a dish.
type StyleWeight struct {
	Style  core.WineType `json:"style"`
	Weight int           `json:"weight"`
}

type rule struct {
	tags   []string
	styles []StyleWeight
}

var rules = []rule{
	// proteins
	{[]string{"beef", "steak", "lamb", "duck"}, []StyleWeight{{core.WineRed, 90}}},
	{[]string{"pork"}, []StyleWeight{{core.WineRed, 55}, {core.WineWhite, 45}}},
	{[]string{"fish", "seafood", "shellfish"}, []StyleWeight{{core.WineWhite, 85}, {core.WineSparkling, 55}}},
	{[]string{"chicken", "turkey"}, []StyleWeight{{core.WineWhite, 60}, {core.WineRed, 45}}},
	{[]string{"vegetarian", "vegan"}, []StyleWeight{{core.WineWhite, 55}, {core.WineRose, 55}, {core.WineSparkling, 40}}},

	// cooking styles
	{[]string{"spicy", "chili"}, []StyleWeight{{core.WineRose, 75}, {core.WineWhite, 60}}},
	{[]string{"creamy", "buttery"}, []StyleWeight{{core.WineWhite, 75}}},
	{[]string{"tomato"}, []StyleWeight{{core.WineRed, 65}}},
	{[]string{"fried", "crispy"}, []StyleWeight{{core.WineSparkling, 70}, {core.WineWhite, 55}}},
	{[]string{"grilled", "smoked"}, []StyleWeight{{core.WineRed, 60}}},

	// desserts
	{[]string{"dessert", "sweet"}, []StyleWeight{{core.WineDessert, 95}, {core.WineSparkling, 55}}},
}

// fallbackStyles apply when no rule matched.
var fallbackStyles = []StyleWeight{{core.WineWhite, 50}, {core.WineRed, 45}}

// PreferredStyles maps dish tags to wine styles. Each style appears once
// with the highest weight any matching rule gave it. Output is sorted by
// weight descending, then by core.WineTypes order.
func PreferredStyles(tags []string) []StyleWeight {
	set := tagSet(tags)

	best := make(map[core.WineType]int)
	matched := false
	for _, r := range rules {
		if !r.matches(set) {
			continue
		}
		matched = true
		for _, s := range r.styles {
			if s.Weight > best[s.Style] {
				best[s.Style] = s.Weight
			}
		}
	}

	if !matched {
		for _, s := range fallbackStyles {
			best[s.Style] = s.Weight
		}
	}

	out := make([]StyleWeight, 0, len(best))
	for style, weight := range best {
		out = append(out, StyleWeight{Style: style, Weight: weight})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Style.Rank() < out[j].Style.Rank()
	})

	return out
}

func (r rule) matches(set map[string]bool) bool {
	for _, t := range r.tags {
		if set[t] {
			return true
		}
	}
	return false
}

func tagSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			set[t] = true
		}
	}
	return set
}

// tagKey is the cache key for a tag set: normalized, sorted, joined.
func tagKey(tags []string) string {
	set := tagSet(tags)
	keys := make([]string, 0, len(set))
	for t := range set {
		keys = append(keys, t)
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}
