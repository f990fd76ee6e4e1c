package pairing

import (
	"math"
	"strings"

	"serveur/internal/core"
)

const DefaultMinConfidence = 0.55

type Engine struct {
	minConfidence float64
}

func NewEngine(minConfidence float64) *Engine {
	return &Engine{minConfidence: minConfidence}
}

// Build selects the best wine for every named dish and keeps the pairings
// whose confidence reaches the threshold. Reasons are left nil.
func (e *Engine) Build(sections []core.Section, wines []core.Wine) []core.Pairing {
	pairings := []core.Pairing{}
	if len(wines) == 0 {
		return pairings
	}

	cache := make(map[string][]StyleWeight)

	for si, section := range sections {
		for ii, item := range section.Items {
			if strings.TrimSpace(item.Name) == "" {
				continue
			}

			key := tagKey(item.Tags)
			prefs, ok := cache[key]
			if !ok {
				prefs = PreferredStyles(item.Tags)
				cache[key] = prefs
			}

			bestIdx, bestScore, bestBase := -1, -1, 0
			for wi, w := range wines {
				score, base := Score(w, prefs)
				// first occurrence wins ties
				if score > bestScore {
					bestIdx, bestScore, bestBase = wi, score, base
				}
			}
			if bestIdx < 0 {
				continue
			}

			confidence := Confidence(bestScore, bestBase, topWeight(prefs))
			if confidence < e.minConfidence {
				continue
			}

			name := wines[bestIdx].Name
			pairings = append(pairings, core.Pairing{
				SectionIndex: si,
				ItemIndex:    ii,
				DishName:     item.Name,
				WineName:     &name,
				Confidence:   confidence,
			})
		}
	}

	return pairings
}

// Confidence normalizes a score against the strongest preference:
// clamp(score / (max(base, top) + 5), 0, 1) rounded to two decimals.
func Confidence(bestScore, bestBase, top int) float64 {
	denom := bestBase
	if top > denom {
		denom = top
	}
	if denom <= 0 {
		return 0
	}

	raw := float64(bestScore) / float64(denom+5)
	switch {
	case raw < 0:
		return 0
	case raw > 1:
		return 1
	}
	return math.Round(raw*100) / 100
}

func topWeight(prefs []StyleWeight) int {
	top := 0
	for _, p := range prefs {
		if p.Weight > top {
			top = p.Weight
		}
	}
	return top
}
