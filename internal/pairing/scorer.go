package pairing

import (
	"math"

	"serveur/internal/core"
)

// PriceBonus favours cheaper wines: <=9 +5, <=14 +3, above +1, unknown 0.
func PriceBonus(price *float64) int {
	if price == nil || math.IsNaN(*price) || math.IsInf(*price, 0) {
		return 0
	}
	switch p := *price; {
	case p <= 9:
		return 5
	case p <= 14:
		return 3
	default:
		return 1
	}
}

// BaseWeight is the weight of style in prefs, 0 when absent.
func BaseWeight(style core.WineType, prefs []StyleWeight) int {
	for _, p := range prefs {
		if p.Style == style {
			return p.Weight
		}
	}
	return 0
}

// Score returns the wine's affinity and the base weight it was built on.
func Score(wine core.Wine, prefs []StyleWeight) (score, base int) {
	base = BaseWeight(core.NormalizeWineType(string(wine.Type)), prefs)
	return base + PriceBonus(wine.Price), base
}
