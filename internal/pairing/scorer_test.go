package pairing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"serveur/internal/core"
)

func price(p float64) *float64 { return &p }

func TestPriceBonus(t *testing.T) {
	cases := []struct {
		price *float64
		want  int
	}{
		{nil, 0},
		{price(math.NaN()), 0},
		{price(0), 5},
		{price(9), 5},
		{price(9.01), 3},
		{price(14), 3},
		{price(14.5), 1},
		{price(120), 1},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, PriceBonus(c.price))
	}
}

func TestScore(t *testing.T) {
	prefs := PreferredStyles([]string{"beef"})

	score, base := Score(core.Wine{Name: "Malbec", Type: core.WineRed, Price: price(8)}, prefs)
	assert.Equal(t, 95, score)
	assert.Equal(t, 90, base)

	score, base = Score(core.Wine{Name: "Chablis", Type: core.WineWhite, Price: price(8)}, prefs)
	assert.Equal(t, 5, score)
	assert.Equal(t, 0, base)
}

func TestScore_UnknownTypeCountsAsOther(t *testing.T) {
	prefs := PreferredStyles(nil)

	score, base := Score(core.Wine{Name: "Mystery", Type: core.WineType("orange"), Price: price(20)}, prefs)
	assert.Equal(t, 1, score)
	assert.Equal(t, 0, base)
}
