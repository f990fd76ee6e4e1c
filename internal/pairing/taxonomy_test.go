package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"serveur/internal/core"
)

func TestPreferredStyles_SingleRule(t *testing.T) {
	assert.Equal(t, []StyleWeight{{core.WineRed, 90}}, PreferredStyles([]string{"beef"}))
}

func TestPreferredStyles_MaxWeightAcrossRules(t *testing.T) {
	// fish gives white 85, creamy gives white 75, spicy gives white 60
	got := PreferredStyles([]string{"fish", "creamy", "spicy"})

	assert.Equal(t, []StyleWeight{
		{core.WineWhite, 85},
		{core.WineRose, 75},
		{core.WineSparkling, 55},
	}, got)
}

func TestPreferredStyles_TiesFollowEnumerationOrder(t *testing.T) {
	got := PreferredStyles([]string{"vegan"})

	assert.Equal(t, []StyleWeight{
		{core.WineWhite, 55},
		{core.WineRose, 55},
		{core.WineSparkling, 40},
	}, got)
}

func TestPreferredStyles_CaseAndWhitespace(t *testing.T) {
	assert.Equal(t, PreferredStyles([]string{"dessert"}), PreferredStyles([]string{"  DESSERT ", "", "   "}))
}

func TestPreferredStyles_Fallback(t *testing.T) {
	want := []StyleWeight{{core.WineWhite, 50}, {core.WineRed, 45}}

	assert.Equal(t, want, PreferredStyles(nil))
	assert.Equal(t, want, PreferredStyles([]string{"unknown-tag"}))
}

func TestTagKey_OrderInsensitive(t *testing.T) {
	assert.Equal(t, tagKey([]string{"Beef", "grilled"}), tagKey([]string{"grilled ", "beef", "beef"}))
	assert.Equal(t, "", tagKey(nil))
}
