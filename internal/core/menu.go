package core

import "strings"

// WineType is both a wine's declared type and a pairing style.
type WineType string

const (
	WineRed       WineType = "red"
	WineWhite     WineType = "white"
	WineRose      WineType = "rose"
	WineSparkling WineType = "sparkling"
	WineDessert   WineType = "dessert"
	WineOther     WineType = "other"
)

// WineTypes is the fixed enumeration order. Ties between equally weighted
// styles are broken by this order.
var WineTypes = []WineType{
	WineRed,
	WineWhite,
	WineRose,
	WineSparkling,
	WineDessert,
	WineOther,
}

// Rank returns the position of t in WineTypes.
func (t WineType) Rank() int {
	for i, w := range WineTypes {
		if w == t {
			return i
		}
	}
	return len(WineTypes)
}

// NormalizeWineType maps free text onto the enumeration; anything
// unrecognized becomes WineOther.
func NormalizeWineType(s string) WineType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "rouge":
		return WineRed
	case "white", "blanc":
		return WineWhite
	case "rose", "rosé":
		return WineRose
	case "sparkling", "champagne":
		return WineSparkling
	case "dessert", "sweet":
		return WineDessert
	default:
		return WineOther
	}
}

// --------------------------------------------------
// MENU DOCUMENT (persisted as one JSON blob)
// --------------------------------------------------

type Document struct {
	RestaurantName string                 `json:"restaurant_name" validate:"required"`
	Language       string                 `json:"language" validate:"required"`
	Currency       *string                `json:"currency"`
	Sections       []Section              `json:"sections" validate:"dive"`
	Wines          []Wine                 `json:"wines" validate:"dive"`
	Translations   map[string]Translation `json:"translations,omitempty"`
	Pairings       []Pairing              `json:"pairings" validate:"dive"`
}

// Translation holds one language's copy of the canonical sections and wines.
// Arrays are positionally aligned with the canonical ones.
type Translation struct {
	Sections []Section `json:"sections"`
	Wines    []Wine    `json:"wines"`
}

type Section struct {
	Title string `json:"title"`
	Items []Item `json:"items" validate:"dive"`
}

type Item struct {
	Name          string   `json:"name"`
	MarketingName *string  `json:"marketing_name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	Tags          []string `json:"tags"`
}

type Wine struct {
	Name   string   `json:"name"`
	Type   WineType `json:"type" validate:"oneof=red white rose sparkling dessert other"`
	Region *string  `json:"region"`
	Grape  *string  `json:"grape"`
	Price  *float64 `json:"price"`
}

// Pairing addresses a dish by (SectionIndex, ItemIndex) in the canonical
// sections. A nil WineName is never exposed to clients.
type Pairing struct {
	SectionIndex int     `json:"section_index" validate:"min=0"`
	ItemIndex    int     `json:"item_index" validate:"min=0"`
	DishName     string  `json:"dish_name" validate:"required"`
	WineName     *string `json:"wine_name"`
	Reason       *string `json:"reason"`
	Confidence   float64 `json:"confidence" validate:"min=0,max=1"`
}

// Canonical returns the source-language sections and wines.
func (d *Document) Canonical() Translation {
	return Translation{Sections: d.Sections, Wines: d.Wines}
}

// Aligned reports whether t has the same shape as the canonical arrays.
func (d *Document) Aligned(t Translation) bool {
	if len(t.Sections) != len(d.Sections) || len(t.Wines) != len(d.Wines) {
		return false
	}
	for i, s := range d.Sections {
		if len(t.Sections[i].Items) != len(s.Items) {
			return false
		}
	}
	return true
}

// ExposedPairings drops pairings without a wine.
func ExposedPairings(pairings []Pairing) []Pairing {
	out := make([]Pairing, 0, len(pairings))
	for _, p := range pairings {
		if p.WineName == nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Item returns the canonical item at a pairing's coordinates.
func (d *Document) Item(sectionIndex, itemIndex int) (Item, bool) {
	if sectionIndex < 0 || sectionIndex >= len(d.Sections) {
		return Item{}, false
	}
	items := d.Sections[sectionIndex].Items
	if itemIndex < 0 || itemIndex >= len(items) {
		return Item{}, false
	}
	return items[itemIndex], true
}

// WineByName returns the first canonical wine with the given name.
func (d *Document) WineByName(name string) (Wine, bool) {
	for _, w := range d.Wines {
		if w.Name == name {
			return w, true
		}
	}
	return Wine{}, false
}
