// Package classify defines the color-type classification contract and ships
// a deterministic placeholder engine.
//
// The five categories and the three-tier palette shape are stable: any
// replacement engine must produce exactly these values.
package classify

import "fmt"

// Category is a seasonal color-type grouping.
type Category string

const (
	SpringWarm Category = "SPRING_WARM"
	SummerCool Category = "SUMMER_COOL"
	AutumnWarm Category = "AUTUMN_WARM"
	WinterCool Category = "WINTER_COOL"
	Neutral    Category = "NEUTRAL"
)

var categories = []Category{SpringWarm, SummerCool, AutumnWarm, WinterCool, Neutral}

// Categories returns the five categories in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

type categoryInfo struct {
	display     string
	tone        string
	description string
}

var info = map[Category]categoryInfo{
	SpringWarm: {
		display:     "Spring Warm",
		tone:        "bright and warm",
		description: "A bright, radiant warm tone that suits lively colors. Coral, peach, and light gold shades are recommended.",
	},
	SummerCool: {
		display:     "Summer Cool",
		tone:        "soft and cool",
		description: "A soft, elegant cool tone that suits pastels and silver. Lavender, rose, and mint shades are recommended.",
	},
	AutumnWarm: {
		display:     "Autumn Warm",
		tone:        "deep and warm",
		description: "A deep, warm tone that suits earth colors. Brown, orange, and deep gold shades are recommended.",
	},
	WinterCool: {
		display:     "Winter Cool",
		tone:        "vivid and cool",
		description: "A vivid, intense cool tone that suits high-contrast colors. Navy, red, and silver shades are recommended.",
	},
	Neutral: {
		display:     "Neutral",
		tone:        "between warm and cool",
		description: "A neutral tone with both warm and cool traits that can carry a wide range of colors.",
	},
}

// Valid reports whether c is one of the five categories.
func (c Category) Valid() bool {
	_, ok := info[c]
	return ok
}

// DisplayName returns the human-readable name, or the raw value for unknown categories.
func (c Category) DisplayName() string {
	if i, ok := info[c]; ok {
		return i.display
	}
	return string(c)
}

// Tone returns a short phrase describing the category's temperature.
func (c Category) Tone() string {
	return info[c].tone
}

// Description returns the standard explanation for the category.
func (c Category) Description() string {
	return info[c].description
}

// ParseCategory converts s to a Category, rejecting unknown values.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
