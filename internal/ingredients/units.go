package ingredients

import "sort"

// unitVocabulary lists the recognised unit tokens per locale group. Tokens are
// lowercase and carry no trailing punctuation. New locales are added here.
var unitVocabulary = map[string][]string{
	"metric": {
		"ml", "cl", "dl", "l", "liter", "liters", "litre", "litres",
		"mg", "g", "gram", "grams", "kg", "kilo", "kilogram", "kilograms",
	},
	"imperial": {
		"tsp", "teaspoon", "teaspoons", "tbsp", "tbs", "tablespoon", "tablespoons",
		"cup", "cups", "oz", "ounce", "ounces", "lb", "lbs", "pound", "pounds",
		"pint", "pints", "quart", "quarts", "gallon", "gallons", "floz",
	},
	"swedish": {
		"msk", "tsk", "krm", "st", "port", "portioner",
		"paket", "förp", "burk", "burkar", "påse", "påsar",
		"klyfta", "klyftor", "knippe", "knippen", "nypa", "skivor", "skiva",
	},
	"count": {
		"clove", "cloves", "piece", "pieces", "bunch", "bunches",
		"handful", "handfuls", "pinch", "pinches", "dash", "dashes",
		"slice", "slices", "can", "cans", "jar", "jars", "package", "packages",
		"sprig", "sprigs", "stalk", "stalks", "head", "heads", "stick", "sticks",
		"small", "medium", "large",
	},
}

var units = buildUnitSet(unitVocabulary)

func buildUnitSet(vocabulary map[string][]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tokens := range vocabulary {
		for _, token := range tokens {
			set[token] = struct{}{}
		}
	}
	return set
}

// IsUnit reports whether token, already lowercased and stripped, is a
// recognised unit.
func IsUnit(token string) bool {
	_, ok := units[token]
	return ok
}

// Units returns the full recognised vocabulary in sorted order.
func Units() []string {
	list := make([]string, 0, len(units))
	for unit := range units {
		list = append(list, unit)
	}
	sort.Strings(list)
	return list
}
