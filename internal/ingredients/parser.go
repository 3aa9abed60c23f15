// Package ingredients parses free-text recipe ingredient lines into a
// quantity, unit and name, and scales them for a different number of servings.
//
// Parsing is best effort: malformed lines never produce an error, they come
// back with a nil quantity and the whole text as the name.
package ingredients

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ParsedIngredient is the result of parsing one ingredient line.
type ParsedIngredient struct {
	Quantity *float64
	Unit     *string
	Name     string
	Original string
}

var vulgarFractions = map[rune]float64{
	'¼': 1.0 / 4,
	'½': 1.0 / 2,
	'¾': 3.0 / 4,
	'⅐': 1.0 / 7,
	'⅑': 1.0 / 9,
	'⅒': 1.0 / 10,
	'⅓': 1.0 / 3,
	'⅔': 2.0 / 3,
	'⅕': 1.0 / 5,
	'⅖': 2.0 / 5,
	'⅗': 3.0 / 5,
	'⅘': 4.0 / 5,
	'⅙': 1.0 / 6,
	'⅚': 5.0 / 6,
	'⅛': 1.0 / 8,
	'⅜': 3.0 / 8,
	'⅝': 5.0 / 8,
	'⅞': 7.0 / 8,
}

// fractionGlyphs maps a fractional part, rounded to hundredths, to its display glyph.
var fractionGlyphs = map[int]string{
	25: "¼",
	33: "⅓",
	50: "½",
	67: "⅔",
	75: "¾",
}

var (
	vulgarPattern   = regexp.MustCompile(`^(\d+)?\s*([¼½¾⅐⅑⅒⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞])`)
	mixedPattern    = regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)`)
	fractionPattern = regexp.MustCompile(`^(\d+)/(\d+)`)
	numberPattern   = regexp.MustCompile(`^\d+(?:[.,]\d+)?`)

	stepReferencePattern = regexp.MustCompile(`(?i)\s*\((?:steg|step)\s*\d+\)\s*$`)
	tillSuffixPattern    = regexp.MustCompile(`(?i)\s+till\s+\S+\s*$`)
)

// Parse splits an ingredient line into quantity, unit and name.
func Parse(text string) ParsedIngredient {
	parsed := ParsedIngredient{Original: text}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return parsed
	}

	quantity, rest, ok := parseQuantity(trimmed)
	if !ok {
		parsed.Name = trimmed
		return parsed
	}
	parsed.Quantity = &quantity

	unit, rest := parseUnit(strings.TrimSpace(rest))
	parsed.Unit = unit
	parsed.Name = stripPartitive(strings.TrimSpace(rest))
	return parsed
}

func parseQuantity(text string) (float64, string, bool) {
	if match := vulgarPattern.FindStringSubmatch(text); match != nil {
		glyph := []rune(match[2])[0]
		value := vulgarFractions[glyph]
		if match[1] != "" {
			whole, _ := strconv.Atoi(match[1])
			value += float64(whole)
		}
		return value, text[len(match[0]):], true
	}

	if match := mixedPattern.FindStringSubmatch(text); match != nil {
		whole, _ := strconv.Atoi(match[1])
		fraction, ok := divide(match[2], match[3])
		if !ok {
			return 0, text, false
		}
		return float64(whole) + fraction, text[len(match[0]):], true
	}

	if match := fractionPattern.FindStringSubmatch(text); match != nil {
		fraction, ok := divide(match[1], match[2])
		if !ok {
			return 0, text, false
		}
		return fraction, text[len(match[0]):], true
	}

	if match := numberPattern.FindString(text); match != "" {
		value, err := strconv.ParseFloat(strings.Replace(match, ",", ".", 1), 64)
		if err != nil {
			return 0, text, false
		}
		return value, text[len(match):], true
	}

	return 0, text, false
}

func divide(numerator, denominator string) (float64, bool) {
	top, err := strconv.Atoi(numerator)
	if err != nil {
		return 0, false
	}
	bottom, err := strconv.Atoi(denominator)
	if err != nil || bottom == 0 {
		return 0, false
	}
	return float64(top) / float64(bottom), true
}

func parseUnit(text string) (*string, string) {
	if text == "" {
		return nil, text
	}

	end := strings.IndexFunc(text, unicode.IsSpace)
	if end < 0 {
		end = len(text)
	}

	candidate := strings.ToLower(text[:end])
	if strings.HasSuffix(candidate, ".") || strings.HasSuffix(candidate, ",") {
		candidate = candidate[:len(candidate)-1]
	}

	if !IsUnit(candidate) {
		return nil, text
	}
	return &candidate, text[end:]
}

func stripPartitive(name string) string {
	if len(name) >= 3 && strings.EqualFold(name[:3], "of ") {
		return strings.TrimSpace(name[3:])
	}
	return name
}

// FormatQuantity renders a quantity for display. Common fractions are shown
// as vulgar fraction glyphs, other values with at most one decimal.
func FormatQuantity(value float64) string {
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return "0"
	}
	if value < 0 {
		return "-" + FormatQuantity(-value)
	}
	if value == math.Trunc(value) {
		return strconv.FormatFloat(value, 'f', 0, 64)
	}

	whole := math.Floor(value)
	hundredths := int(math.Round((value - whole) * 100))
	if glyph, ok := fractionGlyphs[hundredths]; ok {
		if whole > 0 {
			return strconv.FormatFloat(whole, 'f', 0, 64) + " " + glyph
		}
		return glyph
	}

	formatted := strconv.FormatFloat(math.Round(value*10)/10, 'f', 1, 64)
	return strings.TrimSuffix(formatted, ".0")
}

// Scale multiplies the quantity of an ingredient line and re-serialises it.
// Lines without a quantity, and any line at multiplier 1, are returned as is.
func Scale(line string, multiplier float64) string {
	if multiplier == 1 {
		return line
	}

	parsed := Parse(line)
	if parsed.Quantity == nil {
		return line
	}

	parts := []string{FormatQuantity(*parsed.Quantity * multiplier)}
	if parsed.Unit != nil {
		parts = append(parts, *parsed.Unit)
	}
	parts = append(parts, parsed.Name)
	return strings.TrimSpace(strings.Join(parts, " "))
}

// NormalizeName returns the merge key for an ingredient line: its parsed name,
// lowercased and trimmed. Quantity and unit do not affect the key.
func NormalizeName(line string) string {
	return strings.ToLower(strings.TrimSpace(Parse(line).Name))
}

// CleanLine removes trailing recipe-step references such as "(steg 2)" or
// "(step 3)" and a trailing "till <word>" suffix.
func CleanLine(line string) string {
	cleaned := stepReferencePattern.ReplaceAllString(line, "")
	cleaned = tillSuffixPattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}
