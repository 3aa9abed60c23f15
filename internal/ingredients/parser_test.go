package ingredients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		quantity *float64
		unit     *string
		want     string
	}{
		{name: "integer with metric unit", input: "200 g kyckling", quantity: ptr(200.0), unit: ptr("g"), want: "kyckling"},
		{name: "unit glued to quantity", input: "400g spaghetti", quantity: ptr(400.0), unit: ptr("g"), want: "spaghetti"},
		{name: "decimal with comma", input: "1,5 dl mjölk", quantity: ptr(1.5), unit: ptr("dl"), want: "mjölk"},
		{name: "decimal with dot", input: "2.5 cups flour", quantity: ptr(2.5), unit: ptr("cups"), want: "flour"},
		{name: "simple fraction", input: "1/2 tsp salt", quantity: ptr(0.5), unit: ptr("tsp"), want: "salt"},
		{name: "mixed number", input: "1 1/2 cups sugar", quantity: ptr(1.5), unit: ptr("cups"), want: "sugar"},
		{name: "vulgar fraction", input: "½ dl grädde", quantity: ptr(0.5), unit: ptr("dl"), want: "grädde"},
		{name: "vulgar mixed number", input: "1½ msk smör", quantity: ptr(1.5), unit: ptr("msk"), want: "smör"},
		{name: "vulgar mixed number with space", input: "2 ¼ cups milk", quantity: ptr(2.25), unit: ptr("cups"), want: "milk"},
		{name: "unit case and punctuation", input: "2 Tbsp. olive oil", quantity: ptr(2.0), unit: ptr("tbsp"), want: "olive oil"},
		{name: "swedish count unit", input: "3 st ägg", quantity: ptr(3.0), unit: ptr("st"), want: "ägg"},
		{name: "unknown unit stays in name", input: "2 red onions", quantity: ptr(2.0), want: "red onions"},
		{name: "partitive stripped", input: "1 cup of rice", quantity: ptr(1.0), unit: ptr("cup"), want: "rice"},
		{name: "size descriptor", input: "2 cloves garlic", quantity: ptr(2.0), unit: ptr("cloves"), want: "garlic"},
		{name: "no quantity", input: "salt och peppar", want: "salt och peppar"},
		{name: "quantity only", input: "3", quantity: ptr(3.0), want: ""},
		{name: "zero denominator", input: "1/0 cup water", want: "1/0 cup water"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			parsed := Parse(test.input)

			assert.Equal(t, test.input, parsed.Original)
			assert.Equal(t, test.want, parsed.Name)
			if test.quantity == nil {
				assert.Nil(t, parsed.Quantity)
			} else {
				require.NotNil(t, parsed.Quantity)
				assert.InDelta(t, *test.quantity, *parsed.Quantity, 1e-9)
			}
			assert.Equal(t, test.unit, parsed.Unit)
		})
	}
}

func TestParse_Total(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n", "/", "½", "of", "1 ", "((steg 1))", "½½½"} {
		parsed := Parse(input)
		assert.Equal(t, input, parsed.Original)
	}

	empty := Parse("  ")
	assert.Nil(t, empty.Quantity)
	assert.Nil(t, empty.Unit)
	assert.Empty(t, empty.Name)
}

func TestFormatQuantity(t *testing.T) {
	tests := map[float64]string{
		0:       "0",
		1:       "1",
		400:     "400",
		0.5:     "½",
		0.25:    "¼",
		0.75:    "¾",
		1.0 / 3: "⅓",
		2.0 / 3: "⅔",
		1.5:     "1 ½",
		2.25:    "2 ¼",
		1.3:     "1.3",
		1.25:    "1 ¼",
		2.1:     "2.1",
		0.125:   "0.1",
		1.99:    "2",
	}

	for input, want := range tests {
		assert.Equal(t, want, FormatQuantity(input), "FormatQuantity(%v)", input)
	}
}

func TestScale(t *testing.T) {
	assert.Equal(t, "400 g kyckling", Scale("200 g kyckling", 2))
	assert.Equal(t, "½ dl grädde", Scale("1 dl grädde", 0.5))
	assert.Equal(t, "salt och peppar", Scale("salt och peppar", 2))
	assert.Equal(t, "3 eggs", Scale("1 ½ eggs", 2))
	assert.Equal(t, "1 ½ cups rice", Scale("3/4 cups of rice", 2))
	assert.Equal(t, "6", Scale("3", 2))
}

func TestScale_IdentityAtOne(t *testing.T) {
	for _, line := range []string{"200 g kyckling", "1 Tbsp. olive oil", "2 cups of flour", "1/2 tsp salt"} {
		assert.Equal(t, line, Scale(line, 1))
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, NormalizeName("1 dl grädde"), NormalizeName("2 dl grädde"))
	assert.Equal(t, "chicken", NormalizeName("200 g chicken"))
	assert.Equal(t, "chicken", NormalizeName("2 cups Chicken"))
	assert.Equal(t, "salt och peppar", NormalizeName("Salt och peppar "))
}

func TestCleanLine(t *testing.T) {
	tests := map[string]string{
		"2 dl grädde (steg 3)":        "2 dl grädde",
		"1 cup milk (Step 12)":        "1 cup milk",
		"1 msk smör till stekning":    "1 msk smör",
		"2 dl grädde till såsen (steg 2)": "2 dl grädde",
		"200 g pasta":                 "200 g pasta",
		"1 (steg 2) lök":              "1 (steg 2) lök",
	}

	for input, want := range tests {
		assert.Equal(t, want, CleanLine(input), "CleanLine(%q)", input)
	}
}

func TestUnits(t *testing.T) {
	assert.True(t, IsUnit("msk"))
	assert.True(t, IsUnit("portioner"))
	assert.True(t, IsUnit("handful"))
	assert.False(t, IsUnit("chicken"))
	assert.Contains(t, Units(), "krm")
}

func ptr[T any](value T) *T {
	return &value
}
