package grocery

import (
	"strings"

	"github.com/bensuskins/family-meals/internal/models"
)

const (
	CategoryProduce   = "produce"
	CategoryDairy     = "dairy"
	CategoryMeat      = "meat"
	CategorySeafood   = "seafood"
	CategoryBakery    = "bakery"
	CategoryPantry    = "pantry"
	CategorySpices    = "spices"
	CategoryFrozen    = "frozen"
	CategoryBeverages = "beverages"
)

// Categorize classifies a grocery item name. Exact matches win over keyword
// matches; unknown names fall back to the default category.
func Categorize(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return models.DefaultGroceryCategory
	}

	if category, ok := exactCategories[normalized]; ok {
		return category
	}

	for _, entry := range keywordCategories {
		if strings.Contains(normalized, entry.keyword) {
			return entry.category
		}
	}

	return models.DefaultGroceryCategory
}

var exactCategories = map[string]string{
	"ost":             CategoryDairy,
	"salt":            CategorySpices,
	"peppar":          CategorySpices,
	"pepper":          CategorySpices,
	"salt och peppar": CategorySpices,
	"salt and pepper": CategorySpices,
	"ägg":             CategoryDairy,
	"egg":             CategoryDairy,
	"eggs":            CategoryDairy,
	"vatten":          CategoryBeverages,
	"water":           CategoryBeverages,
	"is":              CategoryFrozen,
	"ice":             CategoryFrozen,
	"ris":             CategoryPantry,
	"rice":            CategoryPantry,
	"lök":             CategoryProduce,
	"onion":           CategoryProduce,
	"onions":          CategoryProduce,
}

type keywordCategory struct {
	keyword  string
	category string
}

// Longer, more specific keywords come first.
var keywordCategories = []keywordCategory{
	{"krossade tomater", CategoryPantry},

	{"frozen", CategoryFrozen},
	{"fryst", CategoryFrozen},
	{"djupfryst", CategoryFrozen},

	{"crème fraiche", CategoryDairy},
	{"creme fraiche", CategoryDairy},
	{"grädde", CategoryDairy},
	{"cream", CategoryDairy},
	{"mjölk", CategoryDairy},
	{"milk", CategoryDairy},
	{"smör", CategoryDairy},
	{"butter", CategoryDairy},
	{"yoghurt", CategoryDairy},
	{"yogurt", CategoryDairy},
	{"riven ost", CategoryDairy},
	{"cheese", CategoryDairy},
	{"parmesan", CategoryDairy},
	{"kvarg", CategoryDairy},

	{"kyckling", CategoryMeat},
	{"chicken", CategoryMeat},
	{"nötfärs", CategoryMeat},
	{"köttfärs", CategoryMeat},
	{"fläsk", CategoryMeat},
	{"bacon", CategoryMeat},
	{"pancetta", CategoryMeat},
	{"beef", CategoryMeat},
	{"pork", CategoryMeat},
	{"korv", CategoryMeat},
	{"sausage", CategoryMeat},
	{"kött", CategoryMeat},

	{"lax", CategorySeafood},
	{"salmon", CategorySeafood},
	{"torsk", CategorySeafood},
	{"cod", CategorySeafood},
	{"räkor", CategorySeafood},
	{"shrimp", CategorySeafood},
	{"tonfisk", CategorySeafood},
	{"tuna", CategorySeafood},
	{"fisk", CategorySeafood},
	{"fish", CategorySeafood},

	{"bröd", CategoryBakery},
	{"bread", CategoryBakery},
	{"tortilla", CategoryBakery},
	{"buns", CategoryBakery},
	{"bullar", CategoryBakery},

	{"vitlök", CategoryProduce},
	{"garlic", CategoryProduce},
	{"tomat", CategoryProduce},
	{"tomato", CategoryProduce},
	{"potatis", CategoryProduce},
	{"potato", CategoryProduce},
	{"morot", CategoryProduce},
	{"morötter", CategoryProduce},
	{"carrot", CategoryProduce},
	{"gurka", CategoryProduce},
	{"cucumber", CategoryProduce},
	{"sallad", CategoryProduce},
	{"lettuce", CategoryProduce},
	{"spenat", CategoryProduce},
	{"spinach", CategoryProduce},
	{"paprika", CategoryProduce},
	{"citron", CategoryProduce},
	{"lemon", CategoryProduce},
	{"lime", CategoryProduce},
	{"äpple", CategoryProduce},
	{"apple", CategoryProduce},
	{"banan", CategoryProduce},
	{"avokado", CategoryProduce},
	{"avocado", CategoryProduce},
	{"persilja", CategoryProduce},
	{"parsley", CategoryProduce},
	{"dill", CategoryProduce},
	{"basilika", CategoryProduce},
	{"basil", CategoryProduce},
	{"svamp", CategoryProduce},
	{"mushroom", CategoryProduce},

	{"kanel", CategorySpices},
	{"cinnamon", CategorySpices},
	{"spiskummin", CategorySpices},
	{"cumin", CategorySpices},
	{"oregano", CategorySpices},
	{"timjan", CategorySpices},
	{"thyme", CategorySpices},
	{"chili", CategorySpices},
	{"curry", CategorySpices},
	{"buljong", CategorySpices},
	{"stock", CategorySpices},

	{"pasta", CategoryPantry},
	{"spaghetti", CategoryPantry},
	{"nudlar", CategoryPantry},
	{"noodles", CategoryPantry},
	{"mjöl", CategoryPantry},
	{"flour", CategoryPantry},
	{"socker", CategoryPantry},
	{"sugar", CategoryPantry},
	{"olja", CategoryPantry},
	{"oil", CategoryPantry},
	{"vinäger", CategoryPantry},
	{"vinegar", CategoryPantry},
	{"bönor", CategoryPantry},
	{"beans", CategoryPantry},
	{"soja", CategoryPantry},
	{"soy", CategoryPantry},

	{"juice", CategoryBeverages},
	{"kaffe", CategoryBeverages},
	{"coffee", CategoryBeverages},
	{"te ", CategoryBeverages},
	{"tea", CategoryBeverages},
	{"vin", CategoryBeverages},
	{"wine", CategoryBeverages},
}
