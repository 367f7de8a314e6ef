package shopping

import (
	"fmt"
	"math/big"
	"regexp"
	"sort"
	"strings"

	"mealprep-planner/internal/recipe"
)

// Store sections, in the order a list is printed.
var Sections = []string{"Produce", "Meat", "Dairy", "Bakery", "Pantry", "Frozen", "Other"}

// Sections are tried in this order so that specific items win over broad ones.
var categoryPriority = []string{"Bakery", "Meat", "Dairy", "Frozen", "Pantry", "Produce"}

var categoryKeywords = map[string][]string{
	"Produce": {"lettuce", "spinach", "arugula", "greens", "salad", "tomato", "cucumber", "onion", "garlic",
		"bell pepper", "carrot", "celery", "broccoli", "cauliflower", "cabbage", "potato", "avocado", "lime",
		"lemon", "apple", "banana", "berry", "berries", "fruit", "cilantro", "parsley", "basil", "herb", "kale",
		"zucchini", "squash", "mushroom", "pea"},
	"Meat": {"chicken", "beef", "pork", "turkey", "sausage", "bacon", "ham", "lamb", "steak", "fish", "salmon",
		"tuna", "tilapia", "cod", "mahi-mahi", "shrimp", "seafood"},
	"Dairy": {"milk", "cream", "cheese", "cheddar", "mozzarella", "parmesan", "feta", "yogurt", "butter", "egg"},
	"Pantry": {"oil", "vinegar", "flour", "sugar", "salt", "black pepper", "white pepper", "cayenne",
		"red pepper flakes", "spice", "seasoning", "rice", "pasta", "quinoa", "oats", "cereal", "can", "beans",
		"chickpeas", "lentil", "stock", "broth", "sauce", "salsa", "honey", "maple syrup", "peanut butter", "cumin",
		"paprika", "chili powder", "mustard", "ketchup", "mayo", "balsamic", "dijon"},
	"Frozen": {"frozen", "ice cream", "popsicle"},
	"Bakery": {"bread", "tortilla", "bagel", "muffin", "roll", "bun", "pita", "naan"},
}

var unitAliases = map[string]string{
	"tbsp": "tablespoon", "tbs": "tablespoon", "tb": "tablespoon", "tablespoon": "tablespoon", "tablespoons": "tablespoon",
	"tsp": "teaspoon", "ts": "teaspoon", "teaspoon": "teaspoon", "teaspoons": "teaspoon",
	"c": "cup", "cup": "cup", "cups": "cup",
	"oz": "ounce", "ounce": "ounce", "ounces": "ounce",
	"lb": "pound", "lbs": "pound", "pound": "pound", "pounds": "pound",
	"g": "gram", "gram": "gram", "grams": "gram", "kg": "kilogram",
	"ml": "milliliter", "l": "liter",
	"can": "can", "cans": "can", "jar": "jar", "jars": "jar",
	"package": "package", "packages": "package", "box": "box", "boxes": "box",
	"clove": "clove", "cloves": "clove",
	// size words carry no unit
	"large": "", "medium": "", "small": "", "whole": "", "count": "",
}

var (
	quantityPattern = regexp.MustCompile(`^(\d+\s+\d+/\d+|[\d./]+(?:\s*(?:-|–|to)\s*[\d./]+)?)\s+(.+)$`)
	rangeSplit      = regexp.MustCompile(`\s*(?:-|–|\bto\b)\s*`)
	parenthetical   = regexp.MustCompile(`\([^)]*\)`)
	prepSuffix      = regexp.MustCompile(`(?i),\s*(diced|chopped|sliced|minced|halved|thinly sliced|optional|for serving|drained and rinsed|divided|to taste).*$`)
	toTaste         = regexp.MustCompile(`(?i)\s+to taste.*$`)
	andSuffix       = regexp.MustCompile(`\s+and\s+.+$`)
	juiceOf         = regexp.MustCompile(`(?i)^juice of \d+\s+(.+)$`)
	prepPrefix      = regexp.MustCompile(`(?i)^(fresh|dried|frozen|canned|shredded|chopped|sliced|diced|minced)\s+`)
)

// Ingredient is one parsed ingredient line.
type Ingredient struct {
	Quantity *big.Rat
	Unit     string
	Name     string
}

// ParseIngredient reads lines such as "2 cups flour", "1 1/2 tsp salt" or
// "3-4 cloves garlic, minced". Lines without a quantity count as one.
func ParseIngredient(line string) (Ingredient, bool) {
	line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*• "))
	if line == "" || strings.HasPrefix(line, "#") {
		return Ingredient{}, false
	}

	ing := Ingredient{Quantity: big.NewRat(1, 1)}
	rest := line
	if m := quantityPattern.FindStringSubmatch(line); m != nil {
		if q, ok := parseQuantity(m[1]); ok {
			ing.Quantity = q
			rest = m[2]
			if fields := strings.Fields(rest); len(fields) > 1 {
				if unit, known := unitAliases[strings.ToLower(strings.TrimSuffix(fields[0], "."))]; known {
					ing.Unit = unit
					rest = strings.Join(fields[1:], " ")
				}
			}
		}
	}

	ing.Name = CleanName(rest)
	if ing.Name == "" {
		return Ingredient{}, false
	}
	return ing, true
}

// parseQuantity handles integers, decimals, fractions, mixed numbers and
// ranges; a range counts as its midpoint.
func parseQuantity(s string) (*big.Rat, bool) {
	s = strings.TrimSpace(s)
	if parts := rangeSplit.Split(s, -1); len(parts) == 2 {
		lo, ok1 := parseQuantity(parts[0])
		hi, ok2 := parseQuantity(parts[1])
		if !ok1 || !ok2 {
			return nil, false
		}
		mid := new(big.Rat).Add(lo, hi)
		return mid.Quo(mid, big.NewRat(2, 1)), true
	}

	total := new(big.Rat)
	for _, f := range strings.Fields(s) {
		r, ok := new(big.Rat).SetString(f)
		if !ok || r.Sign() < 0 {
			return nil, false
		}
		total.Add(total, r)
	}
	return total, total.Sign() > 0
}

// CleanName strips preparation notes so the same ingredient merges across recipes.
func CleanName(name string) string {
	name = parenthetical.ReplaceAllString(name, "")
	name = prepSuffix.ReplaceAllString(name, "")
	name = toTaste.ReplaceAllString(name, "")
	name = andSuffix.ReplaceAllString(name, "")
	if m := juiceOf.FindStringSubmatch(strings.TrimSpace(name)); m != nil {
		name = m[1] + " juice"
	}
	name = prepPrefix.ReplaceAllString(strings.TrimSpace(name), "")
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Categorize returns the store section of an ingredient. The longest
// matching keyword wins so "peanut butter" is not filed under butter; ties
// go to the earlier section in priority order.
func Categorize(name string) string {
	lower := strings.ToLower(name)
	best, bestLen := "Other", 0
	for _, section := range categoryPriority {
		for _, kw := range categoryKeywords[section] {
			if len(kw) > bestLen && strings.Contains(lower, kw) {
				best, bestLen = section, len(kw)
			}
		}
	}
	return best
}

// Item is a merged grocery line.
type Item struct {
	Name     string
	Unit     string
	Quantity *big.Rat
	Section  string
	Recipes  []string
}

// String renders the item as "1 1/2 cups flour".
func (i Item) String() string {
	unit := i.Unit
	if unit != "" && i.Quantity.Cmp(big.NewRat(1, 1)) > 0 && !strings.HasSuffix(unit, "s") {
		unit += "s"
	}
	parts := []string{FormatQuantity(i.Quantity)}
	if unit != "" {
		parts = append(parts, unit)
	}
	return strings.Join(append(parts, i.Name), " ")
}

// List is a grocery list grouped by section.
type List struct {
	Sections []Section
}

// Section is one store section of a List.
type Section struct {
	Name  string
	Items []Item
}

// Lines flattens the list to "Section: item" strings.
func (l List) Lines() []string {
	var out []string
	for _, s := range l.Sections {
		for _, it := range s.Items {
			out = append(out, fmt.Sprintf("%s: %s", s.Name, it))
		}
	}
	return out
}

// Len is the number of items across sections.
func (l List) Len() int {
	n := 0
	for _, s := range l.Sections {
		n += len(s.Items)
	}
	return n
}

// Build merges the ingredients of the given recipes by name and unit.
// A recipe appearing several times contributes once per appearance.
func Build(recipes []recipe.Recipe) List {
	type key struct{ name, unit string }
	merged := make(map[key]*Item)

	for _, r := range recipes {
		for _, line := range r.Ingredients {
			ing, ok := ParseIngredient(line)
			if !ok {
				continue
			}
			k := key{ing.Name, ing.Unit}
			it, exists := merged[k]
			if !exists {
				it = &Item{Name: ing.Name, Unit: ing.Unit, Quantity: new(big.Rat), Section: Categorize(ing.Name)}
				merged[k] = it
			}
			it.Quantity.Add(it.Quantity, ing.Quantity)
			if !containsString(it.Recipes, r.Title) {
				it.Recipes = append(it.Recipes, r.Title)
			}
		}
	}

	bySection := make(map[string][]Item)
	for _, it := range merged {
		bySection[it.Section] = append(bySection[it.Section], *it)
	}

	var list List
	for _, name := range Sections {
		items := bySection[name]
		if len(items) == 0 {
			continue
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].Name != items[j].Name {
				return items[i].Name < items[j].Name
			}
			return items[i].Unit < items[j].Unit
		})
		list.Sections = append(list.Sections, Section{Name: name, Items: items})
	}
	return list
}

// FormatQuantity prints whole numbers plainly, small-denominator values as
// (mixed) fractions and anything else with one decimal.
func FormatQuantity(q *big.Rat) string {
	if q.IsInt() {
		return q.Num().String()
	}
	if q.Denom().Cmp(big.NewInt(16)) <= 0 {
		whole := new(big.Int).Quo(q.Num(), q.Denom())
		rem := new(big.Int).Rem(q.Num(), q.Denom())
		if whole.Sign() == 0 {
			return fmt.Sprintf("%s/%s", rem, q.Denom())
		}
		return fmt.Sprintf("%s %s/%s", whole, rem, q.Denom())
	}
	return q.FloatString(1)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
