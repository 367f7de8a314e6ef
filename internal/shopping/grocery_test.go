package shopping

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealprep-planner/internal/recipe"
)

func TestParseIngredient(t *testing.T) {
	tests := []struct {
		line string
		qty  string
		unit string
		name string
	}{
		{"2 cups flour", "2", "cup", "flour"},
		{"- 1/2 tsp salt", "1/2", "teaspoon", "salt"},
		{"1 1/2 Tbsp olive oil", "3/2", "tablespoon", "olive oil"},
		{"3-4 cloves garlic, minced", "7/2", "clove", "garlic"},
		{"2 to 3 large eggs", "5/2", "", "eggs"},
		{"8 corn tortillas", "8", "", "corn tortillas"},
		{"1 onion, diced (about 1 cup)", "1", "", "onion"},
		{"Salt and pepper to taste", "1", "", "salt"},
		{"fresh cilantro (optional)", "1", "", "cilantro"},
		{"Juice of 1 lime", "1", "", "lime juice"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ing, ok := ParseIngredient(tt.line)
			require.True(t, ok)
			want, _ := new(big.Rat).SetString(tt.qty)
			assert.Equal(t, 0, want.Cmp(ing.Quantity), "quantity %s", ing.Quantity)
			assert.Equal(t, tt.unit, ing.Unit)
			assert.Equal(t, tt.name, ing.Name)
		})
	}

	_, ok := ParseIngredient("### For the sauce")
	assert.False(t, ok)
}

func TestCategorize(t *testing.T) {
	assert.Equal(t, "Bakery", Categorize("corn tortillas"))
	assert.Equal(t, "Meat", Categorize("chicken breast"))
	assert.Equal(t, "Dairy", Categorize("cheddar cheese"))
	assert.Equal(t, "Pantry", Categorize("peanut butter"))
	assert.Equal(t, "Produce", Categorize("tomatoes"))
	assert.Equal(t, "Other", Categorize("tofu"))
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "3", FormatQuantity(big.NewRat(3, 1)))
	assert.Equal(t, "1/2", FormatQuantity(big.NewRat(1, 2)))
	assert.Equal(t, "2 1/2", FormatQuantity(big.NewRat(5, 2)))
	assert.Equal(t, "0.1", FormatQuantity(big.NewRat(1, 17)))
	assert.Equal(t, "3 1/3", FormatQuantity(big.NewRat(10, 3)))
}

func TestBuild(t *testing.T) {
	tacos := recipe.Recipe{Title: "Fish Tacos", Ingredients: []string{"1 lb cod", "8 corn tortillas", "1/2 cup salsa"}}
	bowl := recipe.Recipe{Title: "Burrito Bowl", Ingredients: []string{"1 cup rice", "1/2 cup salsa", "2 tomatoes, diced"}}

	list := Build([]recipe.Recipe{tacos, bowl, tacos})

	var names []string
	for _, s := range list.Sections {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Produce", "Meat", "Bakery", "Pantry"}, names)
	assert.Equal(t, 5, list.Len())

	assert.Contains(t, list.Lines(), "Pantry: 1 1/2 cups salsa")
	assert.Contains(t, list.Lines(), "Meat: 2 pounds cod")
	assert.Contains(t, list.Lines(), "Bakery: 16 corn tortillas")
	assert.Contains(t, list.Lines(), "Produce: 2 tomatoes")

	for _, s := range list.Sections {
		for _, it := range s.Items {
			if it.Name == "salsa" {
				assert.Equal(t, []string{"Fish Tacos", "Burrito Bowl"}, it.Recipes)
			}
		}
	}
}
