package profile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"mealprep-planner/internal/recipe"
)

// Profile holds one user's dietary constraints and preferences.
type Profile struct {
	Name                string   `json:"name"`
	DietaryRestrictions string   `json:"dietary_restrictions,omitempty"`
	FoodPreferences     string   `json:"food_preferences,omitempty"`
	ExcludedIngredients []string `json:"excluded_ingredients,omitempty"`
	AvoidTags           []string `json:"avoid_tags,omitempty"`
	PreferredCuisines   []string `json:"preferred_cuisines,omitempty"`
	Servings            int      `json:"servings"`
}

// Load reads a profile card from a markdown file.
func Load(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile: %w", err)
	}
	defer f.Close()

	doc, err := recipe.ParseMarkdown(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return FromDocument(doc), nil
}

// FromDocument maps a parsed card onto a Profile.
func FromDocument(doc recipe.Document) *Profile {
	p := &Profile{
		Name:                doc.Field("name"),
		DietaryRestrictions: doc.Field("dietary restrictions", "allergies"),
		FoodPreferences:     doc.Field("food preferences", "preferences"),
		ExcludedIngredients: doc.List("excluded ingredients", "allergies"),
		AvoidTags:           doc.List("avoid tags", "avoid"),
		PreferredCuisines:   doc.List("preferred cuisines"),
		Servings:            2,
	}
	if p.Name == "" {
		p.Name = doc.Title
	}
	if p.Name == "" {
		p.Name = "Unknown"
	}
	if s := doc.Field("servings", "household size", "default servings"); s != "" {
		if n, err := strconv.Atoi(strings.Fields(s)[0]); err == nil && n > 0 {
			p.Servings = n
		}
	}
	return p
}

// Excludes reports whether the recipe conflicts with the profile's excluded
// ingredients or avoided dietary tags, and names the conflict.
func (p *Profile) Excludes(r recipe.Recipe) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, ing := range p.ExcludedIngredients {
		if r.MentionsIngredient(ing) {
			return "ingredient " + ing, true
		}
	}
	for _, tag := range p.AvoidTags {
		if r.HasTag(tag) {
			return "tag " + tag, true
		}
	}
	return "", false
}
