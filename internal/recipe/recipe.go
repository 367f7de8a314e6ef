package recipe

import (
	"fmt"
	"strings"
)

// MealType is the category of a recipe and of the plan slot it can fill.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// SlotOrder is the fixed order in which meal slots of a day are filled.
var SlotOrder = []MealType{Breakfast, Lunch, Dinner}

// ParseMealType normalizes a category label such as "Dinner" or " lunch ".
func ParseMealType(s string) (MealType, error) {
	switch mt := MealType(strings.ToLower(strings.TrimSpace(s))); mt {
	case Breakfast, Lunch, Dinner, Snack:
		return mt, nil
	default:
		return "", fmt.Errorf("unknown meal category %q", s)
	}
}

// Title returns the display form of the meal type ("Breakfast").
func (m MealType) Title() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// Recipe is one preparable dish. Recipes are read-only once loaded.
type Recipe struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Category     MealType `json:"category"`
	Cuisine      string   `json:"cuisine,omitempty"`
	Protein      string   `json:"protein,omitempty"`
	Method       string   `json:"cooking_method,omitempty"`
	PrepMinutes  int      `json:"prep_minutes,omitempty"`
	CookMinutes  int      `json:"cook_minutes,omitempty"`
	TotalMinutes int      `json:"total_minutes"`
	DietaryTags  []string `json:"dietary_tags,omitempty"`
	Ingredients  []string `json:"ingredients,omitempty"`
}

// HasTag reports whether the recipe carries the dietary tag, ignoring case.
func (r Recipe) HasTag(tag string) bool {
	for _, t := range r.DietaryTags {
		if strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(tag)) {
			return true
		}
	}
	return false
}

// MentionsIngredient reports whether any ingredient line contains the given
// name as a case-insensitive substring.
func (r Recipe) MentionsIngredient(name string) bool {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return false
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), needle) {
			return true
		}
	}
	return false
}

// IsUnknown reports whether an attribute value carries no information.
func IsUnknown(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "" || v == "unknown" || v == "none" || v == "n/a"
}
