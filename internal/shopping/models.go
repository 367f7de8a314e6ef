package shopping

import "time"

// ShoppingList represents a persisted grocery list for a meal plan.
type ShoppingList struct {
	ID          int64     `json:"id"`
	MealPlanID  int64     `json:"meal_plan_id"`
	ProfileName string    `json:"profile_name"`
	WeekStart   time.Time `json:"week_start"`
	Items       []string  `json:"items"`
	CreatedAt   time.Time `json:"created_at"`
}
