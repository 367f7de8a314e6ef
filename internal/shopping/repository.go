package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mealprep-planner/internal/database"
)

const weekLayout = "2006-01-02"

// Repository handles persistence of shopping lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save creates a new shopping list in the database.
func (r *Repository) Save(ctx context.Context, list *ShoppingList) (int64, error) {
	itemsJSON, err := json.Marshal(list.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	created := list.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (meal_plan_id, profile_name, week_start, items, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		list.MealPlanID, list.ProfileName, list.WeekStart.Format(weekLayout), string(itemsJSON), database.FormatTime(created),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return res.LastInsertId()
}

const listColumns = `id, meal_plan_id, profile_name, week_start, items, created_at`

// GetByMealPlanID retrieves a shopping list by meal plan ID.
func (r *Repository) GetByMealPlanID(ctx context.Context, mealPlanID int64) (*ShoppingList, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+listColumns+` FROM shopping_lists WHERE meal_plan_id = ?`, mealPlanID)
	list, err := scanList(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No shopping list found
		}
		return nil, fmt.Errorf("failed to get shopping list by meal plan ID: %w", err)
	}
	return list, nil
}

// GetByProfileAndWeek retrieves the latest shopping list of a profile for a week.
func (r *Repository) GetByProfileAndWeek(ctx context.Context, profileName string, weekStart time.Time) (*ShoppingList, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM shopping_lists
		  WHERE profile_name = ? AND week_start = ?
		  ORDER BY created_at DESC, id DESC LIMIT 1`,
		profileName, weekStart.Format(weekLayout))
	list, err := scanList(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No shopping list found
		}
		return nil, fmt.Errorf("failed to get shopping list by profile and week: %w", err)
	}
	return list, nil
}

// DeleteByMealPlanID deletes a shopping list by meal plan ID.
func (r *Repository) DeleteByMealPlanID(ctx context.Context, mealPlanID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE meal_plan_id = ?`, mealPlanID); err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	return nil
}

func scanList(row *sql.Row) (*ShoppingList, error) {
	var (
		list                 ShoppingList
		week, items, created string
	)
	if err := row.Scan(&list.ID, &list.MealPlanID, &list.ProfileName, &week, &items, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &list.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}

	var err error
	if list.WeekStart, err = time.Parse(weekLayout, week); err != nil {
		return nil, err
	}
	if list.CreatedAt, err = database.ParseTime(created); err != nil {
		return nil, err
	}
	return &list, nil
}
