package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mealprep-planner/internal/database"
)

// StoredPlan is an archived plan with its score summary.
type StoredPlan struct {
	ID          int64
	PlanID      string
	ProfileName string
	WeekStart   time.Time
	WeekEnd     time.Time
	Seed        uint64
	Score       int
	Grade       string
	PlanData    []byte // Raw JSON of the meal plan
	CreatedAt   time.Time
}

// Plan decodes PlanData.
func (s StoredPlan) Plan() (*MealPlan, error) {
	var p MealPlan
	if err := json.Unmarshal(s.PlanData, &p); err != nil {
		return nil, fmt.Errorf("failed to decode stored plan %s: %w", s.PlanID, err)
	}
	return &p, nil
}

// PlanRepository is a database-backed archive of generated plans.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save archives a plan and returns its row id.
func (r *PlanRepository) Save(ctx context.Context, planID string, plan *MealPlan, score int, grade string, createdAt time.Time) (int64, error) {
	data, err := json.Marshal(plan)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal meal plan: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (plan_id, profile_name, week_start, week_end, seed, score, grade, plan_data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		planID, plan.ProfileName,
		plan.WeekStart.Format(dateLayout), plan.WeekEnd.Format(dateLayout),
		int64(plan.Seed), score, grade, data, database.FormatTime(createdAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal plan: %w", err)
	}
	return res.LastInsertId()
}

const planColumns = `id, plan_id, profile_name, week_start, week_end, seed, score, grade, plan_data, created_at`

// Get returns the plan with the given plan id, or nil when there is none.
func (r *PlanRepository) Get(ctx context.Context, planID string) (*StoredPlan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM meal_plans WHERE plan_id = ?`, planID)
	sp, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal plan %s: %w", planID, err)
	}
	return &sp, nil
}

// ListRecentByProfile retrieves the N most recent plans for a profile.
// An empty profile name lists plans of every profile.
func (r *PlanRepository) ListRecentByProfile(ctx context.Context, profileName string, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+planColumns+` FROM meal_plans
		  WHERE ? = '' OR profile_name = ?
		  ORDER BY created_at DESC, id DESC
		  LIMIT ?`, profileName, profileName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent meal plans for %q: %w", profileName, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		sp, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}
		plans = append(plans, sp)
	}
	return plans, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(s scanner) (StoredPlan, error) {
	var (
		sp                          StoredPlan
		seed                        int64
		weekStart, weekEnd, created string
	)
	if err := s.Scan(&sp.ID, &sp.PlanID, &sp.ProfileName, &weekStart, &weekEnd, &seed, &sp.Score, &sp.Grade, &sp.PlanData, &created); err != nil {
		return StoredPlan{}, err
	}
	sp.Seed = uint64(seed)

	var err error
	if sp.WeekStart, err = time.Parse(dateLayout, weekStart); err != nil {
		return StoredPlan{}, err
	}
	if sp.WeekEnd, err = time.Parse(dateLayout, weekEnd); err != nil {
		return StoredPlan{}, err
	}
	if sp.CreatedAt, err = database.ParseTime(created); err != nil {
		return StoredPlan{}, err
	}
	return sp, nil
}
