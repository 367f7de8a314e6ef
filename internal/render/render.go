// Package render writes generated plans as markdown documents.
package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"mealprep-planner/internal/planner"
	"mealprep-planner/internal/scoring"
	"mealprep-planner/internal/shopping"
)

//go:embed plan.md.tmpl
var planTemplate string

var tmpl = template.Must(template.New("plan").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format("2006-01-02") },
}).Parse(planTemplate))

// Input is everything a plan document shows. Score is nil when scoring is disabled.
type Input struct {
	Plan        *planner.MealPlan
	Score       *scoring.Breakdown
	Groceries   shopping.List
	GeneratedAt time.Time
}

type day struct {
	Date  time.Time
	Slots []planner.MealSlot
}

type view struct {
	Input
	Days []day
}

// Markdown renders the plan document to w.
func Markdown(w io.Writer, in Input) error {
	v := view{Input: in}
	for _, s := range in.Plan.Slots {
		if n := len(v.Days); n == 0 || !v.Days[n-1].Date.Equal(s.Date) {
			v.Days = append(v.Days, day{Date: s.Date})
		}
		last := &v.Days[len(v.Days)-1]
		last.Slots = append(last.Slots, s)
	}

	if err := tmpl.Execute(w, v); err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}
	return nil
}

// WriteFile renders the document into dir as meal_plan_<week start>.md,
// replacing an earlier document for the same week.
func WriteFile(dir string, in Input) (string, error) {
	var buf bytes.Buffer
	if err := Markdown(&buf, in); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create plans directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("meal_plan_%s.md", in.Plan.WeekStart.Format("2006-01-02")))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write plan file: %w", err)
	}
	return path, nil
}
