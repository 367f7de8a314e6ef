package planner

import (
	"sort"

	"mealprep-planner/internal/constraints"
	"mealprep-planner/internal/history"
	"mealprep-planner/internal/profile"
	"mealprep-planner/internal/recipe"
)

// Rejection reasons reported by the filter besides the blocker's own.
const (
	RejectProfile  = "profile_exclusion"
	RejectCategory = "category"
	RejectTime     = "time_budget"
	RejectRepeat   = "repeat_window"
)

// FilterReport explains how a slot's candidate set was reached.
type FilterReport struct {
	Considered int            `json:"considered"`
	Eligible   int            `json:"eligible"`
	Rejected   map[string]int `json:"rejected,omitempty"`
}

func (r *FilterReport) reject(reason string) {
	if r.Rejected == nil {
		r.Rejected = make(map[string]int)
	}
	r.Rejected[reason]++
}

// Filter computes the eligible recipes for a slot.
type Filter struct {
	cfg     *constraints.Config
	profile *profile.Profile
	blocker *Blocker
	history []history.Entry
}

// NewFilter creates a Filter. prof may be nil.
func NewFilter(cfg *constraints.Config, prof *profile.Profile, entries []history.Entry) *Filter {
	return &Filter{
		cfg:     cfg,
		profile: prof,
		blocker: NewBlocker(cfg),
		history: entries,
	}
}

// Candidates returns the recipes that pass every rule for the slot, sorted by ID.
// Rules apply in order: profile exclusions, category, time budget, blocking and
// the repeat window against both the plan and history.
func (f *Filter) Candidates(slot MealSlot, recipes []recipe.Recipe, state *PlanningState) ([]recipe.Recipe, FilterReport) {
	report := FilterReport{Considered: len(recipes)}
	timeCap := f.cfg.TimeCap(slot.Date)
	minGap := f.cfg.MinDaysBetweenRepeats()

	var out []recipe.Recipe
	for _, r := range recipes {
		if f.profile != nil {
			if _, excluded := f.profile.Excludes(r); excluded {
				report.reject(RejectProfile)
				continue
			}
		}
		if r.Category != slot.MealType {
			report.reject(RejectCategory)
			continue
		}
		if r.TotalMinutes > timeCap {
			report.reject(RejectTime)
			continue
		}
		if reason, blocked := f.blocker.Check(r, slot.Date, state); blocked {
			report.reject(string(reason))
			continue
		}
		if f.repeatsTooSoon(r.ID, slot, state, minGap) {
			report.reject(RejectRepeat)
			continue
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	report.Eligible = len(out)
	return out, report
}

func (f *Filter) repeatsTooSoon(id string, slot MealSlot, state *PlanningState, minGap int) bool {
	if gap, used := state.DaysSinceUse(id, slot.Date); used && gap < minGap {
		return true
	}
	if gap, used := history.GapFrom(f.history, id, slot.Date); used && gap < minGap {
		return true
	}
	return false
}
