package planner

import (
	"time"

	"mealprep-planner/internal/constraints"
	"mealprep-planner/internal/recipe"
)

// Reason names the rule that blocked a candidate.
type Reason string

const (
	ReasonProteinStreak Reason = "protein_streak"
	ReasonCuisineStreak Reason = "cuisine_streak"
	ReasonMethodStreak  Reason = "method_streak"
	ReasonNoCook        Reason = "no_cook_night"
)

type streakRule struct {
	reason  Reason
	attr    attribute
	max     int
	tracked map[string]struct{} // nil tracks every value
	value   func(recipe.Recipe) string
}

// Blocker rejects candidates that would extend an attribute streak past its
// configured maximum or break a no-cook night. It performs no I/O.
type Blocker struct {
	cfg   *constraints.Config
	rules []streakRule
}

// NewBlocker builds the enabled rules of cfg.
func NewBlocker(cfg *constraints.Config) *Blocker {
	b := &Blocker{cfg: cfg}

	if r := cfg.Blocking.Protein; r.Enabled {
		// only the listed proteins are tracked; an empty list tracks nothing
		tracked := toSet(r.ProteinTypes)
		if tracked == nil {
			tracked = map[string]struct{}{}
		}
		b.rules = append(b.rules, streakRule{
			reason: ReasonProteinStreak, attr: attrProtein, max: r.MaxConsecutiveDays, tracked: tracked,
			value: func(rec recipe.Recipe) string { return rec.Protein },
		})
	}
	if r := cfg.Blocking.Cuisine; r.Enabled {
		b.rules = append(b.rules, streakRule{
			reason: ReasonCuisineStreak, attr: attrCuisine, max: r.MaxConsecutiveDays, tracked: toSet(r.Cuisines),
			value: func(rec recipe.Recipe) string { return rec.Cuisine },
		})
	}
	if r := cfg.Blocking.CookingMethod; r.Enabled {
		b.rules = append(b.rules, streakRule{
			reason: ReasonMethodStreak, attr: attrMethod, max: r.MaxConsecutiveDays, tracked: toSet(r.Methods),
			value: func(rec recipe.Recipe) string { return rec.Method },
		})
	}
	return b
}

// IsBlocked reports whether the candidate may not be placed on date.
func (b *Blocker) IsBlocked(candidate recipe.Recipe, date time.Time, state *PlanningState) bool {
	_, blocked := b.Check(candidate, date, state)
	return blocked
}

// Check is IsBlocked with the name of the first rule that fired.
func (b *Blocker) Check(candidate recipe.Recipe, date time.Time, state *PlanningState) (Reason, bool) {
	if b.cfg.IsNoCookDay(date) && candidate.TotalMinutes > b.cfg.Time.NoCookNights.MaxPrepMinutes {
		return ReasonNoCook, true
	}

	for _, rule := range b.rules {
		raw := rule.value(candidate)
		if recipe.IsUnknown(raw) {
			continue
		}
		v := normalize(raw)
		if rule.tracked != nil {
			if _, ok := rule.tracked[v]; !ok {
				continue
			}
		}
		if streak(state, rule.attr, v, date) >= rule.max {
			return rule.reason, true
		}
	}
	return "", false
}

// streak counts the consecutive days before date that carry the value.
func streak(state *PlanningState, attr attribute, value string, date time.Time) int {
	n := 0
	for d := date.AddDate(0, 0, -1); state.dayHas(d, attr, value); d = d.AddDate(0, 0, -1) {
		n++
	}
	return n
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if !recipe.IsUnknown(v) {
			set[normalize(v)] = struct{}{}
		}
	}
	return set
}
