package planner

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"go.uber.org/zap"

	"mealprep-planner/internal/constraints"
	"mealprep-planner/internal/history"
	"mealprep-planner/internal/profile"
	"mealprep-planner/internal/recipe"
	"mealprep-planner/internal/shared"
	"mealprep-planner/internal/suggest"
)

const suggestionAgent = "Suggestion"

// MetricsRecorder receives the cost of each suggestion call.
type MetricsRecorder interface {
	RecordMeta(meta shared.AgentMeta) error
}

// Planner fills every required slot of the configured date range greedily,
// in day-then-meal-type order.
type Planner struct {
	cfg        *constraints.Config
	profile    *profile.Profile
	recipes    []recipe.Recipe
	history    []history.Entry
	capability suggest.Capability
	matcher    *suggest.Matcher
	metrics    MetricsRecorder
	logger     *zap.Logger
	seed       uint64
	now        time.Time
}

// Option configures a Planner.
type Option func(*Planner)

// WithSeed sets the seed of the fallback selector.
func WithSeed(seed uint64) Option {
	return func(p *Planner) { p.seed = seed }
}

// WithNow fixes the reference time used for history windows.
func WithNow(now time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Planner) { p.logger = logger }
}

// WithMatcher replaces the default suggestion matcher.
func WithMatcher(m *suggest.Matcher) Option {
	return func(p *Planner) { p.matcher = m }
}

// WithMetricsRecorder records suggestion latency and token usage.
func WithMetricsRecorder(r MetricsRecorder) Option {
	return func(p *Planner) { p.metrics = r }
}

// New creates a Planner. A nil capability behaves as unavailable.
func New(cfg *constraints.Config, prof *profile.Profile, recipes []recipe.Recipe, entries []history.Entry, capability suggest.Capability, opts ...Option) *Planner {
	p := &Planner{
		cfg:        cfg,
		profile:    prof,
		recipes:    recipes,
		history:    entries,
		capability: capability,
		logger:     zap.NewNop(),
		now:        time.Now(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.capability == nil {
		p.capability = suggest.Unavailable("not configured")
	}
	p.history = history.Live(p.history, p.now)
	if p.matcher == nil {
		p.matcher = suggest.NewMatcher(p.logger)
	}
	return p
}

// Generate builds the plan. Slots without eligible recipes are marked
// unsatisfiable; they never fail the run.
func (p *Planner) Generate(ctx context.Context) (*MealPlan, error) {
	if p.cfg == nil {
		return nil, fmt.Errorf("failed to generate plan: no constraints")
	}

	plan := &MealPlan{
		WeekStart: p.cfg.Start(),
		WeekEnd:   p.cfg.End(),
		Seed:      p.seed,
	}
	if p.profile != nil {
		plan.ProfileName = p.profile.Name
	}

	rng := rand.New(rand.NewPCG(p.seed, p.seed^0x9e3779b97f4a7c15))
	filter := NewFilter(p.cfg, p.profile, p.history)
	state := NewPlanningState()

	for i, date := range p.cfg.Days() {
		for _, mealType := range p.cfg.RequiredMeals() {
			slot := MealSlot{Day: i + 1, Date: date, MealType: mealType, Status: StatusEmpty}

			candidates, report := filter.Candidates(slot, p.recipes, state)
			slot.Report = report
			slot.Status = StatusFiltered

			if len(candidates) == 0 {
				slot.Status = StatusUnsatisfiable
				p.logger.Warn("no eligible recipe for slot",
					zap.String("date", date.Format(dateLayout)),
					zap.String("meal_type", string(mealType)),
					zap.Any("rejected", report.Rejected),
				)
				plan.Slots = append(plan.Slots, slot)
				continue
			}

			chosen, matched := p.suggestion(ctx, &slot, candidates, state)
			if matched {
				slot.Status = StatusSuggested
				slot.Source = SourceSuggestion
			} else {
				chosen = pickFallback(rng, candidates, state)
				slot.Source = SourceFallback
			}

			slot.Recipe = &chosen
			slot.Status = StatusAssigned
			state.Record(chosen, date)
			plan.Slots = append(plan.Slots, slot)
		}
	}

	p.logger.Info("plan generated",
		zap.Int("slots", len(plan.Slots)),
		zap.Int("unsatisfiable", plan.Unsatisfiable()),
		zap.Uint64("seed", p.seed),
	)
	return plan, nil
}

// suggestion asks the capability for a meal and matches it to a candidate.
// Any failure means no match.
func (p *Planner) suggestion(ctx context.Context, slot *MealSlot, candidates []recipe.Recipe, state *PlanningState) (recipe.Recipe, bool) {
	req := suggest.Request{
		MealType:       slot.MealType,
		Weeknight:      constraints.IsWeeknight(slot.Date),
		NoCook:         p.cfg.IsNoCookDay(slot.Date),
		MaxPrepMinutes: p.cfg.TimeCap(slot.Date),
		RecentlyUsed:   p.recentTitles(state),
	}
	if p.profile != nil {
		req.DietaryRestrictions = recipe.SplitList(p.profile.DietaryRestrictions)
		req.Preferences = recipe.SplitList(p.profile.FoodPreferences)
	}

	start := time.Now()
	s, err := p.capability.Suggest(ctx, req)
	if err != nil {
		if errors.Is(err, suggest.ErrUnavailable) {
			p.logger.Debug("suggestion unavailable", zap.Error(err))
		} else {
			p.record(s.Usage, time.Since(start))
			p.logger.Info("suggestion failed, using fallback",
				zap.String("date", slot.Date.Format(dateLayout)),
				zap.String("meal_type", string(slot.MealType)),
				zap.Error(err),
			)
		}
		return recipe.Recipe{}, false
	}
	p.record(s.Usage, time.Since(start))

	slot.Suggestion = s.Text
	return p.matcher.Match(s.Text, candidates)
}

func (p *Planner) record(usage shared.TokenUsage, latency time.Duration) {
	if p.metrics == nil {
		return
	}
	meta := shared.AgentMeta{AgentName: suggestionAgent, Usage: usage, Latency: latency}
	if err := p.metrics.RecordMeta(meta); err != nil {
		p.logger.Warn("failed to record suggestion metrics", zap.Error(err))
	}
}

// recentTitles lists recipes used in the plan so far or within the repeat
// window in history, sorted for a stable prompt.
func (p *Planner) recentTitles(state *PlanningState) []string {
	seen := make(map[string]struct{})
	for _, r := range p.recipes {
		if state.UsedInPlan(r.ID) {
			seen[r.Title] = struct{}{}
		}
	}
	window := p.cfg.MinDaysBetweenRepeats()
	for id := range history.RecentlyUsed(p.history, window, p.now) {
		for _, r := range p.recipes {
			if r.ID == id {
				seen[r.Title] = struct{}{}
			}
		}
	}

	titles := make([]string, 0, len(seen))
	for t := range seen {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// pickFallback draws from the candidates not yet used in the plan, or from
// all candidates when every one of them is already used.
func pickFallback(rng *rand.Rand, candidates []recipe.Recipe, state *PlanningState) recipe.Recipe {
	pool := make([]recipe.Recipe, 0, len(candidates))
	for _, c := range candidates {
		if !state.UsedInPlan(c.ID) {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		pool = candidates
	}
	return pool[rng.IntN(len(pool))]
}
