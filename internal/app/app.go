package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"mealprep-planner/internal/config"
	"mealprep-planner/internal/constraints"
	"mealprep-planner/internal/database"
	"mealprep-planner/internal/history"
	"mealprep-planner/internal/metrics"
	"mealprep-planner/internal/planner"
	"mealprep-planner/internal/profile"
	"mealprep-planner/internal/recipe"
	"mealprep-planner/internal/render"
	"mealprep-planner/internal/scoring"
	"mealprep-planner/internal/shopping"
	"mealprep-planner/internal/suggest"
)

// App holds the application's dependencies.
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	capability suggest.Capability
	now        func() time.Time

	// Optional archive; nil when no database is configured.
	db           *database.DB
	planRepo     *planner.PlanRepository
	shoppingRepo *shopping.Repository
	metricsStore *metrics.Store
}

// Option configures an App.
type Option func(*App)

// WithClock fixes the time the app considers "now".
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithDatabase enables the SQLite archive of plans, grocery lists and metrics.
func WithDatabase(db *database.DB) Option {
	return func(a *App) {
		a.db = db
		a.planRepo = planner.NewPlanRepository(db.SQL)
		a.shoppingRepo = shopping.NewRepository(db.SQL)
		a.metricsStore = metrics.NewStore(db.SQL)
	}
}

// NewApp creates and initializes a new App instance. A nil capability
// disables suggestions.
func NewApp(cfg *config.Config, logger *zap.Logger, capability suggest.Capability, opts ...Option) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if capability == nil {
		capability = suggest.Unavailable("not configured")
	}
	a := &App{
		cfg:        cfg,
		logger:     logger,
		capability: capability,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GenerateOptions override the configured inputs of a single run.
type GenerateOptions struct {
	ConstraintsPath string
	ProfilePath     string
	RecipesDir      string
	PlansDir        string
	Seed            *uint64
	// SaveHistory overrides history.auto_save when set.
	SaveHistory *bool
	// DryRun skips every write.
	DryRun bool
}

// Result is the outcome of one generation run.
type Result struct {
	PlanID      string
	Plan        *planner.MealPlan
	Score       scoring.Breakdown
	Groceries   shopping.List
	PlanPath    string
	HistoryPath string
	ArchiveID   int64
	// HistoryErr is set when the plan could not be written to history.
	HistoryErr error
}

// Generate runs the planner end to end. Only configuration and input
// errors are returned; persistence failures are logged and the plan kept.
func (a *App) Generate(ctx context.Context, opts GenerateOptions) (*Result, error) {
	now := a.now()
	paths := a.resolve(opts)

	cfg, err := constraints.Load(paths.ConstraintsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load constraints: %w", err)
	}

	prof, err := profile.Load(paths.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	recipes, err := recipe.NewLoader(paths.RecipesDir, a.logger).LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	var (
		store   *history.Store
		entries []history.Entry
	)
	if cfg.History.Enabled {
		store = history.NewStore(cfg.History.Directory, a.logger)
		if entries, err = store.Load(now); err != nil {
			a.logger.Warn("could not load history, planning without it", zap.Error(err))
			entries = nil
		}
	}

	seed := a.cfg.Seed
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	plannerOpts := []planner.Option{
		planner.WithSeed(seed),
		planner.WithNow(now),
		planner.WithLogger(a.logger),
	}
	if a.metricsStore != nil {
		plannerOpts = append(plannerOpts, planner.WithMetricsRecorder(a.metricsStore))
	}

	plan, err := planner.New(cfg, prof, recipes, entries, a.capability, plannerOpts...).Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan: %w", err)
	}

	res := &Result{
		PlanID:    ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		Plan:      plan,
		Score:     scoring.Score(plan, entries, cfg, now),
		Groceries: shopping.Build(plan.Recipes()),
	}
	a.logger.Info("plan scored",
		zap.String("plan_id", res.PlanID),
		zap.Int("total", res.Score.Total),
		zap.String("grade", res.Score.Grade),
	)

	if opts.DryRun {
		return res, nil
	}

	doc := render.Input{Plan: plan, Groceries: res.Groceries, GeneratedAt: now}
	if cfg.Scoring.Enabled {
		doc.Score = &res.Score
	}
	if res.PlanPath, err = render.WriteFile(paths.PlansDir, doc); err != nil {
		return nil, fmt.Errorf("failed to write plan document: %w", err)
	}

	saveHistory := cfg.History.AutoSave
	if opts.SaveHistory != nil {
		saveHistory = *opts.SaveHistory
	}
	if store != nil && saveHistory {
		res.HistoryPath, res.HistoryErr = store.Save(plan.HistoryRecord(), cfg.History.TTLDays, now)
		if res.HistoryErr != nil {
			a.logger.Error("failed to save history; the plan was still written", zap.Error(res.HistoryErr))
		}
	}

	a.archive(ctx, res, now)
	return res, nil
}

// archive stores the plan and its grocery list when a database is configured.
func (a *App) archive(ctx context.Context, res *Result, now time.Time) {
	if a.planRepo == nil {
		return
	}

	id, err := a.planRepo.Save(ctx, res.PlanID, res.Plan, res.Score.Total, res.Score.Grade, now)
	if err != nil {
		a.logger.Warn("failed to archive plan", zap.Error(err))
		return
	}
	res.ArchiveID = id

	_, err = a.shoppingRepo.Save(ctx, &shopping.ShoppingList{
		MealPlanID:  id,
		ProfileName: res.Plan.ProfileName,
		WeekStart:   res.Plan.WeekStart,
		Items:       res.Groceries.Lines(),
		CreatedAt:   now,
	})
	if err != nil {
		a.logger.Warn("failed to archive grocery list", zap.Error(err))
	}
}

func (a *App) resolve(opts GenerateOptions) GenerateOptions {
	out := opts
	if out.ConstraintsPath == "" {
		out.ConstraintsPath = a.cfg.ConstraintsPath
	}
	if out.ProfilePath == "" {
		out.ProfilePath = a.cfg.ProfilePath
	}
	if out.RecipesDir == "" {
		out.RecipesDir = a.cfg.RecipesDir
	}
	if out.PlansDir == "" {
		out.PlansDir = a.cfg.PlansDir
	}
	return out
}
