package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"mealprep-planner/internal/constraints"
	"mealprep-planner/internal/history"
	"mealprep-planner/internal/metrics"
	"mealprep-planner/internal/planner"
)

// ErrNoDatabase is returned by operations that need the archive.
var ErrNoDatabase = errors.New("no database configured")

// HistoryReport lists every history entry, marking the expired ones.
type HistoryReport struct {
	Directory string
	Entries   []HistoryLine
}

// HistoryLine is one entry of a HistoryReport.
type HistoryLine struct {
	Entry   history.Entry
	Expired bool
}

// History reads the history directory named by the constraint document.
func (a *App) History(constraintsPath string) (*HistoryReport, error) {
	if constraintsPath == "" {
		constraintsPath = a.cfg.ConstraintsPath
	}
	cfg, err := constraints.Load(constraintsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load constraints: %w", err)
	}

	store := history.NewStore(cfg.History.Directory, a.logger)
	entries, err := store.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	now := a.now()
	report := &HistoryReport{Directory: store.Dir()}
	for _, e := range entries {
		report.Entries = append(report.Entries, HistoryLine{Entry: e, Expired: e.Expired(now)})
	}
	return report, nil
}

// Stats summarises suggestion usage, archived plans and process health.
type Stats struct {
	Usage  []metrics.DailyUsage
	Plans  []planner.StoredPlan
	Health metrics.SysHealth
}

// Stats reports the last days of activity for the profile ("" for all).
func (a *App) Stats(ctx context.Context, days int, profileName, historyDir string) (*Stats, error) {
	if a.metricsStore == nil {
		return nil, ErrNoDatabase
	}

	usage, err := a.metricsStore.GetDailyUsage(days)
	if err != nil {
		return nil, fmt.Errorf("failed to read usage: %w", err)
	}
	plans, err := a.planRepo.ListRecentByProfile(ctx, profileName, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to read archived plans: %w", err)
	}

	return &Stats{
		Usage:  usage,
		Plans:  plans,
		Health: metrics.GetSysHealth(dataDir(a.cfg.DatabasePath), historyDir),
	}, nil
}

// CleanupMetrics deletes suggestion metrics older than the given days.
func (a *App) CleanupMetrics(olderThanDays int) (int64, error) {
	if a.metricsStore == nil {
		return 0, ErrNoDatabase
	}
	return a.metricsStore.Cleanup(olderThanDays)
}

func dataDir(dbPath string) string {
	if dbPath == "" {
		return "."
	}
	return filepath.Dir(dbPath)
}
