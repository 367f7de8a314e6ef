package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show suggestion usage, archived plans and storage health",
		Run:   runStats,
	}
	stats.Flags().Int("days", 7, "Days of usage to report")
	stats.Flags().String("profile", "", "Only list plans for this profile")

	cleanup := &cobra.Command{
		Use:   "metrics-cleanup",
		Short: "Delete old suggestion metrics",
		Run:   runCleanup,
	}
	cleanup.Flags().Int("days", 30, "Keep records for the last N days")

	RootCmd.AddCommand(stats, cleanup)
}

func runStats(cmd *cobra.Command, args []string) {
	days, _ := cmd.Flags().GetInt("days")
	profileName, _ := cmd.Flags().GetString("profile")

	e, err := setup(cmd.Context(), false)
	if err != nil {
		exitErr("setup", err)
	}
	defer e.close()

	historyDir := ""
	if report, err := e.app.History(e.cfg.ConstraintsPath); err == nil {
		historyDir = report.Directory
	}

	stats, err := e.app.Stats(cmd.Context(), days, profileName, historyDir)
	if err != nil {
		e.close()
		exitErr("stats", err)
	}

	type planLine struct {
		PlanID    string `json:"plan_id"`
		Profile   string `json:"profile"`
		WeekStart string `json:"week_start"`
		Score     int    `json:"score"`
		Grade     string `json:"grade"`
	}
	plans := make([]planLine, 0, len(stats.Plans))
	for _, p := range stats.Plans {
		plans = append(plans, planLine{
			PlanID:    p.PlanID,
			Profile:   p.ProfileName,
			WeekStart: p.WeekStart.Format("2006-01-02"),
			Score:     p.Score,
			Grade:     p.Grade,
		})
	}

	b, _ := json.MarshalIndent(map[string]any{
		"usage":  stats.Usage,
		"plans":  plans,
		"health": stats.Health,
	}, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

func runCleanup(cmd *cobra.Command, args []string) {
	days, _ := cmd.Flags().GetInt("days")

	e, err := setup(cmd.Context(), false)
	if err != nil {
		exitErr("setup", err)
	}
	defer e.close()

	affected, err := e.app.CleanupMetrics(days)
	if err != nil {
		e.close()
		exitErr("cleanup", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d old metric records.\n", affected)
}
