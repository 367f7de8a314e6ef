package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mealprep-planner/internal/app"
)

func init() {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a meal plan",
		Long:  "Generate a meal plan, write it as markdown with its grocery list and record it in the history.",
		Run:   runGenerate,
	}

	cmd.Flags().Uint64("seed", 0, "Seed for fallback selection (default: $MEALPREP_SEED)")
	cmd.Flags().Bool("dry-run", false, "Plan and print the summary without writing anything")
	cmd.Flags().Bool("no-history", false, "Do not record this plan in the history")
	cmd.Flags().Bool("save-history", false, "Record this plan even when history.auto_save is off")
	cmd.Flags().Bool("no-suggestions", false, "Skip the suggestion provider")
	cmd.Flags().StringP("profile", "p", "", "Profile card (default: $MEALPREP_PROFILE)")
	cmd.Flags().StringP("recipes", "r", "", "Recipe directory (default: $MEALPREP_RECIPES_DIR)")
	cmd.Flags().StringP("out", "o", "", "Plans directory (default: $MEALPREP_PLANS_DIR)")

	cmd.MarkFlagsMutuallyExclusive("no-history", "save-history")

	RootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	noSuggestions, _ := cmd.Flags().GetBool("no-suggestions")
	e, err := setup(cmd.Context(), !noSuggestions)
	if err != nil {
		exitErr("setup", err)
	}
	defer e.close()

	opts := app.GenerateOptions{}
	opts.ProfilePath, _ = cmd.Flags().GetString("profile")
	opts.RecipesDir, _ = cmd.Flags().GetString("recipes")
	opts.PlansDir, _ = cmd.Flags().GetString("out")
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		opts.Seed = &seed
	}
	if v, _ := cmd.Flags().GetBool("no-history"); v {
		save := false
		opts.SaveHistory = &save
	}
	if v, _ := cmd.Flags().GetBool("save-history"); v {
		save := true
		opts.SaveHistory = &save
	}

	res, err := e.app.Generate(cmd.Context(), opts)
	if err != nil {
		e.close()
		exitErr("generate", err)
	}

	out := cmd.OutOrStdout()
	plan := res.Plan
	fmt.Fprintf(out, "Plan %s for %s, %s to %s\n", res.PlanID, plan.ProfileName,
		plan.WeekStart.Format("2006-01-02"), plan.WeekEnd.Format("2006-01-02"))
	fmt.Fprintf(out, "Assigned %d of %d slots (%d unsatisfiable)\n",
		len(plan.AssignedSlots()), len(plan.Slots), plan.Unsatisfiable())
	fmt.Fprintf(out, "Score %d, grade %s\n", res.Score.Total, res.Score.Grade)
	fmt.Fprintf(out, "Grocery items: %d\n", res.Groceries.Len())
	if res.PlanPath != "" {
		fmt.Fprintf(out, "Plan written to %s\n", res.PlanPath)
	}
	if res.HistoryPath != "" {
		fmt.Fprintf(out, "History saved to %s\n", res.HistoryPath)
	}
	if res.HistoryErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: history not saved: %v\n", res.HistoryErr)
	}
}
