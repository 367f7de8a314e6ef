package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved plan history entries",
		Run:   runHistory,
	}

	cmd.Flags().Bool("all", false, "Include expired entries")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	all, _ := cmd.Flags().GetBool("all")

	e, err := setup(cmd.Context(), false)
	if err != nil {
		exitErr("setup", err)
	}
	defer e.close()

	report, err := e.app.History(e.cfg.ConstraintsPath)
	if err != nil {
		e.close()
		exitErr("history", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "History in %s\n", report.Directory)
	shown := 0
	for _, line := range report.Entries {
		if line.Expired && !all {
			continue
		}
		entry := line.Entry
		status := "active"
		if line.Expired {
			status = "expired"
		}
		fmt.Fprintf(out, "%s  %s..%s  %-12s %3d recipes  %s\n", entry.ID, entry.WeekStart, entry.WeekEnd,
			entry.ProfileName, len(entry.Usages), status)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(out, "No entries.")
	}
}
