package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cwbudde/ionbench/internal/store"
)

var runsDir string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored benchmark runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		fsStore, err := store.NewFSStore(runsDir)
		if err != nil {
			return err
		}
		infos, err := fsStore.ListRuns()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("no stored runs")
			return nil
		}
		sort.Slice(infos, func(a, b int) bool {
			return infos[a].FinishedAt.After(infos[b].FinishedAt)
		})

		fmt.Printf("%-36s  %-16s  %-8s  %12s  %8s  %s\n",
			"RUN", "PROBLEM", "OPT", "BEST COST", "SOLVES", "CONVERGED")
		for _, info := range infos {
			fmt.Printf("%-36s  %-16s  %-8s  %12.6g  %8d  %t\n",
				info.RunID, info.Problem, info.Optimizer,
				info.BestCost, info.SolveCount, info.Converged)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsDir, "out", "./data", "Directory with run records")
	rootCmd.AddCommand(runsCmd)
}
