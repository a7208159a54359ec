package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/ionbench/internal/bench"
	"github.com/cwbudde/ionbench/internal/opt"
	"github.com/cwbudde/ionbench/internal/problems"
	"github.com/cwbudde/ionbench/internal/store"
)

var (
	configPath string
	problem    string
	optimizer  string
	iterations int
	popSize    int
	seed       int64
	dataPath   string
	outDir     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one benchmark and store the result",
	Long: `Runs a single optimisation algorithm against a benchmark problem
and persists the run record and metric history.`,
	RunE: runBenchmark,
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML run configuration (flags override it)")
	runCmd.Flags().StringVar(&problem, "problem", "ikr", "Benchmark problem: ikr")
	runCmd.Flags().StringVar(&optimizer, "optimizer", "ga", "Optimizer: ga, pso, mayfly")
	runCmd.Flags().IntVar(&iterations, "iters", 50, "Generations/iterations")
	runCmd.Flags().IntVar(&popSize, "pop", 50, "Population/swarm size")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	runCmd.Flags().StringVar(&dataPath, "data", "", "Reference trace CSV (empty generates it from the true parameters)")
	runCmd.Flags().StringVar(&outDir, "out", "./data", "Directory for run records")

	rootCmd.AddCommand(runCmd)
}

// effectiveConfig merges the optional YAML config with explicitly set flags;
// flags win.
func effectiveConfig(cmd *cobra.Command) (RunConfig, error) {
	cfg := defaultRunConfig()
	if configPath != "" {
		loaded, err := loadRunConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("problem") {
		cfg.Problem = problem
	}
	if cmd.Flags().Changed("optimizer") {
		cfg.Optimizer = optimizer
	}
	if cmd.Flags().Changed("iters") {
		cfg.Iterations = iterations
	}
	if cmd.Flags().Changed("pop") {
		cfg.PopSize = popSize
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("data") {
		cfg.DataPath = dataPath
	}
	if cmd.Flags().Changed("out") {
		cfg.OutDir = outDir
	}
	return cfg, cfg.validate()
}

func buildProblem(cfg RunConfig) (bench.Config, bench.Simulator, error) {
	switch cfg.Problem {
	case "ikr":
		if cfg.DataPath != "" {
			return problems.NewIKrFromTrace(cfg.DataPath)
		}
		return problems.NewIKr()
	default:
		return bench.Config{}, nil, fmt.Errorf("unknown problem: %s", cfg.Problem)
	}
}

func buildOptimizer(cfg RunConfig) (opt.Optimizer, error) {
	switch cfg.Optimizer {
	case "ga":
		return opt.NewGA(cfg.Iterations, cfg.PopSize, cfg.Seed), nil
	case "pso":
		return opt.NewPSO(cfg.Iterations, cfg.PopSize, cfg.Seed), nil
	case "mayfly":
		return opt.NewMayfly(cfg.Iterations, cfg.PopSize, cfg.Seed), nil
	default:
		return nil, fmt.Errorf("unknown optimizer: %s", cfg.Optimizer)
	}
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	slog.Info("starting benchmark run",
		"problem", cfg.Problem,
		"optimizer", cfg.Optimizer,
		"iters", cfg.Iterations,
		"pop", cfg.PopSize,
		"seed", cfg.Seed,
	)

	problemCfg, sim, err := buildProblem(cfg)
	if err != nil {
		return err
	}
	bm, err := bench.New(problemCfg, sim, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return err
	}
	algorithm, err := buildOptimizer(cfg)
	if err != nil {
		return err
	}

	started := time.Now()
	bestX, bestCost, err := algorithm.Run(bm, nil)
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}
	finalCost := bm.Evaluate(bestX)
	finished := time.Now()

	tracker := bm.Tracker()
	record := &store.RunRecord{
		RunID:       store.NewRunID(),
		Problem:     problemCfg.Name,
		Optimizer:   cfg.Optimizer,
		Seed:        cfg.Seed,
		StartedAt:   started,
		FinishedAt:  finished,
		BestInput:   bestX,
		BestCost:    bestCost,
		SolveCount:  tracker.SolveCount,
		TotalParams: bm.NParameters(),
		Converged:   bm.IsConverged(),
	}
	if original, err := bm.ToOriginal(bestX); err == nil {
		record.BestParams = original
	}
	if n := tracker.Len(); n > 0 {
		record.FinalRMSRE = tracker.ParamRMSRE[n-1]
		record.IdentifiedParams = tracker.IdentifiedCount[n-1]
	}

	fsStore, err := store.NewFSStore(cfg.OutDir)
	if err != nil {
		return err
	}
	if err := fsStore.SaveRun(record); err != nil {
		return fmt.Errorf("saving run record: %w", err)
	}
	if err := saveHistory(cfg.OutDir, record.RunID, tracker); err != nil {
		return fmt.Errorf("saving metric history: %w", err)
	}

	slog.Info("benchmark run complete",
		"runID", record.RunID,
		"best_cost", bestCost,
		"final_cost", finalCost,
		"solve_count", tracker.SolveCount,
		"converged", record.Converged,
		"elapsed", finished.Sub(started).String(),
	)
	return nil
}

func saveHistory(baseDir, runID string, tracker *bench.Tracker) error {
	hw, err := store.NewHistoryWriter(baseDir, runID)
	if err != nil {
		return err
	}
	for i := range tracker.Costs {
		entry := store.MetricEntry{
			Evaluation:       i,
			Cost:             tracker.Costs[i],
			ParamRMSRE:       tracker.ParamRMSRE[i],
			IdentifiedParams: tracker.IdentifiedCount[i],
		}
		if err := hw.Append(entry); err != nil {
			hw.Close()
			return err
		}
	}
	return hw.Close()
}
