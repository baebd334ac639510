package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"

	"github.com/beka-birhanu/vinom-nav/api/identity"
	"github.com/beka-birhanu/vinom-nav/config"
	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/game/learning"
	"github.com/beka-birhanu/vinom-nav/game/maze"
	"github.com/beka-birhanu/vinom-nav/game/search"
	"github.com/beka-birhanu/vinom-nav/infrastruture/report"
	"github.com/beka-birhanu/vinom-nav/metrics"
	"github.com/beka-birhanu/vinom-nav/service"
)

const evaluationRollouts = 10

var (
	variantNames     []string
	algorithmNames   []string
	trainMaze        string
	trainAlgorithm   string
	pathMaze         string
	pathAlgorithm    string
	runs             int
	seed             int64
	trainingEpisodes int
	warmStart        bool
	saveTables       bool
	benchReportDir   string
	trainReportDir   string
	noColor          bool
	asJSON           bool
	operator         string
	tokenTTL         time.Duration

	rootCmd = &cobra.Command{
		Use:           "vinom-nav",
		Short:         "Grid navigation with search and reinforcement learning agents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve navigation, metrics and run tracking over HTTP",
		RunE:  runServe,
	}

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Run every selected algorithm on every selected maze and record the runs",
		RunE:  runBench,
	}

	trainCmd = &cobra.Command{
		Use:   "train",
		Short: "Train a learning agent and write its training report",
		RunE:  runTrain,
	}

	pathCmd = &cobra.Command{
		Use:   "path",
		Short: "Plan a path with a search algorithm and draw it",
		RunE:  runPath,
	}

	metricsCmd = &cobra.Command{
		Use:   "metrics",
		Short: "Print the stored per maze, per algorithm aggregates",
		RunE:  runMetrics,
	}

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token for the run tracking routes",
		RunE:  runToken,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "seed of generated mazes and learners, 0 keeps the defaults")

	benchCmd.Flags().StringSliceVar(&variantNames, "mazes", maze.VariantNames, "maze variants to run on")
	benchCmd.Flags().StringSliceVar(&algorithmNames, "algorithms", algorithmStrings(game.Algorithms), "algorithms to run")
	benchCmd.Flags().IntVar(&runs, "runs", 1, "runs per maze and algorithm")
	benchCmd.Flags().IntVar(&trainingEpisodes, "episodes", 0, "training episodes of learners, 0 uses the configured cap")
	benchCmd.Flags().BoolVar(&warmStart, "warm-start", false, "start learners from stored Q-tables")
	benchCmd.Flags().BoolVar(&saveTables, "save", false, "store learner Q-tables after each run")
	benchCmd.Flags().StringVar(&benchReportDir, "report-dir", "", "directory for the HTML and JSON reports")

	trainCmd.Flags().StringVar(&trainMaze, "maze", maze.VariantOpen, "maze variant")
	trainCmd.Flags().StringVar(&trainAlgorithm, "algorithm", string(game.QLearning), "learning algorithm")
	trainCmd.Flags().IntVar(&trainingEpisodes, "episodes", 0, "training episodes, 0 uses the configured cap")
	trainCmd.Flags().BoolVar(&warmStart, "warm-start", false, "start from the stored Q-table")
	trainCmd.Flags().BoolVar(&saveTables, "save", false, "store the Q-table after training")
	trainCmd.Flags().StringVar(&trainReportDir, "report-dir", "reports", "directory for the HTML and JSON reports")

	pathCmd.Flags().StringVar(&pathMaze, "maze", maze.VariantDiagonal, "maze variant")
	pathCmd.Flags().StringVar(&pathAlgorithm, "algorithm", string(game.AStar), "search algorithm")

	metricsCmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")

	serveCmd.Flags().IntVar(&trainingEpisodes, "episodes", 0, "training episodes of learners built for move queries")

	tokenCmd.Flags().StringVar(&operator, "operator", "", "operator name carried by the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("operator")

	rootCmd.AddCommand(serveCmd, benchCmd, trainCmd, pathCmd, metricsCmd, tokenCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	gin.SetMode(config.Envs.GinMode)

	initStorage(ctx)
	initTelemetry()
	initMetricsManager(ctx)
	initHyperparams()
	initQTables()
	initFactory(seed)
	initJWTTokenizer()
	initControllers(trainingEpisodes)
	initRouter(jwtTokenizer)

	errs := make(chan error, 1)
	go func() { errs <- router.Run() }()

	select {
	case err := <-errs:
		return fmt.Errorf("starting server: %w", err)
	case <-ctx.Done():
		appLogger.Info("Shutting down")
		return nil
	}
}

func runBench(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	algorithms, err := parseAlgorithms(algorithmNames)
	if err != nil {
		return err
	}

	initStorage(ctx)
	initMetricsManager(ctx)
	initHyperparams()
	if warmStart || saveTables {
		initQTables()
	}
	initFactory(seed)
	initRunner(trainingEpisodes)

	bench := service.NewBench(&service.BenchConfig{
		Factory:     factory,
		Runner:      runner,
		Leaderboard: leaderboard,
		Logger:      newLogger("BENCH", config.ColorCyan),
	})
	outcomes, err := bench.Run(ctx, service.Plan{
		Variants:   variantNames,
		Algorithms: algorithms,
		Runs:       runs,
		Seed:       seed,
		WarmStart:  warmStart,
		SaveTables: saveTables,
	})
	printOutcomes(outcomes)
	if err != nil {
		return err
	}

	printSummaries(algorithms)
	if benchReportDir == "" {
		return nil
	}
	return writeBenchReports(outcomes)
}

func runTrain(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a := game.Algorithm(trainAlgorithm)
	if !a.IsLearner() {
		return fmt.Errorf("%q is not a learning algorithm", a)
	}
	v, err := maze.NewVariant(trainMaze, seed)
	if err != nil {
		return err
	}

	initHyperparams()
	if warmStart || saveTables {
		initQTables()
	}
	initFactory(seed)

	nav, err := factory.Build(ctx, a, v.Grid, v.Name, warmStart)
	if err != nil {
		return err
	}
	l := nav.(learning.Learner)

	tr := l.Train(v.Start(), v.Goal(), trainingEpisodes, 0)
	eval := l.Evaluate(v.Start(), v.Goal(), evaluationRollouts, 0)

	au := aurora.NewAurora(!noColor)
	s := tr.Summary
	fmt.Printf("%s on %s: %d episodes in %.2fs (%s)\n", a.DisplayName(), v.Name, s.TotalEpisodes, s.TotalTrainingTime, s.StopReason)
	fmt.Printf("  training success rate %.2f, average length %.1f, states %d\n", s.SuccessRate, s.AverageEpisodeLength, s.TableSize)
	fmt.Printf("  greedy success rate %s\n", colorRate(au, eval.SuccessRate))

	if saveTables {
		if err := factory.SaveTable(ctx, nav, v.Name); err != nil {
			return err
		}
		appLogger.Info(fmt.Sprintf("Stored %s table for %s", a, v.Name))
	}
	if err := report.WriteTrainingFiles(trainReportDir, v.Name, tr); err != nil {
		return err
	}
	appLogger.Info(fmt.Sprintf("Training report written to %s", trainReportDir))
	return nil
}

func runPath(_ *cobra.Command, _ []string) error {
	v, err := maze.NewVariant(pathMaze, seed)
	if err != nil {
		return err
	}
	finder, err := search.New(game.Algorithm(pathAlgorithm), v.Grid)
	if err != nil {
		return err
	}

	counter := &game.NodeCounter{}
	finder.SetNodeRecorder(counter)
	began := time.Now()
	path, cost := finder.FindPath(v.Start(), v.Goal())
	took := time.Since(began)

	au := aurora.NewAurora(!noColor)
	fmt.Print(maze.Render(v.Grid, path, au))
	if math.IsInf(cost, 1) {
		fmt.Printf("%s: %s after exploring %d nodes\n", finder.Algorithm().DisplayName(), au.Red("no path"), counter.Count())
		return nil
	}
	fmt.Printf("%s: %d steps, %d nodes explored, %s\n", finder.Algorithm().DisplayName(), len(path)-1, counter.Count(), took)
	return nil
}

func runMetrics(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	initStorage(ctx)
	initMetricsManager(ctx)

	t := metricsManager.Table()
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	}

	au := aurora.NewAurora(!noColor)
	for _, m := range slices.Sorted(maps.Keys(t)) {
		fmt.Println(au.Bold(m))
		fmt.Printf("  %-20s %6s %8s %9s %10s %9s %8s\n", "algorithm", "runs", "success", "avg path", "avg nodes", "avg time", "best")
		for _, a := range game.Algorithms {
			agg, ok := t.Get(metrics.Key{Maze: m, Algorithm: a})
			if !ok {
				continue
			}
			fmt.Printf("  %-20s %6d %7.0f%% %9.1f %10.1f %8.3fs %8.2f\n",
				a.DisplayName(), agg.TotalRuns, agg.SuccessRate*100, agg.AvgPathLength, agg.AvgNodesExplored, agg.AvgTime, agg.BestScore)
		}
	}
	return nil
}

func runToken(_ *cobra.Command, _ []string) error {
	initJWTTokenizer()
	tok, err := jwtTokenizer.Generate(map[string]any{identity.OperatorClaim: operator}, tokenTTL)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}

func parseAlgorithms(names []string) ([]game.Algorithm, error) {
	algorithms := make([]game.Algorithm, 0, len(names))
	for _, n := range names {
		a := game.Algorithm(n)
		if !a.Valid() {
			return nil, fmt.Errorf("%w: %q", service.ErrUnknownAlgorithm, n)
		}
		algorithms = append(algorithms, a)
	}
	if len(algorithms) == 0 {
		return nil, errors.New("no algorithm selected")
	}
	return algorithms, nil
}

func algorithmStrings(algorithms []game.Algorithm) []string {
	names := make([]string, len(algorithms))
	for k, a := range algorithms {
		names[k] = string(a)
	}
	return names
}

func printOutcomes(outcomes []*service.Outcome) {
	au := aurora.NewAurora(!noColor)
	for _, out := range outcomes {
		status := au.Green("ok")
		if !out.Success {
			status = au.Red(string(out.StopReason))
		}
		fmt.Printf("%-10s %-20s %4d/%-4d %7d nodes %9.3fs %7.2f  %v\n",
			out.Maze, out.Algorithm.DisplayName(), out.Steps, out.Optimal, out.NodesExplored, out.Elapsed.Seconds(), out.Score, status)
	}
}

func printSummaries(algorithms []game.Algorithm) {
	for _, m := range variantNames {
		for _, a := range algorithms {
			history := metricsManager.History(a, m)
			if len(history) < 2 {
				continue
			}
			s := metrics.Summarize(history)
			fmt.Printf("%-10s %-20s success %.2f, path %.1f±%.1f, score median %.2f p90 %.2f\n",
				m, a.DisplayName(), s.SuccessRate, s.PathLength.Mean, s.PathLength.StdDev, s.Score.Median, s.Score.P90)
		}
	}
}

func writeBenchReports(outcomes []*service.Outcome) error {
	if err := os.MkdirAll(benchReportDir, 0o750); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(benchReportDir, "bench.html"))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := report.RenderBench(f, metricsManager.Table()); err != nil {
		return err
	}

	training := make(map[string][]*learning.TrainingReport)
	for _, out := range outcomes {
		if out.Training != nil {
			training[out.Maze] = append(training[out.Maze], out.Training)
		}
	}
	for m, reports := range training {
		if err := report.WriteTrainingFiles(filepath.Join(benchReportDir, m), m, reports...); err != nil {
			return err
		}
	}
	appLogger.Info(fmt.Sprintf("Reports written to %s", benchReportDir))
	return nil
}

func colorRate(au aurora.Aurora, rate float64) aurora.Value {
	text := fmt.Sprintf("%.2f", rate)
	switch {
	case rate >= 0.9:
		return au.Green(text)
	case rate >= 0.5:
		return au.Yellow(text)
	default:
		return au.Red(text)
	}
}
