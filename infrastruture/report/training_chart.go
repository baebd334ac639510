// Package report exports training reports and benchmark tables as JSON and
// echarts HTML pages.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/game/learning"
	"github.com/beka-birhanu/vinom-nav/metrics"
)

const (
	trainingPage = "training.html"
	theme        = "shine"
)

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *learning.TrainingReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(r)
}

// RenderTraining draws one line chart per measured series, with one line per
// report.
func RenderTraining(w io.Writer, reports ...*learning.TrainingReport) error {
	page := components.NewPage()
	page.PageTitle = "Training"
	page.AddCharts(
		trainingChart("Episode reward", reports, func(r *learning.TrainingReport) []float64 {
			return r.EpisodeRewards
		}),
		trainingChart("Episode length", reports, func(r *learning.TrainingReport) []float64 {
			return floats(r.EpisodeLengths)
		}),
		trainingChart("Exploration rate", reports, func(r *learning.TrainingReport) []float64 {
			return r.ExplorationRates
		}),
		trainingChart("New nodes per episode", reports, func(r *learning.TrainingReport) []float64 {
			return floats(r.NodesExplored)
		}),
	)
	return page.Render(w)
}

// WriteTrainingFiles writes <algorithm>_<maze>_training.json for every
// report and a training.html page with all of them into dir.
func WriteTrainingFiles(dir, maze string, reports ...*learning.TrainingReport) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}
	for _, r := range reports {
		name := fmt.Sprintf("%s_%s_training.json", r.Algorithm, maze)
		if err := writeFile(filepath.Join(dir, name), func(w io.Writer) error { return WriteJSON(w, r) }); err != nil {
			return err
		}
	}
	return writeFile(filepath.Join(dir, trainingPage), func(w io.Writer) error {
		return RenderTraining(w, reports...)
	})
}

// RenderBench draws the average score and path length of every algorithm
// per maze.
func RenderBench(w io.Writer, t metrics.Table) error {
	mazes := make([]string, 0, len(t))
	for maze := range t {
		mazes = append(mazes, maze)
	}
	slices.Sort(mazes)

	page := components.NewPage()
	page.PageTitle = "Benchmark"
	page.AddCharts(
		benchChart("Average score", t, mazes, func(m metrics.AlgorithmMetrics) float64 { return m.AvgScore }),
		benchChart("Average path length", t, mazes, func(m metrics.AlgorithmMetrics) float64 { return m.AvgPathLength }),
		benchChart("Success rate", t, mazes, func(m metrics.AlgorithmMetrics) float64 { return m.SuccessRate }),
	)
	return page.Render(w)
}

func trainingChart(title string, reports []*learning.TrainingReport, series func(*learning.TrainingReport) []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: theme}),
		charts.WithXAxisOpts(opts.XAxis{Name: "episode"}),
	)

	episodes := 0
	for _, r := range reports {
		episodes = max(episodes, len(series(r)))
	}
	xs := make([]string, episodes)
	for i := range xs {
		xs[i] = strconv.Itoa(i + 1)
	}
	line.SetXAxis(xs)

	for _, r := range reports {
		values := series(r)
		items := make([]opts.LineData, 0, len(values))
		for _, v := range values {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(r.Algorithm.DisplayName(), items)
	}
	return line
}

func benchChart(title string, t metrics.Table, mazes []string, value func(metrics.AlgorithmMetrics) float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: theme}),
	)
	bar.SetXAxis(mazes)

	for _, a := range game.Algorithms {
		items := make([]opts.BarData, 0, len(mazes))
		present := false
		for _, maze := range mazes {
			m, ok := t.Get(metrics.Key{Maze: maze, Algorithm: a})
			present = present || ok
			items = append(items, opts.BarData{Value: value(m)})
		}
		if present {
			bar.AddSeries(a.DisplayName(), items)
		}
	}
	return bar
}

func floats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
