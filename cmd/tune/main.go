// Command tune searches mode parameters with CMA-ES so that a headless run
// settles on a target trace age and screen coverage. It writes every
// evaluation to optimize_log.csv and the best parameters to best_config.yaml.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/circuit/config"
)

type options struct {
	configPath string
	shape      string
	ticks      int
	seeds      int
	maxEvals   int
	population int
	outputDir  string
	targets    Targets
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.StringVar(&o.shape, "shape", config.ShapeHexagon, "Mode to tune: hexagon or chip")
	flag.IntVar(&o.ticks, "ticks", 1800, "Ticks per run")
	flag.IntVar(&o.seeds, "seeds", 3, "Number of seeds per evaluation")
	flag.IntVar(&o.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&o.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&o.outputDir, "output", "", "Output directory for results")
	flag.Float64Var(&o.targets.AgeMean, "target-age", 60, "Target mean trace age in ticks")
	flag.Float64Var(&o.targets.Coverage, "target-coverage", 0.15, "Target fraction of lit pixels")
	flag.Parse()

	// Per-run engine logs would drown the progress lines.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(o); err != nil {
		slog.Error("tune failed", "error", err)
		os.Exit(1)
	}
}

func run(o options) error {
	if o.outputDir == "" {
		return fmt.Errorf("-output is required")
	}
	if err := os.MkdirAll(o.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	base, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	mode := base.Mode(o.shape)
	if mode == nil {
		return fmt.Errorf("unknown shape %q", o.shape)
	}

	params := NewParamVector()
	seeds := make([]int64, o.seeds)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, o.shape, o.ticks, seeds, base, o.targets)

	log, err := newEvalLog(filepath.Join(o.outputDir, "optimize_log.csv"), params, o.maxEvals)
	if err != nil {
		return err
	}
	defer log.close()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			age, cov := evaluator.Last()
			log.record(raw, fitness, age, cov)
			return fitness
		},
	}

	popSize := o.population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(params.Dim())/2.0)
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	settings := &optimize.Settings{FuncEvaluations: o.maxEvals, Concurrent: 0}

	fmt.Printf("Tuning %s: %d parameters, population=%d, max_evals=%d, seeds=%d, ticks=%d\n",
		o.shape, params.Dim(), popSize, o.maxEvals, o.seeds, o.ticks)

	initX := params.Normalize(params.Clamp(params.ExtractFromMode(mode)))
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	best := log.best
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	fmt.Printf("\nDone after %d evaluations in %s, best fitness %.4f\n",
		log.count, formatDuration(time.Since(log.start)), log.bestFitness)
	if best == nil {
		return nil
	}
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, best[i])
	}

	out, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	params.ApplyToMode(out.Mode(o.shape), best)
	path := filepath.Join(o.outputDir, "best_config.yaml")
	if err := out.WriteYAML(path); err != nil {
		return err
	}
	fmt.Printf("Best config saved to: %s\n", path)
	return nil
}

// evalLog writes one CSV row per evaluation, remembers the best parameters
// and prints progress with an ETA.
type evalLog struct {
	f        *os.File
	w        *csv.Writer
	maxEvals int
	start    time.Time

	count       int
	best        []float64
	bestFitness float64
}

func newEvalLog(path string, params *ParamVector, maxEvals int) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}
	l := &evalLog{f: f, w: csv.NewWriter(f), maxEvals: maxEvals, start: time.Now(), bestFitness: 1e9}

	header := []string{"eval", "fitness", "age_mean", "coverage"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	l.w.Write(header)
	return l, nil
}

func (l *evalLog) record(raw []float64, fitness, age, cov float64) {
	l.count++
	if fitness < l.bestFitness {
		l.bestFitness = fitness
		l.best = append([]float64(nil), raw...)
	}

	row := []string{
		strconv.Itoa(l.count),
		strconv.FormatFloat(fitness, 'f', 6, 64),
		strconv.FormatFloat(age, 'f', 2, 64),
		strconv.FormatFloat(cov, 'f', 4, 64),
	}
	for _, v := range raw {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	l.w.Write(row)
	l.w.Flush()

	elapsed := time.Since(l.start)
	eta := time.Duration(l.maxEvals-l.count) * (elapsed / time.Duration(l.count))
	fmt.Printf("Eval %d/%d: age=%.1f coverage=%.3f fitness=%.4f (best=%.4f) | elapsed: %s, ETA: %s\n",
		l.count, l.maxEvals, age, cov, fitness, l.bestFitness, formatDuration(elapsed), formatDuration(eta))
}

func (l *evalLog) close() {
	l.w.Flush()
	l.f.Close()
}

// formatDuration formats a duration as 1h02m03s or 2m03s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
