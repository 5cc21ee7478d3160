package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/circuit/canvas"
	"github.com/pthm-cable/circuit/config"
	"github.com/pthm-cable/circuit/game"
	"github.com/pthm-cable/circuit/telemetry"
)

// litThreshold is the brightest channel value above which a pixel counts as lit.
const litThreshold = 16

// Targets describe the look the tuner aims for.
type Targets struct {
	AgeMean  float64 // mean trace age in ticks at window end
	Coverage float64 // fraction of lit pixels on the final frame
}

// FitnessEvaluator runs headless engines and scores them against Targets.
type FitnessEvaluator struct {
	params     *ParamVector
	shape      string
	ticks      int
	seeds      []int64
	baseConfig *config.Config
	targets    Targets

	mu   sync.Mutex
	last runResult // averaged over seeds, from the most recent Evaluate call
}

// runResult holds the measurements from one run.
type runResult struct {
	ageMean  float64
	coverage float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, shape string, ticks int, seeds []int64, baseCfg *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		shape:      shape,
		ticks:      ticks,
		seeds:      seeds,
		baseConfig: baseCfg,
		targets:    targets,
	}
}

// Last returns the measurements of the most recent evaluation.
func (fe *FitnessEvaluator) Last() (ageMean, coverage float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last.ageMean, fe.last.coverage
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.run(x, s)
		}(i, seed)
	}
	wg.Wait()

	var avg runResult
	var fitness float64
	for _, r := range results {
		fitness += fe.score(r)
		avg.ageMean += r.ageMean
		avg.coverage += r.coverage
	}
	n := float64(len(results))
	avg.ageMean /= n
	avg.coverage /= n

	fe.mu.Lock()
	fe.last = avg
	fe.mu.Unlock()

	return fitness / n
}

// score is the sum of squared relative errors against the targets.
func (fe *FitnessEvaluator) score(r runResult) float64 {
	sq := func(got, want float64) float64 {
		if want == 0 {
			return got * got
		}
		d := (got - want) / want
		return d * d
	}
	return sq(r.ageMean, fe.targets.AgeMean) + sq(r.coverage, fe.targets.Coverage)
}

// run executes one headless engine. The first window is warmup and ignored.
func (fe *FitnessEvaluator) run(x []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	cfg.Engine.InitialShape = fe.shape
	cfg.Engine.StartPaused = false
	cfg.Director.Enabled = false
	fe.params.ApplyToMode(cfg.Mode(fe.shape), x)

	var windows []telemetry.WindowStats
	surface := canvas.NewRaster(cfg.Screen.Width, cfg.Screen.Height)
	g, err := game.NewGame(surface, game.Options{
		Config:      cfg,
		Seed:        seed,
		Headless:    true,
		StatsWindow: max(fe.ticks/6, 1),
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		return runResult{ageMean: math.Inf(1)}
	}
	defer g.Unload()

	if err := g.Run(int64(fe.ticks)); err != nil {
		return runResult{ageMean: math.Inf(1)}
	}

	var r runResult
	if len(windows) > 1 {
		for _, w := range windows[1:] {
			r.ageMean += w.AgeMean
		}
		r.ageMean /= float64(len(windows) - 1)
	}
	r.coverage = Coverage(surface)
	return r
}

// copyConfig returns a copy of the base config that runs may modify.
// Slices are shared and must be treated as read-only.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// Coverage returns the fraction of pixels whose brightest channel exceeds
// litThreshold.
func Coverage(r *canvas.Raster) float64 {
	pix := r.Image().Pix
	if len(pix) == 0 {
		return 0
	}
	lit := 0
	for i := 0; i < len(pix); i += 4 {
		if max(pix[i], pix[i+1], pix[i+2]) > litThreshold {
			lit++
		}
	}
	return float64(lit) / float64(len(pix)/4)
}
