// Command cdice-bench scores a corpus of segmentations with continuous and
// classical Dice.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	cdice "github.com/jamesainslie/go-cdice"
	"github.com/jamesainslie/go-cdice/internal/bench"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		corpusDir = flag.String("corpus", "testdata/phantoms", "Directory containing manifest.yaml and map files")
		modelPath = flag.String("model", "", "Optional ONNX model used to segment case images")
		threshold = flag.Float64("threshold", 0.01, "Binarization threshold for classical Dice")
		shift     = flag.Bool("shift", false, "Run a shift sweep for every case")
		step      = flag.Int("step", 2, "Columns per shift")
		shifts    = flag.Int("shifts", 4, "Number of shifts after the baseline")
		sweep     = flag.Bool("sweep", false, "Run threshold sweep")
		sweepMin  = flag.Float64("sweep-min", 0.01, "Sweep minimum threshold")
		sweepMax  = flag.Float64("sweep-max", 0.50, "Sweep maximum threshold")
		sweepStep = flag.Float64("sweep-step", 0.05, "Sweep step size")
		poolSize  = flag.Int("pool", 1, "ONNX session pool size")
		verbose   = flag.Bool("v", false, "Verbose logging")
		showVer   = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVer {
		fmt.Printf("%s %s (%s, %s)\n", "cdice-bench", version, commit, date)
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cases, err := bench.LoadCorpus(*corpusDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading corpus: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d cases from %s\n\n", len(cases), *corpusDir)

	cfg := bench.Config{
		Step:      *step,
		Shifts:    *shifts,
		Threshold: *threshold,
		Logger:    logger,
	}

	ctx := context.Background()

	var pred bench.Predictor
	if *modelPath != "" {
		seg, err := cdice.NewSegmenter(*modelPath,
			cdice.WithPoolSize(*poolSize),
			cdice.WithThreshold(*threshold),
			cdice.WithLogger(logger),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating segmenter: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = seg.Close() }()
		pred = seg
	}

	switch {
	case *sweep:
		err = runSweep(ctx, os.Stdout, pred, cases, cfg, *sweepMin, *sweepMax, *sweepStep)
	case *shift:
		err = runShift(ctx, os.Stdout, pred, cases, cfg)
	default:
		err = runSingle(ctx, os.Stdout, pred, cases, cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runSingle(ctx context.Context, w io.Writer, pred bench.Predictor, cases []*bench.Case, cfg bench.Config) error {
	fmt.Fprintf(w, "%-20s %-8s %-8s %-8s\n", "Case", "cDC", "DC", "Jaccard")
	fmt.Fprintln(w, strings.Repeat("-", 50))

	all := make([]bench.Metrics, 0, len(cases))
	for _, c := range cases {
		m, err := bench.EvaluateCase(ctx, pred, c, cfg)
		if err != nil {
			return fmt.Errorf("evaluating %s: %w", c.ID, err)
		}
		all = append(all, m)
		fmt.Fprintf(w, "%-20s %-8.2f %-8.2f %-8.2f\n", c.ID, m.Continuous, m.Binary, cdice.Jaccard(m.Binary))
	}

	mean := bench.Mean(all)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "%-20s %-8.2f %-8.2f %-8.2f\n", "mean", mean.Continuous, mean.Binary, cdice.Jaccard(mean.Binary))
	return nil
}

func runShift(ctx context.Context, w io.Writer, pred bench.Predictor, cases []*bench.Case, cfg bench.Config) error {
	fmt.Fprintf(w, "Shift Sweep (step=%d, shifts=%d)\n", cfg.Step, cfg.Shifts)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "%-20s %-6s %-8s %-8s\n", "Case", "Shift", "cDC", "DC")

	for _, c := range cases {
		prob, err := bench.ResolveProbability(ctx, pred, c)
		if err != nil {
			return err
		}
		results, err := bench.ShiftSweep(c.Truth, prob, cfg)
		if err != nil {
			return fmt.Errorf("evaluating %s: %w", c.ID, err)
		}
		for _, r := range results {
			fmt.Fprintf(w, "%-20s %-6d %-8.2f %-8.2f\n", c.ID, r.Shift, r.Continuous, r.Binary)
		}

		d := bench.Degrade(results)
		fmt.Fprintf(w, "%-20s drop cDC %.2f, DC %.2f (monotone: %v, DC faster: %v)\n",
			c.ID, d.ContinuousDrop, d.BinaryDrop, d.ContinuousMonotone, d.BinaryFaster)
	}
	return nil
}

func runSweep(ctx context.Context, w io.Writer, pred bench.Predictor, cases []*bench.Case, cfg bench.Config, min, max, step float64) error {
	thresholds := bench.SweepThresholds(min, max, step)

	results, err := bench.Sweep(ctx, pred, cases, cfg, thresholds)
	if err != nil {
		return fmt.Errorf("during sweep: %w", err)
	}

	fmt.Fprintln(w, "Threshold Sweep Results")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "%-8s %-8s %-8s %-8s\n", "Thresh", "DC", "cDC", "Gap")

	// Print sorted by threshold for readability
	for _, t := range thresholds {
		for _, r := range results {
			if r.Threshold == t {
				fmt.Fprintf(w, "%-8.3f %-8.2f %-8.2f %-8.2f\n", r.Threshold, r.Binary, r.Continuous, r.Gap())
				break
			}
		}
	}

	fmt.Fprintln(w, strings.Repeat("-", 40))
	if len(results) > 0 {
		best := results[0]
		fmt.Fprintf(w, "Optimal: %.3f (DC: %.2f)\n", best.Threshold, best.Binary)
	}
	return nil
}
