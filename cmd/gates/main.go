// Package main provides the gates CLI: it lists and runs the logic-gate
// lessons.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/gates/internal/backend/cpu"
	"github.com/born-ml/gates/internal/config"
	"github.com/born-ml/gates/internal/lesson"
	"github.com/born-ml/gates/internal/parallel"
)

const version = "v0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one CLI invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stdout)
		return 2
	}

	switch args[0] {
	case "version":
		be := cpu.New()
		fmt.Fprintf(stdout, "gates %s (%s backend, simd=%s, %s)\n", version, be.Name(), be.SIMD(), be.Processor())
		return 0
	case "list":
		for _, l := range lesson.Default().All() {
			fmt.Fprintf(stdout, "%-22s %-5s %-10s %s\n", l.Name, l.Gate, l.Stage, l.Description)
		}
		return 0
	case "run":
		return runLessons(ctx, args[1:], stdout, stderr)
	case "sweep":
		return runSweep(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gates <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list       List lessons")
	fmt.Fprintln(w, "  run        Run a lesson (-lesson name|all)")
	fmt.Fprintln(w, "  sweep      Run a lesson over many seeds and report how often it converges")
	fmt.Fprintln(w, "  version    Show version")
}

// configFlags registers the flags shared by run and sweep. The returned
// function builds the config once fs has been parsed: defaults, then the
// -config file, then flags given on the command line.
func configFlags(fs *flag.FlagSet) func() (config.Config, error) {
	cfgPath := fs.String("config", "", "YAML config file")
	seed := fs.Int64("seed", 0, "Random seed (overrides config)")
	lr := fs.Float64("lr", 0, "Learning rate (overrides config)")
	iters := fs.Int("iters", 0, "Iterations for every gate (overrides config)")
	hidden := fs.Int("hidden", 0, "Hidden units (overrides config)")
	optimizer := fs.String("optimizer", "", "Optimizer for nn lessons: sgd or adam (overrides config)")
	level := fs.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")

	return func() (config.Config, error) {
		cfg := config.Default()
		if *cfgPath != "" {
			loaded, err := config.Load(*cfgPath)
			if err != nil {
				return config.Config{}, err
			}
			cfg = loaded
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "seed":
				cfg.Seed = *seed
			case "lr":
				cfg.LR = *lr
			case "iters":
				cfg.NANDIters, cfg.XORIters = *iters, *iters
			case "hidden":
				cfg.Hidden = *hidden
			case "optimizer":
				cfg.Optimizer = strings.ToLower(*optimizer)
			case "log-level":
				cfg.LogLevel = *level
			}
		})
		return cfg, cfg.Validate()
	}
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func runLessons(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("lesson", "all", "Lesson to run, or all")
	asJSON := fs.Bool("json", false, "Print results as JSON lines")
	buildConfig := configFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, err := buildConfig()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Cause(err) == config.ErrConfig {
			return 2
		}
		return 1
	}

	logger := newLogger(stderr, cfg)
	reg := lesson.Default()

	var results []lesson.Result
	if *name == "all" {
		results, err = reg.RunAll(ctx, cfg, logger)
	} else {
		var res lesson.Result
		res, err = reg.Run(ctx, *name, cfg, logger)
		if err == nil {
			results = append(results, res)
		}
	}

	for _, res := range results {
		if *asJSON {
			if encErr := json.NewEncoder(stdout).Encode(res); encErr != nil {
				fmt.Fprintf(stderr, "error: %v\n", encErr)
				return 1
			}
			continue
		}
		printResult(stdout, res, cfg.Threshold)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	for _, res := range results {
		if res.ExpectConverge && !res.Converged {
			return 1
		}
	}
	return 0
}

func runSweep(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("lesson", "mlp-xor", "Lesson to sweep")
	runs := fs.Int("runs", 20, "Number of consecutive seeds")
	workers := fs.Int("workers", 0, "Concurrent runs (0 = one per CPU)")
	asJSON := fs.Bool("json", false, "Print the summary as JSON")
	buildConfig := configFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, err := buildConfig()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	pcfg := parallel.DefaultConfig()
	if *workers > 0 {
		pcfg = parallel.Config{Enabled: *workers > 1, NumWorkers: *workers}
	}

	sweep, err := lesson.Default().Sweep(ctx, *name, *runs, cfg, pcfg, newLogger(stderr, cfg))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if *asJSON {
		if err := json.NewEncoder(stdout).Encode(sweep); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}
	fmt.Fprintf(stdout, "%s: %d/%d seeds converged (%.1f%%)\n", sweep.Lesson, sweep.Converged, sweep.Runs, 100*sweep.Rate)
	if len(sweep.Failures) > 0 {
		fmt.Fprintf(stdout, "  failed seeds: %v\n", sweep.Failures)
	}
	return 0
}

func printResult(w io.Writer, res lesson.Result, threshold float64) {
	status := "converged"
	switch {
	case !res.Converged && res.ExpectConverge:
		status = "FAILED to converge"
	case !res.Converged:
		status = "did not converge (expected)"
	}

	fmt.Fprintf(w, "%s [%s/%s] %s\n", res.Lesson, res.Stage, res.Gate, status)
	fmt.Fprintf(w, "  params:      %s\n", formatFloats(res.Params))
	fmt.Fprintf(w, "  predictions: %s\n", formatFloats(res.Predictions))
	if res.Targets != nil {
		fmt.Fprintf(w, "  rounded:     %v\n", res.Rounded(threshold))
		fmt.Fprintf(w, "  targets:     %v\n", res.Targets)
	}
	if n := len(res.Losses); n > 0 {
		fmt.Fprintf(w, "  loss:        %.4f -> %.4f (%d iterations)\n", res.Losses[0], res.Losses[n-1], n)
	}
}

func formatFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%.4f", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
