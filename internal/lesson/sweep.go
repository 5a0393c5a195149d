package lesson

import (
	"context"
	"log/slog"
	"sort"

	"github.com/pkg/errors"

	"github.com/born-ml/gates/internal/config"
	"github.com/born-ml/gates/internal/parallel"
)

// SweepResult summarizes one lesson run under consecutive seeds.
type SweepResult struct {
	Lesson    string  `json:"lesson"`
	Runs      int     `json:"runs"`
	Converged int     `json:"converged"`
	Rate      float64 `json:"rate"`
	Failures  []int64 `json:"failed_seeds,omitempty"`
}

// Sweep runs the named lesson once per seed in [cfg.Seed, cfg.Seed+runs) and
// counts how often it converged. Runs execute concurrently per pcfg; the
// individual runs are not logged.
func (r *Registry) Sweep(
	ctx context.Context,
	name string,
	runs int,
	cfg config.Config,
	pcfg parallel.Config,
	logger *slog.Logger,
) (SweepResult, error) {
	if runs <= 0 {
		return SweepResult{}, errors.Errorf("lesson: sweep needs at least one run, got %d", runs)
	}
	l, err := r.Get(name)
	if err != nil {
		return SweepResult{}, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	quiet := slog.New(slog.DiscardHandler)
	converged := make([]bool, runs)
	err = parallel.For(ctx, runs, pcfg, func(ctx context.Context, i int) error {
		c := cfg
		c.Seed = cfg.Seed + int64(i)
		res, err := Execute(ctx, l, c, quiet)
		if err != nil {
			return err
		}
		converged[i] = res.Converged
		return nil
	})
	if err != nil {
		return SweepResult{}, errors.Wrapf(err, "lesson: sweep %s", name)
	}

	out := SweepResult{Lesson: name, Runs: runs}
	for i, ok := range converged {
		if ok {
			out.Converged++
		} else {
			out.Failures = append(out.Failures, cfg.Seed+int64(i))
		}
	}
	sort.Slice(out.Failures, func(i, j int) bool { return out.Failures[i] < out.Failures[j] })
	out.Rate = float64(out.Converged) / float64(runs)

	logger.Info("sweep finished", "lesson", name, "runs", runs, "converged", out.Converged, "rate", out.Rate)
	return out, nil
}
