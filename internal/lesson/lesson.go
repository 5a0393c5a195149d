// Package lesson registers the logic-gate lessons and runs them.
//
// Each lesson trains one model family on one gate and reports what it learned.
// Lessons on gates that no single linear unit can represent (XOR with one
// layer) are expected to fail, and their Result says so.
package lesson

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/born-ml/gates/internal/config"
	"github.com/born-ml/gates/internal/metrics"
)

// ErrUnknownLesson is returned by Get for names that are not registered.
var ErrUnknownLesson = errors.New("unknown lesson")

// Stage names the model family a lesson trains.
type Stage string

// Stages in teaching order.
const (
	StagePerceptron Stage = "perceptron"
	StageManual     Stage = "manual-gd"
	StageAutodiff   Stage = "autodiff"
	StageNN         Stage = "nn"
	StageGraph      Stage = "gorgonia"
)

// Env is what a lesson needs to run.
type Env struct {
	Config config.Config
	Logger *slog.Logger
	Rand   *rand.Rand
}

// RunFunc trains a model and fills in the learned part of a Result:
// Params, Predictions, Targets and Losses.
type RunFunc func(ctx context.Context, env Env) (Result, error)

// Lesson is one runnable exercise.
type Lesson struct {
	Name           string
	Gate           string
	Stage          Stage
	Description    string
	ExpectConverge bool
	Run            RunFunc
}

// Result is the outcome of one lesson run.
type Result struct {
	ID             uuid.UUID     `json:"id"`
	Lesson         string        `json:"lesson"`
	Gate           string        `json:"gate"`
	Stage          Stage         `json:"stage"`
	Params         []float64     `json:"params"`
	Predictions    []float64     `json:"predictions"`
	Targets        []float64     `json:"targets"`
	Losses         []float64     `json:"losses,omitempty"`
	Converged      bool          `json:"converged"`
	ExpectConverge bool          `json:"expect_converge"`
	Elapsed        time.Duration `json:"elapsed_ns"`
}

// Rounded returns the predictions thresholded to 0 or 1.
func (r Result) Rounded(threshold float64) []float64 {
	return metrics.Round(r.Predictions, threshold)
}

// AsExpected reports whether the lesson converged exactly when it should.
func (r Result) AsExpected() bool {
	return r.Converged == r.ExpectConverge
}

// Registry holds lessons by name.
type Registry struct {
	lessons map[string]Lesson
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{lessons: make(map[string]Lesson)}
}

// Register adds a lesson. Names must be unique.
func (r *Registry) Register(l Lesson) error {
	if l.Name == "" || l.Run == nil {
		return errors.Errorf("lesson: %q needs a name and a run function", l.Name)
	}
	if _, ok := r.lessons[l.Name]; ok {
		return errors.Errorf("lesson: %q already registered", l.Name)
	}
	r.lessons[l.Name] = l
	return nil
}

// Get returns the named lesson.
func (r *Registry) Get(name string) (Lesson, error) {
	l, ok := r.lessons[name]
	if !ok {
		return Lesson{}, errors.Wrapf(ErrUnknownLesson, "%q", name)
	}
	return l, nil
}

// All returns every lesson sorted by name.
func (r *Registry) All() []Lesson {
	out := make([]Lesson, 0, len(r.lessons))
	for _, l := range r.lessons {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Run executes the named lesson with a fresh generator seeded from cfg.
func (r *Registry) Run(ctx context.Context, name string, cfg config.Config, logger *slog.Logger) (Result, error) {
	l, err := r.Get(name)
	if err != nil {
		return Result{}, err
	}
	return Execute(ctx, l, cfg, logger)
}

// RunAll executes every lesson in name order. It stops at the first error,
// including context cancellation, and returns the results gathered so far.
func (r *Registry) RunAll(ctx context.Context, cfg config.Config, logger *slog.Logger) ([]Result, error) {
	var results []Result
	for _, l := range r.All() {
		if err := ctx.Err(); err != nil {
			return results, errors.Wrap(err, "lesson: run all")
		}
		res, err := Execute(ctx, l, cfg, logger)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Execute runs a single lesson and scores it against its targets.
func Execute(ctx context.Context, l Lesson, cfg config.Config, logger *slog.Logger) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	id := uuid.New()
	log := logger.With("lesson", l.Name, "gate", l.Gate, "run_id", id.String())
	log.Info("lesson started", "stage", string(l.Stage))

	env := Env{
		Config: cfg,
		Logger: log,
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		Rand: rand.New(rand.NewSource(cfg.Seed)),
	}

	start := time.Now()
	res, err := l.Run(ctx, env)
	if err != nil {
		log.Error("lesson failed", "err", err)
		return Result{}, errors.Wrapf(err, "lesson %s", l.Name)
	}

	res.ID = id
	res.Lesson = l.Name
	res.Gate = l.Gate
	res.Stage = l.Stage
	res.ExpectConverge = l.ExpectConverge
	res.Elapsed = time.Since(start)
	if res.Targets != nil {
		res.Converged = metrics.Matches(res.Predictions, res.Targets, cfg.Threshold)
	}

	every := cfg.LogEvery
	for i, loss := range res.Losses {
		if i%every == 0 || i == len(res.Losses)-1 {
			log.Debug("loss", "iteration", i, "loss", loss)
		}
	}

	attrs := []any{
		"converged", res.Converged,
		"expected", res.ExpectConverge,
		"elapsed", res.Elapsed,
	}
	if len(res.Losses) > 0 {
		attrs = append(attrs, "final_loss", res.Losses[len(res.Losses)-1])
	}
	if res.AsExpected() {
		log.Info("lesson finished", attrs...)
	} else {
		log.Warn("lesson finished with unexpected outcome", attrs...)
	}
	return res, nil
}
