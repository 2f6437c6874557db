// Package runner drives the solver pipeline for model files: load, search,
// CSV output, optional archiving, metrics and tracing. It solves one model,
// a batch of models concurrently, or keeps re-solving models as they change.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/steadyspace/internal/config"
	"github.com/katalvlaran/steadyspace/internal/metrics"
	"github.com/katalvlaran/steadyspace/internal/output"
	"github.com/katalvlaran/steadyspace/internal/store"
	"github.com/katalvlaran/steadyspace/internal/telemetry"
	"github.com/katalvlaran/steadyspace/model"
	"github.com/katalvlaran/steadyspace/steady"
)

// Result describes one finished model run.
type Result struct {
	RunID      string
	ModelPath  string
	Model      string
	OutputPath string
	States     int
	Stats      steady.Stats
	// Limited is set when the run stopped at the configured state limit.
	Limited bool
	Elapsed time.Duration
	Outcome string
}

// Runner solves model files according to a Config.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *metrics.Metrics
	store     *store.Store
	keepGoing bool
	now       func() time.Time
	newID     func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records every run in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithStore archives every run in s.
func WithStore(s *store.Store) Option {
	return func(r *Runner) { r.store = s }
}

// WithKeepGoing makes SolveAll finish every model and join their errors
// instead of canceling the batch on the first failure.
func WithKeepGoing(keep bool) Option {
	return func(r *Runner) { r.keepGoing = keep }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New creates a Runner. cfg must be valid.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// OutputPath returns the result file for the model at path.
func (r *Runner) OutputPath(path string) string {
	return output.Path(path, model.Stem(path), r.cfg.Output.Dir, r.cfg.Output.Suffix)
}

// Solve runs the whole pipeline for one model file. The result file is only
// replaced when the run completes or stops at the limit.
func (r *Runner) Solve(ctx context.Context, path string) (res Result, retErr error) {
	res = Result{RunID: r.newID(), ModelPath: path, OutputPath: r.OutputPath(path)}
	start := r.now()
	logger := r.logger.With(slog.String("run_id", res.RunID), slog.String("path", path))

	ctx, span := telemetry.Tracer().Start(ctx, "steadyspace.solve",
		trace.WithAttributes(attribute.String("model.path", path), attribute.String("run.id", res.RunID)))
	defer func() {
		res.Elapsed = r.now().Sub(start)
		if retErr != nil {
			span.RecordError(retErr)
			span.SetStatus(codes.Error, retErr.Error())
		}
		span.SetAttributes(attribute.Int("states", res.States), attribute.String("outcome", res.Outcome))
		span.End()
		r.record(res)
	}()
	if r.metrics != nil {
		r.metrics.ModelsInFlight.Inc()
		defer r.metrics.ModelsInFlight.Dec()
	}

	// 1. Load.
	m, err := r.load(ctx, path)
	if err != nil {
		res.Outcome = metrics.OutcomeError
		return res, &Error{Kind: KindModel, Path: path, Err: err}
	}
	res.Model = m.Name
	logger = logger.With(slog.String("model", m.Name))

	// 2. Bounds.
	bounds := r.boundsFor(m, logger)
	e, err := steady.NewEngine(m, steady.WithBounds(bounds))
	if err != nil {
		res.Outcome = metrics.OutcomeInfeasible
		return res, &Error{Kind: KindBounds, Path: path, Err: err}
	}

	// 3. Search and write.
	res, err = r.search(ctx, e, res, bounds, start)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			res.Outcome = metrics.OutcomeCanceled
		} else {
			res.Outcome = metrics.OutcomeError
		}
		return res, &Error{Kind: KindCompute, Path: path, Err: err}
	}

	logger.Info("Solved model",
		slog.Int("states", res.States),
		slog.Bool("limited", res.Limited),
		slog.Uint64("nodes", res.Stats.Nodes),
		slog.Uint64("prunes", res.Stats.Prunes),
		slog.String("output", res.OutputPath),
		slog.Duration("elapsed", r.now().Sub(start)))

	return res, nil
}

func (r *Runner) load(ctx context.Context, path string) (*model.Model, error) {
	_, span := telemetry.Tracer().Start(ctx, "steadyspace.load")
	defer span.End()

	m, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("species", m.Len()), attribute.Int("max_value", m.MaxValue))

	return m, nil
}

// boundsFor keeps the configured ceilings that name species of m.
func (r *Runner) boundsFor(m *model.Model, logger *slog.Logger) map[string]int {
	out := make(map[string]int, len(r.cfg.Solve.Bounds))
	var skipped []string
	for name, v := range r.cfg.Solve.Bounds {
		if _, ok := m.Index(name); ok {
			out[name] = v
		} else {
			skipped = append(skipped, name)
		}
	}
	if len(skipped) > 0 {
		sort.Strings(skipped)
		logger.Warn("Ignoring bounds for species not in model", slog.Any("species", skipped))
	}

	return out
}

// search drains e into the result file and the archive.
func (r *Runner) search(ctx context.Context, e *steady.Engine, res Result, bounds map[string]int, start time.Time) (Result, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "steadyspace.search")
	defer span.End()

	m := e.Model()
	f, err := output.Create(res.OutputPath, m.Names())
	if err != nil {
		return res, err
	}
	committed := false
	defer func() {
		if !committed {
			f.Abort()
		}
	}()

	var rec *store.Recording
	if r.store != nil {
		rec, err = r.store.BeginRun(ctx, store.Run{
			ID:        res.RunID,
			Model:     m.Name,
			Species:   m.Names(),
			Bounds:    bounds,
			StartedAt: start,
		})
		if err != nil {
			return res, err
		}
		defer func() {
			if !committed {
				rec.Abort()
			}
		}()
	}

	limit := r.cfg.Solve.Limit
	for {
		if err = ctx.Err(); err != nil {
			res.Stats = e.Stats()
			return res, err
		}
		if limit > 0 && res.States >= limit {
			// Exhaustion is only detected by the next call.
			_, more := e.Next()
			res.Limited = more
			break
		}
		cfg, ok := e.Next()
		if !ok {
			break
		}
		if err = f.Write(cfg); err != nil {
			return res, err
		}
		if rec != nil {
			if err = rec.AppendState(ctx, cfg); err != nil {
				return res, err
			}
		}
		res.States++
	}
	res.Stats = e.Stats()

	if err = f.Commit(); err != nil {
		return res, err
	}
	if rec != nil {
		if err = rec.Finish(ctx, r.now()); err != nil {
			return res, err
		}
	}
	committed = true

	res.Outcome = metrics.OutcomeComplete
	if res.Limited {
		res.Outcome = metrics.OutcomeLimited
	}

	return res, nil
}

func (r *Runner) record(res Result) {
	if r.metrics == nil {
		return
	}
	name := res.Model
	if name == "" {
		name = model.Stem(res.ModelPath)
	}
	r.metrics.RecordSolve(name, res.Outcome, res.Stats, res.Elapsed)
}

// String renders a one-line summary.
func (res Result) String() string {
	s := fmt.Sprintf("%s: %d steady state(s) -> %s", res.Model, res.States, res.OutputPath)
	if res.Limited {
		s += " (limit reached)"
	}

	return s
}
