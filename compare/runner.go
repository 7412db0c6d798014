package compare

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/filterscope/algorithms/filters"
	"github.com/RyanBlaney/filterscope/algorithms/spectral"
	"github.com/RyanBlaney/filterscope/ingest"
	"github.com/RyanBlaney/filterscope/logging"
	"github.com/RyanBlaney/filterscope/signal"
)

// Job is one (file, filter) combination.
type Job struct {
	Source string
	// Signal overrides the identifier derived from Source.
	Signal string
	Filter filters.Filter
}

// SignalName returns the identifier used in reports.
func (j Job) SignalName() string {
	if j.Signal != "" {
		return j.Signal
	}
	return ingest.SignalName(j.Source)
}

// Outcome records what happened to one job.
type Outcome struct {
	Job        Job
	Comparison *Comparison
	Artifact   string
	Err        error
}

// Runner wires loader, filter, analyzer and reporter together.
type Runner struct {
	loader   *ingest.Loader
	analyzer *spectral.Analyzer
	reporter Reporter
	workers  int
	logger   logging.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds how many jobs RunBatch runs at once. Values below 1
// mean sequential.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.workers = n
	}
}

// WithLogger replaces the global logger for this runner.
func WithLogger(logger logging.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a runner. A nil loader or analyzer gets the default;
// a nil reporter means comparisons are computed but not stored.
func NewRunner(loader *ingest.Loader, analyzer *spectral.Analyzer, reporter Reporter, opts ...Option) *Runner {
	if loader == nil {
		loader = ingest.NewLoader(nil)
	}
	if analyzer == nil {
		analyzer = spectral.NewAnalyzer()
	}

	r := &Runner{
		loader:   loader,
		analyzer: analyzer,
		reporter: reporter,
		workers:  1,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.GetGlobalLogger()
	}
	r.logger = r.logger.WithFields(logging.Fields{"component": "comparison_runner"})
	return r
}

// Compare filters raw and analyses both series. It does no I/O.
func (r *Runner) Compare(name string, raw *signal.Series, f filters.Filter) (*Comparison, error) {
	if f == nil {
		return nil, signal.Invalidf("compare", "no filter selected")
	}

	res, err := f.Apply(raw)
	if err != nil {
		return nil, fmt.Errorf("apply %s %s: %w", f.Kind(), f.Describe(), err)
	}

	rawSpec, err := r.analyzer.AnalyzeSeries(raw)
	if err != nil {
		return nil, fmt.Errorf("raw spectrum: %w", err)
	}
	filteredSpec, err := r.analyzer.AnalyzeSeries(res.Series)
	if err != nil {
		return nil, fmt.Errorf("filtered spectrum: %w", err)
	}

	return &Comparison{
		Signal:           name,
		Kind:             f.Kind(),
		Params:           f.Describe(),
		Raw:              raw,
		Filtered:         res.Series,
		RawSpectrum:      rawSpec,
		FilteredSpectrum: filteredSpec,
		Warnings:         res.Warnings,
		Stats:            computeStats(raw, res.Series, rawSpec, filteredSpec),
	}, nil
}

// Run loads the job's source, compares and reports. Any error aborts the
// job before the reporter is called.
func (r *Runner) Run(ctx context.Context, job Job) (*Outcome, error) {
	out := &Outcome{Job: job}

	logger := r.logger.WithFields(logging.Fields{
		"function": "Run",
		"source":   job.Source,
		"signal":   job.SignalName(),
	})
	if job.Filter != nil {
		logger = logger.WithFields(logging.Fields{
			"filter": string(job.Filter.Kind()),
			"params": job.Filter.Describe(),
		})
	}

	fail := func(err error) (*Outcome, error) {
		out.Err = err
		logger.Error(err, "Comparison failed")
		return out, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	raw, err := r.loader.LoadFile(job.Source)
	if err != nil {
		return fail(err)
	}

	cmp, err := r.Compare(job.SignalName(), raw, job.Filter)
	if err != nil {
		return fail(err)
	}
	out.Comparison = cmp

	for _, w := range cmp.Warnings {
		logger.Warn("Filter diagnostic", logging.Fields{"code": w.Code, "message": w.Message})
	}

	if r.reporter != nil {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		artifact, err := r.reporter.Report(ctx, cmp)
		if err != nil {
			return fail(fmt.Errorf("report: %w", err))
		}
		out.Artifact = artifact
	}

	logger.Info("Comparison completed", logging.Fields{
		"raw_samples":      cmp.Raw.Len(),
		"filtered_samples": cmp.Filtered.Len(),
		"artifact":         out.Artifact,
	})

	return out, nil
}

// RunBatch runs every job and returns outcomes in job order. A failing
// job never stops the others; its error is kept in its Outcome.
func (r *Runner) RunBatch(ctx context.Context, jobs []Job) []Outcome {
	outcomes := make([]Outcome, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			outcomes[i] = Outcome{Job: job, Err: err}
			continue
		}
		g.Go(func() error {
			out, _ := r.Run(gctx, job)
			outcomes[i] = *out
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	r.logger.Info("Batch finished", logging.Fields{
		"jobs":   len(jobs),
		"failed": failed,
	})

	return outcomes
}
