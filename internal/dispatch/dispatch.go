// Package dispatch runs the pairwise test menu over classified columns.
package dispatch

import (
	"context"
	"fmt"

	"autostat/domain/core"
	"autostat/domain/dataset"
	"autostat/domain/stats"
	"autostat/internal"
	"autostat/internal/classify"

	"golang.org/x/sync/errgroup"
)

// Options controls which scenarios run and how many pairs are tested at once
type Options struct {
	IncludeOrdinal bool
	Workers        int
}

// DefaultOptions runs every scenario sequentially
func DefaultOptions() Options {
	return Options{IncludeOrdinal: true, Workers: 1}
}

// Outcome is what one pair produced: the records appended before any failure
// and the failure itself, if there was one
type Outcome struct {
	Pair     string
	Category stats.AnalysisCategory
	Results  []stats.TestResult
	Err      error
}

// Records returns the pair's rows; a failure becomes one error row after the
// rows that were already produced
func (o Outcome) Records() []stats.TestResult {
	if o.Err == nil {
		return o.Results
	}
	out := make([]stats.TestResult, 0, len(o.Results)+1)
	out = append(out, o.Results...)
	return append(out, stats.TestResult{
		Pair:     o.Pair,
		Category: o.Category,
		Test:     stats.TestNone,
		PValue:   stats.Failed(),
		Effect:   stats.NoEffect(),
		Remarks:  "Error: " + o.Err.Error(),
	})
}

// pairFunc runs every test for one pair. Returning (nil, nil) skips the pair.
type pairFunc func(ds *dataset.Dataset) ([]stats.TestResult, error)

type job struct {
	pair     string
	category stats.AnalysisCategory
	run      pairFunc
}

// Dispatcher iterates the scenario classes and isolates failures per pair
type Dispatcher struct {
	opts   Options
	logger *internal.Logger
}

// New creates a dispatcher
func New(opts Options, logger *internal.Logger) *Dispatcher {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = internal.NewDiscardLogger()
	}
	return &Dispatcher{opts: opts, logger: logger}
}

// Run tests every relevant pair of ds and returns the records in scenario
// order: continuous x binary, continuous x continuous, categorical x
// categorical, then continuous x ordinal. The order does not depend on the
// number of workers. Only cancellation of ctx makes Run fail.
func (d *Dispatcher) Run(ctx context.Context, ds *dataset.Dataset, roles classify.Roles) ([]stats.TestResult, error) {
	outcomes, err := d.Outcomes(ctx, ds, roles)
	if err != nil {
		return nil, err
	}
	var results []stats.TestResult
	for _, o := range outcomes {
		results = append(results, o.Records()...)
	}
	return results, nil
}

// Outcomes is Run without flattening, one entry per pair that reached execution
func (d *Dispatcher) Outcomes(ctx context.Context, ds *dataset.Dataset, roles classify.Roles) ([]Outcome, error) {
	jobs := d.plan(roles)
	outcomes := make([]Outcome, len(jobs))

	if d.opts.Workers == 1 {
		for i, j := range jobs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = d.execute(ds, j)
		}
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = d.execute(ds, j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (d *Dispatcher) plan(roles classify.Roles) []job {
	var jobs []job
	for _, cont := range roles.Continuous {
		for _, bin := range roles.Binary {
			jobs = append(jobs, job{stats.PairLabel(cont, bin), stats.ContinuousBinary, continuousBinary(cont, bin)})
		}
	}
	for i, a := range roles.Continuous {
		for _, b := range roles.Continuous[i+1:] {
			jobs = append(jobs, job{stats.PairLabel(a, b), stats.ContinuousContinuous, continuousContinuous(a, b)})
		}
	}
	for i, a := range roles.Categorical {
		for _, b := range roles.Categorical[i+1:] {
			if a == b {
				continue
			}
			jobs = append(jobs, job{stats.PairLabel(a, b), stats.CategoricalCategorical, categoricalCategorical(a, b)})
		}
	}
	if d.opts.IncludeOrdinal {
		for _, cont := range roles.Continuous {
			for _, ord := range roles.Ordinal {
				jobs = append(jobs, job{stats.PairLabel(cont, ord), stats.ContinuousOrdinal, continuousOrdinal(cont, ord)})
			}
		}
	}
	return jobs
}

// execute runs one pair and converts any failure, including a panic, into
// the outcome's error
func (d *Dispatcher) execute(ds *dataset.Dataset, j job) (out Outcome) {
	out = Outcome{Pair: j.pair, Category: j.category}
	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("unexpected failure: %v", r)
			d.logger.Error("pair %s panicked: %v", j.pair, r)
		}
	}()

	out.Results, out.Err = j.run(ds)
	switch {
	case core.IsExecutionError(out.Err):
		// the data cannot support the test; the record says so
		d.logger.Debug("pair %s (%s) not testable: %v", j.pair, j.category, out.Err)
	case out.Err != nil:
		d.logger.Warn("pair %s (%s) failed: %v", j.pair, j.category, out.Err)
	default:
		d.logger.Trace("pair %s (%s): %d records", j.pair, j.category, len(out.Results))
	}
	return out
}
