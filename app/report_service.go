package app

import (
	"context"
	"strings"
	"time"

	"autostat/domain/core"
	"autostat/domain/dataset"
	"autostat/domain/stats"
	"autostat/internal"
	"autostat/internal/classify"
	"autostat/internal/correction"
	"autostat/internal/dispatch"
	"autostat/internal/errors"
	"autostat/internal/missing"
	"autostat/internal/report"
	"autostat/ports"
)

// Separator joins the descriptive and the inferential fragments
const Separator = "<br><hr style='border: 2px solid #007bff;'>"

// Report is the inferential outcome of one generation request
type Report struct {
	ID          core.ReportID       `json:"id"`
	Fragment    string              `json:"fragment"`
	Results     []stats.TestResult  `json:"results"`
	Threshold   float64             `json:"threshold"`
	Confirmed   []*stats.TestResult `json:"confirmed"`
	Audit       string              `json:"audit"`
	Fingerprint core.Hash           `json:"fingerprint"`
	RuntimeMs   int64               `json:"runtime_ms"`
	Cleaned     *dataset.Dataset    `json:"-"`
}

// ReportService runs missing-data handling, test dispatch, correction and
// rendering for a dataset
type ReportService struct {
	dispatcher *dispatch.Dispatcher
	renderer   *report.Renderer
	profiler   ports.ProfilerPort
	logger     *internal.Logger
}

// NewReportService creates a report service. The profiler is only needed by
// GenerateFullReport.
func NewReportService(dispatcher *dispatch.Dispatcher, renderer *report.Renderer, profiler ports.ProfilerPort, logger *internal.Logger) *ReportService {
	if logger == nil {
		logger = internal.NewDiscardLogger()
	}
	return &ReportService{
		dispatcher: dispatcher,
		renderer:   renderer,
		profiler:   profiler,
		logger:     logger,
	}
}

// BuildReport produces the inferential report. Rejected or unrecognised
// missing-data handling and bad annotations come back as VALIDATION_ERROR;
// failures inside a single test never do, they become error rows.
func (s *ReportService) BuildReport(ctx context.Context, ds *dataset.Dataset, annotations dataset.Annotations, strategy dataset.MissingStrategy) (*Report, error) {
	start := time.Now()

	if err := annotations.Validate(); err != nil {
		return nil, errors.ValidationError("invalid variable types", err)
	}

	cleaned, audit, err := missing.Resolve(ds, strategy)
	if err != nil {
		if core.IsValidationError(err) {
			return nil, errors.ValidationError("missing data cannot be handled", err)
		}
		return nil, errors.Wrap(err, "failed to resolve missing data")
	}

	roles := classify.Classify(annotations, cleaned)
	results, err := s.dispatcher.Run(ctx, cleaned, roles)
	if err != nil {
		return nil, errors.Wrap(err, "statistical testing interrupted")
	}

	ranking := correction.Rank(results)
	fragment, err := s.renderer.Render(ranking, audit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render report")
	}

	r := &Report{
		ID:          core.ReportID(core.NewID()),
		Fragment:    fragment,
		Results:     ranking.Results,
		Threshold:   ranking.Threshold,
		Confirmed:   ranking.Confirmed,
		Audit:       audit,
		Fingerprint: fingerprint(ranking.Results),
		RuntimeMs:   time.Since(start).Milliseconds(),
		Cleaned:     cleaned,
	}
	s.logger.Info("report %s: %d results, %d confirmed at threshold %.4f (%dms)",
		r.ID, len(r.Results), len(r.Confirmed), r.Threshold, r.RuntimeMs)
	return r, nil
}

// GenerateFullReport renders the descriptive profile of the cleaned dataset
// followed by the inferential report
func (s *ReportService) GenerateFullReport(ctx context.Context, ds *dataset.Dataset, annotations dataset.Annotations, strategy dataset.MissingStrategy) (string, error) {
	r, err := s.BuildReport(ctx, ds, annotations, strategy)
	if err != nil {
		return "", err
	}
	if s.profiler == nil {
		return r.Fragment, nil
	}
	profile, err := s.profiler.Describe(r.Cleaned)
	if err != nil {
		return "", errors.Wrap(err, "failed to render descriptive profile")
	}
	return profile + Separator + r.Fragment, nil
}

// fingerprint hashes the displayed cells of every row in order
func fingerprint(results []stats.TestResult) core.Hash {
	var b strings.Builder
	for i := range results {
		b.WriteString(strings.Join(results[i].Row(), "\x1f"))
		b.WriteByte('\n')
	}
	return core.NewHash([]byte(b.String()))
}
