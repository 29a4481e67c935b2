// Package gapanalysis orchestrates policy gap analyses: it runs the matcher
// and handles caching, persistence and event publication around it.
package gapanalysis

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/CoverGap-Intelligence/internal/domain/coverage"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

// -----------------------------------------------------------------------
// Request / Response DTOs
// -----------------------------------------------------------------------

// AnalyzeRequest is one policy to analyse.  PolicyText is a pointer so that
// a missing document can be told apart from an empty one.
type AnalyzeRequest struct {
	PolicyText *string `json:"policy_text"`
	Category   string  `json:"category,omitempty"`
	Region     string  `json:"region,omitempty"`
}

// AnalysisResult is a completed analysis.
type AnalysisResult = coverage.Analysis

// CompareRequest analyses two versions of a policy under the same table.
type CompareRequest struct {
	BaselineText  *string `json:"baseline_text"`
	CandidateText *string `json:"candidate_text"`
	Category      string  `json:"category,omitempty"`
	Region        string  `json:"region,omitempty"`
}

// BenchmarkTable is one (region, category) benchmark table.
type BenchmarkTable struct {
	Region   coverage.Region           `json:"region"`
	Category coverage.PolicyCategory   `json:"category"`
	Entries  []coverage.BenchmarkEntry `json:"entries"`
}

// -----------------------------------------------------------------------
// Service Interface
// -----------------------------------------------------------------------

type Service interface {
	// Analyze runs (or recalls) the gap analysis for one policy.
	Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalysisResult, error)
	// Compare reports coverage changes between two policy texts.
	Compare(ctx context.Context, req *CompareRequest) (*coverage.Comparison, error)
	// GetReport loads a stored analysis by id.
	GetReport(ctx context.Context, id string) (*AnalysisResult, error)
	// ListReports returns the most recent stored analyses.
	ListReports(ctx context.Context, limit int) ([]*AnalysisResult, error)
	// Benchmarks lists benchmark tables, optionally filtered.
	Benchmarks(region, category string) ([]BenchmarkTable, error)
}

// -----------------------------------------------------------------------
// Service Implementation
// -----------------------------------------------------------------------

// Config wires the service.  Matcher and Logger are required; every backend
// is optional.
type Config struct {
	Matcher    *coverage.Matcher
	Repository coverage.AnalysisRepository
	Cache      coverage.AnalysisCache
	Publisher  coverage.EventPublisher
	Archive    coverage.AnalysisArchive
	Metrics    *prometheus.GapMetrics
	Logger     logging.Logger

	// DefaultRegion replaces an empty request region.  Empty keeps the
	// catalog default.
	DefaultRegion string
	// MaxPolicyChars truncates policy text, in runes.  Zero disables it.
	MaxPolicyChars int
	CacheTTL       time.Duration

	Now   func() time.Time
	NewID func() string
}

type serviceImpl struct {
	matcher   *coverage.Matcher
	repo      coverage.AnalysisRepository
	cache     coverage.AnalysisCache
	publisher coverage.EventPublisher
	archive   coverage.AnalysisArchive
	metrics   *prometheus.GapMetrics
	logger    logging.Logger

	defaultRegion string
	maxChars      int
	cacheTTL      time.Duration
	now           func() time.Time
	newID         func() string

	inflight singleflight.Group
}

func NewService(cfg Config) (Service, error) {
	if cfg.Matcher == nil {
		return nil, errors.InternalConfiguration("gap analysis service requires a matcher")
	}
	if cfg.Logger == nil {
		return nil, errors.InternalConfiguration("gap analysis service requires a logger")
	}
	if cfg.MaxPolicyChars < 0 {
		return nil, errors.InternalConfiguration("max policy chars must not be negative")
	}

	s := &serviceImpl{
		matcher:   cfg.Matcher,
		repo:      cfg.Repository,
		cache:     cfg.Cache,
		publisher: cfg.Publisher,
		archive:   cfg.Archive,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,

		defaultRegion: strings.TrimSpace(cfg.DefaultRegion),
		maxChars:      cfg.MaxPolicyChars,
		cacheTTL:      cfg.CacheTTL,
		now:           cfg.Now,
		newID:         cfg.NewID,
	}
	if s.cacheTTL == 0 {
		s.cacheTTL = time.Hour
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s, nil
}

// prepareText validates and truncates a policy document.
func (s *serviceImpl) prepareText(field string, text *string) (string, bool, error) {
	if text == nil {
		return "", false, errors.InvalidInput(field + " is required")
	}
	if !utf8.ValidString(*text) {
		return "", false, errors.InvalidInput(field + " is not valid UTF-8")
	}
	out, truncated := truncateRunes(*text, s.maxChars)
	return out, truncated, nil
}

func truncateRunes(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max {
		return s, false
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i], true
		}
		n++
	}
	return s, false
}

func (s *serviceImpl) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalysisResult, error) {
	if req == nil {
		return nil, errors.InvalidInput("policy_text is required")
	}
	text, truncated, err := s.prepareText("policy_text", req.PolicyText)
	if err != nil {
		s.metrics.RecordError("analyze", string(errors.GetCode(err)))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if truncated {
		s.metrics.RecordTruncated()
		s.logger.Warn("policy text truncated", logging.Int("max_chars", s.maxChars))
	}

	category := strings.ToLower(strings.TrimSpace(req.Category))
	region := s.region(req.Region)
	hash := coverage.PolicyHash(text, category, region)

	if cached := s.lookupCache(ctx, hash); cached != nil {
		s.metrics.RecordAnalysis(cached.Report, "cache", 0)
		return cached, nil
	}

	v, err, shared := s.inflight.Do(hash, func() (interface{}, error) {
		return s.runAnalysis(ctx, coverage.Input{Text: text, Category: category, Region: region}, hash, truncated)
	})
	if err != nil {
		s.metrics.RecordError("analyze", string(errors.GetCode(err)))
		return nil, err
	}
	if shared {
		s.logger.Debug("analysis shared with concurrent request", logging.String("policy_hash", hash))
	}
	return v.(*AnalysisResult), nil
}

func (s *serviceImpl) region(requested string) string {
	if r := strings.TrimSpace(requested); r != "" {
		return r
	}
	return s.defaultRegion
}

func (s *serviceImpl) lookupCache(ctx context.Context, hash string) *AnalysisResult {
	if s.cache == nil {
		return nil
	}
	a, found, err := s.cache.Get(ctx, hash)
	switch {
	case err != nil:
		s.metrics.RecordCache(prometheus.CacheError)
		s.logger.Warn("analysis cache lookup failed", logging.String("policy_hash", hash), logging.Err(err))
		return nil
	case !found:
		s.metrics.RecordCache(prometheus.CacheMiss)
		return nil
	default:
		s.metrics.RecordCache(prometheus.CacheHit)
		return a
	}
}

func (s *serviceImpl) runAnalysis(ctx context.Context, in coverage.Input, hash string, truncated bool) (*AnalysisResult, error) {
	start := time.Now()
	report, err := s.matcher.Analyze(in)
	if err != nil {
		if errors.IsInternalConfiguration(err) {
			s.logger.Error("benchmark configuration error", logging.Err(err))
		}
		return nil, err
	}
	elapsed := time.Since(start)

	a := &AnalysisResult{
		ID:          s.newID(),
		PolicyHash:  hash,
		GeneratedAt: s.now(),
		Truncated:   truncated,
		Report:      report,
		ActionPlan:  coverage.BuildActionPlan(report),
	}
	s.metrics.RecordAnalysis(report, "matcher", elapsed)

	s.logger.Info("policy analysed",
		logging.String("report_id", a.ID),
		logging.String("category", string(report.PolicyCategory)),
		logging.String("region", string(report.Region)),
		logging.String("path", string(report.Path)),
		logging.Int("overall_score", report.OverallScore),
		logging.Int("gaps", report.TotalGapCount),
		logging.Duration("elapsed", elapsed),
	)

	// The result may be shared with concurrent callers, so side effects
	// outlive a cancelled first request.
	bg := context.WithoutCancel(ctx)
	s.persist(bg, a)
	s.keepCopy(bg, a)
	s.publish(bg, a)
	s.remember(bg, a)
	return a, nil
}

// persist, keepCopy, publish and remember are best effort: failures are logged and
// counted but never fail the analysis.

func (s *serviceImpl) persist(ctx context.Context, a *AnalysisResult) {
	if s.repo == nil {
		return
	}
	err := s.repo.Save(ctx, a)
	s.metrics.RecordReportStored(err)
	if err != nil {
		s.logger.Error("failed to store analysis", logging.String("report_id", a.ID), logging.Err(err))
	}
}

func (s *serviceImpl) keepCopy(ctx context.Context, a *AnalysisResult) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Archive(ctx, a); err != nil {
		s.logger.Error("failed to archive analysis", logging.String("report_id", a.ID), logging.Err(err))
	}
}

func (s *serviceImpl) publish(ctx context.Context, a *AnalysisResult) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishAnalyzed(ctx, a)
	s.metrics.RecordEventPublished(err)
	if err != nil {
		s.logger.Error("failed to publish analysis event", logging.String("report_id", a.ID), logging.Err(err))
	}
}

func (s *serviceImpl) remember(ctx context.Context, a *AnalysisResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, a.PolicyHash, a, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache analysis", logging.String("report_id", a.ID), logging.Err(err))
	}
}

func (s *serviceImpl) Compare(ctx context.Context, req *CompareRequest) (*coverage.Comparison, error) {
	if req == nil {
		return nil, errors.InvalidInput("baseline_text is required")
	}
	baselineText, _, err := s.prepareText("baseline_text", req.BaselineText)
	if err != nil {
		return nil, err
	}
	candidateText, _, err := s.prepareText("candidate_text", req.CandidateText)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	region := s.region(req.Region)
	baseline, err := s.matcher.Analyze(coverage.Input{Text: baselineText, Category: req.Category, Region: region})
	if err != nil {
		return nil, err
	}
	// The candidate is evaluated against the table the baseline resolved to.
	candidate, err := s.matcher.Analyze(coverage.Input{
		Text:             candidateText,
		Category:         string(baseline.PolicyCategory),
		Region:           region,
		DisableInference: true,
	})
	if err != nil {
		return nil, err
	}

	cmp := coverage.Compare(baseline, candidate)
	s.logger.Info("policies compared",
		logging.String("category", string(baseline.PolicyCategory)),
		logging.Int("score_delta", cmp.ScoreDelta),
		logging.Int("improved", cmp.Improved),
		logging.Int("regressed", cmp.Regressed),
	)
	return cmp, nil
}

func (s *serviceImpl) GetReport(ctx context.Context, id string) (*AnalysisResult, error) {
	if s.repo == nil {
		return nil, errors.New(errors.ErrCodeReportNotFound, "report not found").
			WithDetail("report store is disabled")
	}
	a, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Error("failed to load report", logging.String("report_id", id), logging.Err(err))
		}
		return nil, err
	}
	return a, nil
}

func (s *serviceImpl) ListReports(ctx context.Context, limit int) ([]*AnalysisResult, error) {
	if s.repo == nil {
		return []*AnalysisResult{}, nil
	}
	return s.repo.ListRecent(ctx, limit)
}

func (s *serviceImpl) Benchmarks(region, category string) ([]BenchmarkTable, error) {
	catalog := s.matcher.Catalog()

	regions := catalog.Regions()
	if strings.TrimSpace(region) != "" {
		r, ok := catalog.ResolveRegion(region)
		if !ok {
			return nil, errors.InvalidInput("unknown region").WithDetail(region)
		}
		regions = []coverage.Region{r}
	}

	var wantCategory coverage.PolicyCategory
	if strings.TrimSpace(category) != "" {
		c, ok := coverage.ParseCategory(category)
		if !ok {
			return nil, errors.InvalidInput("unknown category").WithDetail(category)
		}
		wantCategory = c
	}

	out := make([]BenchmarkTable, 0)
	for _, r := range regions {
		for _, c := range catalog.Categories(r) {
			if wantCategory != "" && c != wantCategory {
				continue
			}
			entries, _ := catalog.Table(r, c)
			out = append(out, BenchmarkTable{Region: r, Category: c, Entries: entries})
		}
	}
	return out, nil
}

//Personal.AI order the ending
