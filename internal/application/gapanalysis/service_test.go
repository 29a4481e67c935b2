package gapanalysis

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CoverGap-Intelligence/internal/domain/coverage"
	"github.com/turtacn/CoverGap-Intelligence/internal/testutil"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

const carPolicy = "This policy includes third-party liability up to £20,000,000 and fire and theft protection."

var fixedNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Save(ctx context.Context, a *coverage.Analysis) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockRepository) FindByID(ctx context.Context, id string) (*coverage.Analysis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coverage.Analysis), args.Error(1)
}

func (m *mockRepository) ListRecent(ctx context.Context, limit int) ([]*coverage.Analysis, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*coverage.Analysis), args.Error(1)
}

func (m *mockRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, hash string) (*coverage.Analysis, bool, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*coverage.Analysis), args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, hash string, a *coverage.Analysis, ttl time.Duration) error {
	return m.Called(ctx, hash, a, ttl).Error(0)
}

func (m *mockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishAnalyzed(ctx context.Context, a *coverage.Analysis) error {
	return m.Called(ctx, a).Error(0)
}

type mockArchive struct {
	mock.Mock
}

func (m *mockArchive) Archive(ctx context.Context, a *coverage.Analysis) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockArchive) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type fixture struct {
	svc       Service
	repo      *mockRepository
	cache     *mockCache
	publisher *mockPublisher
	logger    *testutil.MockLogger
}

func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()
	matcher, err := coverage.NewMatcher(coverage.DefaultCatalog())
	require.NoError(t, err)

	f := &fixture{
		repo:      new(mockRepository),
		cache:     new(mockCache),
		publisher: new(mockPublisher),
		logger:    testutil.NewMockLogger(),
	}
	cfg := Config{
		Matcher:    matcher,
		Repository: f.repo,
		Cache:      f.cache,
		Publisher:  f.publisher,
		Logger:     f.logger,
		CacheTTL:   time.Minute,
		Now:        func() time.Time { return fixedNow },
		NewID:      func() string { return "11111111-2222-3333-4444-555555555555" },
	}
	if mutate != nil {
		mutate(&cfg)
	}
	f.svc, err = NewService(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		f.repo.AssertExpectations(t)
		f.cache.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})
	return f
}

func text(s string) *string { return &s }

func TestNewService_Validation(t *testing.T) {
	_, err := NewService(Config{Logger: testutil.NewMockLogger()})
	assert.True(t, errors.IsInternalConfiguration(err))

	m, _ := coverage.NewMatcher(coverage.DefaultCatalog())
	_, err = NewService(Config{Matcher: m})
	assert.True(t, errors.IsInternalConfiguration(err))

	_, err = NewService(Config{Matcher: m, Logger: testutil.NewMockLogger(), MaxPolicyChars: -1})
	assert.Error(t, err)
}

func TestAnalyze_MissingText(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Analyze(context.Background(), &AnalyzeRequest{Category: "car"})
	assert.True(t, errors.IsInvalidInput(err))

	_, err = f.svc.Analyze(context.Background(), nil)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestAnalyze_InvalidUTF8(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Analyze(context.Background(), &AnalyzeRequest{PolicyText: text("bad \xff")})
	assert.True(t, errors.IsInvalidInput(err))
}

func TestAnalyze_EmptyTextIsNotAnError(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.Repository, c.Cache, c.Publisher = nil, nil, nil })

	res, err := f.svc.Analyze(context.Background(), &AnalyzeRequest{PolicyText: text("")})
	require.NoError(t, err)
	assert.Equal(t, coverage.CategoryGeneral, res.Report.PolicyCategory)
	assert.Equal(t, 0, res.Report.OverallScore)
}

func TestAnalyze_DefaultRegion(t *testing.T) {
	f := newFixture(t, func(c *Config) {
		c.Repository, c.Cache, c.Publisher = nil, nil, nil
		c.DefaultRegion = "US"
	})

	res, err := f.svc.Analyze(context.Background(), &AnalyzeRequest{PolicyText: text(carPolicy), Category: "car"})
	require.NoError(t, err)
	assert.Equal(t, coverage.RegionUS, res.Report.Region)
	assert.Equal(t, coverage.PolicyHash(carPolicy, "car", "US"), res.PolicyHash)

	res, err = f.svc.Analyze(context.Background(), &AnalyzeRequest{PolicyText: text(carPolicy), Category: "car", Region: "UK"})
	require.NoError(t, err)
	assert.Equal(t, coverage.RegionUK, res.Report.Region)
}

func TestAnalyze_FullPipeline(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	hash := coverage.PolicyHash(carPolicy, "car", "UK")

	f.cache.On("Get", ctx, hash).Return(nil, false, nil).Once()
	f.repo.On("Save", mock.Anything, mock.AnythingOfType("*coverage.Analysis")).Return(nil).Once()
	f.publisher.On("PublishAnalyzed", mock.Anything, mock.AnythingOfType("*coverage.Analysis")).Return(nil).Once()
	f.cache.On("Set", mock.Anything, hash, mock.AnythingOfType("*coverage.Analysis"), time.Minute).Return(nil).Once()

	res, err := f.svc.Analyze(ctx, &AnalyzeRequest{PolicyText: text(carPolicy), Category: " Car ", Region: "UK"})
	require.NoError(t, err)

	assert.Equal(t, "11111111-2222-3333-4444-555555555555", res.ID)
	assert.Equal(t, hash, res.PolicyHash)
	assert.Equal(t, fixedNow, res.GeneratedAt)
	assert.False(t, res.Truncated)
	assert.Equal(t, coverage.CategoryCar, res.Report.PolicyCategory)
	assert.Equal(t, coverage.PathBenchmark, res.Report.Path)
	require.NotNil(t, res.ActionPlan)
	assert.Len(t, res.ActionPlan.Items, res.Report.TotalGapCount)
	assert.True(t, f.logger.HasMessage("info", "policy analysed"))
}

func TestAnalyze_CacheHitSkipsMatcher(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	hash := coverage.PolicyHash(carPolicy, "", "")
	cached := &coverage.Analysis{ID: "cached", PolicyHash: hash, Report: &coverage.Report{}}

	f.cache.On("Get", ctx, hash).Return(cached, true, nil).Once()

	res, err := f.svc.Analyze(ctx, &AnalyzeRequest{PolicyText: text(carPolicy)})
	require.NoError(t, err)
	assert.Same(t, cached, res)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAnalyze_BackendFailuresAreBestEffort(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	boom := stderrors.New("backend down")

	f.cache.On("Get", ctx, mock.Anything).Return(nil, false, boom).Once()
	f.repo.On("Save", mock.Anything, mock.Anything).Return(boom).Once()
	f.publisher.On("PublishAnalyzed", mock.Anything, mock.Anything).Return(boom).Once()
	f.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(boom).Once()

	res, err := f.svc.Analyze(ctx, &AnalyzeRequest{PolicyText: text(carPolicy), Category: "car"})
	require.NoError(t, err)
	assert.NotNil(t, res.Report)

	assert.True(t, f.logger.HasMessage("warn", "analysis cache lookup failed"))
	assert.True(t, f.logger.HasMessage("error", "failed to store analysis"))
	assert.True(t, f.logger.HasMessage("error", "failed to publish analysis event"))
	assert.True(t, f.logger.HasMessage("warn", "failed to cache analysis"))
}

func TestAnalyze_ArchivesFreshAnalyses(t *testing.T) {
	archive := new(mockArchive)
	f := newFixture(t, func(c *Config) {
		c.Repository, c.Cache, c.Publisher = nil, nil, nil
		c.Archive = archive
	})
	ctx := context.Background()

	archive.On("Archive", mock.Anything, mock.MatchedBy(func(a *coverage.Analysis) bool {
		return a.ID == "11111111-2222-3333-4444-555555555555" && a.Report != nil
	})).Return(nil).Once()
	_, err := f.svc.Analyze(ctx, &AnalyzeRequest{PolicyText: text(carPolicy)})
	require.NoError(t, err)

	archive.On("Archive", mock.Anything, mock.Anything).Return(errors.New(errors.ErrCodeExternalService, "bucket unavailable")).Once()
	_, err = f.svc.Analyze(ctx, &AnalyzeRequest{PolicyText: text(carPolicy + " ")})
	require.NoError(t, err)
	assert.True(t, f.logger.HasMessage("error", "failed to archive analysis"))

	archive.AssertExpectations(t)
}

// cancellingRepo cancels the caller's context while the analysis is stored.
type cancellingRepo struct {
	mockRepository
	cancel context.CancelFunc
}

func (c *cancellingRepo) Save(ctx context.Context, _ *coverage.Analysis) error {
	c.cancel()
	return ctx.Err()
}

func TestAnalyze_SideEffectsSurviveCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := &cancellingRepo{cancel: cancel}
	f := newFixture(t, func(c *Config) {
		c.Repository = repo
	})
	live := mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil })

	f.cache.On("Get", ctx, mock.Anything).Return(nil, false, nil).Once()
	f.publisher.On("PublishAnalyzed", live, mock.Anything).Return(nil).Once()
	f.cache.On("Set", live, mock.Anything, mock.Anything, time.Minute).Return(nil).Once()

	res, err := f.svc.Analyze(ctx, &AnalyzeRequest{PolicyText: text(carPolicy), Category: "car"})
	require.NoError(t, err)
	assert.NotNil(t, res.Report)
	assert.Error(t, ctx.Err())
	assert.False(t, f.logger.HasMessage("error", "failed to store analysis"))
}

func TestAnalyze_CancelledContext(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.Analyze(ctx, &AnalyzeRequest{PolicyText: text(carPolicy)})
	assert.ErrorIs(t, err, context.Canceled)
	f.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestAnalyze_TruncatesByRunes(t *testing.T) {
	f := newFixture(t, func(c *Config) {
		c.Repository, c.Cache, c.Publisher = nil, nil, nil
		c.MaxPolicyChars = 5
	})

	res, err := f.svc.Analyze(context.Background(), &AnalyzeRequest{PolicyText: text("££££££££"), Category: "car"})
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Equal(t, coverage.PolicyHash("£££££", "car", ""), res.PolicyHash)
	assert.True(t, f.logger.HasMessage("warn", "policy text truncated"))
}

func TestTruncateRunes(t *testing.T) {
	out, cut := truncateRunes("héllo wörld", 5)
	assert.Equal(t, "héllo", out)
	assert.True(t, cut)

	out, cut = truncateRunes("héllo", 5)
	assert.Equal(t, "héllo", out)
	assert.False(t, cut)

	out, cut = truncateRunes("anything", 0)
	assert.Equal(t, "anything", out)
	assert.False(t, cut)
}

// blockingRepo holds Save until release is closed.
type blockingRepo struct {
	mockRepository
	mu      sync.Mutex
	saves   int
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRepo) Save(context.Context, *coverage.Analysis) error {
	b.mu.Lock()
	b.saves++
	first := b.saves == 1
	b.mu.Unlock()
	if first {
		close(b.entered)
	}
	<-b.release
	return nil
}

func TestAnalyze_ConcurrentIdenticalRequestsShareOneRun(t *testing.T) {
	repo := &blockingRepo{entered: make(chan struct{}), release: make(chan struct{})}
	ids := 0
	var idMu sync.Mutex
	f := newFixture(t, func(c *Config) {
		c.Repository, c.Cache, c.Publisher = repo, nil, nil
		c.NewID = func() string {
			idMu.Lock()
			defer idMu.Unlock()
			ids++
			return "id"
		}
	})

	ctx := context.Background()
	req := &AnalyzeRequest{PolicyText: text(carPolicy), Category: "car"}

	results := make(chan *AnalysisResult, 4)
	go func() {
		res, err := f.svc.Analyze(ctx, req)
		assert.NoError(t, err)
		results <- res
	}()
	<-repo.entered

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.Analyze(ctx, req)
			assert.NoError(t, err)
			results <- res
		}()
	}
	time.Sleep(100 * time.Millisecond)
	close(repo.release)
	wg.Wait()

	first := <-results
	for i := 0; i < 3; i++ {
		assert.Same(t, first, <-results)
	}
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, 1, ids)
}

func TestAnalyze_ConfigurationErrorPropagates(t *testing.T) {
	spec := coverage.DefaultSpec()
	spec.Benchmarks["UK"]["car"] = []coverage.BenchmarkEntry{}
	catalog, err := coverage.NewCatalog(spec)
	require.NoError(t, err)
	matcher, err := coverage.NewMatcher(catalog)
	require.NoError(t, err)

	f := newFixture(t, func(c *Config) {
		c.Matcher = matcher
		c.Repository, c.Cache, c.Publisher = nil, nil, nil
	})

	_, err = f.svc.Analyze(context.Background(), &AnalyzeRequest{PolicyText: text(carPolicy), Category: "car", Region: "UK"})
	assert.True(t, errors.IsInternalConfiguration(err))
	assert.True(t, f.logger.HasMessage("error", "benchmark configuration error"))
}

func TestCompare_PinsBaselineTable(t *testing.T) {
	f := newFixture(t, nil)

	baseline := "Car policy with third-party liability up to £1,000,000."
	candidate := "Third-party liability up to £1,000,000, fire and theft, windscreen cover."

	cmp, err := f.svc.Compare(context.Background(), &CompareRequest{
		BaselineText:  text(baseline),
		CandidateText: text(candidate),
	})
	require.NoError(t, err)
	assert.Equal(t, cmp.Baseline.PolicyCategory, cmp.Candidate.PolicyCategory)
	assert.Equal(t, cmp.Baseline.Region, cmp.Candidate.Region)
	assert.Equal(t, cmp.Candidate.OverallScore-cmp.Baseline.OverallScore, cmp.ScoreDelta)
	assert.Len(t, cmp.Deltas, len(cmp.Baseline.Findings))
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCompare_MissingText(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Compare(context.Background(), &CompareRequest{BaselineText: text("x")})
	assert.True(t, errors.IsInvalidInput(err))
}

func TestGetReport(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	stored := &coverage.Analysis{ID: "abc"}

	f.repo.On("FindByID", ctx, "abc").Return(stored, nil).Once()
	f.repo.On("FindByID", ctx, "missing").Return(nil, errors.New(errors.ErrCodeReportNotFound, "report not found")).Once()

	got, err := f.svc.GetReport(ctx, " abc ")
	require.NoError(t, err)
	assert.Same(t, stored, got)

	_, err = f.svc.GetReport(ctx, "missing")
	assert.True(t, errors.IsCode(err, errors.ErrCodeReportNotFound))
	assert.False(t, f.logger.HasMessage("error", "failed to load report"))
}

func TestGetReport_NoStore(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.Repository = nil })

	_, err := f.svc.GetReport(context.Background(), "abc")
	assert.True(t, errors.IsCode(err, errors.ErrCodeReportNotFound))

	list, err := f.svc.ListReports(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListReports(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.repo.On("ListRecent", ctx, 5).Return([]*coverage.Analysis{{ID: "a"}}, nil).Once()

	list, err := f.svc.ListReports(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBenchmarks(t *testing.T) {
	f := newFixture(t, nil)

	all, err := f.svc.Benchmarks("", "")
	require.NoError(t, err)
	assert.Len(t, all, 16)

	one, err := f.svc.Benchmarks("uk", "car")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, coverage.RegionUK, one[0].Region)
	assert.NotEmpty(t, one[0].Entries)

	_, err = f.svc.Benchmarks("Atlantis", "")
	assert.True(t, errors.IsInvalidInput(err))
	_, err = f.svc.Benchmarks("", "pet")
	assert.True(t, errors.IsInvalidInput(err))
}

//Personal.AI order the ending
