package analysissrv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feiyu23/spark-resume-ai/internal/ats"
	"github.com/feiyu23/spark-resume-ai/internal/keywords"
	"github.com/feiyu23/spark-resume-ai/optimizer/analysis"
	"github.com/feiyu23/spark-resume-ai/optimizer/resume"
	"github.com/feiyu23/spark-resume-ai/pkg/errx"
	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

const testResume = `John Smith
john.smith@example.com | (555) 123-4567

SUMMARY
Backend engineer with six years building distributed services in Go.

EXPERIENCE
Senior Software Engineer, Acme Corp (2021-2024)
- Designed REST APIs serving millions of requests per day
- Led migration of billing pipeline to PostgreSQL and Redis
- Mentored four junior engineers on code review practices

EDUCATION
B.S. Computer Science, State University

SKILLS
Go, PostgreSQL, Redis, Docker, Kubernetes, AWS
`

const testJD = `Senior Backend Engineer

We are looking for an engineer experienced with Go, PostgreSQL, Kafka and
Terraform. You will build scalable microservices, own CI/CD pipelines and
work with Kubernetes in production. Experience with gRPC is a plus.
`

type fakeAnalysisRepo struct {
	store        map[kernel.AnalysisID]*analysis.Analysis
	similarLimit int
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{store: make(map[kernel.AnalysisID]*analysis.Analysis)}
}

func (r *fakeAnalysisRepo) Create(_ context.Context, a *analysis.Analysis) error {
	r.store[a.ID] = a
	return nil
}

func (r *fakeAnalysisRepo) Update(_ context.Context, id kernel.AnalysisID, a *analysis.Analysis) error {
	if _, ok := r.store[id]; !ok {
		return analysis.ErrAnalysisNotFound()
	}
	r.store[id] = a
	return nil
}

func (r *fakeAnalysisRepo) GetByID(_ context.Context, id kernel.AnalysisID) (*analysis.Analysis, error) {
	a, ok := r.store[id]
	if !ok {
		return nil, analysis.ErrAnalysisNotFound()
	}
	return a, nil
}

func (r *fakeAnalysisRepo) ListByTenantID(_ context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[analysis.Analysis], error) {
	var items []analysis.Analysis
	for _, a := range r.store {
		if a.TenantID == tenantID {
			items = append(items, *a)
		}
	}
	paginated := kernel.NewPaginated(items, pagination, len(items))
	return &paginated, nil
}

func (r *fakeAnalysisRepo) ListByResumeID(_ context.Context, resumeID kernel.ResumeID, pagination kernel.PaginationOptions) (*kernel.Paginated[analysis.Analysis], error) {
	var items []analysis.Analysis
	for _, a := range r.store {
		if a.ResumeID != nil && *a.ResumeID == resumeID {
			items = append(items, *a)
		}
	}
	paginated := kernel.NewPaginated(items, pagination, len(items))
	return &paginated, nil
}

func (r *fakeAnalysisRepo) Delete(_ context.Context, id kernel.AnalysisID) error {
	delete(r.store, id)
	return nil
}

func (r *fakeAnalysisRepo) FindSimilar(_ context.Context, _ kernel.TenantID, _ []float32, limit int) ([]analysis.SimilarAnalysis, error) {
	r.similarLimit = limit
	return nil, nil
}

type stubEmbedder struct {
	vec []float32
}

func (s *stubEmbedder) EmbedText(_ context.Context, _ string) ([]float32, error) {
	return s.vec, nil
}

type fakeJobRepo struct {
	store map[kernel.JobID]*analysis.AnalysisJob
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{store: make(map[kernel.JobID]*analysis.AnalysisJob)}
}

func (r *fakeJobRepo) Create(_ context.Context, job *analysis.AnalysisJob) error {
	r.store[job.ID] = job
	return nil
}

func (r *fakeJobRepo) Update(_ context.Context, job *analysis.AnalysisJob) error {
	r.store[job.ID] = job
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, jobID kernel.JobID) (*analysis.AnalysisJob, error) {
	job, ok := r.store[jobID]
	if !ok {
		return nil, analysis.ErrJobNotFound()
	}
	return job, nil
}

func (r *fakeJobRepo) GetByTenantID(_ context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[analysis.AnalysisJob], error) {
	var items []analysis.AnalysisJob
	for _, job := range r.store {
		if job.TenantID == tenantID {
			items = append(items, *job)
		}
	}
	paginated := kernel.NewPaginated(items, pagination, len(items))
	return &paginated, nil
}

func (r *fakeJobRepo) MarkAsProcessing(_ context.Context, jobID kernel.JobID) error {
	r.store[jobID].Status = analysis.JobStatusProcessing
	return nil
}

func (r *fakeJobRepo) MarkAsCompleted(_ context.Context, jobID kernel.JobID, analysisID kernel.AnalysisID) error {
	job := r.store[jobID]
	job.Status = analysis.JobStatusCompleted
	job.AnalysisID = &analysisID
	return nil
}

func (r *fakeJobRepo) MarkAsFailed(_ context.Context, jobID kernel.JobID, errorMsg string, errorDetails map[string]any) error {
	job := r.store[jobID]
	job.Status = analysis.JobStatusFailed
	job.ErrorMessage = errorMsg
	job.ErrorDetails = errorDetails
	return nil
}

func (r *fakeJobRepo) UpdateProgress(_ context.Context, jobID kernel.JobID, step analysis.ProcessingStep, percentage int) error {
	job := r.store[jobID]
	job.CurrentStep = &step
	job.ProgressPercentage = percentage
	return nil
}

type fakeQueue struct {
	readySize   int64
	delayedSize int64
}

func (q *fakeQueue) Enqueue(_ context.Context, _ kernel.JobID, _ any) error {
	q.readySize++
	return nil
}

func (q *fakeQueue) Dequeue(_ context.Context, _ time.Duration) ([]byte, error) {
	return nil, nil
}

func (q *fakeQueue) EnqueueDelayed(_ context.Context, _ kernel.JobID, _ any, _ time.Duration) error {
	q.delayedSize++
	return nil
}

func (q *fakeQueue) MoveDelayedToReady(_ context.Context) (int, error) { return 0, nil }
func (q *fakeQueue) GetQueueSize(_ context.Context) (int64, error)     { return q.readySize, nil }
func (q *fakeQueue) GetDelayedQueueSize(_ context.Context) (int64, error) {
	return q.delayedSize, nil
}
func (q *fakeQueue) Ping(_ context.Context) error { return nil }

type fakeResumeRepo struct {
	stored *resume.Resume
}

func (r *fakeResumeRepo) Create(_ context.Context, _ *resume.Resume) error { return nil }
func (r *fakeResumeRepo) Update(_ context.Context, _ kernel.ResumeID, _ *resume.Resume) error {
	return nil
}

func (r *fakeResumeRepo) GetByID(_ context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	if r.stored == nil || r.stored.ID != id {
		return nil, resume.ErrResumeNotFound()
	}
	return r.stored, nil
}

func (r *fakeResumeRepo) GetDefaultByTenantID(_ context.Context, _ kernel.TenantID) (*resume.Resume, error) {
	return nil, resume.ErrResumeNotFound()
}

func (r *fakeResumeRepo) ListByTenantID(_ context.Context, _ kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[resume.Resume], error) {
	paginated := kernel.NewPaginated([]resume.Resume{}, pagination, 0)
	return &paginated, nil
}

func (r *fakeResumeRepo) SetDefault(_ context.Context, _ kernel.ResumeID, _ kernel.TenantID) error {
	return nil
}
func (r *fakeResumeRepo) ToggleActive(_ context.Context, _ kernel.ResumeID, _ bool) error {
	return nil
}
func (r *fakeResumeRepo) Delete(_ context.Context, _ kernel.ResumeID) error { return nil }
func (r *fakeResumeRepo) CountByTenantID(_ context.Context, _ kernel.TenantID) (int64, error) {
	return 0, nil
}

func (r *fakeResumeRepo) UpdateEmbedding(_ context.Context, _ kernel.ResumeID, _ []float32, _ string) error {
	return nil
}

func (r *fakeResumeRepo) Stats(_ context.Context, _ kernel.TenantID) (*resume.StatsResponse, error) {
	return &resume.StatsResponse{}, nil
}

func newTestService(analysisRepo *fakeAnalysisRepo, resumeRepo *fakeResumeRepo) *Service {
	return NewService(
		analysisRepo,
		nil,
		nil,
		resumeRepo,
		ats.NewEngine(nil),
		keywords.NewIntegrator(),
		nil,
	)
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	var e *errx.Error
	require.True(t, errors.As(err, &e), "expected *errx.Error, got %T: %v", err, err)
	return e.Code
}

func TestAnalyzeAdHocText(t *testing.T) {
	repo := newFakeAnalysisRepo()
	svc := newTestService(repo, &fakeResumeRepo{})

	model, err := svc.Analyze(context.Background(), analysis.AnalyzeRequest{
		TenantID:       kernel.NewTenantID("tenant-a"),
		ResumeText:     testResume,
		JobDescription: testJD,
	})
	require.NoError(t, err)

	assert.False(t, model.ID.IsEmpty())
	assert.GreaterOrEqual(t, model.TotalScore, 0.0)
	assert.LessOrEqual(t, model.TotalScore, 100.0)
	assert.Equal(t, ats.IndustrySoftware, model.Industry)
	assert.NotEmpty(t, model.MatchedKeywords)
	assert.False(t, model.IsOptimized())

	// Persisted through the repository
	stored, err := repo.GetByID(context.Background(), model.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TotalScore, stored.TotalScore)
}

func TestAnalyzeRequiresResumeSource(t *testing.T) {
	svc := newTestService(newFakeAnalysisRepo(), &fakeResumeRepo{})

	_, err := svc.Analyze(context.Background(), analysis.AnalyzeRequest{
		TenantID:       kernel.NewTenantID("tenant-a"),
		JobDescription: testJD,
	})
	require.Error(t, err)
	assert.Equal(t, "ANALYSIS_MISSING_RESUME", errCode(t, err))
}

func TestAnalyzeStoredResumeTenantMismatch(t *testing.T) {
	resumeID := kernel.NewResumeID("res-1")
	resumeRepo := &fakeResumeRepo{stored: &resume.Resume{
		ID:        resumeID,
		TenantID:  kernel.NewTenantID("tenant-a"),
		RawText:   testResume,
		WordCount: 60,
		CreatedAt: time.Now(),
	}}
	svc := newTestService(newFakeAnalysisRepo(), resumeRepo)

	_, err := svc.Analyze(context.Background(), analysis.AnalyzeRequest{
		TenantID:       kernel.NewTenantID("tenant-b"),
		ResumeID:       &resumeID,
		JobDescription: testJD,
	})
	require.Error(t, err)
	assert.Equal(t, "ANALYSIS_TENANT_MISMATCH", errCode(t, err))
}

func TestAnalyzeStoredResume(t *testing.T) {
	resumeID := kernel.NewResumeID("res-1")
	tenantID := kernel.NewTenantID("tenant-a")
	resumeRepo := &fakeResumeRepo{stored: &resume.Resume{
		ID:       resumeID,
		TenantID: tenantID,
		RawText:  testResume,
	}}
	svc := newTestService(newFakeAnalysisRepo(), resumeRepo)

	model, err := svc.Analyze(context.Background(), analysis.AnalyzeRequest{
		TenantID:       tenantID,
		ResumeID:       &resumeID,
		JobDescription: testJD,
	})
	require.NoError(t, err)
	require.NotNil(t, model.ResumeID)
	assert.Equal(t, resumeID, *model.ResumeID)
}

func TestOptimizeRequiresJobDescription(t *testing.T) {
	svc := newTestService(newFakeAnalysisRepo(), &fakeResumeRepo{})

	_, err := svc.Optimize(context.Background(), analysis.OptimizeRequest{
		TenantID:   kernel.NewTenantID("tenant-a"),
		ResumeText: testResume,
	})
	require.Error(t, err)
	assert.Equal(t, "ANALYSIS_MISSING_JOB_DESCRIPTION", errCode(t, err))
}

func TestOptimizeRecordsDelta(t *testing.T) {
	repo := newFakeAnalysisRepo()
	svc := newTestService(repo, &fakeResumeRepo{})

	model, err := svc.Optimize(context.Background(), analysis.OptimizeRequest{
		TenantID:       kernel.NewTenantID("tenant-a"),
		ResumeText:     testResume,
		JobDescription: testJD,
	})
	require.NoError(t, err)

	assert.True(t, model.IsOptimized())
	assert.NotEmpty(t, model.OptimizedText)
	require.NotNil(t, model.OptimizedScore)
	require.NotNil(t, model.ScoreDelta)
	assert.InDelta(t, *model.OptimizedScore-model.TotalScore, *model.ScoreDelta, 1e-9)

	// The JD names keywords absent from the resume, so integration adds some
	assert.NotEmpty(t, model.Insertions)
}

func TestGetEnforcesTenant(t *testing.T) {
	repo := newFakeAnalysisRepo()
	svc := newTestService(repo, &fakeResumeRepo{})

	model, err := svc.Analyze(context.Background(), analysis.AnalyzeRequest{
		TenantID:   kernel.NewTenantID("tenant-a"),
		ResumeText: testResume,
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), model.ID, kernel.NewTenantID("tenant-b"))
	require.Error(t, err)
	assert.Equal(t, "ANALYSIS_TENANT_MISMATCH", errCode(t, err))

	got, err := svc.Get(context.Background(), model.ID, kernel.NewTenantID("tenant-a"))
	require.NoError(t, err)
	assert.Equal(t, model.ID, got.ID)
}

func TestDeleteEnforcesTenant(t *testing.T) {
	repo := newFakeAnalysisRepo()
	svc := newTestService(repo, &fakeResumeRepo{})

	model, err := svc.Analyze(context.Background(), analysis.AnalyzeRequest{
		TenantID:   kernel.NewTenantID("tenant-a"),
		ResumeText: testResume,
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), model.ID, kernel.NewTenantID("tenant-b"))
	require.Error(t, err)

	err = svc.Delete(context.Background(), model.ID, kernel.NewTenantID("tenant-a"))
	require.NoError(t, err)
	_, err = repo.GetByID(context.Background(), model.ID)
	assert.Error(t, err)
}

func TestFindSimilarValidation(t *testing.T) {
	svc := newTestService(newFakeAnalysisRepo(), &fakeResumeRepo{})
	tenantID := kernel.NewTenantID("tenant-a")

	_, err := svc.FindSimilar(context.Background(), analysis.FindSimilarRequest{
		TenantID: tenantID,
	})
	require.Error(t, err)
	assert.Equal(t, "ANALYSIS_INVALID_DATA", errCode(t, err))

	// Embedder not configured
	_, err = svc.FindSimilar(context.Background(), analysis.FindSimilarRequest{
		TenantID: tenantID,
		Query:    "backend engineer",
	})
	require.Error(t, err)
	assert.Equal(t, "ANALYSIS_EMBEDDING_FAILED", errCode(t, err))
}

func TestFindSimilarClampsLimit(t *testing.T) {
	repo := newFakeAnalysisRepo()
	svc := NewService(
		repo,
		nil,
		nil,
		&fakeResumeRepo{},
		ats.NewEngine(nil),
		keywords.NewIntegrator(),
		&stubEmbedder{vec: []float32{0.1, 0.9}},
	)
	tenantID := kernel.NewTenantID("tenant-a")

	cases := []struct {
		requested int
		want      int
	}{
		{requested: 0, want: DefaultSimilarLimit},
		{requested: -3, want: DefaultSimilarLimit},
		{requested: 5, want: 5},
		{requested: 50, want: 50},
		{requested: 100, want: MaxSimilarLimit},
	}
	for _, tc := range cases {
		_, err := svc.FindSimilar(context.Background(), analysis.FindSimilarRequest{
			TenantID: tenantID,
			Query:    "backend engineer",
			Limit:    tc.requested,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.want, repo.similarLimit, "requested limit %d", tc.requested)
	}
}

func TestGetJobStats(t *testing.T) {
	jobRepo := newFakeJobRepo()
	queue := &fakeQueue{readySize: 4, delayedSize: 2}
	svc := NewService(
		newFakeAnalysisRepo(),
		jobRepo,
		queue,
		&fakeResumeRepo{},
		ats.NewEngine(nil),
		keywords.NewIntegrator(),
		nil,
	)
	tenantID := kernel.NewTenantID("tenant-a")

	oldest := time.Now().Add(-time.Hour)
	completedAt := time.Now().Add(-time.Minute)
	jobs := []*analysis.AnalysisJob{
		{ID: kernel.NewJobID("job-1"), TenantID: tenantID, Status: analysis.JobStatusPending, CreatedAt: oldest},
		{ID: kernel.NewJobID("job-2"), TenantID: tenantID, Status: analysis.JobStatusPending, CreatedAt: time.Now()},
		{ID: kernel.NewJobID("job-3"), TenantID: tenantID, Status: analysis.JobStatusCompleted, CreatedAt: time.Now(), CompletedAt: &completedAt, ProgressPercentage: 100},
		{ID: kernel.NewJobID("job-4"), TenantID: tenantID, Status: analysis.JobStatusFailed, CreatedAt: time.Now()},
		{ID: kernel.NewJobID("job-5"), TenantID: kernel.NewTenantID("tenant-b"), Status: analysis.JobStatusPending, CreatedAt: time.Now()},
	}
	for _, job := range jobs {
		require.NoError(t, jobRepo.Create(context.Background(), job))
	}

	stats, err := svc.GetJobStats(context.Background(), tenantID)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalJobs)
	assert.Equal(t, 2, stats.PendingJobs)
	assert.Equal(t, 1, stats.CompletedJobs)
	assert.Equal(t, 1, stats.FailedJobs)
	require.NotNil(t, stats.OldestPendingJob)
	assert.True(t, stats.OldestPendingJob.Equal(oldest))
	require.NotNil(t, stats.LastCompletedJob)
	assert.True(t, stats.LastCompletedJob.Equal(completedAt))
	assert.Equal(t, int64(4), stats.QueueDepth)
	assert.Equal(t, int64(2), stats.DelayedQueueDepth)
}
