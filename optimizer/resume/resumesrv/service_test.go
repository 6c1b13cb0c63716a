package resumesrv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feiyu23/spark-resume-ai/optimizer/resume"
	"github.com/feiyu23/spark-resume-ai/pkg/errx"
	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

type fakeRepo struct {
	resumes    []resume.Resume
	embeddings map[kernel.ResumeID][]float32
	models     map[kernel.ResumeID]string
}

func newFakeRepo(resumes ...resume.Resume) *fakeRepo {
	return &fakeRepo{
		resumes:    resumes,
		embeddings: make(map[kernel.ResumeID][]float32),
		models:     make(map[kernel.ResumeID]string),
	}
}

func (r *fakeRepo) Create(_ context.Context, model *resume.Resume) error {
	r.resumes = append(r.resumes, *model)
	return nil
}

func (r *fakeRepo) Update(_ context.Context, id kernel.ResumeID, model *resume.Resume) error {
	for i := range r.resumes {
		if r.resumes[i].ID == id {
			r.resumes[i] = *model
			return nil
		}
	}
	return resume.ErrResumeNotFound()
}

func (r *fakeRepo) GetByID(_ context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	for i := range r.resumes {
		if r.resumes[i].ID == id {
			return &r.resumes[i], nil
		}
	}
	return nil, resume.ErrResumeNotFound()
}

func (r *fakeRepo) GetDefaultByTenantID(_ context.Context, _ kernel.TenantID) (*resume.Resume, error) {
	return nil, resume.ErrResumeNotFound()
}

func (r *fakeRepo) ListByTenantID(_ context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[resume.Resume], error) {
	var items []resume.Resume
	for _, model := range r.resumes {
		if model.TenantID == tenantID {
			items = append(items, model)
		}
	}
	paginated := kernel.NewPaginated(items, pagination, len(items))
	return &paginated, nil
}

func (r *fakeRepo) SetDefault(_ context.Context, _ kernel.ResumeID, _ kernel.TenantID) error {
	return nil
}
func (r *fakeRepo) ToggleActive(_ context.Context, _ kernel.ResumeID, _ bool) error { return nil }
func (r *fakeRepo) Delete(_ context.Context, _ kernel.ResumeID) error              { return nil }

func (r *fakeRepo) CountByTenantID(_ context.Context, tenantID kernel.TenantID) (int64, error) {
	var count int64
	for _, model := range r.resumes {
		if model.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) UpdateEmbedding(_ context.Context, id kernel.ResumeID, embedding []float32, model string) error {
	r.embeddings[id] = embedding
	r.models[id] = model
	return nil
}

func (r *fakeRepo) Stats(_ context.Context, _ kernel.TenantID) (*resume.StatsResponse, error) {
	return &resume.StatsResponse{}, nil
}

type batchEmbedder struct {
	batchCalls  int
	singleCalls int
}

func (e *batchEmbedder) EmbedText(_ context.Context, _ string) ([]float32, error) {
	e.singleCalls++
	return []float32{0.5, 0.5}, nil
}

func (e *batchEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.batchCalls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), 1}
	}
	return out, nil
}

type singleEmbedder struct {
	calls int
	err   error
}

func (e *singleEmbedder) EmbedText(_ context.Context, _ string) ([]float32, error) {
	e.calls++
	return []float32{1, 0}, e.err
}

func tenantResume(id string, tenantID kernel.TenantID, text string) resume.Resume {
	return resume.Resume{
		ID:       kernel.NewResumeID(id),
		TenantID: tenantID,
		RawText:  text,
	}
}

func TestRefreshEmbeddingsBatch(t *testing.T) {
	tenantID := kernel.NewTenantID("tenant-a")
	repo := newFakeRepo(
		tenantResume("res-1", tenantID, "Go engineer resume"),
		tenantResume("res-2", tenantID, "Data analyst resume"),
		tenantResume("res-3", tenantID, ""),
		tenantResume("res-4", kernel.NewTenantID("tenant-b"), "Other tenant"),
	)
	embedder := &batchEmbedder{}
	svc := NewService(repo, nil, embedder)

	updated, err := svc.RefreshEmbeddings(context.Background(), tenantID)
	require.NoError(t, err)

	assert.Equal(t, 2, updated)
	assert.Equal(t, 1, embedder.batchCalls, "batch embedders take one request")
	assert.Zero(t, embedder.singleCalls)

	// Only the tenant's resumes with text get an embedding
	assert.Contains(t, repo.embeddings, kernel.NewResumeID("res-1"))
	assert.Contains(t, repo.embeddings, kernel.NewResumeID("res-2"))
	assert.NotContains(t, repo.embeddings, kernel.NewResumeID("res-3"))
	assert.NotContains(t, repo.embeddings, kernel.NewResumeID("res-4"))
	assert.Equal(t, EmbeddingModel, repo.models[kernel.NewResumeID("res-1")])
}

func TestRefreshEmbeddingsFallsBackToSingle(t *testing.T) {
	tenantID := kernel.NewTenantID("tenant-a")
	repo := newFakeRepo(
		tenantResume("res-1", tenantID, "Go engineer resume"),
		tenantResume("res-2", tenantID, "Data analyst resume"),
	)
	embedder := &singleEmbedder{}
	svc := NewService(repo, nil, embedder)

	updated, err := svc.RefreshEmbeddings(context.Background(), tenantID)
	require.NoError(t, err)

	assert.Equal(t, 2, updated)
	assert.Equal(t, 2, embedder.calls, "one request per resume without batch support")
}

func TestRefreshEmbeddingsRequiresEmbedder(t *testing.T) {
	repo := newFakeRepo(tenantResume("res-1", kernel.NewTenantID("tenant-a"), "text"))
	svc := NewService(repo, nil, nil)

	_, err := svc.RefreshEmbeddings(context.Background(), kernel.NewTenantID("tenant-a"))
	require.Error(t, err)

	var e *errx.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "RESUME_EMBEDDING_FAILED", e.Code)
}

func TestRefreshEmbeddingsPropagatesFailure(t *testing.T) {
	tenantID := kernel.NewTenantID("tenant-a")
	repo := newFakeRepo(tenantResume("res-1", tenantID, "text"))
	svc := NewService(repo, nil, &singleEmbedder{err: errors.New("provider down")})

	_, err := svc.RefreshEmbeddings(context.Background(), tenantID)
	require.Error(t, err)

	var e *errx.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "RESUME_EMBEDDING_FAILED", e.Code)
	assert.Empty(t, repo.embeddings)
}