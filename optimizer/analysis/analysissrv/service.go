package analysissrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/feiyu23/spark-resume-ai/internal/ats"
	"github.com/feiyu23/spark-resume-ai/internal/keywords"
	"github.com/feiyu23/spark-resume-ai/internal/textextract"
	"github.com/feiyu23/spark-resume-ai/optimizer/analysis"
	"github.com/feiyu23/spark-resume-ai/optimizer/resume"
	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
	"github.com/feiyu23/spark-resume-ai/pkg/logx"
)

const (
	DefaultSimilarLimit = 10
	MaxSimilarLimit     = 50
)

type Service struct {
	repo       analysis.Repository
	jobRepo    analysis.JobRepository
	queue      analysis.JobQueue
	resumeRepo resume.Repository
	engine     *ats.Engine
	integrator *keywords.Integrator
	embedder   ats.Embedder
}

// NewService creates a new analysis service. embedder may be nil; semantic
// scoring and similarity search are then unavailable and scoring degrades
// to the remaining components.
func NewService(
	repo analysis.Repository,
	jobRepo analysis.JobRepository,
	queue analysis.JobQueue,
	resumeRepo resume.Repository,
	engine *ats.Engine,
	integrator *keywords.Integrator,
	embedder ats.Embedder,
) *Service {
	return &Service{
		repo:       repo,
		jobRepo:    jobRepo,
		queue:      queue,
		resumeRepo: resumeRepo,
		engine:     engine,
		integrator: integrator,
		embedder:   embedder,
	}
}

// Analyze scores a resume synchronously and persists the result.
func (s *Service) Analyze(ctx context.Context, req analysis.AnalyzeRequest) (*analysis.Analysis, error) {
	doc, err := s.resolveDocument(ctx, req.TenantID, req.ResumeID, req.ResumeText)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Score(ctx, doc, req.JobDescription)
	if err != nil {
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeScoringFailed, err).
			WithDetail("tenant_id", req.TenantID)
	}

	model := s.newAnalysis(req.TenantID, req.ResumeID, req.JobDescription)
	model.ApplyScore(result)
	s.embedJobDescription(ctx, model)

	if err := s.repo.Create(ctx, model); err != nil {
		return nil, err
	}

	logx.Infof("Analysis created: AnalysisID=%s, Score=%.1f", model.ID, model.TotalScore)
	return model, nil
}

// Optimize integrates missing keywords into the resume text, re-scores the
// result and persists both scores.
func (s *Service) Optimize(ctx context.Context, req analysis.OptimizeRequest) (*analysis.Analysis, error) {
	if req.JobDescription == "" {
		return nil, analysis.ErrMissingJobDescription()
	}

	doc, err := s.resolveDocument(ctx, req.TenantID, req.ResumeID, req.ResumeText)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Score(ctx, doc, req.JobDescription)
	if err != nil {
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeScoringFailed, err).
			WithDetail("tenant_id", req.TenantID)
	}

	model := s.newAnalysis(req.TenantID, req.ResumeID, req.JobDescription)
	model.ApplyScore(result)

	integrated, err := s.integrator.Integrate(doc.RawText, result.MissingKeywords, result.Industry.Industry)
	if err != nil {
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeOptimizationFailed, err).
			WithDetail("tenant_id", req.TenantID)
	}

	optimizedDoc, err := textextract.Parse(integrated.Text)
	if err != nil {
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeOptimizationFailed, err).
			WithDetail("stage", "reparse")
	}

	rescored, err := s.engine.Score(ctx, optimizedDoc, req.JobDescription)
	if err != nil {
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeScoringFailed, err).
			WithDetail("stage", "rescore")
	}

	model.ApplyOptimization(integrated, rescored.Breakdown.Total)
	s.embedJobDescription(ctx, model)

	if err := s.repo.Create(ctx, model); err != nil {
		return nil, err
	}

	logx.Infof("Optimization complete: AnalysisID=%s, Score=%.1f -> %.1f, Insertions=%d",
		model.ID, model.TotalScore, rescored.Breakdown.Total, len(integrated.Insertions))
	return model, nil
}

// Get retrieves an analysis, enforcing tenant ownership.
func (s *Service) Get(ctx context.Context, id kernel.AnalysisID, tenantID kernel.TenantID) (*analysis.Analysis, error) {
	return s.getOwned(ctx, id, tenantID)
}

// List returns the tenant's analyses, newest first.
func (s *Service) List(ctx context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[analysis.Analysis], error) {
	return s.repo.ListByTenantID(ctx, tenantID, pagination.Normalized())
}

// ListByResume returns analyses for one stored resume.
func (s *Service) ListByResume(ctx context.Context, resumeID kernel.ResumeID, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[analysis.Analysis], error) {
	stored, err := s.resumeRepo.GetByID(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if stored.TenantID != tenantID {
		return nil, analysis.ErrTenantMismatch().
			WithDetail("resume_id", resumeID)
	}
	return s.repo.ListByResumeID(ctx, resumeID, pagination.Normalized())
}

// Delete removes an analysis.
func (s *Service) Delete(ctx context.Context, id kernel.AnalysisID, tenantID kernel.TenantID) error {
	if _, err := s.getOwned(ctx, id, tenantID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// FindSimilar searches stored analyses whose job description embedding is
// close to the query text.
func (s *Service) FindSimilar(ctx context.Context, req analysis.FindSimilarRequest) ([]analysis.SimilarAnalysis, error) {
	if req.Query == "" {
		return nil, analysis.ErrInvalidAnalysisData().
			WithDetail("field", "query")
	}
	if s.embedder == nil {
		return nil, analysis.ErrEmbeddingFailed().
			WithDetail("reason", "embedding generator not configured")
	}

	vec, err := s.embedder.EmbedText(ctx, req.Query)
	if err != nil {
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeEmbeddingFailed, err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	if limit > MaxSimilarLimit {
		limit = MaxSimilarLimit
	}

	return s.repo.FindSimilar(ctx, req.TenantID, vec, limit)
}

// resolveDocument loads a stored resume or parses ad-hoc text
func (s *Service) resolveDocument(ctx context.Context, tenantID kernel.TenantID, resumeID *kernel.ResumeID, resumeText string) (*textextract.Document, error) {
	if resumeID != nil && !resumeID.IsEmpty() {
		stored, err := s.resumeRepo.GetByID(ctx, *resumeID)
		if err != nil {
			return nil, err
		}
		if stored.TenantID != tenantID {
			return nil, analysis.ErrTenantMismatch().
				WithDetail("resume_id", *resumeID)
		}
		doc, err := textextract.Parse(stored.RawText)
		if err != nil {
			return nil, analysis.ErrInvalidAnalysisData().
				WithDetail("resume_id", *resumeID).
				WithDetail("reason", "stored resume has no readable text")
		}
		return doc, nil
	}

	if resumeText == "" {
		return nil, analysis.ErrMissingResume()
	}

	doc, err := textextract.Parse(resumeText)
	if err != nil {
		return nil, analysis.ErrMissingResume().
			WithDetail("reason", "resume text is empty")
	}
	return doc, nil
}

func (s *Service) newAnalysis(tenantID kernel.TenantID, resumeID *kernel.ResumeID, jobDescription string) *analysis.Analysis {
	return &analysis.Analysis{
		ID:             kernel.NewAnalysisID(uuid.NewString()),
		TenantID:       tenantID,
		ResumeID:       resumeID,
		JobDescription: jobDescription,
		CreatedAt:      time.Now(),
	}
}

// embedJobDescription is best-effort: similarity search simply skips
// analyses without an embedding
func (s *Service) embedJobDescription(ctx context.Context, model *analysis.Analysis) {
	if s.embedder == nil || model.JobDescription == "" {
		return
	}
	vec, err := s.embedder.EmbedText(ctx, model.JobDescription)
	if err != nil {
		logx.Warnf("Job description embedding skipped for analysis %s: %v", model.ID, err)
		return
	}
	model.JDEmbedding = vec
}

func (s *Service) getOwned(ctx context.Context, id kernel.AnalysisID, tenantID kernel.TenantID) (*analysis.Analysis, error) {
	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if model.TenantID != tenantID {
		return nil, analysis.ErrTenantMismatch().
			WithDetail("analysis_id", id).
			WithDetail("requested_tenant_id", tenantID)
	}
	return model, nil
}
