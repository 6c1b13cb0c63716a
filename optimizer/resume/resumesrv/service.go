package resumesrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/feiyu23/spark-resume-ai/internal/ats"
	"github.com/feiyu23/spark-resume-ai/internal/textextract"
	"github.com/feiyu23/spark-resume-ai/optimizer/resume"
	"github.com/feiyu23/spark-resume-ai/pkg/fsx"
	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
	"github.com/feiyu23/spark-resume-ai/pkg/logx"
)

const (
	MaxResumesPerTenant = 20
	EmbeddingModel      = "text-embedding-3-small"
)

type Service struct {
	repo       resume.Repository
	fileReader fsx.FileReader
	embedder   ats.Embedder
}

// NewService creates a new resume service. embedder may be nil; resumes are
// then stored without embeddings and similarity search skips them.
func NewService(repo resume.Repository, fileReader fsx.FileReader, embedder ats.Embedder) *Service {
	return &Service{
		repo:       repo,
		fileReader: fileReader,
		embedder:   embedder,
	}
}

// CreateFromFile reads a stored document, extracts its text and registers
// the resume.
func (s *Service) CreateFromFile(ctx context.Context, req resume.CreateResumeRequest) (*resume.Resume, error) {
	logx.Infof("Creating resume from file: TenantID=%s, File=%s", req.TenantID, req.FileName)

	if err := s.checkResumeLimit(ctx, req.TenantID); err != nil {
		return nil, err
	}

	fileType, err := textextract.FileTypeFromName(req.FileName)
	if err != nil {
		return nil, resume.ErrInvalidFileFormat().
			WithDetail("file_name", req.FileName)
	}

	data, err := s.fileReader.ReadFile(ctx, req.FilePath)
	if err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeFileReadFailed, err).
			WithDetail("file_path", req.FilePath)
	}

	text, err := textextract.FromBytes(data, fileType)
	if err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeExtractionFailed, err).
			WithDetail("file_name", req.FileName).
			WithDetail("file_type", string(fileType))
	}

	model, err := s.buildResume(req.TenantID, req.Title, text)
	if err != nil {
		return nil, err
	}
	model.FilePath = req.FilePath
	model.FileName = req.FileName
	model.FileType = string(fileType)
	model.IsDefault = req.IsDefault

	return s.persistNew(ctx, model)
}

// CreateFromText registers raw resume text directly.
func (s *Service) CreateFromText(ctx context.Context, req resume.CreateResumeFromTextRequest) (*resume.Resume, error) {
	logx.Infof("Creating resume from text: TenantID=%s", req.TenantID)

	if err := s.checkResumeLimit(ctx, req.TenantID); err != nil {
		return nil, err
	}

	model, err := s.buildResume(req.TenantID, req.Title, req.RawText)
	if err != nil {
		return nil, err
	}
	model.IsDefault = req.IsDefault

	return s.persistNew(ctx, model)
}

// Get retrieves a resume, enforcing tenant ownership.
func (s *Service) Get(ctx context.Context, id kernel.ResumeID, tenantID kernel.TenantID) (*resume.Resume, error) {
	return s.getOwned(ctx, id, tenantID)
}

// GetDefault retrieves the tenant's default resume.
func (s *Service) GetDefault(ctx context.Context, tenantID kernel.TenantID) (*resume.Resume, error) {
	model, err := s.repo.GetDefaultByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return model, nil
}

// Update changes metadata and, when RawText is supplied, re-extracts and
// re-embeds the content.
func (s *Service) Update(ctx context.Context, id kernel.ResumeID, tenantID kernel.TenantID, req resume.UpdateResumeRequest) (*resume.Resume, error) {
	model, err := s.getOwned(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		model.Title = *req.Title
		model.LastUpdatedAt = time.Now()
	}

	if req.RawText != nil {
		doc, err := textextract.Parse(*req.RawText)
		if err != nil {
			return nil, resume.ErrEmptyResume().WithDetail("resume_id", id)
		}
		model.UpdateContent(doc, ats.DetectIndustry(doc.RawText))
		s.embedResume(ctx, model)
	}

	if err := s.repo.Update(ctx, id, model); err != nil {
		return nil, err
	}
	return model, nil
}

// Delete removes a resume. The default resume is protected; unset it first.
func (s *Service) Delete(ctx context.Context, id kernel.ResumeID, tenantID kernel.TenantID) error {
	model, err := s.getOwned(ctx, id, tenantID)
	if err != nil {
		return err
	}

	if model.IsDefault {
		return resume.ErrDefaultResumeRequired().
			WithDetail("resume_id", id)
	}

	return s.repo.Delete(ctx, id)
}

// List returns the tenant's resumes, newest first.
func (s *Service) List(ctx context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[resume.Resume], error) {
	return s.repo.ListByTenantID(ctx, tenantID, pagination.Normalized())
}

// SetDefault marks a resume as the tenant's default, unsetting any other.
func (s *Service) SetDefault(ctx context.Context, id kernel.ResumeID, tenantID kernel.TenantID) error {
	if _, err := s.getOwned(ctx, id, tenantID); err != nil {
		return err
	}
	return s.repo.SetDefault(ctx, id, tenantID)
}

// ToggleActive flips a resume's active flag.
func (s *Service) ToggleActive(ctx context.Context, id kernel.ResumeID, tenantID kernel.TenantID, isActive bool) error {
	if _, err := s.getOwned(ctx, id, tenantID); err != nil {
		return err
	}
	return s.repo.ToggleActive(ctx, id, isActive)
}

// Stats aggregates the tenant's resumes.
func (s *Service) Stats(ctx context.Context, tenantID kernel.TenantID) (*resume.StatsResponse, error) {
	return s.repo.Stats(ctx, tenantID)
}

// Reprocess re-reads the stored document, re-extracts the text and
// regenerates the embedding. Useful after extraction fixes.
func (s *Service) Reprocess(ctx context.Context, id kernel.ResumeID, tenantID kernel.TenantID) (*resume.Resume, error) {
	model, err := s.getOwned(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	text := model.RawText
	if model.FilePath != "" {
		data, err := s.fileReader.ReadFile(ctx, model.FilePath)
		if err != nil {
			return nil, resume.ErrRegistry.NewWithCause(resume.CodeFileReadFailed, err).
				WithDetail("file_path", model.FilePath)
		}
		text, err = textextract.FromBytes(data, textextract.FileType(model.FileType))
		if err != nil {
			return nil, resume.ErrRegistry.NewWithCause(resume.CodeExtractionFailed, err).
				WithDetail("resume_id", id)
		}
	}

	doc, err := textextract.Parse(text)
	if err != nil {
		return nil, resume.ErrEmptyResume().WithDetail("resume_id", id)
	}
	model.UpdateContent(doc, ats.DetectIndustry(doc.RawText))
	s.embedResume(ctx, model)

	if err := s.repo.Update(ctx, id, model); err != nil {
		return nil, err
	}

	logx.Infof("Reprocessed resume: ResumeID=%s, Version=%d", id, model.Version)
	return model, nil
}

// BatchEmbedder embeds several texts in one request. Embedders that do not
// implement it fall back to one request per resume.
type BatchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// RefreshEmbeddings regenerates embeddings for every resume of the tenant
// that has readable text, for example after an embedding model change.
// Returns the number of resumes updated.
func (s *Service) RefreshEmbeddings(ctx context.Context, tenantID kernel.TenantID) (int, error) {
	if s.embedder == nil {
		return 0, resume.ErrEmbeddingFailed().
			WithDetail("reason", "embedding generator not configured")
	}

	listed, err := s.repo.ListByTenantID(ctx, tenantID, kernel.PaginationOptions{
		Page:     1,
		PageSize: kernel.MaxPageSize,
	})
	if err != nil {
		return 0, err
	}

	targets := make([]resume.Resume, 0, len(listed.Items))
	texts := make([]string, 0, len(listed.Items))
	for _, model := range listed.Items {
		if model.RawText == "" {
			continue
		}
		targets = append(targets, model)
		texts = append(texts, model.RawText)
	}
	if len(targets) == 0 {
		return 0, nil
	}

	vectors, err := s.embedAll(ctx, texts)
	if err != nil {
		return 0, resume.ErrRegistry.NewWithCause(resume.CodeEmbeddingFailed, err).
			WithDetail("tenant_id", tenantID)
	}

	updated := 0
	for i, model := range targets {
		if err := s.repo.UpdateEmbedding(ctx, model.ID, vectors[i], EmbeddingModel); err != nil {
			logx.Warnf("Failed to store embedding for resume %s: %v", model.ID, err)
			continue
		}
		updated++
	}

	logx.Infof("Refreshed embeddings: TenantID=%s, Updated=%d/%d", tenantID, updated, len(targets))
	return updated, nil
}

func (s *Service) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	if batch, ok := s.embedder.(BatchEmbedder); ok {
		return batch.EmbedBatch(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.embedder.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (s *Service) checkResumeLimit(ctx context.Context, tenantID kernel.TenantID) error {
	count, err := s.repo.CountByTenantID(ctx, tenantID)
	if err != nil {
		return err
	}
	if count >= MaxResumesPerTenant {
		return resume.ErrMaxResumesExceeded().
			WithDetail("tenant_id", tenantID).
			WithDetail("current_count", count).
			WithDetail("max_allowed", MaxResumesPerTenant)
	}
	return nil
}

func (s *Service) buildResume(tenantID kernel.TenantID, title, text string) (*resume.Resume, error) {
	doc, err := textextract.Parse(text)
	if err != nil {
		return nil, resume.ErrEmptyResume().WithDetail("tenant_id", tenantID)
	}

	detection := ats.DetectIndustry(doc.RawText)
	now := time.Now()

	return &resume.Resume{
		ID:                 kernel.NewResumeID(uuid.NewString()),
		TenantID:           tenantID,
		Title:              title,
		IsActive:           true,
		Version:            1,
		RawText:            doc.RawText,
		Sections:           doc.Sections,
		Contact:            doc.Contact,
		WordCount:          doc.WordCount,
		Industry:           detection.Industry,
		IndustryConfidence: detection.Confidence,
		ParsedAt:           now,
		LastUpdatedAt:      now,
		CreatedAt:          now,
	}, nil
}

func (s *Service) persistNew(ctx context.Context, model *resume.Resume) (*resume.Resume, error) {
	s.embedResume(ctx, model)

	if err := s.repo.Create(ctx, model); err != nil {
		return nil, err
	}

	if model.IsDefault {
		if err := s.repo.SetDefault(ctx, model.ID, model.TenantID); err != nil {
			logx.Warnf("Failed to set new resume as default: %v", err)
		}
	}

	logx.Infof("Resume created: ResumeID=%s, Industry=%s", model.ID, model.Industry)
	return model, nil
}

// embedResume is best-effort: a missing or failing embedder leaves the
// resume without an embedding and similarity search skips it.
func (s *Service) embedResume(ctx context.Context, model *resume.Resume) {
	if s.embedder == nil {
		return
	}
	vec, err := s.embedder.EmbedText(ctx, model.RawText)
	if err != nil {
		logx.Warnf("Embedding skipped for resume %s: %v", model.ID, err)
		return
	}
	model.UpdateEmbedding(vec, EmbeddingModel)
}

func (s *Service) getOwned(ctx context.Context, id kernel.ResumeID, tenantID kernel.TenantID) (*resume.Resume, error) {
	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if model.TenantID != tenantID {
		return nil, resume.ErrTenantMismatch().
			WithDetail("resume_id", id).
			WithDetail("requested_tenant_id", tenantID)
	}
	return model, nil
}
