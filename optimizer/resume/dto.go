package resume

import (
	"time"

	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

// CreateResumeRequest registers a stored document as a resume. The file must
// already exist in object storage under FilePath.
type CreateResumeRequest struct {
	TenantID  kernel.TenantID `json:"-"`
	Title     string          `json:"title"`
	FilePath  string          `json:"file_path"`
	FileName  string          `json:"file_name"`
	IsDefault bool            `json:"is_default"`
}

// CreateResumeFromTextRequest registers raw resume text directly, skipping
// document extraction.
type CreateResumeFromTextRequest struct {
	TenantID  kernel.TenantID `json:"-"`
	Title     string          `json:"title"`
	RawText   string          `json:"raw_text"`
	IsDefault bool            `json:"is_default"`
}

// UpdateResumeRequest changes resume metadata or content. A non-nil RawText
// triggers re-parsing and re-embedding.
type UpdateResumeRequest struct {
	Title   *string `json:"title,omitempty"`
	RawText *string `json:"raw_text,omitempty"`
}

// StatsResponse aggregates a tenant's resumes.
type StatsResponse struct {
	TenantID      kernel.TenantID `json:"tenant_id"`
	TotalResumes  int             `json:"total_resumes"`
	ActiveResumes int             `json:"active_resumes"`
	HasDefault    bool            `json:"has_default"`
	AvgWordCount  float64         `json:"avg_word_count"`
	LastUpdatedAt *time.Time      `json:"last_updated_at,omitempty"`
}
