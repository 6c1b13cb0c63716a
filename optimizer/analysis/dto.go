package analysis

import (
	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

// AnalyzeRequest scores a resume against ATS heuristics. Either ResumeID
// (a stored resume) or ResumeText (ad-hoc text) must be set. JobDescription
// is optional; without it keyword and semantic components are skipped.
type AnalyzeRequest struct {
	TenantID       kernel.TenantID  `json:"-"`
	ResumeID       *kernel.ResumeID `json:"resume_id,omitempty"`
	ResumeText     string           `json:"resume_text,omitempty"`
	JobDescription string           `json:"job_description,omitempty"`
}

// OptimizeRequest integrates missing keywords into the resume text and
// re-scores the result.
type OptimizeRequest struct {
	TenantID       kernel.TenantID  `json:"-"`
	ResumeID       *kernel.ResumeID `json:"resume_id,omitempty"`
	ResumeText     string           `json:"resume_text,omitempty"`
	JobDescription string           `json:"job_description"`
}

// FindSimilarRequest searches stored analyses whose job description is
// semantically close to the query text.
type FindSimilarRequest struct {
	TenantID kernel.TenantID `json:"-"`
	Query    string          `json:"query"`
	Limit    int             `json:"limit,omitempty"`
}

// SimilarAnalysis is one similarity search hit
type SimilarAnalysis struct {
	Analysis        Analysis `json:"analysis"`
	SimilarityScore float64  `json:"similarity_score"`
}
