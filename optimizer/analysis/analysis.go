package analysis

import (
	"time"

	"github.com/feiyu23/spark-resume-ai/internal/ats"
	"github.com/feiyu23/spark-resume-ai/internal/keywords"
	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

// Analysis is a persisted scoring run: one resume scored against ATS
// heuristics and, optionally, a job description.
type Analysis struct {
	ID       kernel.AnalysisID `db:"id" json:"id"`
	TenantID kernel.TenantID   `db:"tenant_id" json:"tenant_id"`
	ResumeID *kernel.ResumeID  `db:"resume_id" json:"resume_id,omitempty"`

	JobDescription     string       `db:"job_description" json:"job_description,omitempty"`
	Industry           ats.Industry `db:"industry" json:"industry"`
	IndustryConfidence float64      `db:"industry_confidence" json:"industry_confidence"`

	TotalScore float64       `db:"total_score" json:"total_score"`
	Breakdown  ats.Breakdown `db:"breakdown" json:"breakdown"`

	MatchedKeywords []ats.Keyword     `db:"matched_keywords" json:"matched_keywords"`
	MissingKeywords []ats.Keyword     `db:"missing_keywords" json:"missing_keywords"`
	FormatChecks    []ats.FormatCheck `db:"format_checks" json:"format_checks"`

	Readability ats.ReadabilityResult `db:"readability" json:"readability"`
	Suggestions []string              `db:"suggestions" json:"suggestions"`

	// Optimization output, set when keywords were integrated into the text
	OptimizedText  string               `db:"optimized_text" json:"optimized_text,omitempty"`
	Insertions     []keywords.Insertion `db:"insertions" json:"insertions,omitempty"`
	OptimizedScore *float64             `db:"optimized_score" json:"optimized_score,omitempty"`
	ScoreDelta     *float64             `db:"score_delta" json:"score_delta,omitempty"`

	// Job description embedding for similarity search across analyses
	JDEmbedding []float32 `db:"jd_embedding" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HasJobDescription reports whether the analysis was scored against a job
// description, which enables keyword and semantic components.
func (a *Analysis) HasJobDescription() bool {
	return a.JobDescription != ""
}

// IsOptimized reports whether keyword integration ran for this analysis
func (a *Analysis) IsOptimized() bool {
	return a.OptimizedText != ""
}

// ApplyScore copies a scoring result into the analysis
func (a *Analysis) ApplyScore(result *ats.Result) {
	a.Industry = result.Industry.Industry
	a.IndustryConfidence = result.Industry.Confidence
	a.TotalScore = result.Breakdown.Total
	a.Breakdown = result.Breakdown
	a.MatchedKeywords = result.MatchedKeywords
	a.MissingKeywords = result.MissingKeywords
	a.FormatChecks = result.FormatChecks
	a.Readability = result.Readability
	a.Suggestions = result.Suggestions
}

// ApplyOptimization records the integrated text and the re-scored delta
func (a *Analysis) ApplyOptimization(result *keywords.Result, optimizedScore float64) {
	a.OptimizedText = result.Text
	a.Insertions = result.Insertions
	a.OptimizedScore = &optimizedScore
	delta := optimizedScore - a.TotalScore
	a.ScoreDelta = &delta
}
