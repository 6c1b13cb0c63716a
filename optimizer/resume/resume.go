package resume

import (
	"time"

	"github.com/feiyu23/spark-resume-ai/internal/ats"
	"github.com/feiyu23/spark-resume-ai/internal/textextract"
	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

// Resume is a stored resume document with its extracted text and detected
// industry context.
type Resume struct {
	ID       kernel.ResumeID `db:"id" json:"id"`
	TenantID kernel.TenantID `db:"tenant_id" json:"tenant_id"`

	Title     string `db:"title" json:"title"`
	IsActive  bool   `db:"is_active" json:"is_active"`
	IsDefault bool   `db:"is_default" json:"is_default"`
	Version   int    `db:"version" json:"version"`

	// Extracted content
	RawText   string                  `db:"raw_text" json:"raw_text"`
	Sections  []textextract.Section   `db:"sections" json:"sections"`
	Contact   textextract.ContactInfo `db:"contact" json:"contact"`
	WordCount int                     `db:"word_count" json:"word_count"`

	// Detected industry context
	Industry           ats.Industry `db:"industry" json:"industry"`
	IndustryConfidence float64      `db:"industry_confidence" json:"industry_confidence"`

	// Content embedding for similarity search
	Embedding      []float32 `db:"embedding" json:"-"`
	EmbeddingModel string    `db:"embedding_model" json:"embedding_model,omitempty"`

	// File metadata; documents live in object storage, referenced by path
	FilePath string `db:"file_path" json:"file_path"`
	FileName string `db:"file_name" json:"file_name"`
	FileType string `db:"file_type" json:"file_type"`

	ParsedAt      time.Time `db:"parsed_at" json:"parsed_at"`
	LastUpdatedAt time.Time `db:"last_updated_at" json:"last_updated_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Activate sets the resume as active
func (r *Resume) Activate() {
	r.IsActive = true
	r.LastUpdatedAt = time.Now()
}

// Deactivate sets the resume as inactive
func (r *Resume) Deactivate() {
	r.IsActive = false
	r.LastUpdatedAt = time.Now()
}

// SetAsDefault sets the resume as default
func (r *Resume) SetAsDefault() {
	r.IsDefault = true
	r.LastUpdatedAt = time.Now()
}

// UnsetAsDefault removes default status
func (r *Resume) UnsetAsDefault() {
	r.IsDefault = false
	r.LastUpdatedAt = time.Now()
}

// HasEmbedding checks if the resume content has been embedded
func (r *Resume) HasEmbedding() bool {
	return len(r.Embedding) > 0
}

// HasSection checks whether a named section was found during extraction
func (r *Resume) HasSection(name textextract.SectionName) bool {
	for _, s := range r.Sections {
		if s.Name == name {
			return true
		}
	}
	return false
}

// IsComplete checks if the extraction produced enough content to score
func (r *Resume) IsComplete() bool {
	return r.RawText != "" && r.WordCount > 0
}

// UpdateContent replaces the extracted content after a re-extraction
func (r *Resume) UpdateContent(doc *textextract.Document, detection ats.Detection) {
	now := time.Now()
	r.RawText = doc.RawText
	r.Sections = doc.Sections
	r.Contact = doc.Contact
	r.WordCount = doc.WordCount
	r.Industry = detection.Industry
	r.IndustryConfidence = detection.Confidence
	r.Version++
	r.ParsedAt = now
	r.LastUpdatedAt = now
}

// UpdateEmbedding replaces the content embedding
func (r *Resume) UpdateEmbedding(embedding []float32, model string) {
	r.Embedding = embedding
	r.EmbeddingModel = model
	r.LastUpdatedAt = time.Now()
}
