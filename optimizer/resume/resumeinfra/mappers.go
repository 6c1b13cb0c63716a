package resumeinfra

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/feiyu23/spark-resume-ai/internal/ats"
	"github.com/feiyu23/spark-resume-ai/optimizer/resume"
	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

// resumeRow represents a row from the resumes table
type resumeRow struct {
	ID                 string          `db:"id"`
	TenantID           string          `db:"tenant_id"`
	Title              string          `db:"title"`
	IsActive           bool            `db:"is_active"`
	IsDefault          bool            `db:"is_default"`
	Version            int             `db:"version"`
	RawText            string          `db:"raw_text"`
	Sections           []byte          `db:"sections"`
	Contact            []byte          `db:"contact"`
	WordCount          int             `db:"word_count"`
	Industry           string          `db:"industry"`
	IndustryConfidence float64         `db:"industry_confidence"`
	Embedding          sql.NullString  `db:"embedding"`
	EmbeddingModel     sql.NullString  `db:"embedding_model"`
	FilePath           sql.NullString  `db:"file_path"`
	FileName           sql.NullString  `db:"file_name"`
	FileType           sql.NullString  `db:"file_type"`
	ParsedAt           time.Time       `db:"parsed_at"`
	LastUpdatedAt      time.Time       `db:"last_updated_at"`
	CreatedAt          time.Time       `db:"created_at"`
}

// ToDomain converts a resumeRow to a resume.Resume domain model
func (r *resumeRow) ToDomain() (*resume.Resume, error) {
	model := &resume.Resume{
		ID:                 kernel.ResumeID(r.ID),
		TenantID:           kernel.TenantID(r.TenantID),
		Title:              r.Title,
		IsActive:           r.IsActive,
		IsDefault:          r.IsDefault,
		Version:            r.Version,
		RawText:            r.RawText,
		WordCount:          r.WordCount,
		Industry:           ats.Industry(r.Industry),
		IndustryConfidence: r.IndustryConfidence,
		ParsedAt:           r.ParsedAt,
		LastUpdatedAt:      r.LastUpdatedAt,
		CreatedAt:          r.CreatedAt,
	}

	if err := json.Unmarshal(r.Sections, &model.Sections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sections: %w", err)
	}

	if err := json.Unmarshal(r.Contact, &model.Contact); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contact: %w", err)
	}

	if r.Embedding.Valid {
		model.Embedding = vectorToFloat32Slice(r.Embedding.String)
	}
	if r.EmbeddingModel.Valid {
		model.EmbeddingModel = r.EmbeddingModel.String
	}
	if r.FilePath.Valid {
		model.FilePath = r.FilePath.String
	}
	if r.FileName.Valid {
		model.FileName = r.FileName.String
	}
	if r.FileType.Valid {
		model.FileType = r.FileType.String
	}

	return model, nil
}

// float32SliceToVectorOrNil converts []float32 to a pgvector value, or NULL
// when the resume has no embedding
func float32SliceToVectorOrNil(slice []float32) interface{} {
	if len(slice) == 0 {
		return nil
	}
	return pgvector.NewVector(slice)
}

// vectorToFloat32Slice converts a pgvector text representation to []float32
func vectorToFloat32Slice(vectorStr string) []float32 {
	if vectorStr == "" || vectorStr == "[]" {
		return []float32{}
	}

	trimmed := strings.Trim(vectorStr, "[]")
	parts := strings.Split(trimmed, ",")
	result := make([]float32, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			continue
		}
		result = append(result, float32(f))
	}
	return result
}
