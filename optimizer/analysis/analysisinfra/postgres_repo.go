package analysisinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"github.com/feiyu23/spark-resume-ai/internal/ats"
	"github.com/feiyu23/spark-resume-ai/optimizer/analysis"
	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

const analysisColumns = `
	id, tenant_id, resume_id, job_description,
	industry, industry_confidence, total_score,
	breakdown, matched_keywords, missing_keywords, format_checks,
	readability, suggestions,
	optimized_text, insertions, optimized_score, score_delta,
	created_at`

type PostgresAnalysisRepository struct {
	db *sqlx.DB
}

func NewPostgresAnalysisRepository(db *sqlx.DB) *PostgresAnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

// analysisRow represents a row from the analyses table
type analysisRow struct {
	ID                 string          `db:"id"`
	TenantID           string          `db:"tenant_id"`
	ResumeID           *string         `db:"resume_id"`
	JobDescription     sql.NullString  `db:"job_description"`
	Industry           string          `db:"industry"`
	IndustryConfidence float64         `db:"industry_confidence"`
	TotalScore         float64         `db:"total_score"`
	Breakdown          []byte          `db:"breakdown"`
	MatchedKeywords    []byte          `db:"matched_keywords"`
	MissingKeywords    []byte          `db:"missing_keywords"`
	FormatChecks       []byte          `db:"format_checks"`
	Readability        []byte          `db:"readability"`
	Suggestions        []byte          `db:"suggestions"`
	OptimizedText      sql.NullString  `db:"optimized_text"`
	Insertions         []byte          `db:"insertions"`
	OptimizedScore     sql.NullFloat64 `db:"optimized_score"`
	ScoreDelta         sql.NullFloat64 `db:"score_delta"`
	CreatedAt          time.Time       `db:"created_at"`

	SimilarityScore sql.NullFloat64 `db:"similarity_score"`
}

// ToDomain converts an analysisRow to an analysis.Analysis domain model
func (r *analysisRow) ToDomain() (*analysis.Analysis, error) {
	model := &analysis.Analysis{
		ID:                 kernel.AnalysisID(r.ID),
		TenantID:           kernel.TenantID(r.TenantID),
		Industry:           ats.Industry(r.Industry),
		IndustryConfidence: r.IndustryConfidence,
		TotalScore:         r.TotalScore,
		CreatedAt:          r.CreatedAt,
	}

	if r.ResumeID != nil {
		id := kernel.ResumeID(*r.ResumeID)
		model.ResumeID = &id
	}
	if r.JobDescription.Valid {
		model.JobDescription = r.JobDescription.String
	}

	if err := json.Unmarshal(r.Breakdown, &model.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to unmarshal breakdown: %w", err)
	}
	if err := json.Unmarshal(r.MatchedKeywords, &model.MatchedKeywords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal matched_keywords: %w", err)
	}
	if err := json.Unmarshal(r.MissingKeywords, &model.MissingKeywords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal missing_keywords: %w", err)
	}
	if err := json.Unmarshal(r.FormatChecks, &model.FormatChecks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal format_checks: %w", err)
	}
	if err := json.Unmarshal(r.Readability, &model.Readability); err != nil {
		return nil, fmt.Errorf("failed to unmarshal readability: %w", err)
	}
	if err := json.Unmarshal(r.Suggestions, &model.Suggestions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suggestions: %w", err)
	}
	if len(r.Insertions) > 0 {
		if err := json.Unmarshal(r.Insertions, &model.Insertions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal insertions: %w", err)
		}
	}

	if r.OptimizedText.Valid {
		model.OptimizedText = r.OptimizedText.String
	}
	if r.OptimizedScore.Valid {
		score := r.OptimizedScore.Float64
		model.OptimizedScore = &score
	}
	if r.ScoreDelta.Valid {
		delta := r.ScoreDelta.Float64
		model.ScoreDelta = &delta
	}

	return model, nil
}

// Create persists a new analysis
func (r *PostgresAnalysisRepository) Create(ctx context.Context, model *analysis.Analysis) error {
	query := `
		INSERT INTO analyses (
			id, tenant_id, resume_id, job_description,
			industry, industry_confidence, total_score,
			breakdown, matched_keywords, missing_keywords, format_checks,
			readability, suggestions,
			optimized_text, insertions, optimized_score, score_delta,
			jd_embedding, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10, $11,
			$12, $13,
			$14, $15, $16, $17,
			$18, $19
		)`

	fields, err := marshalAnalysisFields(model)
	if err != nil {
		return err
	}

	var resumeID *string
	if model.ResumeID != nil {
		id := model.ResumeID.String()
		resumeID = &id
	}

	_, err = r.db.ExecContext(ctx, query,
		model.ID, model.TenantID, resumeID, nullStr(model.JobDescription),
		model.Industry, model.IndustryConfidence, model.TotalScore,
		fields.breakdown, fields.matched, fields.missing, fields.checks,
		fields.readability, fields.suggestions,
		nullStr(model.OptimizedText), fields.insertions, model.OptimizedScore, model.ScoreDelta,
		embeddingOrNil(model.JDEmbedding), model.CreatedAt,
	)
	if err != nil {
		return analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("analysis_id", model.ID).
			WithDetail("operation", "insert")
	}

	return nil
}

// Update updates an existing analysis
func (r *PostgresAnalysisRepository) Update(ctx context.Context, id kernel.AnalysisID, model *analysis.Analysis) error {
	query := `
		UPDATE analyses SET
			total_score = $1,
			breakdown = $2,
			matched_keywords = $3,
			missing_keywords = $4,
			format_checks = $5,
			readability = $6,
			suggestions = $7,
			optimized_text = $8,
			insertions = $9,
			optimized_score = $10,
			score_delta = $11,
			jd_embedding = $12
		WHERE id = $13`

	fields, err := marshalAnalysisFields(model)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query,
		model.TotalScore,
		fields.breakdown, fields.matched, fields.missing, fields.checks,
		fields.readability, fields.suggestions,
		nullStr(model.OptimizedText), fields.insertions, model.OptimizedScore, model.ScoreDelta,
		embeddingOrNil(model.JDEmbedding), id,
	)
	if err != nil {
		return analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("analysis_id", id).
			WithDetail("operation", "update")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("analysis_id", id)
	}
	if rows == 0 {
		return analysis.ErrAnalysisNotFound().
			WithDetail("analysis_id", id)
	}

	return nil
}

// GetByID retrieves an analysis by ID
func (r *PostgresAnalysisRepository) GetByID(ctx context.Context, id kernel.AnalysisID) (*analysis.Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1`

	row := &analysisRow{}
	err := r.db.GetContext(ctx, row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, analysis.ErrAnalysisNotFound().
				WithDetail("analysis_id", id)
		}
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("analysis_id", id).
			WithDetail("operation", "get")
	}

	model, err := row.ToDomain()
	if err != nil {
		return nil, analysis.ErrInvalidAnalysisData().
			WithDetail("analysis_id", id).
			WithDetails(map[string]any{
				"error": err.Error(),
			})
	}

	return model, nil
}

// ListByTenantID retrieves analyses for a tenant with pagination
func (r *PostgresAnalysisRepository) ListByTenantID(ctx context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[analysis.Analysis], error) {
	return r.list(ctx, `tenant_id = $1`, tenantID.String(), pagination)
}

// ListByResumeID retrieves analyses for one resume, newest first
func (r *PostgresAnalysisRepository) ListByResumeID(ctx context.Context, resumeID kernel.ResumeID, pagination kernel.PaginationOptions) (*kernel.Paginated[analysis.Analysis], error) {
	return r.list(ctx, `resume_id = $1`, resumeID.String(), pagination)
}

func (r *PostgresAnalysisRepository) list(ctx context.Context, where, arg string, pagination kernel.PaginationOptions) (*kernel.Paginated[analysis.Analysis], error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM analyses WHERE `+where, arg)
	if err != nil {
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("operation", "count")
	}

	query := `SELECT ` + analysisColumns + `
		FROM analyses
		WHERE ` + where + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows := []analysisRow{}
	err = r.db.SelectContext(ctx, &rows, query, arg, pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("operation", "list_paginated").
			WithDetails(map[string]any{
				"page":      pagination.Page,
				"page_size": pagination.PageSize,
			})
	}

	analyses := make([]analysis.Analysis, len(rows))
	for i, row := range rows {
		model, err := row.ToDomain()
		if err != nil {
			return nil, analysis.ErrInvalidAnalysisData().
				WithDetail("row_index", i).
				WithDetails(map[string]any{
					"error": err.Error(),
				})
		}
		analyses[i] = *model
	}

	paginated := kernel.NewPaginated(analyses, pagination, total)
	return &paginated, nil
}

// Delete deletes an analysis
func (r *PostgresAnalysisRepository) Delete(ctx context.Context, id kernel.AnalysisID) error {
	query := `DELETE FROM analyses WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("analysis_id", id).
			WithDetail("operation", "delete")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("analysis_id", id)
	}
	if rows == 0 {
		return analysis.ErrAnalysisNotFound().
			WithDetail("analysis_id", id)
	}

	return nil
}

// FindSimilar searches analyses by job description embedding proximity
// using pgvector cosine distance
func (r *PostgresAnalysisRepository) FindSimilar(ctx context.Context, tenantID kernel.TenantID, embedding []float32, limit int) ([]analysis.SimilarAnalysis, error) {
	query := `
		SELECT ` + analysisColumns + `,
			(1 - (jd_embedding <=> $2)) AS similarity_score
		FROM analyses
		WHERE tenant_id = $1 AND jd_embedding IS NOT NULL
		ORDER BY jd_embedding <=> $2
		LIMIT $3`

	rows := []analysisRow{}
	err := r.db.SelectContext(ctx, &rows, query, tenantID, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("tenant_id", tenantID).
			WithDetail("operation", "find_similar")
	}

	results := make([]analysis.SimilarAnalysis, 0, len(rows))
	for _, row := range rows {
		model, err := row.ToDomain()
		if err != nil {
			continue
		}
		hit := analysis.SimilarAnalysis{Analysis: *model}
		if row.SimilarityScore.Valid {
			hit.SimilarityScore = row.SimilarityScore.Float64
		}
		results = append(results, hit)
	}

	return results, nil
}

type analysisFields struct {
	breakdown   []byte
	matched     []byte
	missing     []byte
	checks      []byte
	readability []byte
	suggestions []byte
	insertions  []byte
}

func marshalAnalysisFields(model *analysis.Analysis) (*analysisFields, error) {
	f := &analysisFields{}
	var err error

	for _, m := range []struct {
		name string
		dst  *[]byte
		src  any
	}{
		{"breakdown", &f.breakdown, model.Breakdown},
		{"matched_keywords", &f.matched, model.MatchedKeywords},
		{"missing_keywords", &f.missing, model.MissingKeywords},
		{"format_checks", &f.checks, model.FormatChecks},
		{"readability", &f.readability, model.Readability},
		{"suggestions", &f.suggestions, model.Suggestions},
		{"insertions", &f.insertions, model.Insertions},
	} {
		*m.dst, err = json.Marshal(m.src)
		if err != nil {
			return nil, analysis.ErrInvalidAnalysisData().
				WithDetail("field", m.name).
				WithDetails(map[string]any{
					"error": err.Error(),
				})
		}
	}

	return f, nil
}

func embeddingOrNil(embedding []float32) interface{} {
	if len(embedding) == 0 {
		return nil
	}
	return pgvector.NewVector(embedding)
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
