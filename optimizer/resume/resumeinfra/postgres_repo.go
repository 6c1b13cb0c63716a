package resumeinfra

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/feiyu23/spark-resume-ai/optimizer/resume"
	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

const resumeColumns = `
	id, tenant_id, title, is_active, is_default, version,
	raw_text, sections, contact, word_count,
	industry, industry_confidence,
	embedding::text, embedding_model,
	file_path, file_name, file_type,
	parsed_at, last_updated_at, created_at`

type PostgresResumeRepository struct {
	db *sqlx.DB
}

func NewPostgresResumeRepository(db *sqlx.DB) *PostgresResumeRepository {
	return &PostgresResumeRepository{db: db}
}

// Create creates a new resume
func (r *PostgresResumeRepository) Create(ctx context.Context, model *resume.Resume) error {
	query := `
		INSERT INTO resumes (
			id, tenant_id, title, is_active, is_default, version,
			raw_text, sections, contact, word_count,
			industry, industry_confidence,
			embedding, embedding_model,
			file_path, file_name, file_type,
			parsed_at, last_updated_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12,
			$13, $14,
			$15, $16, $17,
			$18, $19, $20
		)`

	sections, err := json.Marshal(model.Sections)
	if err != nil {
		return resume.ErrInvalidResumeData().
			WithDetail("field", "sections").
			WithDetails(map[string]any{
				"error": err.Error(),
			})
	}

	contact, err := json.Marshal(model.Contact)
	if err != nil {
		return resume.ErrInvalidResumeData().
			WithDetail("field", "contact").
			WithDetails(map[string]any{
				"error": err.Error(),
			})
	}

	_, err = r.db.ExecContext(ctx, query,
		model.ID, model.TenantID, model.Title, model.IsActive, model.IsDefault, model.Version,
		model.RawText, sections, contact, model.WordCount,
		model.Industry, model.IndustryConfidence,
		float32SliceToVectorOrNil(model.Embedding), nullString(model.EmbeddingModel),
		nullString(model.FilePath), nullString(model.FileName), nullString(model.FileType),
		model.ParsedAt, model.LastUpdatedAt, model.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return resume.ErrInvalidResumeData().
				WithDetail("resume_id", model.ID).
				WithDetail("reason", "duplicate")
		}
		return resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("resume_id", model.ID).
			WithDetail("operation", "insert")
	}

	return nil
}

// Update updates an existing resume
func (r *PostgresResumeRepository) Update(ctx context.Context, id kernel.ResumeID, model *resume.Resume) error {
	query := `
		UPDATE resumes SET
			title = $1,
			is_active = $2,
			is_default = $3,
			version = $4,
			raw_text = $5,
			sections = $6,
			contact = $7,
			word_count = $8,
			industry = $9,
			industry_confidence = $10,
			embedding = $11,
			embedding_model = $12,
			parsed_at = $13,
			last_updated_at = $14
		WHERE id = $15`

	sections, _ := json.Marshal(model.Sections)
	contact, _ := json.Marshal(model.Contact)

	result, err := r.db.ExecContext(ctx, query,
		model.Title, model.IsActive, model.IsDefault, model.Version,
		model.RawText, sections, contact, model.WordCount,
		model.Industry, model.IndustryConfidence,
		float32SliceToVectorOrNil(model.Embedding), nullString(model.EmbeddingModel),
		model.ParsedAt, model.LastUpdatedAt, id,
	)
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("resume_id", id).
			WithDetail("operation", "update")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("resume_id", id)
	}
	if rows == 0 {
		return resume.ErrResumeNotFound().
			WithDetail("resume_id", id)
	}

	return nil
}

// GetByID retrieves a resume by ID
func (r *PostgresResumeRepository) GetByID(ctx context.Context, id kernel.ResumeID) (*resume.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1`

	row := &resumeRow{}
	err := r.db.GetContext(ctx, row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, resume.ErrResumeNotFound().
				WithDetail("resume_id", id)
		}
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("resume_id", id).
			WithDetail("operation", "get")
	}

	model, err := row.ToDomain()
	if err != nil {
		return nil, resume.ErrInvalidResumeData().
			WithDetail("resume_id", id).
			WithDetails(map[string]any{
				"error": err.Error(),
			})
	}

	return model, nil
}

// GetDefaultByTenantID retrieves the default resume for a tenant
func (r *PostgresResumeRepository) GetDefaultByTenantID(ctx context.Context, tenantID kernel.TenantID) (*resume.Resume, error) {
	query := `SELECT ` + resumeColumns + `
		FROM resumes
		WHERE tenant_id = $1 AND is_default = true
		LIMIT 1`

	row := &resumeRow{}
	err := r.db.GetContext(ctx, row, query, tenantID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, resume.ErrResumeNotFound().
				WithDetail("tenant_id", tenantID).
				WithDetail("filter", "default")
		}
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("tenant_id", tenantID).
			WithDetail("operation", "get_default")
	}

	model, err := row.ToDomain()
	if err != nil {
		return nil, resume.ErrInvalidResumeData().
			WithDetail("tenant_id", tenantID).
			WithDetails(map[string]any{
				"error": err.Error(),
			})
	}

	return model, nil
}

// ListByTenantID retrieves resumes for a tenant with pagination
func (r *PostgresResumeRepository) ListByTenantID(ctx context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[resume.Resume], error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM resumes WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("tenant_id", tenantID).
			WithDetail("operation", "count")
	}

	query := `SELECT ` + resumeColumns + `
		FROM resumes
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows := []resumeRow{}
	err = r.db.SelectContext(ctx, &rows, query, tenantID, pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("tenant_id", tenantID).
			WithDetail("operation", "list_paginated").
			WithDetails(map[string]any{
				"page":      pagination.Page,
				"page_size": pagination.PageSize,
			})
	}

	resumes := make([]resume.Resume, len(rows))
	for i, row := range rows {
		model, err := row.ToDomain()
		if err != nil {
			return nil, resume.ErrInvalidResumeData().
				WithDetail("tenant_id", tenantID).
				WithDetail("row_index", i).
				WithDetails(map[string]any{
					"error": err.Error(),
				})
		}
		resumes[i] = *model
	}

	paginated := kernel.NewPaginated(resumes, pagination, total)
	return &paginated, nil
}

// SetDefault sets a resume as the default for a tenant (unsets others)
func (r *PostgresResumeRepository) SetDefault(ctx context.Context, id kernel.ResumeID, tenantID kernel.TenantID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("resume_id", id).
			WithDetail("operation", "begin_transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE resumes
		SET is_default = false
		WHERE tenant_id = $1 AND is_default = true
	`, tenantID)
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("tenant_id", tenantID).
			WithDetail("operation", "unset_defaults")
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE resumes
		SET is_default = true, last_updated_at = NOW()
		WHERE id = $1 AND tenant_id = $2
	`, id, tenantID)
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("resume_id", id).
			WithDetail("operation", "set_default")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("resume_id", id)
	}
	if rows == 0 {
		return resume.ErrTenantMismatch().
			WithDetail("resume_id", id).
			WithDetail("tenant_id", tenantID)
	}

	return tx.Commit()
}

// ToggleActive activates or deactivates a resume
func (r *PostgresResumeRepository) ToggleActive(ctx context.Context, id kernel.ResumeID, isActive bool) error {
	query := `UPDATE resumes SET is_active = $1, last_updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, isActive, id)
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("resume_id", id).
			WithDetail("is_active", isActive)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("resume_id", id)
	}
	if rows == 0 {
		return resume.ErrResumeNotFound().
			WithDetail("resume_id", id)
	}

	return nil
}

// Delete deletes a resume
func (r *PostgresResumeRepository) Delete(ctx context.Context, id kernel.ResumeID) error {
	query := `DELETE FROM resumes WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("resume_id", id).
			WithDetail("operation", "delete")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("resume_id", id)
	}
	if rows == 0 {
		return resume.ErrResumeNotFound().
			WithDetail("resume_id", id)
	}

	return nil
}

// CountByTenantID counts resumes for a tenant
func (r *PostgresResumeRepository) CountByTenantID(ctx context.Context, tenantID kernel.TenantID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM resumes WHERE tenant_id = $1`

	err := r.db.GetContext(ctx, &count, query, tenantID)
	if err != nil {
		return 0, resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("tenant_id", tenantID).
			WithDetail("operation", "count")
	}

	return count, nil
}

// UpdateEmbedding updates only the content embedding for a resume
func (r *PostgresResumeRepository) UpdateEmbedding(ctx context.Context, id kernel.ResumeID, embedding []float32, model string) error {
	query := `
		UPDATE resumes
		SET embedding = $1, embedding_model = $2, last_updated_at = NOW()
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query,
		float32SliceToVectorOrNil(embedding), nullString(model), id)
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("resume_id", id).
			WithDetail("operation", "update_embedding")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("resume_id", id)
	}
	if rows == 0 {
		return resume.ErrResumeNotFound().
			WithDetail("resume_id", id)
	}

	return nil
}

// Stats aggregates per-tenant resume counters
func (r *PostgresResumeRepository) Stats(ctx context.Context, tenantID kernel.TenantID) (*resume.StatsResponse, error) {
	query := `
		SELECT
			COUNT(*) AS total_resumes,
			COUNT(*) FILTER (WHERE is_active) AS active_resumes,
			COUNT(*) FILTER (WHERE is_default) > 0 AS has_default,
			COALESCE(AVG(word_count), 0) AS avg_word_count,
			MAX(last_updated_at) AS last_updated_at
		FROM resumes
		WHERE tenant_id = $1`

	row := struct {
		TotalResumes  int          `db:"total_resumes"`
		ActiveResumes int          `db:"active_resumes"`
		HasDefault    bool         `db:"has_default"`
		AvgWordCount  float64      `db:"avg_word_count"`
		LastUpdatedAt sql.NullTime `db:"last_updated_at"`
	}{}

	err := r.db.GetContext(ctx, &row, query, tenantID)
	if err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeStorageFailed, err).
			WithDetail("tenant_id", tenantID).
			WithDetail("operation", "stats")
	}

	stats := &resume.StatsResponse{
		TenantID:      tenantID,
		TotalResumes:  row.TotalResumes,
		ActiveResumes: row.ActiveResumes,
		HasDefault:    row.HasDefault,
		AvgWordCount:  row.AvgWordCount,
	}
	if row.LastUpdatedAt.Valid {
		t := row.LastUpdatedAt.Time
		stats.LastUpdatedAt = &t
	}

	return stats, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
