package resume

import (
	"context"

	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

type Repository interface {
	// Create creates a new resume
	Create(ctx context.Context, resume *Resume) error

	// Update updates an existing resume
	Update(ctx context.Context, id kernel.ResumeID, resume *Resume) error

	// GetByID retrieves a resume by ID
	GetByID(ctx context.Context, id kernel.ResumeID) (*Resume, error)

	// GetDefaultByTenantID retrieves the default resume for a tenant
	GetDefaultByTenantID(ctx context.Context, tenantID kernel.TenantID) (*Resume, error)

	// ListByTenantID retrieves resumes for a tenant with pagination
	ListByTenantID(ctx context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[Resume], error)

	// SetDefault sets a resume as the default for a tenant (unsets others)
	SetDefault(ctx context.Context, id kernel.ResumeID, tenantID kernel.TenantID) error

	// ToggleActive activates or deactivates a resume
	ToggleActive(ctx context.Context, id kernel.ResumeID, isActive bool) error

	// Delete deletes a resume
	Delete(ctx context.Context, id kernel.ResumeID) error

	// CountByTenantID counts resumes for a tenant
	CountByTenantID(ctx context.Context, tenantID kernel.TenantID) (int64, error)

	// UpdateEmbedding updates only the content embedding for a resume
	UpdateEmbedding(ctx context.Context, id kernel.ResumeID, embedding []float32, model string) error

	// Stats aggregates per-tenant resume counters
	Stats(ctx context.Context, tenantID kernel.TenantID) (*StatsResponse, error)
}
