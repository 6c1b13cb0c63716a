package analysis

import (
	"context"
	"time"

	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

type Repository interface {
	// Create persists a new analysis
	Create(ctx context.Context, analysis *Analysis) error

	// Update updates an existing analysis
	Update(ctx context.Context, id kernel.AnalysisID, analysis *Analysis) error

	// GetByID retrieves an analysis by ID
	GetByID(ctx context.Context, id kernel.AnalysisID) (*Analysis, error)

	// ListByTenantID retrieves analyses for a tenant with pagination
	ListByTenantID(ctx context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[Analysis], error)

	// ListByResumeID retrieves analyses for one resume, newest first
	ListByResumeID(ctx context.Context, resumeID kernel.ResumeID, pagination kernel.PaginationOptions) (*kernel.Paginated[Analysis], error)

	// Delete deletes an analysis
	Delete(ctx context.Context, id kernel.AnalysisID) error

	// FindSimilar searches analyses by job description embedding proximity
	FindSimilar(ctx context.Context, tenantID kernel.TenantID, embedding []float32, limit int) ([]SimilarAnalysis, error)
}

type JobRepository interface {
	Create(ctx context.Context, job *AnalysisJob) error
	Update(ctx context.Context, job *AnalysisJob) error
	GetByID(ctx context.Context, jobID kernel.JobID) (*AnalysisJob, error)
	GetByTenantID(ctx context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[AnalysisJob], error)

	// Update status helpers
	MarkAsProcessing(ctx context.Context, jobID kernel.JobID) error
	MarkAsCompleted(ctx context.Context, jobID kernel.JobID, analysisID kernel.AnalysisID) error
	MarkAsFailed(ctx context.Context, jobID kernel.JobID, errorMsg string, errorDetails map[string]any) error
	UpdateProgress(ctx context.Context, jobID kernel.JobID, step ProcessingStep, percentage int) error
}

// JobQueue defines the interface for job queue operations
type JobQueue interface {
	// Enqueue adds a job to the queue
	Enqueue(ctx context.Context, jobID kernel.JobID, payload any) error

	// Dequeue gets a job from the queue (blocking with timeout)
	Dequeue(ctx context.Context, timeout time.Duration) ([]byte, error)

	// EnqueueDelayed schedules a job for later processing (for retries)
	EnqueueDelayed(ctx context.Context, jobID kernel.JobID, payload any, delay time.Duration) error

	// MoveDelayedToReady moves delayed jobs that are ready to the main queue
	MoveDelayedToReady(ctx context.Context) (int, error)

	// GetQueueSize returns the number of jobs in the queue
	GetQueueSize(ctx context.Context) (int64, error)

	// GetDelayedQueueSize returns the number of delayed jobs
	GetDelayedQueueSize(ctx context.Context) (int64, error)

	// Ping checks queue connectivity
	Ping(ctx context.Context) error
}
