package analysissrv

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/feiyu23/spark-resume-ai/internal/textextract"
	"github.com/feiyu23/spark-resume-ai/optimizer/analysis"
	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
	"github.com/feiyu23/spark-resume-ai/pkg/logx"
)

// AnalyzeAsync queues a scoring run for background processing
func (s *Service) AnalyzeAsync(ctx context.Context, req analysis.AnalyzeRequest, optimize bool) (*analysis.JobStatusResponse, error) {
	logx.Infof("Queueing analysis: TenantID=%s, Optimize=%v", req.TenantID, optimize)

	// Validate up front so a bad request fails fast instead of in the worker
	if (req.ResumeID == nil || req.ResumeID.IsEmpty()) && req.ResumeText == "" {
		return nil, analysis.ErrMissingResume()
	}
	if optimize && req.JobDescription == "" {
		return nil, analysis.ErrMissingJobDescription()
	}

	jobID := kernel.NewJobID(uuid.NewString())
	job := &analysis.AnalysisJob{
		ID:                 jobID,
		TenantID:           req.TenantID,
		ResumeID:           req.ResumeID,
		Status:             analysis.JobStatusPending,
		Optimize:           optimize,
		AttemptCount:       0,
		MaxAttempts:        3,
		ProgressPercentage: 0,
		CreatedAt:          time.Now(),
		RequestPayload:     req,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("tenant_id", req.TenantID).
			WithDetail("operation", "create_job")
	}

	if err := s.queue.Enqueue(ctx, jobID, job); err != nil {
		_ = s.jobRepo.MarkAsFailed(ctx, jobID, "failed to enqueue", map[string]any{
			"error": err.Error(),
		})

		return nil, analysis.ErrQueueFailed().
			WithDetail("job_id", jobID).
			WithDetail("tenant_id", req.TenantID).
			WithDetails(map[string]any{
				"error": err.Error(),
			})
	}

	logx.Infof("Job queued successfully: JobID=%s", jobID)

	return &analysis.JobStatusResponse{
		JobID:    jobID,
		TenantID: req.TenantID,
		Status:   analysis.JobStatusPending,
		Message:  "Analysis queued for processing",
		Progress: 0,
	}, nil
}

// ProcessAnalysisJob - Worker function to process a job
func (s *Service) ProcessAnalysisJob(ctx context.Context, job *analysis.AnalysisJob) error {
	logx.Infof("Processing job: JobID=%s, Attempt=%d/%d", job.ID, job.AttemptCount+1, job.MaxAttempts)

	if err := s.jobRepo.MarkAsProcessing(ctx, job.ID); err != nil {
		return analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("job_id", job.ID).
			WithDetail("status", "processing")
	}

	// TenantID is not serialized in the payload, restore it from the job row
	req := job.RequestPayload
	req.TenantID = job.TenantID

	_ = s.jobRepo.UpdateProgress(ctx, job.ID, analysis.StepExtracting, 20)

	doc, err := s.resolveDocument(ctx, req.TenantID, req.ResumeID, req.ResumeText)
	if err != nil {
		return s.handleJobError(ctx, job, "resume_resolution_failed", err)
	}

	_ = s.jobRepo.UpdateProgress(ctx, job.ID, analysis.StepDetecting, 35)
	_ = s.jobRepo.UpdateProgress(ctx, job.ID, analysis.StepScoring, 45)

	result, err := s.engine.Score(ctx, doc, req.JobDescription)
	if err != nil {
		return s.handleJobError(ctx, job, "scoring_failed", err)
	}

	model := s.newAnalysis(req.TenantID, req.ResumeID, req.JobDescription)
	model.ApplyScore(result)

	if job.Optimize {
		_ = s.jobRepo.UpdateProgress(ctx, job.ID, analysis.StepOptimizing, 65)

		integrated, err := s.integrator.Integrate(doc.RawText, result.MissingKeywords, result.Industry.Industry)
		if err != nil {
			return s.handleJobError(ctx, job, "optimization_failed", err)
		}

		optimizedDoc, err := textextract.Parse(integrated.Text)
		if err != nil {
			return s.handleJobError(ctx, job, "optimization_failed", err)
		}

		rescored, err := s.engine.Score(ctx, optimizedDoc, req.JobDescription)
		if err != nil {
			return s.handleJobError(ctx, job, "rescoring_failed", err)
		}

		model.ApplyOptimization(integrated, rescored.Breakdown.Total)
	}

	s.embedJobDescription(ctx, model)

	_ = s.jobRepo.UpdateProgress(ctx, job.ID, analysis.StepSaving, 85)

	if err := s.repo.Create(ctx, model); err != nil {
		return s.handleJobError(ctx, job, "save_failed", err)
	}

	if err := s.jobRepo.MarkAsCompleted(ctx, job.ID, model.ID); err != nil {
		logx.Errorf("Failed to mark job as completed: %v", err)
		// The analysis itself was saved, keep going
	}

	_ = s.jobRepo.UpdateProgress(ctx, job.ID, analysis.StepSaving, 100)

	logx.Infof("Job completed successfully: JobID=%s, AnalysisID=%s, Score=%.1f",
		job.ID, model.ID, model.TotalScore)
	return nil
}

// handleJobError handles job processing errors with retry logic
func (s *Service) handleJobError(ctx context.Context, job *analysis.AnalysisJob, errorType string, err error) error {
	job.AttemptCount++

	errorDetails := map[string]any{
		"error":        err.Error(),
		"error_type":   errorType,
		"attempt":      job.AttemptCount,
		"max_attempts": job.MaxAttempts,
	}

	if job.AttemptCount < job.MaxAttempts {
		// Exponential backoff: 2^attempt minutes
		retryDelay := time.Duration(1<<uint(job.AttemptCount)) * time.Minute
		nextRetry := time.Now().Add(retryDelay)
		job.NextRetryAt = &nextRetry

		logx.Warnf("Job failed, will retry: JobID=%s, Attempt=%d/%d, NextRetry=%v, Error=%s",
			job.ID, job.AttemptCount, job.MaxAttempts, nextRetry, errorType)

		if queueErr := s.queue.EnqueueDelayed(ctx, job.ID, job, retryDelay); queueErr != nil {
			logx.Errorf("Failed to enqueue for retry: %v", queueErr)

			_ = s.jobRepo.MarkAsFailed(ctx, job.ID,
				fmt.Sprintf("%s (retry enqueue failed)", errorType),
				errorDetails)

			return analysis.ErrQueueFailed().
				WithDetail("job_id", job.ID).
				WithDetail("error_type", errorType).
				WithDetails(errorDetails)
		}

		job.ErrorMessage = fmt.Sprintf("%s (will retry)", errorType)
		job.ErrorDetails = errorDetails
		job.Status = analysis.JobStatusPending

		if updateErr := s.jobRepo.Update(ctx, job); updateErr != nil {
			logx.Errorf("Failed to update job for retry: %v", updateErr)
		}

		return analysis.ErrScoringFailed().
			WithDetail("job_id", job.ID).
			WithDetail("error_type", errorType).
			WithDetail("will_retry", true).
			WithDetail("next_retry_at", nextRetry).
			WithDetails(errorDetails)
	}

	logx.Errorf("Job permanently failed: JobID=%s, Error=%s, Attempts=%d/%d",
		job.ID, errorType, job.AttemptCount, job.MaxAttempts)

	_ = s.jobRepo.MarkAsFailed(ctx, job.ID, errorType, errorDetails)

	return analysis.ErrScoringFailed().
		WithDetail("job_id", job.ID).
		WithDetail("error_type", errorType).
		WithDetail("final_attempt", job.AttemptCount).
		WithDetails(errorDetails)
}

// GetJobStatus retrieves the current status of a job
func (s *Service) GetJobStatus(ctx context.Context, jobID kernel.JobID, tenantID kernel.TenantID) (*analysis.JobStatusResponse, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, analysis.ErrJobNotFound().
			WithDetail("job_id", jobID)
	}

	if job.TenantID != tenantID {
		return nil, analysis.ErrTenantMismatch().
			WithDetail("job_id", jobID).
			WithDetail("requested_tenant_id", tenantID)
	}

	response := &analysis.JobStatusResponse{
		JobID:     job.ID,
		TenantID:  job.TenantID,
		Status:    job.Status,
		Progress:  job.ProgressPercentage,
		CreatedAt: job.CreatedAt,
	}

	switch job.Status {
	case analysis.JobStatusPending:
		if job.AttemptCount > 0 {
			response.Message = fmt.Sprintf("Job pending retry (attempt %d/%d)", job.AttemptCount, job.MaxAttempts)
		} else {
			response.Message = "Job queued and waiting to be processed"
		}
		if job.NextRetryAt != nil {
			response.NextRetryAt = job.NextRetryAt
		}

	case analysis.JobStatusProcessing:
		response.Message = fmt.Sprintf("Analyzing resume: %v", job.CurrentStep)
		response.CurrentStep = job.CurrentStep
		response.StartedAt = job.StartedAt

	case analysis.JobStatusCompleted:
		response.Message = "Analysis completed successfully"
		response.AnalysisID = job.AnalysisID
		response.CompletedAt = job.CompletedAt

	case analysis.JobStatusFailed:
		response.Message = job.ErrorMessage
		response.Error = &analysis.JobError{
			Message: job.ErrorMessage,
			Details: job.ErrorDetails,
		}
		response.FailedAt = job.FailedAt
		response.AttemptCount = job.AttemptCount
	}

	return response, nil
}

// ListJobsByTenant retrieves all jobs for a tenant
func (s *Service) ListJobsByTenant(ctx context.Context, tenantID kernel.TenantID, pagination kernel.PaginationOptions) (*kernel.Paginated[analysis.AnalysisJob], error) {
	jobs, err := s.jobRepo.GetByTenantID(ctx, tenantID, pagination.Normalized())
	if err != nil {
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeJobNotFound, err).
			WithDetail("tenant_id", tenantID)
	}

	return jobs, nil
}

// CancelJob cancels a pending or processing job
func (s *Service) CancelJob(ctx context.Context, jobID kernel.JobID, tenantID kernel.TenantID) error {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return analysis.ErrJobNotFound().
			WithDetail("job_id", jobID)
	}

	if job.TenantID != tenantID {
		return analysis.ErrTenantMismatch().
			WithDetail("job_id", jobID).
			WithDetail("job_tenant_id", job.TenantID).
			WithDetail("requested_tenant_id", tenantID)
	}

	if job.Status == analysis.JobStatusCompleted {
		return analysis.ErrJobAlreadyCompleted().
			WithDetail("job_id", jobID)
	}

	if job.Status == analysis.JobStatusProcessing {
		// Won't stop an actively running job, just marks it
		logx.Warnf("Attempting to cancel job that is currently processing: %s", jobID)
	}

	now := time.Now()
	job.Status = analysis.JobStatusFailed
	job.FailedAt = &now
	job.ErrorMessage = "Job cancelled by user"
	job.ErrorDetails = map[string]any{
		"cancelled_at": now,
		"tenant_id":    tenantID,
	}

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("job_id", jobID).
			WithDetail("operation", "cancel")
	}

	logx.Infof("Job cancelled: JobID=%s, TenantID=%s", jobID, tenantID)
	return nil
}

// RetryFailedJob manually retries a failed job
func (s *Service) RetryFailedJob(ctx context.Context, jobID kernel.JobID, tenantID kernel.TenantID) (*analysis.JobStatusResponse, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, analysis.ErrJobNotFound().
			WithDetail("job_id", jobID)
	}

	if job.TenantID != tenantID {
		return nil, analysis.ErrTenantMismatch().
			WithDetail("job_id", jobID).
			WithDetail("job_tenant_id", job.TenantID).
			WithDetail("requested_tenant_id", tenantID)
	}

	if job.Status != analysis.JobStatusFailed {
		return nil, analysis.ErrJobNotRetryable().
			WithDetail("job_id", jobID).
			WithDetail("current_status", job.Status).
			WithDetail("required_status", analysis.JobStatusFailed)
	}

	// Manual retry resets the attempt count
	job.Status = analysis.JobStatusPending
	job.AttemptCount = 0
	job.ErrorMessage = ""
	job.ErrorDetails = nil
	job.FailedAt = nil
	job.NextRetryAt = nil
	job.ProgressPercentage = 0
	job.CurrentStep = nil

	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeStorageFailed, err).
			WithDetail("job_id", jobID).
			WithDetail("operation", "retry_reset")
	}

	if err := s.queue.Enqueue(ctx, jobID, job); err != nil {
		_ = s.jobRepo.MarkAsFailed(ctx, jobID, "failed to re-enqueue", map[string]any{
			"error": err.Error(),
		})

		return nil, analysis.ErrQueueFailed().
			WithDetail("job_id", jobID).
			WithDetails(map[string]any{
				"error": err.Error(),
			})
	}

	logx.Infof("Job manually retried: JobID=%s", jobID)

	return &analysis.JobStatusResponse{
		JobID:    jobID,
		TenantID: job.TenantID,
		Status:   analysis.JobStatusPending,
		Message:  "Job requeued for processing",
		Progress: 0,
	}, nil
}

// GetJobStats returns statistics about jobs for a tenant
func (s *Service) GetJobStats(ctx context.Context, tenantID kernel.TenantID) (*analysis.JobStatsResponse, error) {
	allJobs, err := s.jobRepo.GetByTenantID(ctx, tenantID, kernel.PaginationOptions{
		Page:     1,
		PageSize: 1000,
	})
	if err != nil {
		return nil, analysis.ErrRegistry.NewWithCause(analysis.CodeJobNotFound, err).
			WithDetail("tenant_id", tenantID)
	}

	stats := &analysis.JobStatsResponse{
		TenantID:  tenantID,
		TotalJobs: len(allJobs.Items),
	}

	totalProgress := 0
	var oldestPending *time.Time
	var newestCompleted *time.Time

	for _, job := range allJobs.Items {
		switch job.Status {
		case analysis.JobStatusPending:
			stats.PendingJobs++
			if oldestPending == nil || job.CreatedAt.Before(*oldestPending) {
				createdAt := job.CreatedAt
				oldestPending = &createdAt
			}
		case analysis.JobStatusProcessing:
			stats.ProcessingJobs++
		case analysis.JobStatusCompleted:
			stats.CompletedJobs++
			if job.CompletedAt != nil && (newestCompleted == nil || job.CompletedAt.After(*newestCompleted)) {
				newestCompleted = job.CompletedAt
			}
		case analysis.JobStatusFailed:
			stats.FailedJobs++
		}

		totalProgress += job.ProgressPercentage
	}

	if len(allJobs.Items) > 0 {
		stats.AverageProgress = float64(totalProgress) / float64(len(allJobs.Items))
	}

	stats.OldestPendingJob = oldestPending
	stats.LastCompletedJob = newestCompleted

	// Best-effort: stats stay useful when Redis is unreachable
	if depth, err := s.queue.GetQueueSize(ctx); err == nil {
		stats.QueueDepth = depth
	} else {
		logx.Warnf("Failed to read queue depth: %v", err)
	}
	if depth, err := s.queue.GetDelayedQueueSize(ctx); err == nil {
		stats.DelayedQueueDepth = depth
	} else {
		logx.Warnf("Failed to read delayed queue depth: %v", err)
	}

	return stats, nil
}
