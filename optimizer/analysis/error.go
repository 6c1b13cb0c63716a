package analysis

import (
	"net/http"

	"github.com/feiyu23/spark-resume-ai/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("ANALYSIS")

var (
	CodeAnalysisNotFound    = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Analysis not found")
	CodeInvalidAnalysisData = ErrRegistry.Register("INVALID_DATA", errx.TypeValidation, http.StatusBadRequest, "Invalid analysis data")
	CodeMissingResume       = ErrRegistry.Register("MISSING_RESUME", errx.TypeValidation, http.StatusBadRequest, "Either resume_id or resume_text is required")
	CodeMissingJobDesc      = ErrRegistry.Register("MISSING_JOB_DESCRIPTION", errx.TypeValidation, http.StatusBadRequest, "Job description is required")
	CodeScoringFailed       = ErrRegistry.Register("SCORING_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Resume scoring failed")
	CodeOptimizationFailed  = ErrRegistry.Register("OPTIMIZATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Keyword integration failed")
	CodeEmbeddingFailed     = ErrRegistry.Register("EMBEDDING_FAILED", errx.TypeExternal, http.StatusBadGateway, "Embedding generation failed")
	CodeTenantMismatch      = ErrRegistry.Register("TENANT_MISMATCH", errx.TypeAuthorization, http.StatusForbidden, "Analysis does not belong to this tenant")
	CodeStorageFailed       = ErrRegistry.Register("STORAGE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Analysis storage operation failed")

	CodeJobNotFound         = ErrRegistry.Register("JOB_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Analysis job not found")
	CodeJobAlreadyCompleted = ErrRegistry.Register("JOB_ALREADY_COMPLETED", errx.TypeBusiness, http.StatusUnprocessableEntity, "Job already completed")
	CodeJobNotRetryable     = ErrRegistry.Register("JOB_NOT_RETRYABLE", errx.TypeBusiness, http.StatusUnprocessableEntity, "Only failed jobs can be retried")
	CodeQueueFailed         = ErrRegistry.Register("QUEUE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Job queue operation failed")
)

func ErrAnalysisNotFound() *errx.Error {
	return ErrRegistry.New(CodeAnalysisNotFound)
}

func ErrInvalidAnalysisData() *errx.Error {
	return ErrRegistry.New(CodeInvalidAnalysisData)
}

func ErrMissingResume() *errx.Error {
	return ErrRegistry.New(CodeMissingResume)
}

func ErrMissingJobDescription() *errx.Error {
	return ErrRegistry.New(CodeMissingJobDesc)
}

func ErrScoringFailed() *errx.Error {
	return ErrRegistry.New(CodeScoringFailed)
}

func ErrOptimizationFailed() *errx.Error {
	return ErrRegistry.New(CodeOptimizationFailed)
}

func ErrEmbeddingFailed() *errx.Error {
	return ErrRegistry.New(CodeEmbeddingFailed)
}

func ErrTenantMismatch() *errx.Error {
	return ErrRegistry.New(CodeTenantMismatch)
}

func ErrStorageFailed() *errx.Error {
	return ErrRegistry.New(CodeStorageFailed)
}

func ErrJobNotFound() *errx.Error {
	return ErrRegistry.New(CodeJobNotFound)
}

func ErrJobAlreadyCompleted() *errx.Error {
	return ErrRegistry.New(CodeJobAlreadyCompleted)
}

func ErrJobNotRetryable() *errx.Error {
	return ErrRegistry.New(CodeJobNotRetryable)
}

func ErrQueueFailed() *errx.Error {
	return ErrRegistry.New(CodeQueueFailed)
}
