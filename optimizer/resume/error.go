package resume

import (
	"net/http"

	"github.com/feiyu23/spark-resume-ai/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("RESUME")

var (
	CodeResumeNotFound        = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Resume not found")
	CodeInvalidResumeData     = ErrRegistry.Register("INVALID_DATA", errx.TypeValidation, http.StatusBadRequest, "Invalid resume data")
	CodeExtractionFailed      = ErrRegistry.Register("EXTRACTION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to extract resume text")
	CodeEmptyResume           = ErrRegistry.Register("EMPTY_RESUME", errx.TypeValidation, http.StatusBadRequest, "Resume has no readable text")
	CodeMaxResumesExceeded    = ErrRegistry.Register("MAX_RESUMES_EXCEEDED", errx.TypeBusiness, http.StatusUnprocessableEntity, "Maximum number of resumes exceeded")
	CodeDefaultResumeRequired = ErrRegistry.Register("DEFAULT_REQUIRED", errx.TypeBusiness, http.StatusUnprocessableEntity, "Cannot delete default resume")
	CodeFileReadFailed        = ErrRegistry.Register("FILE_READ_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to read file")
	CodeInvalidFileFormat     = ErrRegistry.Register("INVALID_FILE_FORMAT", errx.TypeValidation, http.StatusBadRequest, "Invalid file format")
	CodeTenantMismatch        = ErrRegistry.Register("TENANT_MISMATCH", errx.TypeAuthorization, http.StatusForbidden, "Resume does not belong to this tenant")
	CodeStorageFailed         = ErrRegistry.Register("STORAGE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Resume storage operation failed")
	CodeEmbeddingFailed       = ErrRegistry.Register("EMBEDDING_FAILED", errx.TypeExternal, http.StatusBadGateway, "Embedding generation failed")
)

func ErrResumeNotFound() *errx.Error {
	return ErrRegistry.New(CodeResumeNotFound)
}

func ErrInvalidResumeData() *errx.Error {
	return ErrRegistry.New(CodeInvalidResumeData)
}

func ErrExtractionFailed() *errx.Error {
	return ErrRegistry.New(CodeExtractionFailed)
}

func ErrEmptyResume() *errx.Error {
	return ErrRegistry.New(CodeEmptyResume)
}

func ErrMaxResumesExceeded() *errx.Error {
	return ErrRegistry.New(CodeMaxResumesExceeded)
}

func ErrDefaultResumeRequired() *errx.Error {
	return ErrRegistry.New(CodeDefaultResumeRequired)
}

func ErrFileReadFailed() *errx.Error {
	return ErrRegistry.New(CodeFileReadFailed)
}

func ErrInvalidFileFormat() *errx.Error {
	return ErrRegistry.New(CodeInvalidFileFormat)
}

func ErrTenantMismatch() *errx.Error {
	return ErrRegistry.New(CodeTenantMismatch)
}

func ErrStorageFailed() *errx.Error {
	return ErrRegistry.New(CodeStorageFailed)
}

func ErrEmbeddingFailed() *errx.Error {
	return ErrRegistry.New(CodeEmbeddingFailed)
}
