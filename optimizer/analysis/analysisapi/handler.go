package analysisapi

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/feiyu23/spark-resume-ai/optimizer/analysis"
	"github.com/feiyu23/spark-resume-ai/optimizer/analysis/analysissrv"
	"github.com/feiyu23/spark-resume-ai/pkg/auth"
	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

type AnalysisHandlers struct {
	service *analysissrv.Service
}

func NewAnalysisHandlers(service *analysissrv.Service) *AnalysisHandlers {
	return &AnalysisHandlers{service: service}
}

func (h *AnalysisHandlers) RegisterRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	analyses := app.Group("/api/v1/analyses", authMiddleware)

	// Scoring
	analyses.Post("/", h.Analyze)             // Score synchronously
	analyses.Post("/async", h.AnalyzeAsync)   // Queue for background scoring
	analyses.Post("/optimize", h.Optimize)    // Integrate keywords and re-score
	analyses.Post("/similar", h.FindSimilar)  // Similarity search by job description

	// Job management
	analyses.Get("/jobs/stats", h.GetJobStats)
	analyses.Get("/jobs/:job_id", h.GetJobStatus)
	analyses.Get("/jobs", h.ListJobs)
	analyses.Post("/jobs/:job_id/cancel", h.CancelJob)
	analyses.Post("/jobs/:job_id/retry", h.RetryJob)

	// CRUD
	analyses.Get("/resume/:resume_id", h.ListByResume)
	analyses.Get("/:id", h.GetAnalysis)
	analyses.Delete("/:id", h.DeleteAnalysis)
	analyses.Get("/", h.ListAnalyses)
}

// Analyze scores a resume synchronously
// POST /api/v1/analyses
func (h *AnalysisHandlers) Analyze(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	var req analysis.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	req.TenantID = tenantID

	response, err := h.service.Analyze(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// AnalyzeAsync queues a scoring run for background processing
// POST /api/v1/analyses/async?optimize=false
func (h *AnalysisHandlers) AnalyzeAsync(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	var req analysis.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	req.TenantID = tenantID
	optimize := c.Query("optimize", "false") == "true"

	jobResponse, err := h.service.AnalyzeAsync(c.Context(), req, optimize)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message":    "Analysis queued, processing started",
		"job":        jobResponse,
		"status_url": fmt.Sprintf("/api/v1/analyses/jobs/%s", jobResponse.JobID),
	})
}

// Optimize integrates missing keywords and re-scores
// POST /api/v1/analyses/optimize
func (h *AnalysisHandlers) Optimize(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	var req analysis.OptimizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	req.TenantID = tenantID

	response, err := h.service.Optimize(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// FindSimilar searches stored analyses by job description proximity
// POST /api/v1/analyses/similar
func (h *AnalysisHandlers) FindSimilar(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	var req analysis.FindSimilarRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	req.TenantID = tenantID

	results, err := h.service.FindSimilar(c.Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"results": results,
		"count":   len(results),
	})
}

// GetAnalysis retrieves an analysis by ID
// GET /api/v1/analyses/:id
func (h *AnalysisHandlers) GetAnalysis(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	analysisID := kernel.AnalysisID(c.Params("id"))
	if analysisID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid analysis ID",
		})
	}

	response, err := h.service.Get(c.Context(), analysisID, tenantID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// ListAnalyses lists the tenant's analyses
// GET /api/v1/analyses?page=1&page_size=20
func (h *AnalysisHandlers) ListAnalyses(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	response, err := h.service.List(c.Context(), tenantID, paginationFromQuery(c))
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// ListByResume lists analyses for one stored resume
// GET /api/v1/analyses/resume/:resume_id
func (h *AnalysisHandlers) ListByResume(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	resumeID := kernel.ResumeID(c.Params("resume_id"))
	if resumeID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID",
		})
	}

	response, err := h.service.ListByResume(c.Context(), resumeID, tenantID, paginationFromQuery(c))
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// DeleteAnalysis deletes an analysis
// DELETE /api/v1/analyses/:id
func (h *AnalysisHandlers) DeleteAnalysis(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	analysisID := kernel.AnalysisID(c.Params("id"))
	if analysisID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid analysis ID",
		})
	}

	if err := h.service.Delete(c.Context(), analysisID, tenantID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// GetJobStatus retrieves the status of an analysis job
// GET /api/v1/analyses/jobs/:job_id
func (h *AnalysisHandlers) GetJobStatus(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	jobID := kernel.JobID(c.Params("job_id"))
	if jobID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job ID",
		})
	}

	response, err := h.service.GetJobStatus(c.Context(), jobID, tenantID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// ListJobs lists the tenant's analysis jobs
// GET /api/v1/analyses/jobs?page=1&page_size=20
func (h *AnalysisHandlers) ListJobs(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	response, err := h.service.ListJobsByTenant(c.Context(), tenantID, paginationFromQuery(c))
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// CancelJob cancels a pending or processing job
// POST /api/v1/analyses/jobs/:job_id/cancel
func (h *AnalysisHandlers) CancelJob(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	jobID := kernel.JobID(c.Params("job_id"))
	if jobID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job ID",
		})
	}

	if err := h.service.CancelJob(c.Context(), jobID, tenantID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Job cancelled",
		"job_id":  jobID,
	})
}

// RetryJob manually retries a failed job
// POST /api/v1/analyses/jobs/:job_id/retry
func (h *AnalysisHandlers) RetryJob(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	jobID := kernel.JobID(c.Params("job_id"))
	if jobID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job ID",
		})
	}

	response, err := h.service.RetryFailedJob(c.Context(), jobID, tenantID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(response)
}

// GetJobStats returns job statistics for the tenant
// GET /api/v1/analyses/jobs/stats
func (h *AnalysisHandlers) GetJobStats(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	response, err := h.service.GetJobStats(c.Context(), tenantID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

func paginationFromQuery(c *fiber.Ctx) kernel.PaginationOptions {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	return kernel.PaginationOptions{Page: page, PageSize: pageSize}
}
