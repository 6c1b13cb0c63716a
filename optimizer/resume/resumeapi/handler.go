package resumeapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/feiyu23/spark-resume-ai/optimizer/resume"
	"github.com/feiyu23/spark-resume-ai/optimizer/resume/resumesrv"
	"github.com/feiyu23/spark-resume-ai/pkg/auth"
	"github.com/feiyu23/spark-resume-ai/pkg/fsx"
	"github.com/feiyu23/spark-resume-ai/pkg/kernel"
)

type ResumeHandlers struct {
	service    *resumesrv.Service
	fileSystem fsx.FileSystem
}

func NewResumeHandlers(service *resumesrv.Service, fileSystem fsx.FileSystem) *ResumeHandlers {
	return &ResumeHandlers{
		service:    service,
		fileSystem: fileSystem,
	}
}

func (h *ResumeHandlers) RegisterRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	resumes := app.Group("/api/v1/resumes", authMiddleware)

	resumes.Post("/", h.CreateResume)         // Register a stored document
	resumes.Post("/text", h.CreateFromText)   // Register raw text
	resumes.Get("/stats", h.GetStats)         // Tenant statistics
	resumes.Get("/default", h.GetDefault)     // Default resume
	resumes.Get("/:id", h.GetResume)          // Get by ID
	resumes.Put("/:id", h.UpdateResume)       // Update
	resumes.Delete("/:id", h.DeleteResume)    // Delete
	resumes.Get("/", h.ListResumes)           // List all for tenant
	resumes.Put("/:id/default", h.SetDefault) // Set as default
	resumes.Put("/:id/activate", h.ToggleActive)
	resumes.Post("/:id/reprocess", h.Reprocess)              // Re-extract and re-embed
	resumes.Post("/embeddings/refresh", h.RefreshEmbeddings) // Bulk re-embed
}

// CreateResume registers a document already present in object storage
// POST /api/v1/resumes
func (h *ResumeHandlers) CreateResume(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	var req resume.CreateResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if req.FilePath == "" || req.FileName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file_path and file_name are required",
		})
	}

	exists, err := h.fileSystem.Exists(c.Context(), req.FilePath)
	if err == nil && !exists {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":     "file not found in storage",
			"file_path": req.FilePath,
		})
	}

	req.TenantID = tenantID

	response, err := h.service.CreateFromFile(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// CreateFromText registers raw resume text directly
// POST /api/v1/resumes/text
func (h *ResumeHandlers) CreateFromText(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	var req resume.CreateResumeFromTextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	req.TenantID = tenantID

	response, err := h.service.CreateFromText(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

// GetResume retrieves a resume by ID
// GET /api/v1/resumes/:id
func (h *ResumeHandlers) GetResume(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	resumeID := kernel.ResumeID(c.Params("id"))
	if resumeID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID",
		})
	}

	response, err := h.service.Get(c.Context(), resumeID, tenantID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// GetDefault retrieves the tenant's default resume
// GET /api/v1/resumes/default
func (h *ResumeHandlers) GetDefault(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	response, err := h.service.GetDefault(c.Context(), tenantID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// UpdateResume updates a resume's title or raw text
// PUT /api/v1/resumes/:id
func (h *ResumeHandlers) UpdateResume(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	resumeID := kernel.ResumeID(c.Params("id"))
	if resumeID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID",
		})
	}

	var req resume.UpdateResumeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	response, err := h.service.Update(c.Context(), resumeID, tenantID, req)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// DeleteResume deletes a resume and its stored document
// DELETE /api/v1/resumes/:id
func (h *ResumeHandlers) DeleteResume(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	resumeID := kernel.ResumeID(c.Params("id"))
	if resumeID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID",
		})
	}

	existing, err := h.service.Get(c.Context(), resumeID, tenantID)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), resumeID, tenantID); err != nil {
		return err
	}

	if existing.FilePath != "" {
		_ = h.fileSystem.DeleteFile(c.Context(), existing.FilePath)
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// ListResumes lists the tenant's resumes
// GET /api/v1/resumes?page=1&page_size=20
func (h *ResumeHandlers) ListResumes(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	pagination := paginationFromQuery(c)

	response, err := h.service.List(c.Context(), tenantID, pagination)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// SetDefault marks a resume as the tenant's default
// PUT /api/v1/resumes/:id/default
func (h *ResumeHandlers) SetDefault(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	resumeID := kernel.ResumeID(c.Params("id"))
	if resumeID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID",
		})
	}

	if err := h.service.SetDefault(c.Context(), resumeID, tenantID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Resume set as default",
		"resume_id": resumeID,
	})
}

// ToggleActive activates or deactivates a resume
// PUT /api/v1/resumes/:id/activate?active=true
func (h *ResumeHandlers) ToggleActive(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	resumeID := kernel.ResumeID(c.Params("id"))
	if resumeID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID",
		})
	}

	isActive := c.Query("active", "true") == "true"

	if err := h.service.ToggleActive(c.Context(), resumeID, tenantID, isActive); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Resume status updated",
		"resume_id": resumeID,
		"is_active": isActive,
	})
}

// GetStats returns tenant-level resume statistics
// GET /api/v1/resumes/stats
func (h *ResumeHandlers) GetStats(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	response, err := h.service.Stats(c.Context(), tenantID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// Reprocess re-extracts the stored document and regenerates the embedding
// POST /api/v1/resumes/:id/reprocess
func (h *ResumeHandlers) Reprocess(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	resumeID := kernel.ResumeID(c.Params("id"))
	if resumeID.IsEmpty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID",
		})
	}

	response, err := h.service.Reprocess(c.Context(), resumeID, tenantID)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

// RefreshEmbeddings regenerates embeddings for all of the tenant's resumes
// POST /api/v1/resumes/embeddings/refresh
func (h *ResumeHandlers) RefreshEmbeddings(c *fiber.Ctx) error {
	tenantID, ok := auth.GetTenantID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	updated, err := h.service.RefreshEmbeddings(c.Context(), tenantID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Embeddings refreshed",
		"updated": updated,
	})
}

func paginationFromQuery(c *fiber.Ctx) kernel.PaginationOptions {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))
	return kernel.PaginationOptions{Page: page, PageSize: pageSize}
}
