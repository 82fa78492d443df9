package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"geoaddr/internal/report"
	"geoaddr/internal/service"
)

// ExtractHandler handles address extraction endpoints.
type ExtractHandler struct {
	extractService service.ExtractService
	reportService  service.ReportService
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(extractService service.ExtractService, reportService service.ReportService) *ExtractHandler {
	return &ExtractHandler{extractService: extractService, reportService: reportService}
}

// Extract handles POST /api/v1/extract
// @Summary Extract and geocode an address
// @Tags extract
// @Accept json
// @Produce json
// @Param request body service.ExtractInput true "Text and optional city hint"
// @Success 200 {object} APIResponse{data=domain.GeoResult}
// @Failure 400 {object} APIResponse "Validation error"
// @Router /extract [post]
func (h *ExtractHandler) Extract(c *gin.Context) {
	var input service.ExtractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.extractService.Extract(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Batch handles POST /api/v1/extract/batch
// Without ?format the results come back as JSON. format=csv|xlsx returns a
// file; adding upload=true stores the file and returns its presigned URL.
// @Summary Extract and geocode many texts
// @Tags extract
// @Accept json
// @Produce json
// @Produce text/csv
// @Param request body service.BatchInput true "Texts and optional city hint"
// @Param format query string false "json, csv or xlsx"
// @Param upload query bool false "store the report and return its URL"
// @Success 200 {object} APIResponse{data=[]domain.GeoResult}
// @Failure 400 {object} APIResponse "Validation error"
// @Router /extract/batch [post]
func (h *ExtractHandler) Batch(c *gin.Context) {
	formatParam := strings.ToLower(c.Query("format"))
	var format report.Format
	if formatParam != "" && formatParam != "json" {
		f, err := report.ParseFormat(formatParam)
		if err != nil {
			HandleError(c, err)
			return
		}
		format = f
	}

	var input service.BatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	results, err := h.extractService.Batch(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	if format == "" {
		RespondOK(c, results)
		return
	}

	file, err := h.reportService.Render(results, format, "batch")
	if err != nil {
		HandleError(c, err)
		return
	}

	if upload, _ := strconv.ParseBool(c.Query("upload")); upload {
		published, err := h.reportService.Publish(c.Request.Context(), file)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, published)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Backends handles GET /api/v1/backends
// @Summary List the active extraction backends in priority order
// @Tags extract
// @Produce json
// @Success 200 {object} APIResponse{data=[]string}
// @Router /backends [get]
func (h *ExtractHandler) Backends(c *gin.Context) {
	RespondOK(c, gin.H{"backends": h.extractService.Backends()})
}
