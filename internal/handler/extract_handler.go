package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"billscan/internal/domain"
	"billscan/internal/export"
	"billscan/internal/service"
)

// ExtractRequest is the request body for POST /extract-bill-data. Either a
// document URL or pre-recognized pages must be supplied; pages win when both
// are present.
type ExtractRequest struct {
	Document       string        `json:"document"`
	Pages          []domain.Page `json:"pages"`
	IncludeSummary bool          `json:"include_summary"`
}

// ExtractHandler handles bill extraction endpoints.
type ExtractHandler struct {
	svc service.ExtractionService
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(svc service.ExtractionService) *ExtractHandler {
	return &ExtractHandler{svc: svc}
}

// Extract handles POST /extract-bill-data. The response is always HTTP 200
// with the extraction envelope; failures are reported inside it.
func (h *ExtractHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, domain.FailedResult(fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	result := h.svc.ExtractDocument(c.Request.Context(), &service.ExtractionInput{
		DocumentURL:    req.Document,
		Pages:          req.Pages,
		IncludeSummary: req.IncludeSummary,
	})
	c.JSON(http.StatusOK, result)
}

// Export handles POST /extract-bill-data/export. It runs the same pipeline
// and streams the line items as an XLSX workbook, or CSV when ?format=csv.
func (h *ExtractHandler) Export(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	result := h.svc.ExtractDocument(c.Request.Context(), &service.ExtractionInput{
		DocumentURL:    req.Document,
		Pages:          req.Pages,
		IncludeSummary: req.IncludeSummary,
	})
	if !result.IsSuccess {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": result.Error})
		return
	}

	stamp := time.Now().Format("20060102-150405")
	switch c.Query("format") {
	case "csv":
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="bill-items-%s.csv"`, stamp))
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		_, _ = c.Writer.Write(export.BOM)
		w := export.NewCSVWriter(c.Writer)
		if err := w.WriteHeader(); err != nil {
			return
		}
		_ = w.WriteResult(result)
		w.Flush()
	default:
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="bill-items-%s.xlsx"`, stamp))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		_ = export.WriteXLSX(c.Writer, result)
	}
}
