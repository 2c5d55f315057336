package handler

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"invex/internal/config"
	"invex/internal/domain"
	"invex/internal/service"
	"invex/internal/xlsxexport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InvoiceHandler handles invoice extraction and export endpoints.
type InvoiceHandler struct {
	extractionService service.ExtractionService
	requestTimeout    time.Duration
}

// NewInvoiceHandler creates a new InvoiceHandler. The request timeout bounds
// one whole extraction, including the upstream polling loop.
func NewInvoiceHandler(extractionService service.ExtractionService, cfg *config.DocIntConfig) *InvoiceHandler {
	timeout := time.Duration(cfg.RequestTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &InvoiceHandler{
		extractionService: extractionService,
		requestTimeout:    timeout,
	}
}

// Extract handles POST /api/v1/invoices/extract
// Accepts either a multipart form with a "file" field or a raw
// application/pdf body, and responds with the normalized invoice.
func (h *InvoiceHandler) Extract(c *gin.Context) {
	data, name, ok := readDocument(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.requestTimeout)
	defer cancel()

	inv, err := h.extractionService.ProcessInvoice(ctx, service.ExtractInput{
		FileBytes: data,
		FileName:  name,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Export handles POST /api/v1/invoices/export
// Accepts a normalized invoice document and responds with an XLSX rendering.
func (h *InvoiceHandler) Export(c *gin.Context) {
	var inv domain.NormalizedInvoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "request body must be a normalized invoice document")
		return
	}
	if inv.Items == nil {
		inv.Items = []domain.LineItem{}
	}

	f, err := xlsxexport.Build(&inv)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", xlsxexport.BuildFilename(inv.InvoiceID)))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Printf("invoiceHandler.Export: writing workbook: %v", err)
	}
}

// readDocument pulls the document bytes out of the request: a multipart
// "file" field, or the raw body for application/pdf and octet-stream
// requests. On failure an error response has already been written.
func readDocument(c *gin.Context) (data []byte, name string, ok bool) {
	contentType := c.ContentType()

	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
			return nil, "", false
		}
		defer func() { _ = file.Close() }()

		data, err = io.ReadAll(file)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "failed to read uploaded file")
			return nil, "", false
		}
		return data, header.Filename, true
	}

	switch contentType {
	case "application/pdf", "application/octet-stream":
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_BODY", "failed to read request body")
			return nil, "", false
		}
		return data, "", true
	}

	RespondError(c, http.StatusBadRequest, "UNSUPPORTED_CONTENT_TYPE",
		fmt.Sprintf("unsupported content type %q; expected application/pdf", contentType))
	return nil, "", false
}
